// Package ws serves the game over WebSocket. Every connection owns one board:
// clients send direction symbols and receive the resolved state as JSON.
package ws

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/vovakirdan/tui-2048/internal/board"
)

// Config holds configuration for the WebSocket server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	Size       int
	StartTiles int
	SpawnFour  float64

	// Seed seeds connection n with Seed+n. 0 seeds every connection from the clock.
	Seed int64

	// AllowOrigins lists browser origins allowed to connect.
	// Requests without an Origin header are always accepted.
	AllowOrigins []string

	PingInterval time.Duration

	Logger *log.Logger
}

// DefaultConfig returns a config for a classic 4x4 game.
func DefaultConfig() Config {
	return Config{
		Address:      ":8080",
		Size:         board.DefaultSize,
		StartTiles:   2,
		SpawnFour:    board.DefaultSpawnFour,
		PingInterval: 15 * time.Second,
	}
}

// Server accepts WebSocket connections on /ws and answers /health.
type Server struct {
	cfg    Config
	allow  map[string]bool
	logger *log.Logger
	conns  atomic.Int64
}

// NewServer creates a server. It does not start listening.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	allow := make(map[string]bool, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		if o != "" {
			allow[o] = true
		}
	}

	return &Server{cfg: cfg, allow: allow, logger: logger}
}

// Handler returns the HTTP handler serving /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s.cors(mux)
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting WebSocket server", "address", s.cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.logger.Error("server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down WebSocket server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ServeWS upgrades the request and plays one game until the client leaves.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	if origin := r.Header.Get("Origin"); origin != "" && !s.allow[origin] {
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}

	n := s.conns.Add(1) - 1
	sess, err := newSession(s.cfg, s.seed(n), s.logger)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Origin was checked above.
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		sess.logger.Warn("accept failed", "error", err)
		return
	}
	defer c.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess.logger.Info("client connected", "remote", r.RemoteAddr)
	start := time.Now()
	defer func() {
		sess.logger.Info("client disconnected",
			"moves", sess.engine.Moves(),
			"score", sess.engine.Score(),
			"duration", time.Since(start).Round(time.Second),
		)
	}()

	if s.cfg.PingInterval > 0 {
		go s.keepAlive(ctx, c)
	}

	if err := wsjson.Write(ctx, c, sess.state(false, nil)); err != nil {
		return
	}

	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				if ctx.Err() == nil {
					sess.logger.Debug("read failed", "error", err)
				}
			}
			return
		}

		for _, reply := range sess.handle(data) {
			if err := wsjson.Write(ctx, c, reply); err != nil {
				sess.logger.Debug("write failed", "error", err)
				return
			}
		}
	}
}

func (s *Server) keepAlive(ctx context.Context, c *websocket.Conn) {
	ping := time.NewTicker(s.cfg.PingInterval)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := c.Ping(ctx); err != nil {
				return
			}
		}
	}
}

func (s *Server) seed(n int64) int64 {
	if s.cfg.Seed == 0 {
		return time.Now().UnixNano()
	}
	return s.cfg.Seed + n
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && s.allow[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Address
}
