package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/platform/ws"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagWSAddr      string
	flagOrigins     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve games over SSH and WebSocket",
	Long: `Start an SSH server and, optionally, a WebSocket endpoint.

Each SSH connection gets its own session with the mode menu.
Each WebSocket connection on /ws gets its own endless board: send a
direction symbol ("left", "w", ...) or {"t":"move","dir":"up"} and
receive the board state as JSON. Nothing is shared between sessions.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.t2048/host_key

Examples:
  t2048 serve                            # SSH on :23234
  t2048 serve --ssh :2222                # SSH on port 2222
  t2048 serve --ws :8080                 # SSH plus WebSocket on :8080
  t2048 serve --ssh "" --ws :8080        # WebSocket only
  t2048 serve --ws :8080 --origin http://localhost:3000

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port), empty to disable")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "WebSocket address (host:port), empty to disable")
	serveCmd.Flags().StringVar(&flagOrigins, "origin", "", "Comma-separated browser origins allowed on /ws")
}

func runServe(_ *cobra.Command, _ []string) {
	if flagSSHAddr == "" && flagWSAddr == "" {
		fmt.Fprintln(os.Stderr, "Error: nothing to serve; set --ssh or --ws")
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	t2048.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wsDone := make(chan error, 1)
	if flagWSAddr != "" {
		gameCfg, err := loadConfig()
		if err != nil {
			logger.Warn("using default config for WebSocket games", "error", err)
		}

		wsCfg := ws.DefaultConfig()
		wsCfg.Address = flagWSAddr
		wsCfg.Seed = flagSeed
		wsCfg.AllowOrigins = strings.Split(flagOrigins, ",")
		wsCfg.Logger = logger.WithPrefix("t2048-ws")
		if err == nil {
			wsCfg.Size = gameCfg.Board.Size
			wsCfg.StartTiles = gameCfg.Board.StartTiles
			wsCfg.SpawnFour = gameCfg.Spawn.FourProbability
		}

		server := ws.NewServer(wsCfg)
		fmt.Printf("WebSocket endpoint: ws://%s/ws\n", server.Addr())
		go func() { wsDone <- server.ListenAndServe(ctx) }()
	} else {
		close(wsDone)
	}

	if flagSSHAddr == "" {
		if err := <-wsDone; err != nil {
			closeLog()
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = tickRate()
	cfg.Logger = logger.WithPrefix("t2048-ssh")

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		closeLog()
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting 2048 SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	sshErr := server.ListenAndServe()
	stop()
	wsErr := <-wsDone

	for _, err := range []error{sshErr, wsErr} {
		if err != nil {
			closeLog()
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	}
}
