package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/autoplay"
)

var (
	flagGames    int
	flagWorkers  int
	flagStrategy string
	flagMaxMoves int
	flagVerbose  bool
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Play headless games with a strategy",
	Long: `Play many games without a terminal and print a summary.

Built-in strategies:
  random  - First legal direction in a random order
  corner  - Down, left, right; up only when forced
  greedy  - Most empty cells after the move, then most points

Scripted strategies:
  lua:PATH - A Lua script defining next_move(board). board is a table
             of rows (board[1][1] is the top-left tile). Return "up",
             "down", "left", "right" or any WASD/hjkl key. The script
             may call preview(dir), which returns (changed, points).

Game i uses seed --seed+i, so runs are reproducible.

Examples:
  t2048 autoplay
  t2048 autoplay --games 500 --strategy greedy --workers 8
  t2048 autoplay --strategy lua:./corner.lua --seed 1
  t2048 autoplay --max-moves 200 --verbose`,
	Args: cobra.NoArgs,
	Run:  runAutoplay,
}

func init() {
	autoplayCmd.Flags().IntVar(&flagGames, "games", 100, "Number of games to play")
	autoplayCmd.Flags().IntVar(&flagWorkers, "workers", runtime.NumCPU(), "Games played in parallel")
	autoplayCmd.Flags().StringVar(&flagStrategy, "strategy", "corner",
		"Strategy: "+strings.Join(autoplay.Names(), ", ")+" or lua:PATH")
	autoplayCmd.Flags().IntVar(&flagMaxMoves, "max-moves", 0, "Stop each game after this many moves (0 = until locked)")
	autoplayCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print every game")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func runAutoplay(_ *cobra.Command, _ []string) {
	if flagGames < 1 {
		fmt.Fprintln(os.Stderr, "Error: --games must be at least 1")
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	gameCfg, err := loadConfig()
	if err != nil {
		closeLog()
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := autoplay.RunOptions{
		Games:   flagGames,
		Workers: flagWorkers,
		Seed:    seed,
		Config: autoplay.Config{
			Size:       gameCfg.Board.Size,
			StartTiles: gameCfg.Board.StartTiles,
			SpawnFour:  gameCfg.Spawn.FourProbability,
			MaxMoves:   flagMaxMoves,
		},
		Logger: logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	outcomes, err := autoplay.RunMany(ctx, autoplay.Named(flagStrategy), opts)
	if err != nil {
		closeLog()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	if flagVerbose {
		fmt.Println(headerStyle.Render(fmt.Sprintf("  %5s  %20s  %8s  %6s  %7s", "Game", "Seed", "Score", "Moves", "Max")))
		for _, o := range outcomes {
			fmt.Printf("  %5d  %20d  %8d  %6d  %7d\n", o.Game, o.Seed, o.Score, o.Moves, o.MaxTile)
		}
		fmt.Println()
	}

	printSummary(autoplay.Summarize(outcomes), seed, elapsed)
}

func printSummary(sum autoplay.Summary, seed int64, elapsed time.Duration) {
	fmt.Println(headerStyle.Render("Autoplay: " + flagStrategy))
	fmt.Printf("%s %d (seeds %d..%d)\n", labelStyle.Render("Games:     "), sum.Games, seed, seed+int64(sum.Games)-1)
	fmt.Printf("%s %d\n", labelStyle.Render("Best score:"), sum.BestScore)
	fmt.Printf("%s %.1f\n", labelStyle.Render("Mean score:"), sum.MeanScore)
	fmt.Printf("%s %d\n", labelStyle.Render("Max tile:  "), sum.MaxTile)
	fmt.Printf("%s %s\n", labelStyle.Render("Elapsed:   "), elapsed.Round(time.Millisecond))
	fmt.Println()

	fmt.Println(headerStyle.Render("Max tile reached"))
	for _, tc := range sum.TileCounts() {
		tile, n := tc[0], tc[1]
		pct := 100 * float64(n) / float64(sum.Games)
		bar := strings.Repeat("█", int(pct/2+0.5))
		fmt.Printf("  %6d  %4d  %5.1f%%  %s\n", tile, n, pct, bar)
	}
}
