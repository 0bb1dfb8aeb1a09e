package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var flagLevel int

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a game mode",
	Long: `Start playing the given mode (default: 2048, endless).

Controls:
  Arrows/WASD/hjkl - Slide tiles
  P                - Pause
  R                - Restart (after game over)
  Esc              - Back (when paused or over)
  Ctrl+S           - Save a screenshot
  ?                - Toggle help
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Few 4s; campaign levels raise the rate
  normal - Default spawn rates
  hard   - More 4s from the start
  fixed  - Configured rate for every level

Examples:
  t2048 play
  t2048 play 2048_campaign
  t2048 play --level 4
  t2048 play --difficulty hard --seed 7
  t2048 play --config ./my-2048.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to start at (implies 2048_campaign)")
}

// terminalConfig builds the runtime config from the current terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: tickRate(),
		Seed:     flagSeed,
	}
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := t2048.IDEndless
	if flagLevel > 0 {
		gameID = t2048.IDCampaign
	}
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 't2048 list' to see available modes.")
		os.Exit(1)
	}
	if flagLevel > t2048.LevelCount() {
		fmt.Fprintf(os.Stderr, "Error: level %d out of range 1-%d\n", flagLevel, t2048.LevelCount())
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	t2048.SetLogger(logger)

	choice := tui.MenuChoice{GameID: gameID, StartLevel: flagLevel}
	game, err := choice.NewGame()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	res, err := tui.Run(game, terminalConfig(), logger)
	if err != nil {
		closeLog()
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}

	if res.State.GameOver {
		fmt.Printf("Score: %d  Max tile: %d\n", res.State.Score, res.State.MaxTile)
	}
}
