// t2048 is the 2048 sliding-tile puzzle for the terminal.
//
// Usage:
//
//	t2048 list               - List game modes
//	t2048 play [mode]        - Play a mode (default: 2048)
//	t2048 menu               - Pick modes interactively
//	t2048 serve              - Serve games over SSH and WebSocket
//	t2048 autoplay           - Play headless games with a strategy
//
// Global flags:
//
//	--fps <rate>          - Tick rate (default: from config, 30)
//	--seed <value>        - RNG seed for reproducible games
//	--config <path>       - Custom YAML config
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - slide and merge tiles in your terminal",
	Long: `t2048 is the 2048 sliding-tile puzzle for the terminal.

Slide every tile with the arrow keys, WASD or hjkl. Equal tiles that
collide merge into their sum. Reach the level target in campaign mode,
or keep going in endless mode until the board locks.

Available commands:
  list      - Show all game modes
  play      - Play a mode directly
  menu      - Interactive mode picker
  serve     - Serve games over SSH and WebSocket
  autoplay  - Run headless games with a strategy

Examples:
  t2048 play
  t2048 play 2048_campaign --level 3
  t2048 menu --difficulty hard
  t2048 serve --ssh :2222 --ws :8080
  t2048 autoplay --games 200 --strategy greedy`,
	SilenceUsage:      true,
	PersistentPreRunE: applyGlobalFlags,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(autoplayCmd)
}

// applyGlobalFlags hands --config and --difficulty to the game package.
func applyGlobalFlags(_ *cobra.Command, _ []string) error {
	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}
	t2048.SetConfigPath(flagConfig)
	t2048.SetDifficultyPreset(flagDifficulty)
	return nil
}

// loadConfig returns the effective config for commands that run the engine
// without a game (autoplay, WebSocket).
func loadConfig() (config.T2048Config, error) {
	cfg, err := config.LoadT2048(flagConfig)
	if err != nil {
		return cfg, err
	}
	preset, _ := config.ParsePreset(flagDifficulty)
	config.ApplyT2048Preset(&cfg, preset)
	return cfg, nil
}

// tickRate returns --fps when given, otherwise the configured rate.
func tickRate() int {
	if rootCmd.PersistentFlags().Changed("fps") {
		return flagFPS
	}
	if cfg, err := loadConfig(); err == nil && cfg.Display.TickRate > 0 {
		return cfg.Display.TickRate
	}
	return flagFPS
}
