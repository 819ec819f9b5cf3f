// sumblocks is the terminal Sum Blocks puzzle: tap blocks that add up to the
// target before the stack reaches the top.
//
// Usage:
//
//	sumblocks list                 - List game modes
//	sumblocks play [mode]          - Play a mode (menu when omitted)
//	sumblocks menu                 - Menu loop with scoreboard
//	sumblocks serve                - Start SSH server for remote play
//	sumblocks scores [mode]        - Show high scores
//	sumblocks autoplay [mode]      - Let the solver bot play headless
//
// Global flags:
//
//	--config <path>    - Config file (default search: ~/.sumblocks, ./configs, embedded)
//	--db <path>        - Override storage.path
//	--seed <value>     - RNG seed for reproducible boards (0 = time based)
//	--log-level <lvl>  - Override log.level
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sumblocks/internal/config"
	"github.com/vovakirdan/sumblocks/internal/core"
	"github.com/vovakirdan/sumblocks/internal/games/sumblocks"
	"github.com/vovakirdan/sumblocks/internal/platform/tui"
	"github.com/vovakirdan/sumblocks/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string

	appConfig config.Config
	logger    = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sumblocks",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sumblocks",
	Short: "Sum Blocks - add up falling blocks in your terminal",
	Long: `Sum Blocks is a number puzzle for the terminal. Select blocks whose
values add up to the target to clear them before the stack reaches the top.

Modes:
  classic  - a new row arrives after every match
  time     - rows arrive when the countdown runs out

Examples:
  sumblocks list
  sumblocks play classic
  sumblocks menu
  sumblocks serve
  sumblocks scores time
  sumblocks autoplay --games 10`,
	SilenceUsage:      true,
	PersistentPreRunE: loadApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(autoplayCmd)
}

// loadApp resolves the config, applies flag overrides and sets up logging.
func loadApp(cmd *cobra.Command, _ []string) error {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("db") {
		cfg.Storage.Path = flagDBPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	logger.SetLevel(level)
	sumblocks.SetLogger(logger)

	appConfig = cfg
	logger.Debug("config loaded", "source", source, "db", cfg.Storage.Path)
	return nil
}

// gameSeed returns the --seed value, or a time based seed when unset.
func gameSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: appConfig.UI.FPS,
		Seed:     gameSeed(),
	}
}

// openStore opens the scores database. Play continues without it.
func openStore() *storage.Store {
	store, err := storage.Open(appConfig.Storage.Path)
	if err != nil {
		logger.Warn("could not open scores database, scores will not be saved", "error", err)
		return nil
	}
	return store
}

func tuiOptions(store *storage.Store) tui.Options {
	return tui.Options{
		Store:        store,
		Logger:       logger,
		Mouse:        appConfig.UI.Mouse,
		AllowClear:   true,
		TickInterval: sumblocks.TickInterval,
	}
}

// logToFile moves logging to log.file while a TUI owns the terminal.
// The returned func restores stderr.
func logToFile() func() {
	path := appConfig.Log.File
	if path == "" {
		logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(os.Stderr) }
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("could not create log directory", "error", err)
		logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(os.Stderr) }
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Warn("could not open log file", "path", path, "error", err)
		logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(os.Stderr) }
	}

	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		_ = f.Close()
	}
}
