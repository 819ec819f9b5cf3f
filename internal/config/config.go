// Package config provides YAML-based configuration loading for the
// sumblocks binary. Game rules are fixed; only the platform around them is configurable.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Config is the top-level configuration file.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	UI       UIConfig       `yaml:"ui"`
	Autoplay AutoplayConfig `yaml:"autoplay"`
}

// StorageConfig defines where scores are kept.
type StorageConfig struct {
	Path string `yaml:"path"` // SQLite file, ~ is expanded
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Address            string `yaml:"address"`
	HostKey            string `yaml:"host_key"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// IdleTimeout returns the idle timeout as a duration.
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMinutes) * time.Minute
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // log destination while a TUI owns the terminal, ~ is expanded
}

// UIConfig defines terminal UI behaviour.
type UIConfig struct {
	FPS   int  `yaml:"fps"`   // redraw rate for menus and animations
	Mouse bool `yaml:"mouse"` // enable mouse clicks on blocks
}

// AutoplayConfig defines the headless bot.
type AutoplayConfig struct {
	Games   int `yaml:"games"`
	DelayMS int `yaml:"delay_ms"` // pause between bot moves, 0 runs flat out
}

// Validate checks values the rest of the program relies on.
func (c Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("config: storage.path is empty")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.UI.FPS < 1 || c.UI.FPS > 120 {
		return fmt.Errorf("config: ui.fps must be between 1 and 120, got %d", c.UI.FPS)
	}
	if c.Server.IdleTimeoutMinutes < 0 {
		return fmt.Errorf("config: server.idle_timeout_minutes must not be negative")
	}
	if c.Autoplay.Games < 1 {
		return fmt.Errorf("config: autoplay.games must be at least 1, got %d", c.Autoplay.Games)
	}
	if c.Autoplay.DelayMS < 0 {
		return fmt.Errorf("config: autoplay.delay_ms must not be negative")
	}
	return nil
}
