package config

import (
	_ "embed"
)

//go:embed defaults/sumblocks.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
// It matches defaults/sumblocks.yaml.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Path: "~/.sumblocks/scores.db",
		},
		Server: ServerConfig{
			Address:            ":2222",
			HostKey:            ".ssh/sumblocks_ed25519",
			IdleTimeoutMinutes: 30,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.sumblocks/sumblocks.log",
		},
		UI: UIConfig{
			FPS:   30,
			Mouse: true,
		},
		Autoplay: AutoplayConfig{
			Games:   5,
			DelayMS: 0,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
