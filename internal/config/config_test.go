package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("embedded YAML and DefaultConfig differ:\n%+v\n%+v", cfg, DefaultConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("log:\n  level: debug\nautoplay:\n  games: 12\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, source, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if source != path {
		t.Errorf("source = %q, want %q", source, path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Autoplay.Games != 12 {
		t.Errorf("Autoplay.Games = %d, want 12", cfg.Autoplay.Games)
	}

	// Unset keys keep defaults
	if cfg.Server.Address != ":2222" {
		t.Errorf("Server.Address = %q, want default", cfg.Server.Address)
	}
	if cfg.UI.FPS != 30 {
		t.Errorf("UI.FPS = %d, want default", cfg.UI.FPS)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "storage: [", "failed to parse"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad fps", "ui:\n  fps: 0\n", "ui.fps"},
		{"no games", "autoplay:\n  games: 0\n", "autoplay.games"},
		{"empty path", "storage:\n  path: \"\"\n", "storage.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}

	if _, _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom file")
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, source, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if source != "embedded" {
		t.Errorf("source = %q, want embedded", source)
	}
	if cfg != DefaultConfig() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	local := filepath.Join(work, LocalPath)
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(local, []byte("ui:\n  fps: 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, source, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if source != LocalPath || cfg.UI.FPS != 20 {
		t.Errorf("expected local config, got %s with fps %d", source, cfg.UI.FPS)
	}

	user := filepath.Join(home, ".sumblocks", FileName)
	if err := os.MkdirAll(filepath.Dir(user), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(user, []byte("ui:\n  fps: 15\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, source, err = Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if source != user || cfg.UI.FPS != 15 {
		t.Errorf("expected user config, got %s with fps %d", source, cfg.UI.FPS)
	}
}

func TestIdleTimeout(t *testing.T) {
	s := ServerConfig{IdleTimeoutMinutes: 2}
	if got := s.IdleTimeout().Seconds(); got != 120 {
		t.Errorf("IdleTimeout = %vs, want 120s", got)
	}
}
