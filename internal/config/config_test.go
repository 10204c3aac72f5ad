package config

import (
	"path/filepath"
	"testing"
)

func TestApplyOverrides(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Host: "game.example.com", Port: 8000, Character: "Rennik"},
	}

	cfg.ApplyOverrides("localhost", 4000, "")
	if cfg.Server.Host != "localhost" {
		t.Fatalf("host=%q, want %q", cfg.Server.Host, "localhost")
	}
	if cfg.Server.Port != 4000 {
		t.Fatalf("port=%d, want 4000", cfg.Server.Port)
	}
	if cfg.Server.Character != "Rennik" {
		t.Fatalf("character changed unexpectedly: %q", cfg.Server.Character)
	}

	cfg.ApplyOverrides("", 0, "Thayet")
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 4000 {
		t.Fatalf("empty overrides changed server: %+v", cfg.Server)
	}
	if cfg.Server.Character != "Thayet" {
		t.Fatalf("character=%q, want %q", cfg.Server.Character, "Thayet")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults("/tmp/mudlark")

	if len(cfg.Windows) != 1 || cfg.Windows[0].Name != "main" {
		t.Fatalf("windows=%+v, want a default main window", cfg.Windows)
	}
	if cfg.Windows[0].Scrollback != 5000 {
		t.Fatalf("scrollback=%d, want 5000", cfg.Windows[0].Scrollback)
	}
	if cfg.Highlights != filepath.Join("/tmp/mudlark", "highlights.yaml") {
		t.Fatalf("highlights=%q", cfg.Highlights)
	}
	if cfg.Logbook.Path != filepath.Join("/tmp/mudlark", "logbook.db") {
		t.Fatalf("logbook path=%q", cfg.Logbook.Path)
	}
}

func TestPresetStyles(t *testing.T) {
	cfg := &Config{Presets: map[string]PresetConfig{
		"speech":   {Fg: "#53a684"},
		"whispers": {Fg: "#8844aa", Bold: true},
	}}
	styles := cfg.PresetStyles()
	if styles["speech"].Fg != "#53a684" {
		t.Errorf("speech=%+v", styles["speech"])
	}
	if !styles["whispers"].Bold {
		t.Errorf("whispers=%+v", styles["whispers"])
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "game.example.com", Port: 11024}
	if got := s.Addr(); got != "game.example.com:11024" {
		t.Errorf("Addr()=%q", got)
	}
}
