package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mudlark/internal/config"
	"mudlark/internal/highlight"
	"mudlark/internal/logbook"
	"mudlark/internal/netclient"
	"mudlark/internal/pipeline"
	"mudlark/internal/rawlog"
	"mudlark/internal/sound"
	"mudlark/internal/tui"
)

var (
	connectHost      string
	connectPort      int
	connectCharacter string
)

func init() {
	connectCmd.Flags().StringVar(&connectHost, "host", "", "Server host (overrides config)")
	connectCmd.Flags().IntVar(&connectPort, "port", 0, "Server port (overrides config)")
	connectCmd.Flags().StringVar(&connectCharacter, "character", "", "Character name (overrides config)")
	rootCmd.AddCommand(connectCmd)
}

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to the game server and start the client",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.ApplyOverrides(connectHost, connectPort, connectCharacter)
		if cfg.Server.Host == "" {
			return fmt.Errorf("no server host configured; set server.host or pass --host")
		}
		return runClient(cmd.Context(), cfg)
	},
}

func runClient(ctx context.Context, cfg *config.Config) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	// Missing rules file just means no highlights until one appears; the
	// watcher picks it up when it is created.
	rules, err := highlight.LoadRules(cfg.Highlights)
	if err != nil {
		logger.Warn("highlights not loaded", "path", cfg.Highlights, "err", err)
	}

	var player sound.Player = sound.Nop{}
	if cfg.Sound.Command != "" {
		player = sound.NewCommandPlayer(cfg.Sound.Command, cfg.Sound.Args, cfg.Sound.Dir, logger)
	}

	var recorder pipeline.Recorder
	if cfg.Logbook.Enabled {
		store, err := logbook.Open(cfg.Logbook.Path, cfg.Server.Character, cfg.Server.Addr())
		if err != nil {
			logger.Warn("logbook disabled", "err", err)
		} else {
			defer store.Close()
			recorder = store
		}
	}

	var capture *rawlog.Writer
	if debugLog {
		dir, err := config.GetConfigDir()
		if err == nil {
			capture, err = rawlog.Open(filepath.Join(dir, "capture.jsonl"))
		}
		if err != nil {
			logger.Warn("raw capture disabled", "err", err)
		} else {
			defer capture.Close()
		}
	}

	pipe := pipeline.New(pipeline.Options{
		Presets:  cfg.PresetStyles(),
		Rules:    rules,
		Player:   player,
		Recorder: recorder,
		Capture:  capture,
		Logger:   logger,
	})
	for _, w := range cfg.Windows {
		pipe.AddWindow(w.Name, w.Streams, w.Scrollback)
	}

	client, err := netclient.Dial(ctx, cfg.Server.Addr(), logger)
	if err != nil {
		return err
	}
	defer client.Close()

	rulesCh := make(chan []highlight.Rule, 1)
	watcher, err := highlight.Watch(cfg.Highlights, logger, func(rules []highlight.Rule) {
		select {
		case rulesCh <- rules:
		default:
		}
	})
	if err != nil {
		logger.Warn("highlight reload disabled", "err", err)
	} else {
		defer watcher.Close()
	}

	model := tui.New(cfg, pipe, client, rulesCh, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

// newLogger returns the client logger. The TUI owns the terminal, so logs go
// to a file when --debug is set and nowhere otherwise.
func newLogger() (*log.Logger, func(), error) {
	if !debugLog {
		return log.New(io.Discard), func() {}, nil
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(f)
	logger.SetLevel(log.DebugLevel)
	return logger, func() { f.Close() }, nil
}
