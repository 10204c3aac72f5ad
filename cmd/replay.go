package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mudlark/internal/config"
	"mudlark/internal/highlight"
	"mudlark/internal/pipeline"
	"mudlark/internal/rawlog"
)

var replayWindow string

func init() {
	replayCmd.Flags().StringVar(&replayWindow, "window", "", "Only print this window's lines")
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay <capture-file>",
	Short: "Re-run a raw capture through the parser and print the result",
	Long: `replay feeds a capture file recorded with --debug through the same
parsing, routing, and highlighting as a live session, then prints the
completed lines per window. Useful for inspecting odd server output
offline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		rules, _ := highlight.LoadRules(cfg.Highlights)

		pipe := pipeline.New(pipeline.Options{
			Presets: cfg.PresetStyles(),
			Rules:   rules,
			Logger:  log.New(io.Discard),
		})
		for _, w := range cfg.Windows {
			pipe.AddWindow(w.Name, w.Streams, w.Scrollback)
		}

		entries, err := rawlog.ReadAll(args[0])
		if err != nil {
			return err
		}
		for _, e := range entries {
			pipe.Feed(e.Chunk)
		}

		for _, w := range cfg.Windows {
			if replayWindow != "" && w.Name != replayWindow {
				continue
			}
			buf, ok := pipe.Buffer(w.Name)
			if !ok || buf.Len() == 0 {
				continue
			}
			fmt.Printf("== %s ==\n", w.Name)
			for _, line := range buf.Lines() {
				fmt.Println(line.Text())
			}
		}
		if n := pipe.Misses(); n > 0 {
			fmt.Printf("(%d unrouted text elements discarded)\n", n)
		}
		return nil
	},
}
