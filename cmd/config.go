package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mudlark/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n\n", path)
		fmt.Printf("Server:      %s (character %q)\n", cfg.Server.Addr(), cfg.Server.Character)
		fmt.Printf("Highlights:  %s\n", cfg.Highlights)
		fmt.Printf("Logbook:     %s (enabled: %v)\n", cfg.Logbook.Path, cfg.Logbook.Enabled)
		if cfg.Sound.Command != "" {
			fmt.Printf("Sound:       %s %v\n", cfg.Sound.Command, cfg.Sound.Args)
		}
		fmt.Println("\nWindows:")
		for _, w := range cfg.Windows {
			fmt.Printf("  %-12s streams=%v scrollback=%d\n", w.Name, w.Streams, w.Scrollback)
		}
		if len(cfg.Presets) > 0 {
			fmt.Println("\nPresets:")
			for id, p := range cfg.Presets {
				fmt.Printf("  %-12s fg=%s bg=%s bold=%v\n", id, p.Fg, p.Bg, p.Bold)
			}
		}
		return nil
	},
}
