package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mudlark/internal/config"
	"mudlark/internal/highlight"
)

func init() {
	highlightsCmd.AddCommand(highlightsCheckCmd)
	rootCmd.AddCommand(highlightsCmd)
}

var highlightsCmd = &cobra.Command{
	Use:   "highlights",
	Short: "Work with highlight rules",
}

var highlightsCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Compile the highlight rules and report broken ones",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			path = cfg.Highlights
		}

		rules, err := highlight.LoadRules(path)
		if err != nil {
			return err
		}
		set := highlight.NewSet(rules, log.Default())

		disabled := set.Disabled()
		fmt.Printf("%s: %d rules, %d active, %d broken\n", path, len(rules), set.Len(), len(disabled))
		for _, name := range disabled {
			fmt.Printf("  broken: %s\n", name)
		}
		if len(disabled) > 0 {
			return fmt.Errorf("%d rule(s) failed to compile", len(disabled))
		}
		return nil
	},
}
