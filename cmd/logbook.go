package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mudlark/internal/config"
	"mudlark/internal/logbook"
)

var logbookLimit int

func init() {
	logbookSearchCmd.Flags().IntVar(&logbookLimit, "limit", 25, "Maximum matches to print")
	logbookCmd.AddCommand(logbookSearchCmd)
	rootCmd.AddCommand(logbookCmd)
}

var logbookCmd = &cobra.Command{
	Use:   "logbook",
	Short: "Search past session transcripts",
}

var logbookSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over all logged sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		entries, err := logbook.SearchFile(cmd.Context(), cfg.Logbook.Path, query, logbookLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  [%s]  %s\n", e.LoggedAt.Format("2006-01-02 15:04"), e.Destination, e.Text)
		}
		return nil
	},
}
