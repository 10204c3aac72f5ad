package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Write a debug log next to the config file")
}

var rootCmd = &cobra.Command{
	Use:   "mudlark",
	Short: "A terminal client for text-based game servers",
	Long: `mudlark connects to a text game server, parses its tagged output
stream, and renders it across configurable windows with highlights,
scrollback, and a transcript logbook.

Examples:
  mudlark connect                        # use the configured server
  mudlark connect --host game.example.com --port 11024
  mudlark highlights check               # lint the highlight rules
  mudlark logbook search "gleaming sword"`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

var debugLog bool

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
