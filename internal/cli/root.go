// Package cli defines the Cobra command tree for the placerank binary.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "placerank",
	Short: "Sentiment-aware semantic place search over customer reviews",
	Long: `Placerank ranks venues by how well their reviews match a free-text
query. Reviews are retrieved by vector similarity, re-scored by sentiment
alignment with the query, and aggregated to place level.

Run 'placerank serve' to start the HTTP API, or 'placerank query' for a
one-shot search from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		newServeCmd(),
		newQueryCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("placerank %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
