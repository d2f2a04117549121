package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/forgedash/internal/logger"
)

var (
	flagConfigDir string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "forgedash",
	Short: "Terminal dashboard engine for GitHub PRs, issues, notifications and CI",
	Long: `forgedash watches the pull requests, issues, notifications and workflow
runs you care about. Filters come from a TOML config file; results are
kept fresh by a background refresh loop and served from a short-lived
cache so switching views costs no API quota.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
	RunE: runDash,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.config/forgedash)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging to stderr")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
