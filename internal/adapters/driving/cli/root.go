// Package cli provides the docqa command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/veridian-labs/docqa/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Document question answering service",
	Long: `docqa answers natural-language questions about remote documents.

It downloads a document, sends it to a generative language model and
returns one answer per question. Upstream calls run through a sliding
window rate limiter with API key rotation and retry, so bursts of
questions survive provider quota errors.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a TOML config file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
