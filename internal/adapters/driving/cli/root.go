// Package cli wires the cobra command surface for embedprep.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/embedprep-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "embedprep",
	Short: "Prepare product reviews for text embedding",
	Long: `embedprep joins a product-metadata dataset with a product-review dataset
(keyed by ASIN), normalises noisy fields and emits one self-contained
JSON record per review, ready for an external text-embedding service.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"enable verbose progress logging on stderr")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
