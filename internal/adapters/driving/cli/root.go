// Package cli implements the jirafetch command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/halcyon-tools/jirafetch/internal/core/ports/driven"
	"github.com/halcyon-tools/jirafetch/internal/core/ports/driving"
	"github.com/halcyon-tools/jirafetch/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	configPath  string
)

// Services used by the commands. Left nil in production and built from
// configuration on first use; tests inject fakes here.
var (
	exportService driving.Exporter
	runStore      driven.RunStore
)

var rootCmd = &cobra.Command{
	Use:   "jirafetch",
	Short: "Export Jira tickets to filtered JSON files",
	Long: `jirafetch exports the tickets matching a configured JQL query from a
Jira instance, strips configured fields from each ticket (including
fields nested inside arrays such as comments), and writes the results
to one or more files capped at a configured ticket count.`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.jirafetch/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context, so signal
// cancellation reaches the export pipeline.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
