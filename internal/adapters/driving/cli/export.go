package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	artifactfile "github.com/halcyon-tools/jirafetch/internal/adapters/driven/artifact/file"
	configfile "github.com/halcyon-tools/jirafetch/internal/adapters/driven/config/file"
	"github.com/halcyon-tools/jirafetch/internal/adapters/driven/storage/sqlite"
	"github.com/halcyon-tools/jirafetch/internal/connectors/jira"
	"github.com/halcyon-tools/jirafetch/internal/core/ports/driven"
	"github.com/halcyon-tools/jirafetch/internal/core/services"
)

var (
	exportQuery string
	exportMax   int
	exportDir   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tickets matching the configured query",
	Long: `Runs the configured JQL query against the tracker, applies the
configured exclusions to every ticket and writes the results to
numbered output files.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportQuery, "query", "q", "", "JQL query (overrides the configured one)")
	exportCmd.Flags().IntVar(&exportMax, "max-results", 0, "maximum tickets to fetch (overrides the configured bound)")
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "export directory (overrides the configured one)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	store, err := configfile.NewStore(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg := store.ExportConfig()
	if exportQuery != "" {
		cfg.Query = exportQuery
	}
	if exportMax > 0 {
		cfg.MaxResults = exportMax
	}
	if cfg.Query == "" {
		return errors.New("no query configured (set one with 'jirafetch config set query <jql>' or pass --query)")
	}

	exporter := exportService
	if exporter == nil {
		if store.BaseURL() == "" {
			return errors.New("base_url not configured (run 'jirafetch config set base_url <url>')")
		}
		if store.Token() == "" {
			return fmt.Errorf("no API token configured (run 'jirafetch config set-token' or set %s)", configfile.EnvToken)
		}

		dir := store.ExportDir()
		if exportDir != "" {
			dir = exportDir
		}
		writer, err := artifactfile.NewWriter(dir)
		if err != nil {
			return err
		}

		runs, closeRuns, err := openRunStore()
		if err != nil {
			return fmt.Errorf("open run history: %w", err)
		}
		defer closeRuns()

		client := jira.NewClient(cmd.Context(), store.BaseURL(), store.Token(), cfg.Fields)
		exporter = services.NewExporter(client, writer, runs)
	}

	summary, err := exporter.Run(cmd.Context(), cfg)
	if summary != nil {
		for _, name := range summary.Artifacts {
			cmd.Printf("  wrote %s\n", name)
		}
	}
	if err != nil {
		if summary != nil && len(summary.Artifacts) > 0 {
			cmd.Printf("Export aborted after %d file(s); they remain complete.\n", len(summary.Artifacts))
		}
		return fmt.Errorf("export failed: %w", err)
	}

	cmd.Printf("Exported %d tickets to %d file(s) in %s.\n",
		summary.TicketCount, len(summary.Artifacts), summary.Duration.Round(time.Millisecond))
	return nil
}

// openRunStore returns the injected run store, or opens the SQLite one.
// The returned closer is a no-op for injected stores.
func openRunStore() (driven.RunStore, func(), error) {
	if runStore != nil {
		return runStore, func() {}, nil
	}
	store, err := sqlite.NewRunStore("")
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
