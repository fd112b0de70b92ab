package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past export runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	runs, closeRuns, err := openRunStore()
	if err != nil {
		return err
	}
	defer closeRuns()

	history, err := runs.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		cmd.Println("No export runs recorded.")
		return nil
	}

	for _, run := range history {
		cmd.Printf("%s  %-9s  %4d tickets  %2d file(s)  %s\n",
			run.StartedAt.Local().Format(time.DateTime),
			run.Status, run.TicketCount, len(run.Artifacts), run.Query)
		if run.Error != "" {
			cmd.Printf("%21s %s\n", "", run.Error)
		}
	}
	return nil
}
