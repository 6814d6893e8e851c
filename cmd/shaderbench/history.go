package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"shaderbench/internal/stats"
)

var historyTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved benchmark runs",
		Long: `Lists runs previously saved with 'run --save', newest first, with
per-run frame time statistics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newHistoryStore()
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			runs, err := store.ListRuns(limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), historyTitleStyle.Render("Benchmark history"))
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tWHEN\tSCRIPT\tRES\tMT\tBUILD s\tFRAMES\tMEAN s\tMIN s\tMAX s")
			for _, run := range runs {
				mt := "off"
				if run.Multithreaded {
					mt = "on"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%dx%d\t%s\t%.3f\t%d\t%.4f\t%.4f\t%.4f\n",
					run.ID,
					run.CreatedAt.Format("2006-01-02 15:04"),
					run.Script,
					run.Width, run.Height,
					mt,
					run.BuildSeconds,
					len(run.Frames),
					stats.Mean.Apply(run.Frames),
					stats.Min.Apply(run.Frames),
					stats.Max.Apply(run.Frames))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}
