package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/all-dot-files/wifiprov/internal/models"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded apply runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := configManager.OpenStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Runs().List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
			return nil
		}
		return printRuns(cmd.OutOrStdout(), runs)
	},
}

func printRuns(out io.Writer, runs []models.Run) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tIFACE\tSSID\tMETHOD\tACTION\tID\tRESULT")
	for _, r := range runs {
		result := green(r.Result)
		if r.Result != models.ResultSuccess {
			result = red(r.Result)
		}
		if r.DryRun {
			result += " (dry-run)"
		}
		action := string(r.Action)
		if action == "" {
			action = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Iface, r.SSID, r.Method, action, r.NetworkID, result)
		if r.Error != "" {
			fmt.Fprintf(w, "\t\t%s\t\t\t\t\n", r.Error)
		}
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "l", 20, "number of runs to show (0 for all)")
}
