package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	nextSlice string
	nextMax   int
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the recommended next actions from Brain",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newRunLogger()
		defer log.Close()

		result := newBridge(log).NextActionsQuery(cmd.Context(), nextSlice, nextMax)

		out := cmd.OutOrStdout()
		if result.Status != "ok" {
			fmt.Fprintln(out, warnStyle.Render("Brain MCP unavailable"))
		}
		fmt.Fprintln(out, result.SummaryText)
		return nil
	},
}

func init() {
	nextCmd.Flags().StringVar(&nextSlice, "slice", "", "limit actions to one slice")
	nextCmd.Flags().IntVar(&nextMax, "max", 5, "maximum number of actions")
	rootCmd.AddCommand(nextCmd)
}
