package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/stephen-netu/brain-bridge/internal/util"
)

// headlineWidth keeps the styled headline on one terminal row.
const headlineWidth = 100

var (
	headlineStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the codebase health overview from Brain",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newRunLogger()
		defer log.Close()

		result := newBridge(log).StatusQuery(cmd.Context())

		out := cmd.OutOrStdout()
		if result.Status != "ok" {
			fmt.Fprintln(out, warnStyle.Render(result.Headline))
			fmt.Fprintln(out, result.SummaryText)
			return nil
		}

		fmt.Fprintln(out, util.TruncateANSI(headlineStyle.Render(result.Headline), headlineWidth))
		fmt.Fprintln(out)
		fmt.Fprintln(out, result.SummaryText)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
