package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stephen-netu/brain-bridge/internal/brain"
	"github.com/stephen-netu/brain-bridge/internal/gitfiles"
)

var (
	runEvent string
	runRepo  string
	runBase  string
)

var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Prepare Brain context for a PR event",
	Long: `Run queries the knowledge service for the given PR event, writes
` + brain.ContextFileName + ` at the repository root, and prints the
instruction fragment for the review agent's prompt to stdout.

Changed files are taken from the arguments; when none are given they
are discovered with git diff against --base.

Only auto-trigger events (opened, reopened, synchronize, push) qualify;
comment-triggered commands are rejected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		event, err := classifyEvent(runEvent)
		if err != nil {
			return err
		}

		log := newRunLogger().WithEvent(runEvent)
		defer log.Close()

		files := args
		if len(files) == 0 {
			files, err = gitfiles.Changed(cmd.Context(), runRepo, runBase)
			if err != nil {
				// Best effort: an empty changeset still yields a
				// useful CI and risk snapshot.
				log.Warn("changed-file discovery failed", "error", err.Error())
				files = nil
			}
		}

		result := newBridge(log).Prepare(cmd.Context(), event, runRepo, files)
		log.Info("bridge run finished", "status", string(result.Status))

		if result.ExtraInstructions != "" {
			fmt.Fprintln(cmd.OutOrStdout(), result.ExtraInstructions)
		}
		return nil
	},
}

// classifyEvent maps the --event flag onto an auto-trigger event type.
// Comment events and unknown kinds are rejected at this call site so
// the orchestrator only ever sees qualifying events.
func classifyEvent(s string) (brain.EventType, error) {
	event := brain.EventType(s)
	if !event.AutoTrigger() {
		return "", fmt.Errorf("event %q does not trigger context preparation", s)
	}
	return event, nil
}

func init() {
	runCmd.Flags().StringVar(&runEvent, "event", string(brain.EventOpened), "PR lifecycle event (opened, reopened, synchronize, push)")
	runCmd.Flags().StringVar(&runRepo, "repo", ".", "repository root")
	runCmd.Flags().StringVar(&runBase, "base", "", "base ref for changed-file discovery (default origin/main)")
	rootCmd.AddCommand(runCmd)
}
