// Package cmd wires the bridge into a small CLI: run prepares context
// for a PR event, status and next answer interactive queries.
package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/stephen-netu/brain-bridge/internal/brain"
	"github.com/stephen-netu/brain-bridge/internal/config"
	"github.com/stephen-netu/brain-bridge/internal/logging"
	"github.com/stephen-netu/brain-bridge/internal/mcp"
)

var (
	cfgFile  string
	logFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "brainbridge",
	Short: "Bridge between the PR review agent and the Brain knowledge service",
	Long: `Brainbridge queries the Brain MCP knowledge service for change
impact, CI status, and known risks, writes a bounded context document
for the review agent, and emits the instruction fragment the agent
appends to its prompt.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.pr_agent.toml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log destination (default is stderr)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
}

// newRunLogger builds the per-invocation logger with a fresh run id.
func newRunLogger() *logging.Logger {
	log, err := logging.NewLogger(logFile, logging.ParseLevel(logLevel))
	if err != nil {
		return logging.NopLogger()
	}
	return log.WithRun(uuid.NewString())
}

// newBridge loads configuration and assembles the bridge. A nil config
// (load failure) still yields a usable bridge; its runs report
// degraded so operators can tell misconfiguration from a clean off
// switch.
func newBridge(log *logging.Logger) *brain.Bridge {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Error("configuration invalid", "error", err.Error())
		return brain.New(nil, nil, brain.WithLogger(log))
	}

	client := mcp.NewClient(cfg.Brain.MCPBin, cfg.Brain.MCPRoot,
		mcp.WithTimeout(cfg.Brain.Timeout()),
		mcp.WithLogger(log))
	return brain.New(cfg, client, brain.WithLogger(log))
}
