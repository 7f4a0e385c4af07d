// Package cli implements the agentops command-line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "agentops",
	Short: "Governance for agent-to-agent communication",
	Long:  "Evaluates agent messages against the content policy that the agentops SDK enforces in-process: keyword and regex deny-list checks on ingress and egress payloads.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
