// Package cli implements the workspacectl command tree: local scoring,
// database migrations and a version report.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCommand creates the root cobra command with all global flags and
// subcommands attached.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspacectl",
		Short:   "Workspace engine control tool",
		Long:    "workspacectl operates the workspace scoring and portfolio aggregation engine:\nscore work items locally, run database migrations, and inspect the build.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newScoreCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
