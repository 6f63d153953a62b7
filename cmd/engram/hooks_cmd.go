package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AtticAIInc/engram/internal/hooks"
)

// newHookHandlerCmd implements the internal entry point the installed git
// hook wrapper scripts shell out to: `engram hook-handler <hook-name> [args...]`.
func newHookHandlerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "hook-handler <hook-name> [args...]",
		Short:  "Internal dispatch target for installed git hooks",
		Args:   cobra.MinimumNArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			rest := args[1:]

			switch name {
			case "prepare-commit-msg":
				if len(rest) < 1 {
					return fmt.Errorf("prepare-commit-msg hook requires a commit message file argument")
				}
				return hooks.PrepareCommitMsg(workspace, rest[0])
			case "post-commit":
				return hooks.PostCommit(workspace)
			default:
				return fmt.Errorf("unknown hook %q", name)
			}
		},
	}
	return cmd
}
