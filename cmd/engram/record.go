package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AtticAIInc/engram/cmd/engram/output"
	"github.com/AtticAIInc/engram/internal/capture"
	"github.com/AtticAIInc/engram/internal/hooks"
	"github.com/AtticAIInc/engram/internal/index"
	"github.com/AtticAIInc/engram/internal/storage"
)

func newRecordCmd() *cobra.Command {
	var agentName, agentModel, goal string
	var tags []string

	cmd := &cobra.Command{
		Use:   "record -- <command> [args...]",
		Short: "Run an agent CLI under a PTY and capture the session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}

			if err := hooks.StartActiveSession(workspace, hooks.ActiveSession{AgentName: agentName}); err != nil {
				return err
			}
			defer hooks.EndActiveSession(workspace)

			session := capture.NewSession(store, workspace, capture.Options{
				AgentName:    agentName,
				AgentModel:   agentModel,
				OriginalGoal: goal,
				Tags:         tags,
			})

			id, exitCode, err := session.Run(args[0], args[1:])
			if err != nil {
				return err
			}

			if idx, idxErr := index.Open(defaultIndexPath()); idxErr == nil {
				if data, getErr := store.Get(id); getErr == nil {
					_ = idx.Add(data)
				}
				_ = idx.Close()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "captured %s\n", output.ShortID(id))
			if exitCode != 0 {
				// os.Exit skips deferred calls, so end the active session first.
				_ = hooks.EndActiveSession(workspace)
				os.Exit(exitCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&agentName, "agent", "unknown", "agent name")
	cmd.Flags().StringVar(&agentModel, "model", "", "agent model identifier")
	cmd.Flags().StringVar(&goal, "goal", "", "original request driving this session")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags to attach to the captured session")
	return cmd
}

func defaultIndexPath() string {
	return strings.TrimSuffix(workspace, "/") + "/.engram/index.bleve"
}
