package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AtticAIInc/engram/internal/config"
	"github.com/AtticAIInc/engram/internal/hooks"
	"github.com/AtticAIInc/engram/internal/protocol"
	"github.com/AtticAIInc/engram/internal/storage"
)

func newInitCmd() *cobra.Command {
	var withHooks bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Attach engram to the current git repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Init(workspace)
			if err != nil {
				return err
			}
			if _, err := protocol.EnsureAllRefspecs(store); err != nil {
				return err
			}
			if err := config.Save(workspace, config.DefaultConfig()); err != nil {
				return err
			}
			if withHooks {
				if err := hooks.Install(workspace); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "engram initialized.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&withHooks, "hooks", true, "install prepare-commit-msg and post-commit hooks")
	return cmd
}
