package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AtticAIInc/engram/internal/protocol"
	"github.com/AtticAIInc/engram/internal/storage"
)

func newPushCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "push <remote>",
		Short: "Push captured sessions to a remote's engrams namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}
			if _, err := protocol.EnsureRefspecs(store, args[0]); err != nil {
				return err
			}
			result, err := protocol.PushEngrams(store, args[0], protocol.SyncOptions{DryRun: dryRun})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pushed %d ref(s) to %s\n", len(result.RefsPushed), result.Remote)
			for _, r := range result.RefsPushed {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", r)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be pushed without pushing")
	return cmd
}

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull <remote>",
		Short: "Fetch and merge captured sessions from a remote (alias for fetch; engram refs never need a merge)",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetch,
	}
	return cmd
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <remote>",
		Short: "Fetch captured sessions from a remote's engrams namespace",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetch,
	}
	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(workspace)
	if err != nil {
		return err
	}
	if _, err := protocol.EnsureRefspecs(store, args[0]); err != nil {
		return err
	}
	result, err := protocol.FetchEngrams(store, args[0], protocol.SyncOptions{})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "fetched %d ref(s) from %s\n", len(result.RefsFetched), result.Remote)
	for _, r := range result.RefsFetched {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", r)
	}
	return nil
}
