package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/index"
	"github.com/AtticAIInc/engram/internal/storage"
)

func newGCCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Prune unreachable objects left behind by deleted engram refs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}
			repo := store.Repository()

			err = repo.Prune(git.PruneOptions{
				Handler: git.NewPruneHandler(repo.Storer),
			})
			if err != nil {
				return engramerr.Wrap(engramerr.KindObjectStore, "prune object store", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "pruned unreachable objects.")
			return nil
		},
	}
	return cmd
}

func newReindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the full-text search index from the object store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}

			// Start from an empty index so documents of engrams no longer in
			// the store do not survive the rebuild.
			if err := os.RemoveAll(defaultIndexPath()); err != nil {
				return engramerr.Wrap(engramerr.KindIndex, "remove index directory", err)
			}

			idx, err := index.Open(defaultIndexPath())
			if err != nil {
				return err
			}
			defer idx.Close()

			count, err := index.Rebuild(store, idx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reindexed %d session(s) in %s\n", count, time.Now().Format("2006-01-02 15:04:05"))
			return nil
		},
	}
	return cmd
}
