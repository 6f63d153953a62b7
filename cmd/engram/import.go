package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AtticAIInc/engram/cmd/engram/output"
	"github.com/AtticAIInc/engram/internal/importers"
	"github.com/AtticAIInc/engram/internal/index"
	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/storage"
)

func newImportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import a vendor agent session log as a new engram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var imp importers.Importer
			var err error
			if format != "" {
				imp = importers.Lookup(format)
				if imp == nil {
					return fmt.Errorf("unknown importer %q", format)
				}
			} else {
				imp, err = importers.AutoDetect(path)
				if err != nil {
					return err
				}
			}

			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}

			hash, err := importers.SourceHash(path)
			if err != nil {
				return err
			}
			if existing, found, err := store.FindBySourceHash(hash); err == nil && found {
				fmt.Fprintf(cmd.OutOrStdout(), "already imported as %s\n", output.ShortID(model.EngramID(existing)))
				return nil
			}

			data, err := imp.Import(path)
			if err != nil {
				return err
			}

			id, err := store.Create(data)
			if err != nil {
				return err
			}

			if idx, idxErr := index.Open(defaultIndexPath()); idxErr == nil {
				defer idx.Close()
				_ = idx.Add(data)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported as %s (%s)\n", output.ShortID(id), imp.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "importer to use (claude-code, aider, generic); auto-detected if omitted")
	return cmd
}
