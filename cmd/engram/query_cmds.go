package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AtticAIInc/engram/cmd/engram/output"
	"github.com/AtticAIInc/engram/internal/index"
	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/query"
	"github.com/AtticAIInc/engram/internal/storage"
	"github.com/AtticAIInc/engram/internal/summary"
)

func newLogCmd() *cobra.Command {
	var agent string
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List captured sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}
			manifests, err := store.List(storage.ListFilter{Agent: agent, Limit: limit})
			if err != nil {
				return err
			}
			return output.ManifestList(cmd.OutOrStdout(), formatFlag(), manifests)
		},
	}

	cmd.Flags().StringVar(&agent, "agent", "", "filter by agent name")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (0 = all)")
	return cmd
}

func newShowCmd() *cobra.Command {
	var summarize bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the full detail of one captured session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}
			id, err := store.Resolve(args[0])
			if err != nil {
				return err
			}
			data, err := store.Get(id)
			if err != nil {
				return err
			}
			if err := output.EngramFull(cmd.OutOrStdout(), formatFlag(), data); err != nil {
				return err
			}
			if summarize {
				text, err := summary.Summarize(context.Background(), cfg.Summary, data)
				if err != nil {
					text = summary.Unavailable
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nLLM summary:\n%s\n", text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summarize, "summarize", false, "ask the configured LLM provider for a one-paragraph summary (display only)")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var agent string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over captured sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}
			idx, err := index.Open(defaultIndexPath())
			if err != nil {
				return err
			}
			defer idx.Close()

			results, err := query.Search(store, idx, args[0], index.SearchOptions{Limit: limit, Agent: agent})
			if err != nil {
				return err
			}

			manifests := make([]model.Manifest, len(results))
			for i, r := range results {
				manifests[i] = r.Manifest
			}
			return output.ManifestList(cmd.OutOrStdout(), formatFlag(), manifests)
		},
	}

	cmd.Flags().StringVar(&agent, "agent", "", "filter by agent name")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")
	return cmd
}

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <file>",
		Short: "Show every session that touched a file, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}
			touches, err := query.TraceFile(store, args[0])
			if err != nil {
				return err
			}
			if len(touches) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no sessions touched %s\n", args[0])
				return nil
			}
			for _, t := range touches {
				fmt.Fprintf(cmd.OutOrStdout(), "◆ %s %s %s\n", output.ShortID(t.Manifest.ID), t.Manifest.Agent.Name, t.Change.ChangeType)
			}
			return nil
		},
	}
	return cmd
}

func newBlameCmd() *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "blame <file>",
		Short: "Show which session last touched a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}
			if history {
				entries, err := query.BlameHistory(store, args[0])
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Fprintf(cmd.OutOrStdout(), "◆ %s %s %s\n", output.ShortID(e.Manifest.ID), e.Manifest.Agent.Name, e.ChangeType)
				}
				return nil
			}

			entry, err := query.BlameFile(store, args[0])
			if err != nil {
				return err
			}
			if entry == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no sessions touched %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "◆ %s %s %s\n", output.ShortID(entry.Manifest.ID), entry.Manifest.Agent.Name, entry.ChangeType)
			return nil
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "show the full chain of touches, following renames")
	return cmd
}

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <id-a> <id-b>",
		Short: "Structurally compare two captured sessions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}
			idA, err := store.Resolve(args[0])
			if err != nil {
				return err
			}
			idB, err := store.Resolve(args[1])
			if err != nil {
				return err
			}
			d, err := query.Diff(store, idA, idB)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s vs %s\n", output.ShortID(idA), output.ShortID(idB))
			fmt.Fprintf(w, "token delta: %+d\n", d.TokenDelta)
			for _, c := range d.OnlyInA {
				fmt.Fprintf(w, "- only in %s: %s %s\n", output.ShortID(idA), c.ChangeType, c.Path)
			}
			for _, c := range d.OnlyInB {
				fmt.Fprintf(w, "- only in %s: %s %s\n", output.ShortID(idB), c.ChangeType, c.Path)
			}
			for _, t := range d.TagsAdded {
				fmt.Fprintf(w, "+ tag: %s\n", t)
			}
			for _, t := range d.TagsRemoved {
				fmt.Fprintf(w, "- tag: %s\n", t)
			}
			return nil
		},
	}
	return cmd
}

func newReviewCmd() *cobra.Command {
	var summarize bool

	cmd := &cobra.Command{
		Use:   "review <sha...>",
		Short: "Show the captured sessions behind a set of commits",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}
			manifests, err := query.Review(store, args)
			if err != nil {
				return err
			}
			if err := output.ManifestList(cmd.OutOrStdout(), formatFlag(), manifests); err != nil {
				return err
			}
			if summarize {
				for _, m := range manifests {
					data, err := store.Get(m.ID)
					if err != nil {
						continue
					}
					text, err := summary.Summarize(context.Background(), cfg.Summary, data)
					if err != nil {
						text = summary.Unavailable
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", output.ShortID(m.ID), text)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summarize, "summarize", false, "ask the configured LLM provider for a one-paragraph summary per session (display only)")
	return cmd
}

func newGraphCmd() *cobra.Command {
	var depth int
	var dot bool

	cmd := &cobra.Command{
		Use:   "graph <id>",
		Short: "Show the lineage context graph around a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}
			id, err := store.Resolve(args[0])
			if err != nil {
				return err
			}
			graph, err := query.BuildContextGraph(store, id, depth)
			if err != nil {
				return err
			}
			if dot {
				fmt.Fprint(cmd.OutOrStdout(), query.RenderDOT(graph))
				return nil
			}
			w := cmd.OutOrStdout()
			for _, n := range graph.Nodes {
				fmt.Fprintf(w, "◆ %s %s\n", output.ShortID(n.ID), n.Summary)
			}
			for _, e := range graph.Edges {
				fmt.Fprintf(w, "  %s --%s--> %s\n", output.ShortID(e.From), e.Relation, output.ShortID(e.To))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 2, "lineage hops to walk outward")
	cmd.Flags().BoolVar(&dot, "dot", false, "render as Graphviz DOT")
	return cmd
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate token and cost usage across captured sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}
			stats, err := query.BuildStats(store)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "total sessions: %d\n", stats.TotalEngrams)
			fmt.Fprintf(w, "total tokens: %d\n", stats.TotalTokens)
			fmt.Fprintf(w, "total cost: $%.4f\n", stats.TotalCostUSD)
			for _, a := range stats.ByAgent {
				fmt.Fprintf(w, "  %s: %d session(s), %d tokens, $%.4f\n", a.Agent, a.SessionCount, a.TotalTokens, a.TotalCostUSD)
			}
			return nil
		},
	}
	return cmd
}

func newPRSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr-summary <sha...>",
		Short: "Render a markdown PR description from the sessions behind a commit range",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(workspace)
			if err != nil {
				return err
			}
			manifests, err := query.Review(store, args)
			if err != nil {
				return err
			}
			dataByID := make(map[model.EngramID]*model.EngramData, len(manifests))
			for _, m := range manifests {
				if data, err := store.Get(m.ID); err == nil {
					dataByID[m.ID] = data
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), query.RenderPRSummary(manifests, dataByID))
			return nil
		},
	}
	return cmd
}

func formatFlag() output.Format {
	if jsonOutput {
		return output.FormatJSON
	}
	return output.FormatText
}
