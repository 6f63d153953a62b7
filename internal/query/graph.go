package query

import (
	"fmt"
	"strings"

	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/storage"
)

// GraphNode is one engram in a lineage context graph.
type GraphNode struct {
	ID      model.EngramID
	Summary string
}

// GraphEdge is a typed lineage relationship between two engrams.
type GraphEdge struct {
	From, To model.EngramID
	Relation model.RelationType
}

// ContextGraph is the lineage neighborhood reachable from a root engram.
type ContextGraph struct {
	Nodes []GraphNode
	Edges []GraphEdge
}

// BuildContextGraph does a breadth-first walk outward from root through
// parent/child/related lineage edges, up to depth hops away, so a caller can
// see the decision history around one engram without loading the whole store.
func BuildContextGraph(store *storage.Store, root model.EngramID, depth int) (*ContextGraph, error) {
	if depth <= 0 {
		depth = 2
	}

	graph := &ContextGraph{}
	visited := make(map[model.EngramID]bool)
	queue := []model.EngramID{root}

	for level := 0; level <= depth && len(queue) > 0; level++ {
		var next []model.EngramID
		for _, id := range queue {
			if visited[id] {
				continue
			}
			visited[id] = true

			data, err := store.Get(id)
			if err != nil {
				continue
			}
			summary := data.Intent.OriginalRequest
			if data.Manifest.Summary != nil {
				summary = *data.Manifest.Summary
			}
			graph.Nodes = append(graph.Nodes, GraphNode{ID: id, Summary: summary})

			if data.Lineage.ParentEngram != nil {
				graph.Edges = append(graph.Edges, GraphEdge{From: *data.Lineage.ParentEngram, To: id, Relation: "parent_of"})
				next = append(next, *data.Lineage.ParentEngram)
			}
			for _, child := range data.Lineage.ChildEngrams {
				graph.Edges = append(graph.Edges, GraphEdge{From: id, To: child, Relation: "parent_of"})
				next = append(next, child)
			}
			for _, rel := range data.Lineage.RelatedEngrams {
				graph.Edges = append(graph.Edges, GraphEdge{From: id, To: rel.EngramID, Relation: rel.RelationType})
				next = append(next, rel.EngramID)
			}
		}
		queue = next
	}

	return graph, nil
}

// RenderDOT renders graph as a Graphviz DOT document for `engram graph --dot`.
func RenderDOT(graph *ContextGraph) string {
	var b strings.Builder
	b.WriteString("digraph engram_lineage {\n")
	b.WriteString("  rankdir=LR;\n")
	for _, n := range graph.Nodes {
		label := n.Summary
		if len(label) > 40 {
			label = label[:40] + "..."
		}
		fmt.Fprintf(&b, "  %q [label=%q];\n", n.ID, shortID(n.ID)+"\\n"+label)
	}
	for _, e := range graph.Edges {
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.From, e.To, e.Relation)
	}
	b.WriteString("}\n")
	return b.String()
}

func shortID(id model.EngramID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
