package agentapi

import (
	"fmt"
	"strings"

	"github.com/AtticAIInc/engram/internal/index"
	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/query"
	"github.com/AtticAIInc/engram/internal/storage"
)

// Search runs a full-text query and renders a one-line-per-hit summary.
func (s *Server) Search(params SearchParams) (string, error) {
	store, err := s.openStorage()
	if err != nil {
		return "", err
	}
	idx, err := s.openIndex()
	if err != nil {
		return "", err
	}
	defer idx.Close()

	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	results, err := query.Search(store, idx, params.Query, index.SearchOptions{Limit: limit})
	if err != nil {
		return "", err
	}

	if len(results) == 0 {
		return fmt.Sprintf("No sessions match %q.\n", params.Query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching session(s):\n\n", len(results))
	for _, r := range results {
		fmt.Fprintf(&b, "%s\n", manifestLine(r.Manifest))
	}
	return b.String(), nil
}

// Show renders the full detail of one engram, resolved by id or short prefix.
func (s *Server) Show(params ShowParams) (string, error) {
	store, err := s.openStorage()
	if err != nil {
		return "", err
	}

	id, err := store.Resolve(params.ID)
	if err != nil {
		return "", err
	}
	data, err := store.Get(id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", manifestLine(data.Manifest))
	fmt.Fprintf(&b, "\nIntent:\n%s\n", data.Intent.OriginalRequest)
	if data.Manifest.Summary != nil {
		fmt.Fprintf(&b, "\nSummary:\n%s\n", *data.Manifest.Summary)
	}
	if len(data.Operations.FileChanges) > 0 {
		fmt.Fprintf(&b, "\nFiles touched (%d):\n", len(data.Operations.FileChanges))
		for _, c := range data.Operations.FileChanges {
			fmt.Fprintf(&b, "  %s %s\n", c.ChangeType, c.Path)
		}
	}
	fmt.Fprintf(&b, "\nTokens: %d (cost: %s)\n", data.Manifest.TokenUsage.TotalTokens, costString(data.Manifest.TokenUsage.CostUSD))
	return b.String(), nil
}

// Log renders a chronological listing of engrams.
func (s *Server) Log(params LogParams) (string, error) {
	store, err := s.openStorage()
	if err != nil {
		return "", err
	}

	manifests, err := store.List(storage.ListFilter{Agent: params.ByAgent, Limit: params.Limit})
	if err != nil {
		return "", err
	}
	if len(manifests) == 0 {
		return "No captured sessions.\n", nil
	}

	var b strings.Builder
	for _, m := range manifests {
		fmt.Fprintf(&b, "%s\n", manifestLine(m))
	}
	return b.String(), nil
}

// Trace renders every engram that touched one file, oldest first.
func (s *Server) Trace(params TraceParams) (string, error) {
	store, err := s.openStorage()
	if err != nil {
		return "", err
	}

	touches, err := query.TraceFile(store, params.FilePath)
	if err != nil {
		return "", err
	}
	if len(touches) == 0 {
		return fmt.Sprintf("No sessions touched %s.\n", params.FilePath), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "History of %s:\n\n", params.FilePath)
	for _, t := range touches {
		fmt.Fprintf(&b, "%s %s\n", manifestLine(t.Manifest), t.Change.ChangeType)
	}
	return b.String(), nil
}

// Diff renders a structural diff between two engrams.
func (s *Server) Diff(params DiffParams) (string, error) {
	store, err := s.openStorage()
	if err != nil {
		return "", err
	}

	idA, err := store.Resolve(params.IDA)
	if err != nil {
		return "", err
	}
	idB, err := store.Resolve(params.IDB)
	if err != nil {
		return "", err
	}

	d, err := query.Diff(store, idA, idB)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s vs %s\n", shortID(idA), shortID(idB))
	fmt.Fprintf(&b, "Token delta: %+d\n", d.TokenDelta)
	if len(d.OnlyInA) > 0 {
		fmt.Fprintf(&b, "\nOnly in %s:\n", shortID(idA))
		for _, c := range d.OnlyInA {
			fmt.Fprintf(&b, "  %s %s\n", c.ChangeType, c.Path)
		}
	}
	if len(d.OnlyInB) > 0 {
		fmt.Fprintf(&b, "\nOnly in %s:\n", shortID(idB))
		for _, c := range d.OnlyInB {
			fmt.Fprintf(&b, "  %s %s\n", c.ChangeType, c.Path)
		}
	}
	return b.String(), nil
}

// DeadEnds renders rejected approaches across sessions, optionally narrowed
// to one engram by id, or filtered to those whose approach/reason text
// contains Query.
func (s *Server) DeadEnds(params DeadEndsParams) (string, error) {
	store, err := s.openStorage()
	if err != nil {
		return "", err
	}

	var manifests []model.Manifest
	if params.ID != "" {
		id, err := store.Resolve(params.ID)
		if err != nil {
			return "", err
		}
		m, err := store.GetManifest(id)
		if err != nil {
			return "", err
		}
		manifests = []model.Manifest{*m}
	} else {
		manifests, err = store.List(storage.ListFilter{})
		if err != nil {
			return "", err
		}
	}

	var b strings.Builder
	found := 0
	for _, m := range manifests {
		data, err := store.Get(m.ID)
		if err != nil {
			continue
		}
		for _, de := range data.Intent.DeadEnds {
			if params.Query != "" && !strings.Contains(strings.ToLower(de.Approach+" "+de.Reason), strings.ToLower(params.Query)) {
				continue
			}
			found++
			fmt.Fprintf(&b, "%s ruled out **%s**: %s\n", manifestLine(m), de.Approach, de.Reason)
		}
	}
	if found == 0 {
		return "No matching dead ends recorded.\n", nil
	}
	return b.String(), nil
}

func costString(cost *float64) string {
	if cost == nil {
		return "unknown"
	}
	return fmt.Sprintf("$%.4f", *cost)
}
