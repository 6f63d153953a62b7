// Package query implements engram's read-side operations over the object
// store and full-text index: search, trace, blame, diff, review, the
// lineage context graph, aggregate stats, and PR-summary rendering.
package query

import (
	"sort"

	"github.com/AtticAIInc/engram/internal/index"
	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/storage"
)

// SearchResult pairs a manifest with its relevance score from the index.
type SearchResult struct {
	Manifest model.Manifest
	Score    float64
}

// Search runs a full-text query against idx and resolves each hit back to
// its manifest via store, preserving the index's relevance ordering.
func Search(store *storage.Store, idx *index.Index, queryString string, opts index.SearchOptions) ([]SearchResult, error) {
	hits, err := idx.Search(queryString, opts)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		m, err := store.GetManifest(model.EngramID(h.ID))
		if err != nil {
			continue
		}
		results = append(results, SearchResult{Manifest: *m, Score: h.Score})
	}
	return results, nil
}

// sortByCreatedAtDesc orders Review's manifest list, which has no index
// relevance ordering to fall back on.
func sortByCreatedAtDesc(manifests []model.Manifest) {
	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].CreatedAt.After(manifests[j].CreatedAt)
	})
}
