package query

import (
	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/storage"
)

// Review returns every engram whose GitCommits intersects shas, the
// operation that answers "what agent reasoning produced this commit range"
// for a code review or PR description.
func Review(store *storage.Store, shas []string) ([]model.Manifest, error) {
	wanted := make(map[string]bool, len(shas))
	for _, s := range shas {
		wanted[s] = true
	}

	manifests, err := store.List(storage.ListFilter{})
	if err != nil {
		return nil, err
	}

	var matched []model.Manifest
	for _, m := range manifests {
		for _, sha := range m.GitCommits {
			if wanted[sha] {
				matched = append(matched, m)
				break
			}
		}
	}
	sortByCreatedAtDesc(matched)
	return matched, nil
}
