package query

import (
	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/storage"
)

// RecordDiff is the structural comparison between two engrams: what changed
// in the files they touched, their token cost, and their tags.
type RecordDiff struct {
	A, B model.Manifest

	OnlyInA   []model.FileChange
	OnlyInB   []model.FileChange
	InBoth    []string // paths touched by both

	TokenDelta int64 // B.TotalTokens - A.TotalTokens
	CostDelta  float64 // B.CostUSD - A.CostUSD, a missing cost counting as zero
	TagsAdded  []string
	TagsRemoved []string
}

// Diff compares two engrams' EngramData by id.
func Diff(store *storage.Store, idA, idB model.EngramID) (*RecordDiff, error) {
	a, err := store.Get(idA)
	if err != nil {
		return nil, err
	}
	b, err := store.Get(idB)
	if err != nil {
		return nil, err
	}

	aPaths := make(map[string]model.FileChange)
	for _, c := range a.Operations.FileChanges {
		aPaths[c.Path] = c
	}
	bPaths := make(map[string]model.FileChange)
	for _, c := range b.Operations.FileChanges {
		bPaths[c.Path] = c
	}

	diff := &RecordDiff{
		A:          a.Manifest,
		B:          b.Manifest,
		TokenDelta: int64(b.Manifest.TokenUsage.TotalTokens) - int64(a.Manifest.TokenUsage.TotalTokens),
	}
	if c := b.Manifest.TokenUsage.CostUSD; c != nil {
		diff.CostDelta += *c
	}
	if c := a.Manifest.TokenUsage.CostUSD; c != nil {
		diff.CostDelta -= *c
	}

	for path, c := range aPaths {
		if _, ok := bPaths[path]; !ok {
			diff.OnlyInA = append(diff.OnlyInA, c)
		} else {
			diff.InBoth = append(diff.InBoth, path)
		}
	}
	for path, c := range bPaths {
		if _, ok := aPaths[path]; !ok {
			diff.OnlyInB = append(diff.OnlyInB, c)
		}
	}

	aTags := make(map[string]bool)
	for _, t := range a.Manifest.Tags {
		aTags[t] = true
	}
	bTags := make(map[string]bool)
	for _, t := range b.Manifest.Tags {
		bTags[t] = true
	}
	for t := range bTags {
		if !aTags[t] {
			diff.TagsAdded = append(diff.TagsAdded, t)
		}
	}
	for t := range aTags {
		if !bTags[t] {
			diff.TagsRemoved = append(diff.TagsRemoved, t)
		}
	}

	return diff, nil
}
