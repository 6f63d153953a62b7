package capture

import (
	"sort"

	"github.com/AtticAIInc/engram/internal/model"
)

// DiffSnapshots compares a working tree's state before and after a captured
// session and returns the FileChange list operations.json records, sorted
// by path. Renames are not detected here; a rename surfaces as a delete plus
// a create, which DetectRenames folds into one Renamed change when the two
// paths share a content hash.
func DiffSnapshots(before, after Snapshot) []model.FileChange {
	var changes []model.FileChange

	for path, afterState := range after {
		beforeState, existed := before[path]
		switch {
		case !existed:
			changes = append(changes, model.FileChange{
				Path:       path,
				ChangeType: model.FileCreated,
			})
		case afterState.hash != "" && beforeState.hash != "" && afterState.hash != beforeState.hash:
			changes = append(changes, model.FileChange{
				Path:       path,
				ChangeType: model.FileModified,
			})
		case afterState.hash == "" && afterState.size != beforeState.size:
			// Large file skipped content hashing; fall back to size comparison.
			changes = append(changes, model.FileChange{
				Path:       path,
				ChangeType: model.FileModified,
			})
		}
	}

	for path := range before {
		if _, stillExists := after[path]; !stillExists {
			changes = append(changes, model.FileChange{
				Path:       path,
				ChangeType: model.FileDeleted,
			})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

// DetectRenames upgrades delete+create pairs that share a content hash into
// a single Renamed FileChange, run as a post-process over DiffSnapshots'
// output once both snapshots are available.
func DetectRenames(before, after Snapshot, changes []model.FileChange) []model.FileChange {
	deletedByHash := make(map[string]string) // hash -> path
	for path, state := range before {
		if state.hash != "" {
			deletedByHash[state.hash] = path
		}
	}

	var out []model.FileChange
	consumed := make(map[string]bool)
	for _, c := range changes {
		if c.ChangeType != model.FileCreated {
			out = append(out, c)
			continue
		}
		afterState, ok := after[c.Path]
		if !ok || afterState.hash == "" {
			out = append(out, c)
			continue
		}
		fromPath, wasDeleted := deletedByHash[afterState.hash]
		if !wasDeleted || consumed[fromPath] {
			out = append(out, c)
			continue
		}
		consumed[fromPath] = true
		out = append(out, model.FileChange{
			Path:        c.Path,
			ChangeType:  model.FileRenamed,
			RenamedFrom: fromPath,
		})
	}

	// Drop the paired delete entries that were folded into a rename above.
	final := out[:0]
	for _, c := range out {
		if c.ChangeType == model.FileDeleted && consumed[c.Path] {
			continue
		}
		final = append(final, c)
	}
	return final
}
