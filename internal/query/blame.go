package query

import (
	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/storage"
)

// BlameEntry attributes file path's most recent touch to the engram
// responsible for it, the unit engram blame renders one line per.
type BlameEntry struct {
	Manifest   model.Manifest
	ChangeType model.FileChangeKind
}

// BlameFile returns, for filePath, the single most recent engram to have
// touched it - the "who last changed this and why" query. It does not walk
// back through renames to earlier paths; BlameHistory does that.
func BlameFile(store *storage.Store, filePath string) (*BlameEntry, error) {
	touches, err := TraceFile(store, filePath)
	if err != nil {
		return nil, err
	}
	if len(touches) == 0 {
		return nil, nil
	}
	last := touches[len(touches)-1]
	return &BlameEntry{Manifest: last.Manifest, ChangeType: last.Change.ChangeType}, nil
}

// BlameHistory returns the full chain of engrams that touched filePath,
// following renames backward to the path's earliest known name.
func BlameHistory(store *storage.Store, filePath string) ([]BlameEntry, error) {
	current := filePath
	seen := make(map[string]bool)
	var history []BlameEntry

	for current != "" && !seen[current] {
		seen[current] = true
		touches, err := TraceFile(store, current)
		if err != nil {
			return nil, err
		}
		var renameSource string
		for _, t := range touches {
			history = append(history, BlameEntry{Manifest: t.Manifest, ChangeType: t.Change.ChangeType})
			if t.Change.ChangeType == model.FileRenamed && t.Change.RenamedFrom != "" {
				renameSource = t.Change.RenamedFrom
			}
		}
		current = renameSource
	}
	return history, nil
}
