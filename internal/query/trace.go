package query

import (
	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/storage"
)

// FileTouch is one engram's interaction with a given file path.
type FileTouch struct {
	Manifest model.Manifest
	Change   model.FileChange
}

// TraceFile returns every engram that created, modified, deleted, or
// renamed filePath, oldest first, so a reader can follow a file's whole
// history of agent-driven changes in order.
func TraceFile(store *storage.Store, filePath string) ([]FileTouch, error) {
	manifests, err := store.List(storage.ListFilter{})
	if err != nil {
		return nil, err
	}

	var touches []FileTouch
	for _, m := range manifests {
		data, err := store.Get(m.ID)
		if err != nil {
			continue
		}
		for _, change := range data.Operations.FileChanges {
			if change.Path == filePath || change.RenamedFrom == filePath {
				touches = append(touches, FileTouch{Manifest: m, Change: change})
			}
		}
	}

	// store.List already sorts newest-first; trace reads oldest-first.
	for i, j := 0, len(touches)-1; i < j; i, j = i+1, j-1 {
		touches[i], touches[j] = touches[j], touches[i]
	}
	return touches, nil
}
