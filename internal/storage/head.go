package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/AtticAIInc/engram/internal/model"
)

// headFileName holds the most recently created engram's id, so the common
// case of "show me the last session" avoids a full ref scan.
const headFileName = "engram-head"

func headPath(workspace string) string {
	return filepath.Join(workspace, ".engram", headFileName)
}

// writeHeadPointer atomically records id as the most recently created engram.
func writeHeadPointer(workspace string, id model.EngramID) error {
	dir := filepath.Join(workspace, ".engram")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := headPath(workspace)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(string(id)+"\n"), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadHeadPointer returns the last-created engram's id, if any.
func (s *Store) ReadHeadPointer() (model.EngramID, bool, error) {
	data, err := os.ReadFile(headPath(s.workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", false, nil
	}
	return model.EngramID(id), true, nil
}
