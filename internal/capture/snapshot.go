package capture

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/logging"
)

// maxSnapshotFileBytes bounds how much of any single file is hashed; larger
// files are still recorded (by size) but their content hash is skipped so a
// multi-gigabyte build artifact cannot stall a capture.
const maxSnapshotFileBytes = 10 * 1024 * 1024

// fileState is one tracked file's content hash at a point in time.
type fileState struct {
	hash string // hex sha256, or "" if the file was too large to hash
	size int64
}

// Snapshot is a working tree's tracked-file state at one point in time,
// keyed by path relative to the tree root.
type Snapshot map[string]fileState

// TakeSnapshot walks root, skipping the .git and .engram directories and
// anything matched by root's own .gitignore, hashing every regular file's
// content. Nested .gitignore files, .git/info/exclude and the global excludes
// file are not consulted. Entries that cannot be read or hashed are logged
// and left out; only a failure to read root itself is returned.
func TakeSnapshot(root string) (Snapshot, error) {
	ignore := loadGitignore(root)
	snap := make(Snapshot)
	log := logging.Get(logging.CategoryCapture)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warn("snapshot: skipping %s: %v", path, err)
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		if info.IsDir() {
			if info.Name() == ".git" || info.Name() == ".engram" {
				return filepath.SkipDir
			}
			if ignore != nil && ignore.MatchesPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignore != nil && ignore.MatchesPath(rel) {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		state := fileState{size: info.Size()}
		if info.Size() <= maxSnapshotFileBytes {
			hash, hashErr := hashFile(path)
			if hashErr != nil {
				log.Warn("snapshot: skipping unreadable %s: %v", path, hashErr)
				return nil
			}
			state.hash = hash
		}
		snap[filepath.ToSlash(rel)] = state
		return nil
	})
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindCapture, "walk working tree", err)
	}
	return snap, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// loadGitignore loads root/.gitignore if present; a missing file is not an
// error, it just means nothing is excluded beyond the .git and .engram
// directories.
func loadGitignore(root string) *gitignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	return gitignore.CompileIgnoreLines(lines...)
}
