package capture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTakeSnapshotRespectsGitignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("ignored.txt\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tracked.txt"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("skip me"), 0644))

	snap, err := TakeSnapshot(dir)
	require.NoError(t, err)

	_, hasTracked := snap["tracked.txt"]
	_, hasIgnored := snap["ignored.txt"]
	require.True(t, hasTracked)
	require.False(t, hasIgnored)
}

func TestDiffSnapshotsDetectsCreateModifyDelete(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("v1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "remove.txt"), []byte("bye"), 0644))

	before, err := TakeSnapshot(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("v2"), 0644))
	require.NoError(t, os.Remove(filepath.Join(dir, "remove.txt")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("fresh"), 0644))

	after, err := TakeSnapshot(dir)
	require.NoError(t, err)

	changes := DiffSnapshots(before, after)
	byPath := make(map[string]string)
	for _, c := range changes {
		byPath[c.Path] = string(c.ChangeType)
	}
	require.Equal(t, "modified", byPath["keep.txt"])
	require.Equal(t, "deleted", byPath["remove.txt"])
	require.Equal(t, "created", byPath["new.txt"])
}

func TestDetectRenamesFoldsDeleteCreatePair(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.txt"), []byte("same content"), 0644))

	before, err := TakeSnapshot(dir)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "old.txt")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("same content"), 0644))

	after, err := TakeSnapshot(dir)
	require.NoError(t, err)

	changes := DiffSnapshots(before, after)
	changes = DetectRenames(before, after, changes)

	require.Len(t, changes, 1)
	require.Equal(t, "new.txt", changes[0].Path)
	require.Equal(t, "renamed", string(changes[0].ChangeType))
	require.Equal(t, "old.txt", changes[0].RenamedFrom)
}
