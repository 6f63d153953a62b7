package protocol

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/require"

	"github.com/AtticAIInc/engram/internal/storage"
)

func TestEnsureRefspecsAddsBothDirections(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"https://example.invalid/repo.git"}})
	require.NoError(t, err)

	store, err := storage.Open(dir)
	require.NoError(t, err)

	changed, err := EnsureRefspecs(store, "origin")
	require.NoError(t, err)
	require.True(t, changed)

	cfg, err := store.Repository().Storer.Config()
	require.NoError(t, err)
	rc := cfg.Remotes["origin"]
	require.Contains(t, rc.Fetch, config.RefSpec(FetchRefspec))
	require.Contains(t, rc.Push, config.RefSpec(PushRefspec))

	// Second call is a no-op.
	changed, err = EnsureRefspecs(store, "origin")
	require.NoError(t, err)
	require.False(t, changed)
}

func TestEnsureRefspecsUnknownRemote(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	store, err := storage.Open(dir)
	require.NoError(t, err)

	_, err = EnsureRefspecs(store, "nope")
	require.Error(t, err)
}
