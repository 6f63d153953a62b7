package agentapi

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"

	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/storage"
)

func TestShowAndLog(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	store, err := storage.Open(dir)
	require.NoError(t, err)

	id, err := store.Create(&model.EngramData{
		Manifest: model.Manifest{Agent: model.AgentInfo{Name: "claude-code"}},
		Intent:   model.Intent{OriginalRequest: "Add OAuth2 authentication"},
	})
	require.NoError(t, err)

	server := NewServer(dir)

	log, err := server.Log(LogParams{})
	require.NoError(t, err)
	require.Contains(t, log, shortID(id))

	show, err := server.Show(ShowParams{ID: string(id)})
	require.NoError(t, err)
	require.Contains(t, show, "Add OAuth2 authentication")
}
