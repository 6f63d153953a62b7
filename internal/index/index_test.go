package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AtticAIInc/engram/internal/model"
)

func sampleData(agent, request string) *model.EngramData {
	return &model.EngramData{
		Manifest: model.Manifest{
			ID:    model.NewEngramID(),
			Agent: model.AgentInfo{Name: agent},
			Tags:  []string{"auth"},
		},
		Intent: model.Intent{OriginalRequest: request},
		Transcript: model.Transcript{Entries: []model.TranscriptEntry{
			{Role: model.RoleAssistant, Content: model.NewTextContent(request + " implemented with PKCE")},
		}},
	}
}

func TestAddAndSearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx.bleve")
	idx, err := Open(path)
	require.NoError(t, err)
	defer idx.Close()

	data := sampleData("claude-code", "Add OAuth2 authentication")
	require.NoError(t, idx.Add(data))

	count, err := idx.DocCount()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	hits, err := idx.Search("OAuth2", SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	require.Equal(t, string(data.Manifest.ID), hits[0].ID)
}

func TestSearchFiltersByAgent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx.bleve")
	idx, err := Open(path)
	require.NoError(t, err)
	defer idx.Close()

	a := sampleData("claude-code", "Add OAuth2 authentication")
	b := sampleData("aider", "Add OAuth2 refresh tokens")
	require.NoError(t, idx.Add(a))
	require.NoError(t, idx.Add(b))

	hits, err := idx.Search("OAuth2", SearchOptions{Agent: "aider"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, string(b.Manifest.ID), hits[0].ID)
}

func TestDeleteRemovesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx.bleve")
	idx, err := Open(path)
	require.NoError(t, err)
	defer idx.Close()

	data := sampleData("claude-code", "Add OAuth2 authentication")
	require.NoError(t, idx.Add(data))
	require.NoError(t, idx.Delete(data.Manifest.ID))

	count, err := idx.DocCount()
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}
