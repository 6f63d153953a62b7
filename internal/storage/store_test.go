package storage

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"

	"github.com/AtticAIInc/engram/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	s, err := Open(dir)
	require.NoError(t, err)
	return s
}

func sampleData() *model.EngramData {
	return &model.EngramData{
		Manifest: model.Manifest{
			Agent:       model.AgentInfo{Name: "claude-code"},
			CaptureMode: model.CaptureModeWrapper,
			Tags:        []string{"auth"},
		},
		Intent: model.Intent{OriginalRequest: "Add OAuth2 authentication"},
	}
}

func TestCreateAndGetRoundtrip(t *testing.T) {
	s := newTestStore(t)
	data := sampleData()

	id, err := s.Create(data)
	require.NoError(t, err)
	require.Len(t, string(id), 32)

	got, err := s.Get(id)
	require.NoError(t, err)
	require.Equal(t, id, got.Manifest.ID)
	require.Equal(t, "claude-code", got.Manifest.Agent.Name)
	require.Equal(t, "Add OAuth2 authentication", got.Intent.OriginalRequest)
}

func TestResolveByShortPrefix(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Create(sampleData())
	require.NoError(t, err)

	resolved, err := s.Resolve(string(id)[:8])
	require.NoError(t, err)
	require.Equal(t, id, resolved)
}

func TestResolveNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Create(sampleData())
	require.NoError(t, err)

	_, err = s.Resolve("ffffffff")
	require.Error(t, err)
}

func TestListFiltersByAgentAndTag(t *testing.T) {
	s := newTestStore(t)

	a := sampleData()
	a.Manifest.Agent.Name = "claude-code"
	a.Manifest.Tags = []string{"auth"}
	_, err := s.Create(a)
	require.NoError(t, err)

	b := sampleData()
	b.Manifest.Agent.Name = "aider"
	b.Manifest.Tags = []string{"refactor"}
	_, err = s.Create(b)
	require.NoError(t, err)

	byAgent, err := s.List(ListFilter{Agent: "claude-code"})
	require.NoError(t, err)
	require.Len(t, byAgent, 1)
	require.Equal(t, "claude-code", byAgent[0].Agent.Name)

	byTag, err := s.List(ListFilter{Tag: "refactor"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	require.Equal(t, "aider", byTag[0].Agent.Name)
}

func TestDeleteRemovesRefNotLookup(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Create(sampleData())
	require.NoError(t, err)

	require.NoError(t, s.Delete(id))

	_, err = s.Get(id)
	require.Error(t, err)
}

func TestHeadPointerTracksMostRecentCreate(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Create(sampleData())
	require.NoError(t, err)

	head, ok, err := s.ReadHeadPointer()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, id, head)
}

func TestFindBySourceHash(t *testing.T) {
	s := newTestStore(t)
	data := sampleData()
	hash := "deadbeef"
	data.Manifest.SourceHash = &hash
	id, err := s.Create(data)
	require.NoError(t, err)

	found, ok, err := s.FindBySourceHash(hash)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, string(id), found)

	_, ok, err = s.FindBySourceHash("nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCreateAssignsIDWhenEmpty(t *testing.T) {
	s := newTestStore(t)
	data := sampleData()
	require.Empty(t, data.Manifest.ID)

	id, err := s.Create(data)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, id, data.Manifest.ID)
}
