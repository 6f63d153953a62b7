package query

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"

	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	s, err := storage.Open(dir)
	require.NoError(t, err)
	return s
}

func TestTraceFileOrdersOldestFirst(t *testing.T) {
	s := newTestStore(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := &model.EngramData{
		Manifest:   model.Manifest{CreatedAt: start, Agent: model.AgentInfo{Name: "claude-code"}},
		Operations: model.Operations{FileChanges: []model.FileChange{{Path: "src/auth.rs", ChangeType: model.FileCreated}}},
	}
	_, err := s.Create(first)
	require.NoError(t, err)

	second := &model.EngramData{
		Manifest:   model.Manifest{CreatedAt: start.Add(time.Hour), Agent: model.AgentInfo{Name: "aider"}},
		Operations: model.Operations{FileChanges: []model.FileChange{{Path: "src/auth.rs", ChangeType: model.FileModified}}},
	}
	_, err = s.Create(second)
	require.NoError(t, err)

	touches, err := TraceFile(s, "src/auth.rs")
	require.NoError(t, err)
	require.Len(t, touches, 2)
	require.Equal(t, "claude-code", touches[0].Manifest.Agent.Name)
	require.Equal(t, "aider", touches[1].Manifest.Agent.Name)
}

func TestReviewMatchesCommitShas(t *testing.T) {
	s := newTestStore(t)

	data := &model.EngramData{
		Manifest: model.Manifest{Agent: model.AgentInfo{Name: "claude-code"}, GitCommits: []string{"abc123"}},
	}
	id, err := s.Create(data)
	require.NoError(t, err)

	other := &model.EngramData{Manifest: model.Manifest{GitCommits: []string{"zzz999"}}}
	_, err = s.Create(other)
	require.NoError(t, err)

	matched, err := Review(s, []string{"abc123"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, id, matched[0].ID)
}

func TestDiffReportsFileAndTagDeltas(t *testing.T) {
	s := newTestStore(t)

	a := &model.EngramData{
		Manifest: model.Manifest{Tags: []string{"auth"}, TokenUsage: model.TokenUsage{TotalTokens: 100}},
		Operations: model.Operations{FileChanges: []model.FileChange{
			{Path: "a.go", ChangeType: model.FileCreated},
			{Path: "shared.go", ChangeType: model.FileCreated},
		}},
	}
	idA, err := s.Create(a)
	require.NoError(t, err)

	b := &model.EngramData{
		Manifest: model.Manifest{Tags: []string{"refactor"}, TokenUsage: model.TokenUsage{TotalTokens: 150}},
		Operations: model.Operations{FileChanges: []model.FileChange{
			{Path: "b.go", ChangeType: model.FileCreated},
			{Path: "shared.go", ChangeType: model.FileModified},
		}},
	}
	idB, err := s.Create(b)
	require.NoError(t, err)

	diff, err := Diff(s, idA, idB)
	require.NoError(t, err)
	require.Equal(t, int64(50), diff.TokenDelta)
	require.Contains(t, diff.InBoth, "shared.go")
	require.Contains(t, diff.TagsAdded, "refactor")
	require.Contains(t, diff.TagsRemoved, "auth")
}

func TestBuildStatsAggregatesByAgent(t *testing.T) {
	s := newTestStore(t)

	cost := 0.05
	_, err := s.Create(&model.EngramData{Manifest: model.Manifest{
		Agent:      model.AgentInfo{Name: "claude-code"},
		TokenUsage: model.TokenUsage{TotalTokens: 100, CostUSD: &cost},
	}})
	require.NoError(t, err)
	_, err = s.Create(&model.EngramData{Manifest: model.Manifest{
		Agent:      model.AgentInfo{Name: "claude-code"},
		TokenUsage: model.TokenUsage{TotalTokens: 200},
	}})
	require.NoError(t, err)

	stats, err := BuildStats(s)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalEngrams)
	require.EqualValues(t, 300, stats.TotalTokens)
	require.Len(t, stats.ByAgent, 1)
	require.Equal(t, "claude-code", stats.ByAgent[0].Agent)
	require.Equal(t, 2, stats.ByAgent[0].SessionCount)
}

func TestBuildContextGraphWalksLineage(t *testing.T) {
	s := newTestStore(t)

	parentData := &model.EngramData{Manifest: model.Manifest{Agent: model.AgentInfo{Name: "claude-code"}}}
	parentID, err := s.Create(parentData)
	require.NoError(t, err)

	childData := &model.EngramData{
		Manifest: model.Manifest{Agent: model.AgentInfo{Name: "claude-code"}},
		Lineage:  model.Lineage{ParentEngram: &parentID},
	}
	childID, err := s.Create(childData)
	require.NoError(t, err)

	graph, err := BuildContextGraph(s, childID, 2)
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 2)

	dot := RenderDOT(graph)
	require.Contains(t, dot, "digraph engram_lineage")
}
