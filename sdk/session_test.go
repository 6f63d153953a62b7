package sdk

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/storage"
)

func TestSessionBuild(t *testing.T) {
	claudeModel := "claude-sonnet-4-5"
	s := Begin("claude-code", &claudeModel).
		Goal("Add OAuth2 authentication").
		LogMessage(model.RoleUser, "Add OAuth2 authentication").
		LogToolCall("Write", "toolu_1", []byte(`{"path":"src/auth.rs"}`)).
		AddTokens(model.TokenUsage{InputTokens: 2000, OutputTokens: 300})

	data := s.Build(nil, nil)

	assert.Equal(t, "claude-code", data.Manifest.Agent.Name)
	assert.Equal(t, model.CaptureModeSDK, data.Manifest.CaptureMode)
	assert.EqualValues(t, 2300, data.Manifest.TokenUsage.TotalTokens)
	assert.Len(t, data.Operations.ToolCalls, 1)
}

func TestAccumulateTokens(t *testing.T) {
	s := Begin("claude-code", nil)

	costA := 0.01
	tokensA := model.TokenUsage{InputTokens: 100, OutputTokens: 50, CostUSD: &costA}
	costB := 0.02
	tokensB := model.TokenUsage{InputTokens: 200, OutputTokens: 100, CostUSD: &costB}

	s.AddTokens(tokensA).AddTokens(tokensB)
	data := s.Build(nil, nil)

	assert.EqualValues(t, 300, data.Manifest.TokenUsage.InputTokens)
	assert.EqualValues(t, 150, data.Manifest.TokenUsage.OutputTokens)
	assert.EqualValues(t, 450, data.Manifest.TokenUsage.TotalTokens)
	require.NotNil(t, data.Manifest.TokenUsage.CostUSD)
	assert.InDelta(t, 0.03, *data.Manifest.TokenUsage.CostUSD, 1e-9)
}

func TestSessionStore(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	store, err := storage.Open(dir)
	require.NoError(t, err)

	summary := "Implemented OAuth2"
	s := Begin("claude-code", nil).
		Goal("Add OAuth2 authentication").
		LogRejection("passport.js", "middleware conflict").
		LogDecision("custom middleware", "full control over auth flow")

	id, err := s.Commit(store, []string{"abc123"}, &summary)
	require.NoError(t, err)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, summary, *got.Manifest.Summary)
	assert.Equal(t, "Add OAuth2 authentication", got.Intent.OriginalRequest)
	require.Len(t, got.Intent.DeadEnds, 1)
	require.Len(t, got.Intent.Decisions, 1)
}
