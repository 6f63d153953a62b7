package summary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtticAIInc/engram/internal/config"
	"github.com/AtticAIInc/engram/internal/model"
)

func TestSummarizeDisabledReturnsUnavailableWithoutError(t *testing.T) {
	data := &model.EngramData{
		Intent: model.Intent{OriginalRequest: "add auth middleware"},
	}

	text, err := Summarize(context.Background(), config.SummaryConfig{Enabled: false}, data)
	require.NoError(t, err)
	assert.Equal(t, Unavailable, text)
}

func TestSummarizeUnknownProviderErrors(t *testing.T) {
	data := &model.EngramData{
		Intent: model.Intent{OriginalRequest: "add auth middleware"},
	}

	text, err := Summarize(context.Background(), config.SummaryConfig{Enabled: true, Provider: "not-a-provider"}, data)
	require.Error(t, err)
	assert.Equal(t, Unavailable, text)
}

func TestBuildPromptIncludesDeadEndsAndDecisions(t *testing.T) {
	data := &model.EngramData{
		Intent: model.Intent{
			OriginalRequest: "add auth middleware",
			DeadEnds:        []model.DeadEnd{{Approach: "passport.js", Reason: "conflict"}},
			Decisions:       []model.Decision{{Description: "custom middleware", Rationale: "more control"}},
		},
	}

	prompt := buildPrompt(data)
	assert.Contains(t, prompt, "add auth middleware")
	assert.Contains(t, prompt, "passport.js")
	assert.Contains(t, prompt, "custom middleware")
}
