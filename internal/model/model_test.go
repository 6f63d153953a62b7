package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngramIDFanout(t *testing.T) {
	id := EngramID("abcdef1234567890abcdef1234567890")
	assert.Equal(t, "ab", id.Fanout())
	assert.Equal(t, "refs/engrams/ab/abcdef1234567890abcdef1234567890", id.RefName())
}

func TestEngramIDShortDoesNotPanic(t *testing.T) {
	assert.Equal(t, "00", EngramID("a").Fanout())
	assert.Equal(t, "00", EngramID("").Fanout())
}

func TestNewEngramIDLength(t *testing.T) {
	id := NewEngramID()
	assert.Len(t, id.String(), 32)
	assert.Len(t, id.Fanout(), 2)
}

func TestManifestSerdeRoundtrip(t *testing.T) {
	model := "claude-sonnet-4-5"
	version := "2.1.39"
	summary := "Implemented OAuth2"
	cost := 0.23
	finished := time.Now().UTC()

	m := Manifest{
		ID:         NewEngramID(),
		Version:    1,
		CreatedAt:  time.Now().UTC(),
		FinishedAt: &finished,
		Agent: AgentInfo{
			Name:    "claude-code",
			Model:   &model,
			Version: &version,
		},
		GitCommits: []string{"abc123"},
		TokenUsage: TokenUsage{
			InputTokens:  1000,
			OutputTokens: 500,
			TotalTokens:  1500,
			CostUSD:      &cost,
		},
		Summary:     &summary,
		Tags:        []string{"auth"},
		CaptureMode: CaptureModeWrapper,
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var parsed Manifest
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, m.ID, parsed.ID)
	assert.Equal(t, m.Agent, parsed.Agent)
	assert.Equal(t, m.TokenUsage, parsed.TokenUsage)
	assert.Equal(t, m.CaptureMode, parsed.CaptureMode)
}

func TestIntentMarkdownRoundtrip(t *testing.T) {
	goal := "Implement OAuth2 with PKCE for the SPA"
	summary := "Implemented OAuth2 with custom middleware"
	intent := Intent{
		OriginalRequest: "Add OAuth2 authentication",
		InterpretedGoal: &goal,
		Summary:         &summary,
		DeadEnds: []DeadEnd{
			{Approach: "passport.js", Reason: "Middleware conflict with existing stack"},
			{Approach: "Auth0 SDK", Reason: "Added 2MB to bundle"},
		},
		Decisions: []Decision{
			{Description: "Custom middleware", Rationale: "Full control over auth flow"},
		},
	}

	md := intent.ToMarkdown()
	parsed, err := ParseIntentMarkdown(md)
	require.NoError(t, err)

	assert.Equal(t, intent.OriginalRequest, parsed.OriginalRequest)
	assert.Equal(t, *intent.InterpretedGoal, *parsed.InterpretedGoal)
	assert.Equal(t, *intent.Summary, *parsed.Summary)
	require.Len(t, parsed.DeadEnds, 2)
	assert.Equal(t, intent.DeadEnds[0].Approach, parsed.DeadEnds[0].Approach)
	require.Len(t, parsed.Decisions, 1)
}

func TestMinimalIntent(t *testing.T) {
	intent := Intent{OriginalRequest: "Fix the bug"}
	md := intent.ToMarkdown()
	parsed, err := ParseIntentMarkdown(md)
	require.NoError(t, err)
	assert.Equal(t, intent.OriginalRequest, parsed.OriginalRequest)
	assert.Nil(t, parsed.InterpretedGoal)
	assert.Empty(t, parsed.DeadEnds)
}

func TestIntentAcceptsDeprecatedOriginalRequestHeading(t *testing.T) {
	md := "# Intent\n\n## Original Request\n\nLegacy heading body\n"
	parsed, err := ParseIntentMarkdown(md)
	require.NoError(t, err)
	assert.Equal(t, "Legacy heading body", parsed.OriginalRequest)
}

func sampleEntries() []TranscriptEntry {
	now := time.Now().UTC()
	count := uint64(50)
	return []TranscriptEntry{
		{Timestamp: now, Role: RoleUser, Content: NewTextContent("Add OAuth2 authentication")},
		{Timestamp: now, Role: RoleAssistant, Content: NewThinkingContent("Let me think..."), TokenCount: &count},
		{Timestamp: now, Role: RoleAssistant, Content: NewToolUseContent("Write", "toolu_123", json.RawMessage(`{"path":"src/auth.rs"}`))},
		{Timestamp: now, Role: RoleTool, Content: NewToolResultContent("toolu_123", "File written successfully", false)},
	}
}

func TestTranscriptJSONLRoundtrip(t *testing.T) {
	tr := &Transcript{Entries: sampleEntries()}
	jsonl, err := tr.ToJSONL()
	require.NoError(t, err)

	parsed, err := TranscriptFromJSONL(jsonl)
	require.NoError(t, err)
	require.Len(t, parsed.Entries, len(tr.Entries))
	for i, e := range tr.Entries {
		assert.Equal(t, e.Role, parsed.Entries[i].Role)
		assert.Equal(t, e.Content, parsed.Entries[i].Content)
	}
}

func TestEmptyTranscript(t *testing.T) {
	tr := &Transcript{}
	jsonl, err := tr.ToJSONL()
	require.NoError(t, err)
	parsed, err := TranscriptFromJSONL(jsonl)
	require.NoError(t, err)
	assert.Empty(t, parsed.Entries)
}

func TestTranscriptContentDiscriminant(t *testing.T) {
	enc, err := json.Marshal(NewTextContent("hello"))
	require.NoError(t, err)
	assert.Contains(t, string(enc), `"type":"text"`)

	enc, err = json.Marshal(NewToolUseContent("Bash", "id1", json.RawMessage(`{"command":"ls"}`)))
	require.NoError(t, err)
	assert.Contains(t, string(enc), `"type":"tool_use"`)
}

func TestFileChangeRenameVariant(t *testing.T) {
	change := FileChange{
		Path:        "src/new_auth.rs",
		ChangeType:  FileRenamed,
		RenamedFrom: "src/auth.rs",
	}
	enc, err := json.Marshal(change)
	require.NoError(t, err)
	assert.Contains(t, string(enc), "renamed")

	var parsed FileChange
	require.NoError(t, json.Unmarshal(enc, &parsed))
	assert.Equal(t, change, parsed)
}

func TestLineageSerdeRoundtrip(t *testing.T) {
	parent := EngramID("parent123")
	desc := "Previous auth attempt"
	branch := "feature/auth"
	lineage := Lineage{
		ParentEngram: &parent,
		ChildEngrams: []EngramID{"child456"},
		RelatedEngrams: []Relationship{
			{EngramID: "related789", RelationType: RelationFollowsFrom, Description: &desc},
		},
		GitCommits: []string{"abc123", "def456"},
		Branch:     &branch,
	}
	enc, err := json.Marshal(lineage)
	require.NoError(t, err)
	var parsed Lineage
	require.NoError(t, json.Unmarshal(enc, &parsed))
	assert.Equal(t, lineage, parsed)
}

func TestDefaultLineageOmitsEmptyFields(t *testing.T) {
	lineage := Lineage{}
	enc, err := json.Marshal(lineage)
	require.NoError(t, err)
	assert.NotContains(t, string(enc), "parent_engram")
	assert.NotContains(t, string(enc), "child_engrams")
}

func TestTokenUsageRecomputeAndAdd(t *testing.T) {
	a := TokenUsage{InputTokens: 100, OutputTokens: 50}
	a.Recompute()
	assert.Equal(t, uint64(150), a.TotalTokens)

	costA := 0.01
	a.CostUSD = &costA
	b := TokenUsage{InputTokens: 200, OutputTokens: 100}
	b.Recompute()
	costB := 0.02
	b.CostUSD = &costB

	a.Add(b)
	assert.Equal(t, uint64(300), a.InputTokens)
	assert.Equal(t, uint64(150), a.OutputTokens)
	assert.Equal(t, uint64(450), a.TotalTokens)
	require.NotNil(t, a.CostUSD)
	assert.InDelta(t, 0.03, *a.CostUSD, 1e-10)
}
