package importers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AtticAIInc/engram/internal/model"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestClaudeCodeDetectAndImport(t *testing.T) {
	lines := `{"type":"user","timestamp":"2026-01-01T00:00:00Z","message":{"role":"user","content":"Add OAuth2 authentication"}}
{"type":"assistant","timestamp":"2026-01-01T00:00:01Z","message":{"role":"assistant","model":"claude-sonnet-4-5","content":[{"type":"text","text":"Sure, let me look."},{"type":"tool_use","id":"toolu_1","name":"Read","input":{"path":"src/auth.rs"}}]},"usage":{"input_tokens":100,"output_tokens":50}}
{"type":"user","timestamp":"2026-01-01T00:00:02Z","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"toolu_1","content":"file contents"}]}}
`
	path := writeTemp(t, "transcript.jsonl", lines)

	imp := &ClaudeCodeImporter{}
	require.True(t, imp.Detect(path))

	data, err := imp.Import(path)
	require.NoError(t, err)
	require.Equal(t, "claude-code", data.Manifest.Agent.Name)
	require.NotNil(t, data.Manifest.Agent.Model)
	require.Equal(t, "claude-sonnet-4-5", *data.Manifest.Agent.Model)
	require.Equal(t, model.CaptureModeImport, data.Manifest.CaptureMode)
	require.NotNil(t, data.Manifest.SourceHash)
	require.EqualValues(t, 100, data.Manifest.TokenUsage.InputTokens)
	require.EqualValues(t, 50, data.Manifest.TokenUsage.OutputTokens)
	require.Len(t, data.Operations.ToolCalls, 1)
	require.Equal(t, "Read", data.Operations.ToolCalls[0].ToolName)
}

func TestAiderDetectAndImport(t *testing.T) {
	md := "# aider chat started\n\n#### Add input validation\n\nI'll add validation to the handler.\n\nsrc/handler.go\n```go\n<<<<<<< SEARCH\nfunc Handle() {}\n=======\nfunc Handle() { validate() }\n>>>>>>> REPLACE\n```\n"
	path := writeTemp(t, "chat.aider.chat.history.md", md)

	imp := &AiderImporter{}
	require.True(t, imp.Detect(path))

	data, err := imp.Import(path)
	require.NoError(t, err)
	require.Equal(t, "aider", data.Manifest.Agent.Name)
	require.Equal(t, "Add input validation", data.Intent.OriginalRequest)
	require.NotEmpty(t, data.Operations.FileChanges)
}

func TestGenericJSONDetectAndImport(t *testing.T) {
	payload := `[{"role":"user","content":"Fix the bug","timestamp":"2026-01-01T00:00:00Z"},{"role":"assistant","content":"Fixed it."}]`
	path := writeTemp(t, "session.json", payload)

	imp := &GenericJSONImporter{}
	require.True(t, imp.Detect(path))

	data, err := imp.Import(path)
	require.NoError(t, err)
	require.Equal(t, "Fix the bug", data.Intent.OriginalRequest)
	require.Len(t, data.Transcript.Entries, 2)
}

func TestAutoDetectPicksClaudeCodeOverGeneric(t *testing.T) {
	path := writeTemp(t, "t.jsonl", `{"type":"user","message":{"role":"user","content":"hi"}}`+"\n")
	imp, err := AutoDetect(path)
	require.NoError(t, err)
	require.Equal(t, "claude-code", imp.Name())
}

func TestAutoDetectNoMatch(t *testing.T) {
	path := writeTemp(t, "plain.txt", "just some text")
	_, err := AutoDetect(path)
	require.Error(t, err)
}
