package importers

import (
	"os"
	"strings"
	"time"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/model"
)

// AiderImporter parses Aider's .aider.chat.history.md format: a markdown
// transcript where each turn is introduced by a "#### " heading for the
// user's message, followed by the assistant's reply as ordinary text, with
// any SEARCH/REPLACE diff blocks fenced in ```.
type AiderImporter struct{}

func (i *AiderImporter) Name() string { return "aider" }

func (i *AiderImporter) Detect(path string) bool {
	if !strings.HasSuffix(path, ".md") {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	text := string(data)
	return strings.Contains(text, "#### ") &&
		(strings.Contains(text, "<<<<<<< SEARCH") || strings.Contains(text, "aider chat"))
}

func (i *AiderImporter) Import(path string) (*model.EngramData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindImport, "read "+path, err)
	}

	var entries []model.TranscriptEntry
	var fileChanges []model.FileChange
	seenPaths := make(map[string]bool)

	lines := strings.Split(string(data), "\n")
	now := time.Now().UTC()

	var role model.Role = model.RoleAssistant
	var buf strings.Builder

	flush := func() {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		if text == "" {
			return
		}
		entries = append(entries, model.TranscriptEntry{
			Timestamp: now,
			Role:      role,
			Content:   model.NewTextContent(text),
		})
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "#### "):
			flush()
			role = model.RoleUser
			buf.WriteString(strings.TrimPrefix(line, "#### "))
			continue
		case strings.HasPrefix(line, "> "):
			// Aider's own command echoes ("> /add file.go") are noise, skip.
			continue
		case strings.Contains(line, "```"):
			continue
		}

		if path := extractAiderEditedPath(line); path != "" && !seenPaths[path] {
			seenPaths[path] = true
			fileChanges = append(fileChanges, model.FileChange{
				Path:       path,
				ChangeType: model.FileModified,
			})
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(line)

		if role == model.RoleUser && strings.TrimSpace(line) == "" {
			flush()
			role = model.RoleAssistant
		}
	}
	flush()

	goal := firstUserMessage(entries)

	data2 := &model.EngramData{
		Manifest:   model.Manifest{Agent: model.AgentInfo{Name: "aider"}},
		Intent:     model.Intent{OriginalRequest: goal},
		Transcript: model.Transcript{Entries: entries},
		Operations: model.Operations{FileChanges: fileChanges},
	}
	if err := finalizeManifest(data2, path, "aider"); err != nil {
		return nil, err
	}
	return data2, nil
}

// extractAiderEditedPath recognizes Aider's own "path/to/file.go" fence
// header lines (the filename Aider prints just above a SEARCH/REPLACE block).
func extractAiderEditedPath(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.Contains(trimmed, " ") {
		return ""
	}
	if !strings.Contains(trimmed, ".") {
		return ""
	}
	for _, suffix := range []string{".go", ".rs", ".py", ".js", ".ts", ".md", ".toml", ".yaml", ".yml", ".json"} {
		if strings.HasSuffix(trimmed, suffix) {
			return trimmed
		}
	}
	return ""
}

func firstUserMessage(entries []model.TranscriptEntry) string {
	for _, e := range entries {
		if e.Role == model.RoleUser && e.Content.Type == model.ContentText {
			return e.Content.Text
		}
	}
	return ""
}
