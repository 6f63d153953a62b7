package importers

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/model"
)

// genericEntry is the minimal shape the generic importer accepts: any tool
// or hand-written log that can produce a JSON array of {role, content,
// timestamp?} objects, for agents with no dedicated importer.
type genericEntry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// GenericJSONImporter is the fallback for any agent log that is a bare JSON
// array of role/content pairs - the lowest common denominator every
// scripted or homegrown agent harness can emit.
type GenericJSONImporter struct{}

func (i *GenericJSONImporter) Name() string { return "generic" }

func (i *GenericJSONImporter) Detect(path string) bool {
	if !strings.HasSuffix(path, ".json") {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var entries []genericEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return false
	}
	return len(entries) > 0 && entries[0].Role != ""
}

func (i *GenericJSONImporter) Import(path string) (*model.EngramData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindImport, "read "+path, err)
	}
	var parsed []genericEntry
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, engramerr.Wrap(engramerr.KindImport, "parse "+path, err)
	}

	entries := make([]model.TranscriptEntry, 0, len(parsed))
	var goal string
	for _, e := range parsed {
		role := model.Role(strings.ToLower(e.Role))
		switch role {
		case model.RoleUser, model.RoleAssistant, model.RoleSystem, model.RoleTool:
		default:
			role = model.RoleUser
		}
		if goal == "" && role == model.RoleUser {
			goal = e.Content
		}
		entries = append(entries, model.TranscriptEntry{
			Timestamp: parseTimestamp(e.Timestamp),
			Role:      role,
			Content:   model.NewTextContent(e.Content),
		})
	}

	data := &model.EngramData{
		Manifest:   model.Manifest{Agent: model.AgentInfo{Name: "unknown"}, CreatedAt: time.Now().UTC()},
		Intent:     model.Intent{OriginalRequest: goal},
		Transcript: model.Transcript{Entries: entries},
	}
	if err := finalizeManifest(data, path, "unknown"); err != nil {
		return nil, err
	}
	return data, nil
}
