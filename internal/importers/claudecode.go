package importers

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/model"
)

// ClaudeCodeImporter parses the JSONL session transcript format Claude Code
// writes under its project history directory: one JSON object per line,
// each carrying a "type" (user/assistant/system), a "message" with a role
// and either a plain string or an array of content blocks, and an optional
// per-turn token "usage" block.
type ClaudeCodeImporter struct{}

func (i *ClaudeCodeImporter) Name() string { return "claude-code" }

type claudeLine struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Message   claudeMessage   `json:"message"`
	Usage     *claudeUsage    `json:"usage"`
	UUID      string          `json:"uuid"`
	ParentUUID string         `json:"parentUuid"`
}

type claudeMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
	Model   string          `json:"model"`
}

type claudeUsage struct {
	InputTokens              uint64 `json:"input_tokens"`
	OutputTokens             uint64 `json:"output_tokens"`
	CacheReadInputTokens     uint64 `json:"cache_read_input_tokens"`
	CacheCreationInputTokens uint64 `json:"cache_creation_input_tokens"`
}

type claudeContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content"`
	IsError   bool            `json:"is_error"`
}

func (i *ClaudeCodeImporter) Detect(path string) bool {
	if !strings.HasSuffix(path, ".jsonl") {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var probe claudeLine
		if err := json.Unmarshal([]byte(line), &probe); err != nil {
			return false
		}
		return probe.Type == "user" || probe.Type == "assistant" || probe.Type == "system"
	}
	return false
}

func (i *ClaudeCodeImporter) Import(path string) (*model.EngramData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindImport, "open "+path, err)
	}
	defer f.Close()

	var entries []model.TranscriptEntry
	var toolCalls []model.ToolCall
	var usage model.TokenUsage
	var agentModel, originalRequest string
	var firstTS, lastTS time.Time

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var raw claudeLine
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			continue
		}
		if raw.Type != "user" && raw.Type != "assistant" {
			continue
		}
		ts := parseTimestamp(raw.Timestamp)
		if firstTS.IsZero() {
			firstTS = ts
		}
		lastTS = ts
		role := roleFromClaudeType(raw.Type)
		if raw.Message.Model != "" && agentModel == "" {
			agentModel = raw.Message.Model
		}
		if raw.Usage != nil {
			usage.InputTokens += raw.Usage.InputTokens
			usage.OutputTokens += raw.Usage.OutputTokens
			usage.CacheReadTokens += raw.Usage.CacheReadInputTokens
			usage.CacheWriteTokens += raw.Usage.CacheCreationInputTokens
		}

		blocks := decodeClaudeContent(raw.Message.Content)
		for _, block := range blocks {
			entry := model.TranscriptEntry{Timestamp: ts, Role: role}
			switch block.Type {
			case "text":
				entry.Content = model.NewTextContent(block.Text)
				if role == model.RoleUser && originalRequest == "" {
					originalRequest = block.Text
				}
			case "thinking":
				entry.Content = model.NewThinkingContent(block.Text)
			case "tool_use":
				entry.Content = model.NewToolUseContent(block.Name, block.ID, block.Input)
				toolCalls = append(toolCalls, model.ToolCall{
					Timestamp: ts,
					ToolName:  block.Name,
					Input:     block.Input,
				})
			case "tool_result":
				entry.Content = model.NewToolResultContent(block.ToolUseID, decodeToolResultText(block.Content), block.IsError)
			default:
				continue
			}
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, engramerr.Wrap(engramerr.KindImport, "scan "+path, err)
	}

	usage.Recompute()

	var agentModelPtr *string
	if agentModel != "" {
		agentModelPtr = &agentModel
	}

	data := &model.EngramData{
		Manifest: model.Manifest{
			CreatedAt:  firstTS,
			Agent:      model.AgentInfo{Name: "claude-code", Model: agentModelPtr},
			TokenUsage: usage,
		},
		Intent:     model.Intent{OriginalRequest: originalRequest},
		Transcript: model.Transcript{Entries: entries},
		Operations: model.Operations{ToolCalls: toolCalls},
	}

	if !lastTS.IsZero() {
		data.Manifest.FinishedAt = &lastTS
	}

	if err := finalizeManifest(data, path, "claude-code"); err != nil {
		return nil, err
	}
	return data, nil
}

func roleFromClaudeType(t string) model.Role {
	switch t {
	case "assistant":
		return model.RoleAssistant
	case "system":
		return model.RoleSystem
	default:
		return model.RoleUser
	}
}

// decodeClaudeContent normalizes message.content, which Claude Code writes
// as either a bare string (plain user text) or an array of typed blocks.
func decodeClaudeContent(raw json.RawMessage) []claudeContentBlock {
	if len(raw) == 0 {
		return nil
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "" {
			return nil
		}
		return []claudeContentBlock{{Type: "text", Text: asString}}
	}
	var blocks []claudeContentBlock
	if err := json.Unmarshal(raw, &blocks); err == nil {
		return blocks
	}
	return nil
}

func decodeToolResultText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	// tool_result content can itself be an array of text blocks.
	var blocks []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &blocks); err == nil {
		var b strings.Builder
		for _, blk := range blocks {
			b.WriteString(blk.Text)
		}
		return b.String()
	}
	return string(raw)
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Now().UTC()
}
