package model

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role is the speaker of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ContentType discriminates TranscriptContent's tagged variants.
type ContentType string

const (
	ContentText       ContentType = "text"
	ContentToolUse    ContentType = "tool_use"
	ContentToolResult ContentType = "tool_result"
	ContentThinking   ContentType = "thinking"
)

// TranscriptContent is a tagged union over the four kinds of transcript
// payload. Go has no native sum type, so this is a struct with a Type
// discriminant and pointer-typed optional fields; MarshalJSON/UnmarshalJSON
// enforce that only the fields belonging to Type are ever populated.
type TranscriptContent struct {
	Type ContentType

	// ContentText
	Text string

	// ContentToolUse
	ToolName string
	ToolID   string
	Input    json.RawMessage

	// ContentToolResult (ToolID shared with ContentToolUse)
	Output  string
	IsError bool
}

// NewTextContent builds a text transcript content entry.
func NewTextContent(text string) TranscriptContent {
	return TranscriptContent{Type: ContentText, Text: text}
}

// NewThinkingContent builds a thinking transcript content entry.
func NewThinkingContent(text string) TranscriptContent {
	return TranscriptContent{Type: ContentThinking, Text: text}
}

// NewToolUseContent builds a tool-invocation transcript content entry.
func NewToolUseContent(toolName, toolID string, input json.RawMessage) TranscriptContent {
	return TranscriptContent{Type: ContentToolUse, ToolName: toolName, ToolID: toolID, Input: input}
}

// NewToolResultContent builds a tool-result transcript content entry.
func NewToolResultContent(toolID, output string, isError bool) TranscriptContent {
	return TranscriptContent{Type: ContentToolResult, ToolID: toolID, Output: output, IsError: isError}
}

func (c TranscriptContent) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case ContentText:
		return json.Marshal(struct {
			Type ContentType `json:"type"`
			Text string      `json:"text"`
		}{c.Type, c.Text})
	case ContentThinking:
		return json.Marshal(struct {
			Type ContentType `json:"type"`
			Text string      `json:"text"`
		}{c.Type, c.Text})
	case ContentToolUse:
		input := c.Input
		if input == nil {
			input = json.RawMessage("null")
		}
		return json.Marshal(struct {
			Type     ContentType     `json:"type"`
			ToolName string          `json:"tool_name"`
			ToolID   string          `json:"tool_id"`
			Input    json.RawMessage `json:"input"`
		}{c.Type, c.ToolName, c.ToolID, input})
	case ContentToolResult:
		return json.Marshal(struct {
			Type    ContentType `json:"type"`
			ToolID  string      `json:"tool_id"`
			Output  string      `json:"output"`
			IsError bool        `json:"is_error"`
		}{c.Type, c.ToolID, c.Output, c.IsError})
	default:
		return nil, fmt.Errorf("model: unknown transcript content type %q", c.Type)
	}
}

func (c *TranscriptContent) UnmarshalJSON(data []byte) error {
	var head struct {
		Type ContentType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	switch head.Type {
	case ContentText, ContentThinking:
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = TranscriptContent{Type: head.Type, Text: v.Text}
	case ContentToolUse:
		var v struct {
			ToolName string          `json:"tool_name"`
			ToolID   string          `json:"tool_id"`
			Input    json.RawMessage `json:"input"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = TranscriptContent{Type: head.Type, ToolName: v.ToolName, ToolID: v.ToolID, Input: v.Input}
	case ContentToolResult:
		var v struct {
			ToolID  string `json:"tool_id"`
			Output  string `json:"output"`
			IsError bool   `json:"is_error"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = TranscriptContent{Type: head.Type, ToolID: v.ToolID, Output: v.Output, IsError: v.IsError}
	default:
		return fmt.Errorf("model: unknown transcript content type %q", head.Type)
	}
	return nil
}

// TranscriptEntry is a single line of transcript.jsonl.
type TranscriptEntry struct {
	Timestamp  time.Time         `json:"timestamp"`
	Role       Role              `json:"role"`
	Content    TranscriptContent `json:"content"`
	TokenCount *uint64           `json:"token_count,omitempty"`
}

// Transcript is the full ordered sequence of entries.
type Transcript struct {
	Entries []TranscriptEntry
}

// ToJSONL serializes the transcript, one JSON object per line.
func (t *Transcript) ToJSONL() ([]byte, error) {
	var buf bytes.Buffer
	for _, entry := range t.Entries {
		enc, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		buf.Write(enc)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// TranscriptFromJSONL parses a JSONL document, skipping empty lines.
func TranscriptFromJSONL(data []byte) (*Transcript, error) {
	var entries []TranscriptEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry TranscriptEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("model: invalid transcript entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Transcript{Entries: entries}, nil
}
