package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ToolCall records one tool invocation.
type ToolCall struct {
	Timestamp      time.Time       `json:"timestamp"`
	ToolName       string          `json:"tool_name"`
	Input          json.RawMessage `json:"input"`
	OutputSummary  *string         `json:"output_summary,omitempty"`
	DurationMillis *uint64         `json:"duration_ms,omitempty"`
	IsError        bool            `json:"is_error,omitempty"`
}

// FileChangeKind discriminates the FileChange tagged variant.
type FileChangeKind string

const (
	FileCreated  FileChangeKind = "created"
	FileModified FileChangeKind = "modified"
	FileDeleted  FileChangeKind = "deleted"
	FileRenamed  FileChangeKind = "renamed"
)

// FileChange records one file-system mutation observed or imported.
type FileChange struct {
	Path         string         `json:"path"`
	ChangeType   FileChangeKind `json:"-"`
	RenamedFrom  string         `json:"-"`
	LinesAdded   *uint32        `json:"lines_added,omitempty"`
	LinesRemoved *uint32        `json:"lines_removed,omitempty"`
}

func (f FileChange) MarshalJSON() ([]byte, error) {
	type alias struct {
		Path         string  `json:"path"`
		ChangeType   any     `json:"change_type"`
		LinesAdded   *uint32 `json:"lines_added,omitempty"`
		LinesRemoved *uint32 `json:"lines_removed,omitempty"`
	}
	a := alias{Path: f.Path, LinesAdded: f.LinesAdded, LinesRemoved: f.LinesRemoved}
	if f.ChangeType == FileRenamed {
		a.ChangeType = struct {
			Kind string `json:"kind"`
			From string `json:"from"`
		}{"renamed", f.RenamedFrom}
	} else {
		a.ChangeType = string(f.ChangeType)
	}
	return json.Marshal(a)
}

func (f *FileChange) UnmarshalJSON(data []byte) error {
	var a struct {
		Path         string          `json:"path"`
		ChangeType   json.RawMessage `json:"change_type"`
		LinesAdded   *uint32         `json:"lines_added,omitempty"`
		LinesRemoved *uint32         `json:"lines_removed,omitempty"`
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	f.Path = a.Path
	f.LinesAdded = a.LinesAdded
	f.LinesRemoved = a.LinesRemoved

	var kindStr string
	if err := json.Unmarshal(a.ChangeType, &kindStr); err == nil {
		f.ChangeType = FileChangeKind(kindStr)
		return nil
	}
	var renamed struct {
		Kind string `json:"kind"`
		From string `json:"from"`
	}
	if err := json.Unmarshal(a.ChangeType, &renamed); err != nil {
		return fmt.Errorf("model: invalid change_type: %w", err)
	}
	f.ChangeType = FileRenamed
	f.RenamedFrom = renamed.From
	return nil
}

// ShellCommand records one shell command execution.
type ShellCommand struct {
	Timestamp      time.Time `json:"timestamp"`
	Command        string    `json:"command"`
	ExitCode       *int      `json:"exit_code,omitempty"`
	DurationMillis *uint64   `json:"duration_ms,omitempty"`
}

// Operations is the ordered record of tool calls, file changes, and shell
// commands, serialized as operations.json.
type Operations struct {
	ToolCalls     []ToolCall     `json:"tool_calls,omitempty"`
	FileChanges   []FileChange   `json:"file_changes,omitempty"`
	ShellCommands []ShellCommand `json:"shell_commands,omitempty"`
}
