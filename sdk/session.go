// Package sdk is engram's programmatic capture API: a fluent builder an
// agent harness calls directly (no PTY, no wrapper process) to assemble and
// store a session as it runs.
package sdk

import (
	"time"

	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/storage"
)

// Session accumulates one in-progress engram session. It is not safe for
// concurrent use from multiple goroutines; callers driving concurrent tool
// calls should serialize their Log* calls themselves.
type Session struct {
	agentName    string
	agentModel   *string
	agentVersion *string
	parent       *model.EngramID
	tags         []string
	originalGoal string

	tokens model.TokenUsage

	entries     []model.TranscriptEntry
	toolCalls   []model.ToolCall
	fileChanges []model.FileChange
	shellCmds   []model.ShellCommand
	deadEnds    []model.DeadEnd
	decisions   []model.Decision

	startedAt time.Time
}

// Begin starts a new session for agentName, optionally recording the model
// it's running. Mirrors engram-sdk's EngramSession::begin.
func Begin(agentName string, agentModel *string) *Session {
	return &Session{
		agentName:  agentName,
		agentModel: agentModel,
		startedAt:  time.Now().UTC(),
	}
}

// AgentVersion records the agent harness's own version string.
func (s *Session) AgentVersion(version string) *Session {
	s.agentVersion = &version
	return s
}

// Parent links this session to the engram it continues from.
func (s *Session) Parent(id model.EngramID) *Session {
	s.parent = &id
	return s
}

// Tag adds a free-form tag.
func (s *Session) Tag(tag string) *Session {
	s.tags = append(s.tags, tag)
	return s
}

// Goal records the original request driving this session.
func (s *Session) Goal(text string) *Session {
	s.originalGoal = text
	return s
}

// LogMessage appends a user or assistant text turn. The first user turn also
// becomes the session's original request unless one is already set.
func (s *Session) LogMessage(role model.Role, text string) *Session {
	if role == model.RoleUser && s.originalGoal == "" {
		s.originalGoal = text
	}
	s.entries = append(s.entries, model.TranscriptEntry{
		Timestamp: time.Now().UTC(),
		Role:      role,
		Content:   model.NewTextContent(text),
	})
	return s
}

// LogToolCall appends a tool invocation to both the transcript and the
// structured operations log.
func (s *Session) LogToolCall(toolName, toolID string, input []byte) *Session {
	now := time.Now().UTC()
	s.entries = append(s.entries, model.TranscriptEntry{
		Timestamp: now,
		Role:      model.RoleAssistant,
		Content:   model.NewToolUseContent(toolName, toolID, input),
	})
	s.toolCalls = append(s.toolCalls, model.ToolCall{
		Timestamp: now,
		ToolName:  toolName,
		Input:     input,
	})
	return s
}

// LogFileChange appends a file mutation to the operations log.
func (s *Session) LogFileChange(change model.FileChange) *Session {
	s.fileChanges = append(s.fileChanges, change)
	return s
}

// LogShellCommand appends a shell command execution to the operations log.
func (s *Session) LogShellCommand(command string, exitCode *int, durationMillis *uint64) *Session {
	s.shellCmds = append(s.shellCmds, model.ShellCommand{
		Timestamp:      time.Now().UTC(),
		Command:        command,
		ExitCode:       exitCode,
		DurationMillis: durationMillis,
	})
	return s
}

// LogRejection records a dead end: an approach tried and abandoned.
func (s *Session) LogRejection(approach, reason string) *Session {
	s.deadEnds = append(s.deadEnds, model.DeadEnd{Approach: approach, Reason: reason})
	return s
}

// LogDecision records a chosen approach and its rationale.
func (s *Session) LogDecision(description, rationale string) *Session {
	s.decisions = append(s.decisions, model.Decision{Description: description, Rationale: rationale})
	return s
}

// AddTokens accumulates token usage across however many calls a harness
// makes over the session's lifetime; cost, when given on more than one
// call, sums as well.
func (s *Session) AddTokens(usage model.TokenUsage) *Session {
	s.tokens.Add(usage)
	return s
}

// Build finalizes the session into an EngramData without storing it,
// stamping the finish time, any commits made during the session, and an
// optional human-readable summary.
func (s *Session) Build(gitCommits []string, summary *string) *model.EngramData {
	finished := time.Now().UTC()
	s.tokens.Recompute()

	return &model.EngramData{
		Manifest: model.Manifest{
			CreatedAt:   s.startedAt,
			FinishedAt:  &finished,
			Agent:       model.AgentInfo{Name: s.agentName, Model: s.agentModel, Version: s.agentVersion},
			GitCommits:  gitCommits,
			TokenUsage:  s.tokens,
			Summary:     summary,
			Tags:        s.tags,
			CaptureMode: model.CaptureModeSDK,
		},
		Intent: model.Intent{
			OriginalRequest: s.originalGoal,
			Summary:         summary,
			DeadEnds:        s.deadEnds,
			Decisions:       s.decisions,
		},
		Transcript: model.Transcript{Entries: s.entries},
		Operations: model.Operations{
			ToolCalls:     s.toolCalls,
			FileChanges:   s.fileChanges,
			ShellCommands: s.shellCmds,
		},
		Lineage: model.Lineage{
			ParentEngram: s.parent,
			GitCommits:   gitCommits,
		},
	}
}

// Commit finalizes and stores the session in store, returning the new
// engram's id.
func (s *Session) Commit(store *storage.Store, gitCommits []string, summary *string) (model.EngramID, error) {
	return store.Create(s.Build(gitCommits, summary))
}
