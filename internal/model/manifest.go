package model

import "time"

// CaptureMode records how a session's data was produced.
type CaptureMode string

const (
	CaptureModeWrapper CaptureMode = "wrapper"
	CaptureModeImport  CaptureMode = "import"
	CaptureModeSDK     CaptureMode = "sdk"
)

// AgentInfo identifies the agent that produced a session.
type AgentInfo struct {
	Name    string  `json:"name"`
	Model   *string `json:"model,omitempty"`
	Version *string `json:"version,omitempty"`
}

// Manifest is the compact metadata stored as manifest.json.
type Manifest struct {
	ID          EngramID    `json:"id"`
	Version     uint32      `json:"version"`
	CreatedAt   time.Time   `json:"created_at"`
	FinishedAt  *time.Time  `json:"finished_at,omitempty"`
	Agent       AgentInfo   `json:"agent"`
	GitCommits  []string    `json:"git_commits"`
	TokenUsage  TokenUsage  `json:"token_usage"`
	Summary     *string     `json:"summary,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	CaptureMode CaptureMode `json:"capture_mode"`
	SourceHash  *string     `json:"source_hash,omitempty"`
}
