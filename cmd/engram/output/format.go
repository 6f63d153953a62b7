// Package output implements engram CLI's text/json rendering conventions:
// a short-id (first 8 hex chars) bullet list by default, or the full
// machine-readable manifest as JSON when the global --json flag is passed.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/AtticAIInc/engram/internal/model"
)

// Format selects how CLI commands render their results.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a --format flag value, defaulting to text.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON
	case FormatMarkdown:
		return FormatMarkdown
	default:
		return FormatText
	}
}

// ShortID renders the first 8 hex characters of an engram id.
func ShortID(id model.EngramID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func agentTag(agent model.AgentInfo) string {
	if agent.Model != nil && *agent.Model != "" {
		return fmt.Sprintf("[%s/%s]", agent.Name, *agent.Model)
	}
	return fmt.Sprintf("[%s]", agent.Name)
}

// ManifestList writes one bullet line per manifest in text mode, or the
// full JSON array in json mode.
func ManifestList(w io.Writer, format Format, manifests []model.Manifest) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(manifests)
	}

	if len(manifests) == 0 {
		fmt.Fprintln(w, "No captured sessions.")
		return nil
	}
	for _, m := range manifests {
		fmt.Fprintf(w, "◆ %s %s %s", ShortID(m.ID), agentTag(m.Agent), m.CreatedAt.Format("2006-01-02 15:04"))
		if m.Summary != nil && *m.Summary != "" {
			fmt.Fprintf(w, " - %s", *m.Summary)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// EngramFull writes a full single-engram rendering.
func EngramFull(w io.Writer, format Format, data *model.EngramData) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	m := data.Manifest
	fmt.Fprintf(w, "◆ %s %s\n", ShortID(m.ID), agentTag(m.Agent))
	fmt.Fprintf(w, "created: %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"))
	if m.FinishedAt != nil {
		fmt.Fprintf(w, "finished: %s\n", m.FinishedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "capture mode: %s\n", m.CaptureMode)
	if len(m.Tags) > 0 {
		fmt.Fprintf(w, "tags: %s\n", strings.Join(m.Tags, ", "))
	}
	fmt.Fprintf(w, "\nIntent:\n%s\n", data.Intent.OriginalRequest)
	if data.Intent.InterpretedGoal != nil {
		fmt.Fprintf(w, "\nInterpreted goal:\n%s\n", *data.Intent.InterpretedGoal)
	}
	if m.Summary != nil {
		fmt.Fprintf(w, "\nSummary:\n%s\n", *m.Summary)
	}
	if len(data.Intent.DeadEnds) > 0 {
		fmt.Fprintf(w, "\nDead ends:\n")
		for _, de := range data.Intent.DeadEnds {
			fmt.Fprintf(w, "  - %s: %s\n", de.Approach, de.Reason)
		}
	}
	if len(data.Operations.FileChanges) > 0 {
		fmt.Fprintf(w, "\nFiles touched (%d):\n", len(data.Operations.FileChanges))
		for _, c := range data.Operations.FileChanges {
			fmt.Fprintf(w, "  %s %s\n", c.ChangeType, c.Path)
		}
	}
	fmt.Fprintf(w, "\nTokens: %d\n", m.TokenUsage.TotalTokens)
	return nil
}
