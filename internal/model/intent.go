package model

import (
	"fmt"
	"strings"
)

// DeadEnd records a rejected approach.
type DeadEnd struct {
	Approach string `json:"approach"`
	Reason   string `json:"reason"`
}

// Decision records a chosen approach.
type Decision struct {
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
}

// Intent is the structured reasoning document, stored as intent.md.
type Intent struct {
	OriginalRequest string     `json:"original_request"`
	InterpretedGoal *string    `json:"interpreted_goal,omitempty"`
	Summary         *string    `json:"summary,omitempty"`
	DeadEnds        []DeadEnd  `json:"dead_ends,omitempty"`
	Decisions       []Decision `json:"decisions,omitempty"`
}

// ToMarkdown renders the intent document with the fixed section headers the
// ref-level markdown format requires.
func (in *Intent) ToMarkdown() string {
	var b strings.Builder

	b.WriteString("# Intent\n\n")
	b.WriteString(in.OriginalRequest)
	b.WriteString("\n")

	if in.InterpretedGoal != nil {
		b.WriteString("\n## Interpreted Goal\n\n")
		b.WriteString(*in.InterpretedGoal)
		b.WriteString("\n")
	}

	if in.Summary != nil {
		b.WriteString("\n## Summary\n\n")
		b.WriteString(*in.Summary)
		b.WriteString("\n")
	}

	if len(in.DeadEnds) > 0 {
		b.WriteString("\n## Dead Ends\n\n")
		for _, de := range in.DeadEnds {
			fmt.Fprintf(&b, "- **%s**: %s\n", de.Approach, de.Reason)
		}
	}

	if len(in.Decisions) > 0 {
		b.WriteString("\n## Decisions\n\n")
		for _, d := range in.Decisions {
			fmt.Fprintf(&b, "- **%s**: %s\n", d.Description, d.Rationale)
		}
	}

	return b.String()
}

// ParseIntentMarkdown parses the markdown document produced by ToMarkdown.
// The deprecated "## Original Request" heading is accepted as equivalent to
// the unheaded intent body for backward compatibility with older SDKs.
func ParseIntentMarkdown(md string) (*Intent, error) {
	var originalRequest string
	var interpretedGoal, summary *string
	var deadEnds []DeadEnd
	var decisions []Decision

	section := "intent"
	var content strings.Builder

	save := func() {
		trimmed := strings.TrimSpace(content.String())
		if trimmed == "" {
			return
		}
		switch section {
		case "intent":
			originalRequest = trimmed
		case "goal":
			v := trimmed
			interpretedGoal = &v
		case "summary":
			v := trimmed
			summary = &v
		}
	}

	for _, line := range strings.Split(md, "\n") {
		switch {
		case strings.HasPrefix(line, "# Intent"):
			section = "intent"
			content.Reset()
			continue
		case strings.HasPrefix(line, "## Original Request"):
			save()
			section = "intent"
			content.Reset()
			continue
		case strings.HasPrefix(line, "## Interpreted Goal"):
			save()
			section = "goal"
			content.Reset()
			continue
		case strings.HasPrefix(line, "## Summary"):
			save()
			section = "summary"
			content.Reset()
			continue
		case strings.HasPrefix(line, "## Dead Ends"):
			save()
			section = "dead_ends"
			content.Reset()
			continue
		case strings.HasPrefix(line, "## Decisions"):
			save()
			section = "decisions"
			content.Reset()
			continue
		}

		switch section {
		case "dead_ends":
			if entry, ok := strings.CutPrefix(line, "- **"); ok {
				if approach, reason, ok := strings.Cut(entry, "**: "); ok {
					deadEnds = append(deadEnds, DeadEnd{Approach: approach, Reason: reason})
				}
			}
		case "decisions":
			if entry, ok := strings.CutPrefix(line, "- **"); ok {
				if desc, rationale, ok := strings.Cut(entry, "**: "); ok {
					decisions = append(decisions, Decision{Description: desc, Rationale: rationale})
				}
			}
		default:
			if content.Len() > 0 || line != "" {
				if content.Len() > 0 {
					content.WriteString("\n")
				}
				content.WriteString(line)
			}
		}
	}
	save()

	return &Intent{
		OriginalRequest: originalRequest,
		InterpretedGoal: interpretedGoal,
		Summary:         summary,
		DeadEnds:        deadEnds,
		Decisions:       decisions,
	}, nil
}
