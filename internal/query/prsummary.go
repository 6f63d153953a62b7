package query

import (
	"fmt"
	"strings"

	"github.com/AtticAIInc/engram/internal/model"
)

// RenderPRSummary turns a commit range's engrams (as returned by Review)
// into a markdown summary suitable for pasting into a pull request
// description: one bullet per session naming its agent, its intent, and any
// dead ends it ruled out along the way.
func RenderPRSummary(manifests []model.Manifest, dataByID map[model.EngramID]*model.EngramData) string {
	if len(manifests) == 0 {
		return "_No captured agent sessions in this commit range._\n"
	}

	var b strings.Builder
	b.WriteString("## Agent Sessions\n\n")

	var totalTokens uint64
	for _, m := range manifests {
		totalTokens += m.TokenUsage.TotalTokens

		data := dataByID[m.ID]
		goal := ""
		if data != nil {
			if m.Summary != nil {
				goal = *m.Summary
			} else {
				goal = data.Intent.OriginalRequest
			}
		}

		fmt.Fprintf(&b, "- **%s** (`%s`, %s) - %s\n", m.Agent.Name, shortID(m.ID), m.CaptureMode, goal)

		if data != nil && len(data.Intent.DeadEnds) > 0 {
			for _, de := range data.Intent.DeadEnds {
				fmt.Fprintf(&b, "  - ruled out *%s*: %s\n", de.Approach, de.Reason)
			}
		}
	}

	fmt.Fprintf(&b, "\n_%d session(s), %d total tokens._\n", len(manifests), totalTokens)
	return b.String()
}
