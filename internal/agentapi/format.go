package agentapi

import (
	"fmt"

	"github.com/AtticAIInc/engram/internal/model"
)

// shortID renders the first 8 hex characters of an engram id, the
// conventional short form used throughout engram's text output.
func shortID(id model.EngramID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// agentTag renders "[agent]" or "[agent/model]".
func agentTag(agent model.AgentInfo) string {
	if agent.Model != nil && *agent.Model != "" {
		return fmt.Sprintf("[%s/%s]", agent.Name, *agent.Model)
	}
	return fmt.Sprintf("[%s]", agent.Name)
}

func dateStr(m model.Manifest) string {
	return m.CreatedAt.Format("2006-01-02 15:04")
}

func manifestLine(m model.Manifest) string {
	return fmt.Sprintf("◆ %s %s %s", shortID(m.ID), agentTag(m.Agent), dateStr(m))
}
