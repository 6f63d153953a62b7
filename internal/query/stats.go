package query

import "github.com/AtticAIInc/engram/internal/storage"

// AgentStats aggregates token usage and session count for one agent.
type AgentStats struct {
	Agent        string
	SessionCount int
	TotalTokens  uint64
	TotalCostUSD float64
}

// Stats is the overall summary `engram stats` renders, built entirely from
// the manifests List returns - it introduces no new storage access pattern
// beyond what Search and Review already use.
type Stats struct {
	TotalEngrams int
	TotalTokens  uint64
	TotalCostUSD float64
	ByAgent      []AgentStats
}

// BuildStats aggregates every stored engram's manifest into a Stats summary.
func BuildStats(store *storage.Store) (*Stats, error) {
	manifests, err := store.List(storage.ListFilter{})
	if err != nil {
		return nil, err
	}

	byAgent := make(map[string]*AgentStats)
	stats := &Stats{TotalEngrams: len(manifests)}

	for _, m := range manifests {
		stats.TotalTokens += m.TokenUsage.TotalTokens
		if m.TokenUsage.CostUSD != nil {
			stats.TotalCostUSD += *m.TokenUsage.CostUSD
		}

		agentStats, ok := byAgent[m.Agent.Name]
		if !ok {
			agentStats = &AgentStats{Agent: m.Agent.Name}
			byAgent[m.Agent.Name] = agentStats
		}
		agentStats.SessionCount++
		agentStats.TotalTokens += m.TokenUsage.TotalTokens
		if m.TokenUsage.CostUSD != nil {
			agentStats.TotalCostUSD += *m.TokenUsage.CostUSD
		}
	}

	for _, a := range byAgent {
		stats.ByAgent = append(stats.ByAgent, *a)
	}
	return stats, nil
}
