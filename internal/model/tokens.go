package model

// TokenUsage tracks token accounting for a session. Every field but CostUSD
// is always serialized, even when zero, matching the canonical JSON layout
// readers and writers both round-trip against.
type TokenUsage struct {
	InputTokens      uint64   `json:"input_tokens"`
	OutputTokens     uint64   `json:"output_tokens"`
	CacheReadTokens  uint64   `json:"cache_read_tokens"`
	CacheWriteTokens uint64   `json:"cache_write_tokens"`
	TotalTokens      uint64   `json:"total_tokens"`
	CostUSD          *float64 `json:"cost_usd,omitempty"`
}

// Recompute sets TotalTokens to the sum of its four components. Callers that
// build a TokenUsage piecemeal must call this before the manifest is
// serialized; readers must never recompute it silently (the written value is
// authoritative per the invariant it is checked against).
func (t *TokenUsage) Recompute() {
	t.TotalTokens = t.InputTokens + t.OutputTokens + t.CacheReadTokens + t.CacheWriteTokens
}

// Add accumulates another usage into this one, summing cost when either side
// has one set.
func (t *TokenUsage) Add(other TokenUsage) {
	t.InputTokens += other.InputTokens
	t.OutputTokens += other.OutputTokens
	t.CacheReadTokens += other.CacheReadTokens
	t.CacheWriteTokens += other.CacheWriteTokens
	t.TotalTokens += other.TotalTokens
	if other.CostUSD != nil {
		if t.CostUSD == nil {
			cost := 0.0
			t.CostUSD = &cost
		}
		*t.CostUSD += *other.CostUSD
	}
}
