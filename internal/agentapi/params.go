package agentapi

// SearchParams requests a full-text search over captured sessions.
type SearchParams struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// ShowParams requests the full detail of one engram, by id or short id prefix.
type ShowParams struct {
	ID string `json:"id"`
}

// LogParams requests a chronological listing of engrams.
type LogParams struct {
	Limit   int    `json:"limit,omitempty"`
	ByAgent string `json:"by_agent,omitempty"`
}

// TraceParams requests every engram that touched one file.
type TraceParams struct {
	FilePath string `json:"file_path"`
}

// DiffParams requests a structural diff between two engrams.
type DiffParams struct {
	IDA string `json:"id_a"`
	IDB string `json:"id_b"`
}

// DeadEndsParams requests rejected approaches recorded across sessions,
// optionally narrowed to one engram or filtered by a text query.
type DeadEndsParams struct {
	ID    string `json:"id,omitempty"`
	Query string `json:"query,omitempty"`
}
