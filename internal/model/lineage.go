package model

// RelationType classifies a typed relationship to another engram.
type RelationType string

const (
	RelationFollowsFrom   RelationType = "follows_from"
	RelationMotivates     RelationType = "motivates"
	RelationDependsOn     RelationType = "depends_on"
	RelationSupersedes    RelationType = "supersedes"
	RelationConflictsWith RelationType = "conflicts_with"
)

// Relationship links this engram to another by id, never by direct
// reference, so cyclic lineage graphs never require holding a live pointer.
type Relationship struct {
	EngramID     EngramID     `json:"engram_id"`
	RelationType RelationType `json:"relation_type"`
	Description  *string      `json:"description,omitempty"`
}

// Lineage is the optional parent/children/related-commits graph, serialized
// as lineage.json.
type Lineage struct {
	ParentEngram   *EngramID      `json:"parent_engram,omitempty"`
	ChildEngrams   []EngramID     `json:"child_engrams,omitempty"`
	RelatedEngrams []Relationship `json:"related_engrams,omitempty"`
	GitCommits     []string       `json:"git_commits"`
	Branch         *string        `json:"branch,omitempty"`
}
