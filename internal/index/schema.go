// Package index implements engram's full-text search layer over bleve: a
// single index document per engram combining its manifest metadata, intent
// text, and transcript text, so a search for a word in a reasoning trace
// also matches on agent name or tag.
package index

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Document is the flattened, indexable projection of one engram.
type Document struct {
	ID              string   `json:"id"`
	Agent           string   `json:"agent"`
	Model           string   `json:"model"`
	Tags            []string `json:"tags"`
	OriginalRequest string   `json:"original_request"`
	InterpretedGoal string   `json:"interpreted_goal"`
	Summary         string   `json:"summary"`
	TranscriptText  string   `json:"transcript_text"`
	ManifestJSON    string   `json:"manifest_json"`
	CreatedAtUnix   int64    `json:"created_at_unix"`
}

// BuildMapping returns the index schema: keyword analysis for fields used in
// exact filters (id, agent, tags), the standard English analyzer for
// free-text fields, and manifest_json stored but unindexed. Search hits do
// not carry manifest_json back; query.Search reads each hit's manifest from
// the object store.
func BuildMapping() mapping.IndexMapping {
	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "en"

	storedOnly := bleve.NewTextFieldMapping()
	storedOnly.Index = false
	storedOnly.Store = true
	storedOnly.IncludeInAll = false

	numericMapping := bleve.NewNumericFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("id", keywordFieldMapping)
	doc.AddFieldMappingsAt("agent", keywordFieldMapping)
	doc.AddFieldMappingsAt("model", keywordFieldMapping)
	doc.AddFieldMappingsAt("tags", keywordFieldMapping)
	doc.AddFieldMappingsAt("original_request", textFieldMapping)
	doc.AddFieldMappingsAt("interpreted_goal", textFieldMapping)
	doc.AddFieldMappingsAt("summary", textFieldMapping)
	doc.AddFieldMappingsAt("transcript_text", textFieldMapping)
	doc.AddFieldMappingsAt("manifest_json", storedOnly)
	doc.AddFieldMappingsAt("created_at_unix", numericMapping)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	im.DefaultAnalyzer = "en"
	return im
}
