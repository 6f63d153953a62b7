package index

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/AtticAIInc/engram/internal/engramerr"
)

// Hit is one search result: the engram id and its relevance score.
type Hit struct {
	ID    string
	Score float64
}

// SearchOptions narrows a full-text query.
type SearchOptions struct {
	Limit int
	Agent string // exact-match filter on the agent keyword field, "" = any
}

// Search runs query against the index's free-text fields and returns hits
// ordered by descending relevance.
func (i *Index) Search(queryString string, opts SearchOptions) ([]Hit, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	var q query.Query = bleve.NewQueryStringQuery(queryString)
	if opts.Agent != "" {
		agentQuery := bleve.NewTermQuery(opts.Agent)
		agentQuery.SetField("agent")
		q = bleve.NewConjunctionQuery(q, agentQuery)
	}

	req := bleve.NewSearchRequest(q)
	req.Size = opts.Limit
	req.Fields = []string{"manifest_json"}

	result, err := i.bi.Search(req)
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindSearch, "execute query", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}
