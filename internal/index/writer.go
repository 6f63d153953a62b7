package index

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/logging"
	"github.com/AtticAIInc/engram/internal/model"
)

// Index wraps a bleve index rooted at a single on-disk directory.
type Index struct {
	bi   bleve.Index
	path string
	log  *logging.Logger
}

// Open opens the index at path, creating it with BuildMapping's schema if
// it does not already exist.
func Open(path string) (*Index, error) {
	log := logging.Get(logging.CategoryIndex)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		bi, err := bleve.New(path, BuildMapping())
		if err != nil {
			return nil, engramerr.Wrap(engramerr.KindIndex, "create index at "+path, err)
		}
		log.Info("created new index at %s", path)
		return &Index{bi: bi, path: path, log: log}, nil
	}

	bi, err := bleve.Open(path)
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindIndex, "open index at "+path, err)
	}
	return &Index{bi: bi, path: path, log: log}, nil
}

// Close releases the index's underlying file handles.
func (i *Index) Close() error {
	return i.bi.Close()
}

// toDocument flattens an EngramData aggregate into the indexable Document shape.
func toDocument(data *model.EngramData) (*Document, error) {
	manifestJSON, err := json.Marshal(data.Manifest)
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindInvalidEncoding, "marshal manifest for index", err)
	}

	var agentModel string
	if data.Manifest.Agent.Model != nil {
		agentModel = *data.Manifest.Agent.Model
	}
	var summary string
	if data.Manifest.Summary != nil {
		summary = *data.Manifest.Summary
	}
	var goal string
	if data.Intent.InterpretedGoal != nil {
		goal = *data.Intent.InterpretedGoal
	}

	var transcriptText strings.Builder
	for _, entry := range data.Transcript.Entries {
		switch entry.Content.Type {
		case model.ContentText, model.ContentThinking:
			transcriptText.WriteString(entry.Content.Text)
			transcriptText.WriteString("\n")
		case model.ContentToolResult:
			transcriptText.WriteString(entry.Content.Output)
			transcriptText.WriteString("\n")
		}
	}

	return &Document{
		ID:              string(data.Manifest.ID),
		Agent:           data.Manifest.Agent.Name,
		Model:           agentModel,
		Tags:            data.Manifest.Tags,
		OriginalRequest: data.Intent.OriginalRequest,
		InterpretedGoal: goal,
		Summary:         summary,
		TranscriptText:  transcriptText.String(),
		ManifestJSON:    string(manifestJSON),
		CreatedAtUnix:   data.Manifest.CreatedAt.Unix(),
	}, nil
}

// Add indexes (or re-indexes) one engram.
func (i *Index) Add(data *model.EngramData) error {
	doc, err := toDocument(data)
	if err != nil {
		return err
	}
	if err := i.bi.Index(doc.ID, doc); err != nil {
		return engramerr.Wrap(engramerr.KindIndex, "index engram "+doc.ID, err)
	}
	return nil
}

// Delete removes an engram's document from the index.
func (i *Index) Delete(id model.EngramID) error {
	if err := i.bi.Delete(string(id)); err != nil {
		return engramerr.Wrap(engramerr.KindIndex, "delete from index "+string(id), err)
	}
	return nil
}

// DocCount reports how many documents the index currently holds.
func (i *Index) DocCount() (uint64, error) {
	n, err := i.bi.DocCount()
	if err != nil {
		return 0, engramerr.Wrap(engramerr.KindIndex, "count documents", err)
	}
	return n, nil
}
