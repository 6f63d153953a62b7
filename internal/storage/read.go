package storage

import (
	"encoding/json"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/model"
)

// commitTree resolves a commit hash down to its tree object.
func (s *Store) commitTree(commitHash plumbing.Hash) (*object.Tree, error) {
	commit, err := object.GetCommit(s.repo.Storer, commitHash)
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindObjectStore, "load commit "+shortHash(commitHash), err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindObjectStore, "load tree for commit "+shortHash(commitHash), err)
	}
	return tree, nil
}

// treeBlob reads one named entry's content out of tree, or engramerr.KindMissingBlob.
func (s *Store) treeBlob(tree *object.Tree, name string) ([]byte, error) {
	entry, err := tree.FindEntry(name)
	if err != nil {
		return nil, engramerr.New(engramerr.KindMissingBlob, "missing "+name+" in engram tree")
	}
	return s.readBlob(entry.Hash)
}

func (s *Store) readManifestAt(commitHash plumbing.Hash) (*model.Manifest, error) {
	tree, err := s.commitTree(commitHash)
	if err != nil {
		return nil, err
	}
	data, err := s.treeBlob(tree, entryManifest)
	if err != nil {
		return nil, err
	}
	var m model.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, engramerr.Wrap(engramerr.KindInvalidEncoding, "parse manifest", err)
	}
	return &m, nil
}

// GetManifest loads only the manifest for id, the cheap path used by list
// and search result rendering.
func (s *Store) GetManifest(id model.EngramID) (*model.Manifest, error) {
	ref, err := s.resolveRef(id)
	if err != nil {
		return nil, err
	}
	return s.readManifestAt(ref.Hash())
}

// Get loads the full EngramData aggregate for id.
func (s *Store) Get(id model.EngramID) (*model.EngramData, error) {
	ref, err := s.resolveRef(id)
	if err != nil {
		return nil, err
	}
	tree, err := s.commitTree(ref.Hash())
	if err != nil {
		return nil, err
	}

	manifestRaw, err := s.treeBlob(tree, entryManifest)
	if err != nil {
		return nil, err
	}
	var manifest model.Manifest
	if err := json.Unmarshal(manifestRaw, &manifest); err != nil {
		return nil, engramerr.Wrap(engramerr.KindInvalidEncoding, "parse manifest", err)
	}

	intentRaw, err := s.treeBlob(tree, entryIntent)
	if err != nil {
		return nil, err
	}
	intent, err := model.ParseIntentMarkdown(string(intentRaw))
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindParse, "parse intent", err)
	}

	transcriptRaw, err := s.treeBlob(tree, entryTranscript)
	if err != nil {
		return nil, err
	}
	transcript, err := model.TranscriptFromJSONL(transcriptRaw)
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindParse, "parse transcript", err)
	}

	operationsRaw, err := s.treeBlob(tree, entryOperations)
	if err != nil {
		return nil, err
	}
	var operations model.Operations
	if err := json.Unmarshal(operationsRaw, &operations); err != nil {
		return nil, engramerr.Wrap(engramerr.KindInvalidEncoding, "parse operations", err)
	}

	lineageRaw, err := s.treeBlob(tree, entryLineage)
	if err != nil {
		return nil, err
	}
	var lineage model.Lineage
	if err := json.Unmarshal(lineageRaw, &lineage); err != nil {
		return nil, engramerr.Wrap(engramerr.KindInvalidEncoding, "parse lineage", err)
	}

	return &model.EngramData{
		Manifest:   manifest,
		Intent:     *intent,
		Transcript: *transcript,
		Operations: operations,
		Lineage:    lineage,
	}, nil
}
