package storage

import (
	"encoding/json"
	"io"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/model"
)

const (
	entryManifest   = "manifest.json"
	entryIntent     = "intent.md"
	entryTranscript = "transcript.jsonl"
	entryOperations = "operations.json"
	entryLineage    = "lineage.json"
)

// writeBlob stores content as a loose blob object and returns its hash.
func (s *Store) writeBlob(content []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(content)))

	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, engramerr.Wrap(engramerr.KindObjectStore, "open blob writer", err)
	}
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, engramerr.Wrap(engramerr.KindObjectStore, "write blob", err)
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, engramerr.Wrap(engramerr.KindObjectStore, "close blob writer", err)
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, engramerr.Wrap(engramerr.KindObjectStore, "store blob", err)
	}
	return hash, nil
}

// readBlob retrieves a blob's full content by hash.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	obj, err := s.repo.Storer.EncodedObject(plumbing.BlobObject, hash)
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindMissingBlob, "load blob "+shortHash(hash), err)
	}
	r, err := obj.Reader()
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindMissingBlob, "open blob reader", err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// writeTree builds the fixed five-entry engram tree from blob hashes.
func (s *Store) writeTree(blobs map[string]plumbing.Hash) (plumbing.Hash, error) {
	names := []string{entryManifest, entryIntent, entryTranscript, entryOperations, entryLineage}
	entries := make([]object.TreeEntry, 0, len(names))
	for _, name := range names {
		hash, ok := blobs[name]
		if !ok {
			continue
		}
		entries = append(entries, object.TreeEntry{
			Name: name,
			Mode: filemode.Regular,
			Hash: hash,
		})
	}

	tree := &object.Tree{Entries: entries}
	obj := s.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, engramerr.Wrap(engramerr.KindObjectStore, "encode tree", err)
	}
	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, engramerr.Wrap(engramerr.KindObjectStore, "store tree", err)
	}
	return hash, nil
}

// writeCommit wraps treeHash in a parentless commit with the fixed engram
// signature, so identical trees always produce an identical commit hash.
func (s *Store) writeCommit(treeHash plumbing.Hash, message string) (plumbing.Hash, error) {
	commit := &object.Commit{
		Author:    commitSignature,
		Committer: commitSignature,
		Message:   message,
		TreeHash:  treeHash,
	}
	obj := s.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, engramerr.Wrap(engramerr.KindObjectStore, "encode commit", err)
	}
	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, engramerr.Wrap(engramerr.KindObjectStore, "store commit", err)
	}
	return hash, nil
}

// Create writes a full EngramData aggregate as a new parentless commit and
// points a fanout ref at it, minting a fresh id if data.Manifest.ID is empty.
func (s *Store) Create(data *model.EngramData) (model.EngramID, error) {
	id := data.Manifest.ID
	if id == "" {
		id = model.NewEngramID()
		data.Manifest.ID = id
	}

	manifestJSON, err := json.MarshalIndent(data.Manifest, "", "  ")
	if err != nil {
		return "", engramerr.Wrap(engramerr.KindInvalidEncoding, "marshal manifest", err)
	}
	operationsJSON, err := json.MarshalIndent(data.Operations, "", "  ")
	if err != nil {
		return "", engramerr.Wrap(engramerr.KindInvalidEncoding, "marshal operations", err)
	}
	lineageJSON, err := json.MarshalIndent(data.Lineage, "", "  ")
	if err != nil {
		return "", engramerr.Wrap(engramerr.KindInvalidEncoding, "marshal lineage", err)
	}
	transcriptJSONL, err := data.Transcript.ToJSONL()
	if err != nil {
		return "", engramerr.Wrap(engramerr.KindInvalidEncoding, "marshal transcript", err)
	}
	intentMD := data.Intent.ToMarkdown()

	blobs := make(map[string]plumbing.Hash, 5)
	for name, content := range map[string][]byte{
		entryManifest:   manifestJSON,
		entryIntent:     []byte(intentMD),
		entryTranscript: transcriptJSONL,
		entryOperations: operationsJSON,
		entryLineage:    lineageJSON,
	} {
		hash, err := s.writeBlob(content)
		if err != nil {
			return "", err
		}
		blobs[name] = hash
	}

	treeHash, err := s.writeTree(blobs)
	if err != nil {
		return "", err
	}

	message := "engram: " + string(id)
	commitHash, err := s.writeCommit(treeHash, message)
	if err != nil {
		return "", err
	}

	refName := plumbing.ReferenceName(id.RefName())
	if err := s.repo.Storer.SetReference(refNameForHash(refName, commitHash)); err != nil {
		return "", engramerr.Wrap(engramerr.KindObjectStore, "set ref "+string(refName), err)
	}

	if err := writeHeadPointer(s.workspace, id); err != nil {
		s.log.Warn("failed to update engram-head pointer: %v", err)
	}

	s.log.Info("created engram %s (commit %s)", id, shortHash(commitHash))
	return id, nil
}
