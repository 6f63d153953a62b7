// Package storage implements engram's content-addressed object layer on top
// of the host git repository's own object database. Every captured session
// becomes a parentless commit wrapping a five-blob tree (manifest.json,
// intent.md, transcript.jsonl, operations.json, lineage.json), reachable
// only through a ref under the refs/engrams/<2-hex>/<32-hex> fanout
// namespace - never through HEAD or any branch, so engrams never appear in
// `git log` or ordinary checkouts but still benefit from git's packing,
// transfer, and garbage-collection machinery.
package storage

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/logging"
)

// RefPrefix is the root of the fanout namespace every engram ref lives under.
const RefPrefix = "refs/engrams/"

// commitSignature is fixed and identical for every engram commit, so two
// stores given byte-identical content always produce byte-identical commit
// objects (and therefore byte-identical object ids) - there is no wall-clock
// timestamp or operator identity to make the tree non-reproducible.
var commitSignature = object.Signature{
	Name:  "engram",
	Email: "engram@localhost",
	When:  time.Unix(0, 0).UTC(),
}

// Store wraps the host repository's object database and reference store.
type Store struct {
	repo      *git.Repository
	workspace string
	log       *logging.Logger
}

// Open opens the git repository rooted at or above workspace. It does not
// require the repository to already have any engram refs.
func Open(workspace string) (*Store, error) {
	repo, err := git.PlainOpenWithOptions(workspace, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return nil, engramerr.NotInitialized()
		}
		return nil, engramerr.Wrap(engramerr.KindObjectStore, "open repository", err)
	}
	return &Store{repo: repo, workspace: workspace, log: logging.Get(logging.CategoryStorage)}, nil
}

// Init is an idempotent no-op check that workspace is a valid git repository
// engram can attach to; engram never creates the underlying repository
// itself, only its own refs and config inside it.
func Init(workspace string) (*Store, error) {
	s, err := Open(workspace)
	if err != nil {
		return nil, err
	}
	s.log.Info("initialized engram storage at %s", workspace)
	return s, nil
}

// Repository exposes the underlying go-git repository for callers (protocol,
// hooks) that need direct access to remotes or the working tree.
func (s *Store) Repository() *git.Repository {
	return s.repo
}

func refNameForHash(name plumbing.ReferenceName, hash plumbing.Hash) *plumbing.Reference {
	return plumbing.NewHashReference(name, hash)
}

func shortHash(h plumbing.Hash) string {
	s := h.String()
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func (s *Store) describeErr(op string, err error) error {
	return fmt.Errorf("storage: %s: %w", op, err)
}

// Workspace returns the repository root path the Store was opened with.
func (s *Store) Workspace() string {
	return s.workspace
}
