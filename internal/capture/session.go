package capture

import (
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/AtticAIInc/engram/internal/logging"
	"github.com/AtticAIInc/engram/internal/model"
	"github.com/AtticAIInc/engram/internal/storage"
)

// Options configures one wrapped capture run.
type Options struct {
	AgentName    string
	AgentModel   string
	OriginalGoal string
	Tags         []string
}

// Session orchestrates a full wrapper capture: snapshot the working tree,
// run the agent under a PTY, snapshot again, diff, and store the result.
type Session struct {
	store *storage.Store
	opts  Options
	dir   string
	log   *logging.Logger
}

// NewSession prepares a capture session rooted at dir against store.
func NewSession(store *storage.Store, dir string, opts Options) *Session {
	return &Session{store: store, opts: opts, dir: dir, log: logging.Get(logging.CategoryCapture)}
}

// Run captures command's execution as a new engram and returns its id
// alongside the child's exit code.
func (s *Session) Run(command string, args []string) (model.EngramID, int, error) {
	before, err := TakeSnapshot(s.dir)
	if err != nil {
		return "", -1, err
	}
	beforeHead := s.headCommit()

	pty := NewPTYSession(s.dir, command, args)
	started := time.Now().UTC()
	exitCode, err := pty.Run()
	finished := time.Now().UTC()
	if err != nil {
		return "", exitCode, err
	}

	after, err := TakeSnapshot(s.dir)
	if err != nil {
		return "", exitCode, err
	}
	afterHead := s.headCommit()

	changes := DiffSnapshots(before, after)
	changes = DetectRenames(before, after, changes)

	var agentModel *string
	if s.opts.AgentModel != "" {
		agentModel = &s.opts.AgentModel
	}

	data := &model.EngramData{
		Manifest: model.Manifest{
			CreatedAt:   started,
			FinishedAt:  &finished,
			Agent:       model.AgentInfo{Name: s.opts.AgentName, Model: agentModel},
			GitCommits:  s.commitsBetween(beforeHead, afterHead),
			CaptureMode: model.CaptureModeWrapper,
			Tags:        s.opts.Tags,
		},
		Intent: model.Intent{OriginalRequest: s.opts.OriginalGoal},
		Transcript: *pty.Transcript(),
		Operations: model.Operations{FileChanges: changes},
	}

	id, err := s.store.Create(data)
	if err != nil {
		return "", exitCode, err
	}
	s.log.Info("captured session %s for agent %s (exit %d)", id, s.opts.AgentName, exitCode)
	return id, exitCode, nil
}

func (s *Session) headCommit() plumbing.Hash {
	ref, err := s.store.Repository().Head()
	if err != nil {
		return plumbing.ZeroHash
	}
	return ref.Hash()
}

// commitsBetween returns the commit shas reachable from after but not
// before, oldest first - the commits the captured session itself produced.
func (s *Session) commitsBetween(before, after plumbing.Hash) []string {
	if after == plumbing.ZeroHash || after == before {
		return nil
	}
	repo := s.store.Repository()
	iter, err := repo.Log(&git.LogOptions{From: after})
	if err != nil {
		return nil
	}
	defer iter.Close()

	var shas []string
	_ = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == before {
			return storer.ErrStop
		}
		shas = append(shas, c.Hash.String())
		return nil
	})

	// reverse to oldest-first
	for i, j := 0, len(shas)-1; i < j; i, j = i+1, j-1 {
		shas[i], shas[j] = shas[j], shas[i]
	}
	return shas
}
