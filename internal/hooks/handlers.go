package hooks

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/logging"
)

// engramTrailerPrefix starts the trailer appended to every commit message made
// while an engram session is active, so a human reading `git log` can see
// which session produced the commit without consulting engram separately.
const engramTrailerPrefix = "Engram-Id: "

// PrepareCommitMsg implements the prepare-commit-msg hook: it appends an
// Engram-Id trailer naming the active session, if any, to the commit
// message file git is about to open in the editor.
func PrepareCommitMsg(workspace, commitMsgFile string) error {
	log := logging.Get(logging.CategoryHooks)

	session, ok, err := ReadActiveSession(workspace)
	if err != nil {
		return err
	}
	if !ok {
		log.Debug("prepare-commit-msg: no active session, skipping")
		return nil
	}

	data, err := os.ReadFile(commitMsgFile)
	if err != nil {
		return engramerr.Wrap(engramerr.KindIO, "read commit message", err)
	}
	if strings.Contains(string(data), engramTrailerPrefix) {
		return nil
	}

	trailer := fmt.Sprintf("\n%s%s\n", engramTrailerPrefix, session.EngramID)
	if err := os.WriteFile(commitMsgFile, append(data, []byte(trailer)...), 0644); err != nil {
		return engramerr.Wrap(engramerr.KindIO, "write commit message", err)
	}
	log.Info("tagged commit message with session %s", session.EngramID)
	return nil
}

// PostCommit implements the post-commit hook: it resolves the new HEAD
// commit and logs its sha against the active session. It writes nothing:
// neither the active-session marker nor any engram is updated. Commits made
// during `engram record` reach the engram's GitCommits through the capture
// session's own comparison of HEAD before and after the run.
func PostCommit(workspace string) error {
	log := logging.Get(logging.CategoryHooks)

	session, ok, err := ReadActiveSession(workspace)
	if err != nil {
		return err
	}
	if !ok {
		log.Debug("post-commit: no active session, skipping")
		return nil
	}

	repo, err := git.PlainOpenWithOptions(workspace, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return engramerr.Wrap(engramerr.KindObjectStore, "open repository", err)
	}
	head, err := repo.Head()
	if err != nil {
		return engramerr.Wrap(engramerr.KindObjectStore, "resolve HEAD", err)
	}

	log.Info("session %s recorded commit %s", session.EngramID, head.Hash())
	return nil
}
