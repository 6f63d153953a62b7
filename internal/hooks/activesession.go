// Package hooks implements engram's git-hook integration: an active-session
// marker file that records which engram, if any, is currently capturing
// commits made in this working tree, and the prepare-commit-msg/post-commit
// handlers that consult and update it.
package hooks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/model"
)

const (
	activeSessionFile = "active-session.json"
	lockFile           = "active-session.lock"
	lockTimeout        = 5 * time.Second
)

// ActiveSession marks an in-progress capture so git hooks running in the
// same working tree know which engram to attribute new commits to.
type ActiveSession struct {
	EngramID  model.EngramID `json:"engram_id"`
	AgentName string         `json:"agent_name"`
	StartedAt time.Time      `json:"started_at"`
}

func activeSessionPath(workspace string) string {
	return filepath.Join(workspace, ".engram", activeSessionFile)
}

func lockPath(workspace string) string {
	return filepath.Join(workspace, ".engram", lockFile)
}

func withLock(workspace string, fn func() error) error {
	dir := filepath.Join(workspace, ".engram")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return engramerr.Wrap(engramerr.KindIO, "create .engram directory", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	fl := flock.New(lockPath(workspace))
	locked, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return engramerr.Wrap(engramerr.KindIO, "acquire active-session lock", err)
	}
	if !locked {
		return engramerr.New(engramerr.KindIO, "active-session lock held by another process")
	}
	defer fl.Unlock()

	return fn()
}

// StartActiveSession records id as the active session for workspace,
// replacing any prior one.
func StartActiveSession(workspace string, session ActiveSession) error {
	return withLock(workspace, func() error {
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return engramerr.Wrap(engramerr.KindInvalidEncoding, "marshal active session", err)
		}
		return os.WriteFile(activeSessionPath(workspace), data, 0644)
	})
}

// ReadActiveSession returns the current active session, if any.
func ReadActiveSession(workspace string) (*ActiveSession, bool, error) {
	var session ActiveSession
	var found bool
	err := withLock(workspace, func() error {
		data, err := os.ReadFile(activeSessionPath(workspace))
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return engramerr.Wrap(engramerr.KindIO, "read active session", err)
		}
		if err := json.Unmarshal(data, &session); err != nil {
			return engramerr.Wrap(engramerr.KindInvalidEncoding, "parse active session", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &session, true, nil
}

// EndActiveSession removes the active-session marker.
func EndActiveSession(workspace string) error {
	return withLock(workspace, func() error {
		err := os.Remove(activeSessionPath(workspace))
		if err != nil && !os.IsNotExist(err) {
			return engramerr.Wrap(engramerr.KindIO, "remove active session", err)
		}
		return nil
	})
}
