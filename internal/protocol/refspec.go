// Package protocol implements engram's sync layer: ensuring a remote's
// fetch/push refspecs include the engrams fanout namespace, and pushing or
// fetching just that namespace without touching the host repository's
// branches or tags.
package protocol

import (
	"github.com/go-git/go-git/v5/config"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/storage"
)

// FetchRefspec mirrors every engram ref from the remote, force-updating
// local copies (the leading "+") since engram commits are immutable and
// never need a three-way merge.
const FetchRefspec = "+refs/engrams/*:refs/engrams/*"

// PushRefspec mirrors local engram refs to the remote without the force
// prefix: engram refs are never rewritten once created, so a non-fast-
// forward push attempt signals a real conflict worth surfacing.
const PushRefspec = "refs/engrams/*:refs/engrams/*"

func hasRefspec(existing []config.RefSpec, want string) bool {
	for _, r := range existing {
		if string(r) == want {
			return true
		}
	}
	return false
}

// EnsureRefspecs adds engram's fetch and push refspecs to remoteName's
// config if they are not already present, and returns whether it changed
// anything.
func EnsureRefspecs(store *storage.Store, remoteName string) (bool, error) {
	repo := store.Repository()
	remoteCfg, err := repo.Storer.Config()
	if err != nil {
		return false, engramerr.Wrap(engramerr.KindSync, "load repository config", err)
	}

	rc, ok := remoteCfg.Remotes[remoteName]
	if !ok {
		return false, engramerr.New(engramerr.KindRemoteNotFound, "no such remote: "+remoteName)
	}

	changed := false
	if !hasRefspec(rc.Fetch, FetchRefspec) {
		rc.Fetch = append(rc.Fetch, config.RefSpec(FetchRefspec))
		changed = true
	}
	if !hasRefspec(rc.Push, PushRefspec) {
		rc.Push = append(rc.Push, config.RefSpec(PushRefspec))
		changed = true
	}

	if !changed {
		return false, nil
	}
	if err := repo.Storer.SetConfig(remoteCfg); err != nil {
		return false, engramerr.Wrap(engramerr.KindSync, "save repository config", err)
	}
	return true, nil
}

// EnsureAllRefspecs runs EnsureRefspecs against every configured remote.
func EnsureAllRefspecs(store *storage.Store) (map[string]bool, error) {
	repo := store.Repository()
	cfg, err := repo.Storer.Config()
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindSync, "load repository config", err)
	}

	changed := make(map[string]bool, len(cfg.Remotes))
	for name := range cfg.Remotes {
		did, err := EnsureRefspecs(store, name)
		if err != nil {
			return nil, err
		}
		changed[name] = did
	}
	return changed, nil
}
