package protocol

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/logging"
	"github.com/AtticAIInc/engram/internal/storage"
)

// SyncOptions configures a push or fetch. Refspecs defaults to the single
// fixed engrams-namespace refspec for the direction being run; a caller only
// overrides it to narrow a sync to one engram's ref.
type SyncOptions struct {
	Refspecs []string
	DryRun   bool
}

// PushResult reports what a push of the engrams namespace did.
type PushResult struct {
	Remote     string
	RefsPushed []string
}

// FetchResult reports what a fetch of the engrams namespace did.
type FetchResult struct {
	Remote      string
	RefsFetched []string
}

func refspecsOrDefault(opts SyncOptions, fallback string) []config.RefSpec {
	if len(opts.Refspecs) == 0 {
		return []config.RefSpec{config.RefSpec(fallback)}
	}
	specs := make([]config.RefSpec, len(opts.Refspecs))
	for i, r := range opts.Refspecs {
		specs[i] = config.RefSpec(r)
	}
	return specs
}

// PushEngrams pushes every local engram ref to remoteName.
func PushEngrams(store *storage.Store, remoteName string, opts SyncOptions) (*PushResult, error) {
	log := logging.Get(logging.CategorySync)
	repo := store.Repository()

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return nil, engramerr.New(engramerr.KindRemoteNotFound, "no such remote: "+remoteName)
	}

	// A local engram ref counts as pushed unless the remote already had it at
	// the same hash; an empty or unlistable remote counts every local ref.
	before := make(map[string]plumbing.Hash)
	if remoteRefs, listErr := remote.List(&git.ListOptions{}); listErr == nil {
		for _, r := range remoteRefs {
			before[string(r.Name())] = r.Hash()
		}
	}

	err = remote.Push(&git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   refspecsOrDefault(opts, PushRefspec),
		DryRun:     opts.DryRun,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil, engramerr.Wrap(engramerr.KindSync, "push to "+remoteName, err)
	}

	pushed := changedRefNames(before, mustRefHashes(store))
	log.Info("pushed %d engram ref(s) to %s", len(pushed), remoteName)
	return &PushResult{Remote: remoteName, RefsPushed: pushed}, nil
}

// FetchEngrams fetches every remote engram ref from remoteName into the
// local refs/engrams/ fanout namespace.
func FetchEngrams(store *storage.Store, remoteName string, opts SyncOptions) (*FetchResult, error) {
	log := logging.Get(logging.CategorySync)
	repo := store.Repository()

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return nil, engramerr.New(engramerr.KindRemoteNotFound, "no such remote: "+remoteName)
	}

	before, err := refHashes(store, "")
	if err != nil {
		return nil, err
	}

	err = remote.FetchContext(context.Background(), &git.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   refspecsOrDefault(opts, FetchRefspec),
		DryRun:     opts.DryRun,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil, engramerr.Wrap(engramerr.KindSync, "fetch from "+remoteName, err)
	}

	after, err := refHashes(store, "")
	if err != nil {
		return nil, err
	}

	fetched := changedRefNames(before, after)
	log.Info("fetched %d engram ref(s) from %s", len(fetched), remoteName)
	return &FetchResult{Remote: remoteName, RefsFetched: fetched}, nil
}

func refHashes(store *storage.Store, _ string) (map[string]plumbing.Hash, error) {
	iter, err := store.Repository().Storer.IterReferences()
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindSync, "iterate refs", err)
	}
	defer iter.Close()

	out := make(map[string]plumbing.Hash)
	_ = iter.ForEach(func(ref *plumbing.Reference) error {
		name := string(ref.Name())
		if ref.Type() == plumbing.HashReference && len(name) >= len(storage.RefPrefix) && name[:len(storage.RefPrefix)] == storage.RefPrefix {
			out[name] = ref.Hash()
		}
		return nil
	})
	return out, nil
}

func mustRefHashes(store *storage.Store) map[string]plumbing.Hash {
	out, _ := refHashes(store, "")
	return out
}

func changedRefNames(before, after map[string]plumbing.Hash) []string {
	var changed []string
	for name, hash := range after {
		if beforeHash, ok := before[name]; !ok || beforeHash != hash {
			changed = append(changed, name)
		}
	}
	return changed
}
