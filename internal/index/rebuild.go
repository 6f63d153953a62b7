package index

import "github.com/AtticAIInc/engram/internal/storage"

// Rebuild indexes every engram in store into idx, used after a schema change
// or when the index directory is suspected to be corrupt. Each engram's
// document replaces any already indexed under its id; documents of engrams
// no longer in the store are not removed, so `engram reindex` deletes the
// index directory before calling it.
func Rebuild(store *storage.Store, idx *Index) (int, error) {
	manifests, err := store.List(storage.ListFilter{})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range manifests {
		data, err := store.Get(m.ID)
		if err != nil {
			continue
		}
		if err := idx.Add(data); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
