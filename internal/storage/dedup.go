package storage

// FindBySourceHash scans existing engrams for one whose manifest carries the
// given SourceHash, letting importers skip re-importing a session they have
// already captured. A linear scan is acceptable here: imports are a rare,
// operator-triggered path, not a hot loop, and the ref fanout keeps any
// single directory small regardless of total engram count.
func (s *Store) FindBySourceHash(hash string) (string, bool, error) {
	if hash == "" {
		return "", false, nil
	}
	refs, err := s.iterRefs()
	if err != nil {
		return "", false, err
	}
	for _, r := range refs {
		m, err := s.readManifestAt(r.Commit)
		if err != nil {
			continue
		}
		if m.SourceHash != nil && *m.SourceHash == hash {
			return string(r.ID), true, nil
		}
	}
	return "", false, nil
}
