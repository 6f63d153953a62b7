package storage

import (
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/model"
)

// engramRef pairs a resolved engram id with the commit hash its ref points
// at, the unit every ref-scanning operation (resolve, list, delete) works
// over before touching any blob content.
type engramRef struct {
	ID     model.EngramID
	Commit plumbing.Hash
}

// iterRefs walks every ref under the refs/engrams/ fanout namespace.
func (s *Store) iterRefs() ([]engramRef, error) {
	iter, err := s.repo.Storer.IterReferences()
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindObjectStore, "iterate refs", err)
	}
	defer iter.Close()

	var out []engramRef
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := string(ref.Name())
		if !strings.HasPrefix(name, RefPrefix) {
			return nil
		}
		id := name[len(RefPrefix):]
		// Strip the <2-hex>/ fanout directory component.
		if slash := strings.IndexByte(id, '/'); slash >= 0 {
			id = id[slash+1:]
		}
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		out = append(out, engramRef{ID: model.EngramID(id), Commit: ref.Hash()})
		return nil
	})
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindObjectStore, "iterate refs", err)
	}
	return out, nil
}

// resolveRef looks up the exact ref for id without a full scan.
func (s *Store) resolveRef(id model.EngramID) (*plumbing.Reference, error) {
	ref, err := s.repo.Storer.Reference(plumbing.ReferenceName(id.RefName()))
	if err != nil {
		return nil, engramerr.NotFound(string(id))
	}
	return ref, nil
}

// Resolve finds the single engram whose id begins with prefix. prefix may be
// the full 32-hex id or any leading substring of it at least two characters
// long ("short id"). It returns engramerr.KindNotFound for no match and
// engramerr.KindAmbiguous for more than one.
func (s *Store) Resolve(prefix string) (model.EngramID, error) {
	if len(prefix) < 2 {
		return "", engramerr.New(engramerr.KindInvalidID, "engram id prefix must be at least 2 characters")
	}

	if len(prefix) == 32 {
		if _, err := s.resolveRef(model.EngramID(prefix)); err == nil {
			return model.EngramID(prefix), nil
		}
	}

	refs, err := s.iterRefs()
	if err != nil {
		return "", err
	}

	var matches []model.EngramID
	for _, r := range refs {
		if strings.HasPrefix(string(r.ID), prefix) {
			matches = append(matches, r.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", engramerr.NotFound(prefix)
	case 1:
		return matches[0], nil
	default:
		return "", engramerr.Ambiguous(prefix, len(matches))
	}
}

// ListFilter narrows List results. A zero-value ListFilter matches everything.
type ListFilter struct {
	Agent string // case-insensitive substring of AgentInfo.Name; "" matches any
	Tag   string // manifest must contain this tag; "" matches any
	Limit int    // 0 means unlimited
}

// List returns manifests for every engram matching filter, newest first by
// CreatedAt.
func (s *Store) List(filter ListFilter) ([]model.Manifest, error) {
	refs, err := s.iterRefs()
	if err != nil {
		return nil, err
	}

	manifests := make([]model.Manifest, 0, len(refs))
	for _, r := range refs {
		m, err := s.readManifestAt(r.Commit)
		if err != nil {
			s.log.Warn("skipping unreadable engram %s: %v", r.ID, err)
			continue
		}
		if filter.Agent != "" && !strings.Contains(strings.ToLower(m.Agent.Name), strings.ToLower(filter.Agent)) {
			continue
		}
		if filter.Tag != "" && !containsTag(m.Tags, filter.Tag) {
			continue
		}
		manifests = append(manifests, *m)
	}

	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].CreatedAt.After(manifests[j].CreatedAt)
	})

	if filter.Limit > 0 && len(manifests) > filter.Limit {
		manifests = manifests[:filter.Limit]
	}
	return manifests, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Delete removes the ref pointing at id. The underlying git objects are left
// in place for `engram gc`, `git gc` or the host repository's own retention
// policy to reclaim once unreachable; Delete itself never prunes them.
func (s *Store) Delete(id model.EngramID) error {
	refName := plumbing.ReferenceName(id.RefName())
	if _, err := s.repo.Storer.Reference(refName); err != nil {
		return engramerr.NotFound(string(id))
	}
	if err := s.repo.Storer.RemoveReference(refName); err != nil {
		return engramerr.Wrap(engramerr.KindObjectStore, "remove ref "+string(refName), err)
	}
	s.log.Info("deleted engram %s", id)
	return nil
}
