// Package db provides build store implementations.
package db

import (
	"context"
	"sort"
	"sync"

	"pc-builder/core/build"
	"pc-builder/internal/errors"
)

// MemoryStore is an in-memory build store, used for tests and for the
// anonymous scope when no database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	builds map[string]build.NamedBuild
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{builds: make(map[string]build.NamedBuild)}
}

// Insert stores a new build record.
func (s *MemoryStore) Insert(_ context.Context, b build.NamedBuild) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.builds[b.ID]; dup {
		return errors.Newf(errors.TypeInternal, "duplicate build id %s", b.ID)
	}
	s.builds[b.ID] = b
	return nil
}

// Get returns a build by id if it is owned by ownerID. An absent id and
// an id owned by someone else are the same NotFound.
func (s *MemoryStore) Get(_ context.Context, id, ownerID string) (build.NamedBuild, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.builds[id]
	if !ok || b.OwnerID != ownerID {
		return build.NamedBuild{}, errors.NotFound("build", id)
	}
	return b, nil
}

// List returns every build owned by ownerID, newest first.
func (s *MemoryStore) List(_ context.Context, ownerID string) ([]build.NamedBuild, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []build.NamedBuild
	for _, b := range s.builds {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Delete removes a build owned by ownerID.
func (s *MemoryStore) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.builds[id]
	if !ok || b.OwnerID != ownerID {
		return errors.NotFound("build", id)
	}
	delete(s.builds, id)
	return nil
}
