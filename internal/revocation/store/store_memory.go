package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"credvault/internal/revocation/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
)

// InMemoryStore keeps revocation records in memory for tests and single-process use.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.CredentialID]models.Record
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.CredentialID]models.Record)}
}

func (s *InMemoryStore) Create(_ context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.CredentialID]; ok {
		return sentinel.ErrAlreadyExists
	}
	s.records[rec.CredentialID] = *rec
	return nil
}

func (s *InMemoryStore) FindByCredential(_ context.Context, credentialID id.CredentialID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[credentialID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}

func (s *InMemoryStore) ListByHolder(_ context.Context, holder id.DID) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Record
	for _, rec := range s.records {
		if rec.HolderDID == holder {
			r := rec
			out = append(out, &r)
		}
	}
	slices.SortFunc(out, func(a, b *models.Record) int {
		return cmp.Or(b.RevokedAt.Compare(a.RevokedAt), cmp.Compare(a.CredentialID, b.CredentialID))
	})
	return out, nil
}
