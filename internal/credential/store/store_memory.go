package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"credvault/internal/credential/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
)

// InMemoryStore keeps credentials in memory. Returned values are copies.
type InMemoryStore struct {
	mu          sync.RWMutex
	credentials map[id.CredentialID]*models.Credential
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{credentials: make(map[id.CredentialID]*models.Credential)}
}

func (s *InMemoryStore) Create(_ context.Context, c *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credentials[c.ID]; ok {
		return sentinel.ErrAlreadyExists
	}
	s.credentials[c.ID] = c.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, credentialID id.CredentialID) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.credentials[credentialID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *InMemoryStore) ListByHolder(_ context.Context, holder id.DID, filter Filter) ([]*models.Credential, error) {
	return s.list(func(c *models.Credential) bool { return c.HolderDID == holder && filter.matches(c) }), nil
}

func (s *InMemoryStore) ListByIssuer(_ context.Context, issuer id.DID, filter Filter) ([]*models.Credential, error) {
	return s.list(func(c *models.Credential) bool { return c.IssuerDID == issuer && filter.matches(c) }), nil
}

func (s *InMemoryStore) list(keep func(*models.Credential) bool) []*models.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Credential
	for _, c := range s.credentials {
		if keep(c) {
			out = append(out, c.Clone())
		}
	}
	// newest first, matching the postgres ordering
	slices.SortFunc(out, func(a, b *models.Credential) int {
		return cmp.Or(b.RequestedAt.Compare(a.RequestedAt), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (s *InMemoryStore) Transition(_ context.Context, credentialID id.CredentialID, t models.Transition) (*models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.credentials[credentialID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if c.Status != t.From {
		return nil, sentinel.ErrInvalidState
	}
	t.Apply(c)
	return c.Clone(), nil
}

func (s *InMemoryStore) Stage(_ context.Context, credentialID id.CredentialID, staged models.StagedIssuance) (*models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.credentials[credentialID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if c.Status != models.StatusPending {
		return nil, sentinel.ErrInvalidState
	}
	c.Staged = &staged
	return c.Clone(), nil
}
