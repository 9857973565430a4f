package revocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"credvault/internal/revocation/models"
	"credvault/internal/revocation/store"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

type RegistrySuite struct {
	suite.Suite
	ctx      context.Context
	store    *store.InMemoryStore
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
	s.registry = NewRegistry(s.store)
}

func (s *RegistrySuite) revoke(credID id.CredentialID, holder id.DID) *models.Record {
	rec, err := models.NewRecord(credID, "did:ex:issuer", holder, "compromised", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, rec))
	return rec
}

func (s *RegistrySuite) TestIsActiveWithoutRecord() {
	rec, err := s.registry.IsActive(s.ctx, id.NewCredentialID())
	s.NoError(err)
	s.Nil(rec)
}

func (s *RegistrySuite) TestIsActiveReturnsRecord() {
	credID := id.NewCredentialID()
	s.revoke(credID, "did:ex:alice")

	rec, err := s.registry.IsActive(s.ctx, credID)
	s.Require().NoError(err)
	s.Require().NotNil(rec)
	s.Equal("compromised", rec.Reason)
	s.True(rec.Active)
}

func (s *RegistrySuite) TestInactiveRecordIsNotActive() {
	credID := id.NewCredentialID()
	rec, err := models.NewRecord(credID, "did:ex:issuer", "did:ex:alice", "superseded", time.Now())
	s.Require().NoError(err)
	rec.Active = false
	s.Require().NoError(s.store.Create(s.ctx, rec))

	active, err := s.registry.IsActive(s.ctx, credID)
	s.NoError(err)
	s.Nil(active)

	found, err := s.registry.Find(s.ctx, credID)
	s.Require().NoError(err)
	s.False(found.Active)
}

func (s *RegistrySuite) TestFindMissing() {
	_, err := s.registry.Find(s.ctx, id.NewCredentialID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *RegistrySuite) TestListByHolder() {
	s.revoke(id.NewCredentialID(), "did:ex:alice")
	s.revoke(id.NewCredentialID(), "did:ex:alice")
	s.revoke(id.NewCredentialID(), "did:ex:bob")

	recs, err := s.registry.ListByHolder(s.ctx, "did:ex:alice")
	s.Require().NoError(err)
	s.Len(recs, 2)
}

func (s *RegistrySuite) TestStoreFailureIsInternal() {
	r := NewRegistry(brokenStore{})
	_, err := r.IsActive(s.ctx, id.NewCredentialID())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

type brokenStore struct{}

func (brokenStore) Create(context.Context, *models.Record) error { return errors.New("db down") }

func (brokenStore) FindByCredential(context.Context, id.CredentialID) (*models.Record, error) {
	return nil, errors.New("db down")
}

func (brokenStore) ListByHolder(context.Context, id.DID) ([]*models.Record, error) {
	return nil, errors.New("db down")
}
