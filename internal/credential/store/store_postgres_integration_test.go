//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"credvault/internal/credential/models"
	"credvault/internal/credential/store"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
	"credvault/pkg/testutil"
	"credvault/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) pending(holder id.DID, at time.Time) *models.Credential {
	c, err := models.NewPending(id.NewCredentialID(), "did:ex:issuer", holder, "Degree",
		models.Attributes{"name": "Alice", "age": "25"}, at.UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), c))
	return c
}

func (s *PostgresStoreSuite) issue(credID id.CredentialID) (*models.Credential, error) {
	return s.store.Transition(context.Background(), credID, models.IssueTransition(models.Issuance{
		StorageHash: "storage",
		AnchorHash:  "anchor",
		AnchorTxID:  "txn_1",
		IssuedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}))
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	c := s.pending("did:ex:alice", time.Now())

	found, err := s.store.FindByID(context.Background(), c.ID)
	s.Require().NoError(err)
	s.Equal(c.Attributes, found.Attributes)
	s.Equal(models.StatusPending, found.Status)
	s.Nil(found.IssuedAt)
	s.True(c.RequestedAt.Equal(found.RequestedAt))
}

func (s *PostgresStoreSuite) TestCreateDuplicate() {
	c := s.pending("did:ex:alice", time.Now())
	s.ErrorIs(s.store.Create(context.Background(), c), sentinel.ErrAlreadyExists)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(context.Background(), id.NewCredentialID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestTransitionLifecycle() {
	c := s.pending("did:ex:alice", time.Now())

	issued, err := s.issue(c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusIssued, issued.Status)
	s.Equal("txn_1", issued.AnchorTxID)

	_, err = s.issue(c.ID)
	s.ErrorIs(err, sentinel.ErrInvalidState)

	revoked, err := s.store.Transition(context.Background(), c.ID, models.RevokeTransition(models.Revocation{
		RevokedAt: time.Now().UTC(),
		Reason:    "compromised",
	}))
	s.Require().NoError(err)
	s.Equal(models.StatusRevoked, revoked.Status)
	s.Equal("compromised", revoked.RevocationReason)
	s.NotNil(revoked.RevokedAt)
}

func (s *PostgresStoreSuite) TestStageSurvivesReloadAndClearsOnIssue() {
	ctx := context.Background()
	c := s.pending("did:ex:alice", time.Now())
	staged := models.StagedIssuance{
		IssuedAt:    time.Now().UTC().Truncate(time.Microsecond),
		Signature:   "sig_1",
		StorageHash: "blob",
	}

	_, err := s.store.Stage(ctx, c.ID, staged)
	s.Require().NoError(err)

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Staged)
	s.True(staged.IssuedAt.Equal(found.Staged.IssuedAt))
	s.Equal(staged.Signature, found.Staged.Signature)
	s.Equal(staged.StorageHash, found.Staged.StorageHash)
	s.Equal(staged.Payload(c).IssuedAt, found.Staged.Payload(found).IssuedAt)

	issued, err := s.issue(c.ID)
	s.Require().NoError(err)
	s.Nil(issued.Staged)

	_, err = s.store.Stage(ctx, c.ID, staged)
	s.ErrorIs(err, sentinel.ErrInvalidState)

	_, err = s.store.Stage(ctx, id.NewCredentialID(), staged)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestTransitionMissing() {
	_, err := s.issue(id.NewCredentialID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestConcurrentIssueSingleWinner() {
	c := s.pending("did:ex:alice", time.Now())

	result := testutil.RunConcurrent(10, func(int) error {
		_, err := s.issue(c.ID)
		return err
	})
	s.Equal(int32(1), result.Successes)
	s.Equal(int32(9), result.InvalidStates)
}

func (s *PostgresStoreSuite) TestListWithStatusFilter() {
	base := time.Now()
	older := s.pending("did:ex:alice", base)
	newer := s.pending("did:ex:alice", base.Add(time.Minute))
	_, err := s.issue(older.ID)
	s.Require().NoError(err)

	all, err := s.store.ListByHolder(context.Background(), "did:ex:alice", store.Filter{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(newer.ID, all[0].ID)

	pending, err := s.store.ListByIssuer(context.Background(), "did:ex:issuer", store.Filter{Status: models.StatusPending})
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(newer.ID, pending[0].ID)
}
