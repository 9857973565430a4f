package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credvault/internal/revocation/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
	"credvault/pkg/testutil"
)

func newRecord(t *testing.T, holder id.DID, at time.Time) *models.Record {
	t.Helper()
	rec, err := models.NewRecord(id.NewCredentialID(), "did:ex:issuer", holder, "compromised", at)
	require.NoError(t, err)
	return rec
}

func TestInMemoryCreateIsOncePerCredential(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	rec := newRecord(t, "did:ex:alice", time.Now())

	require.NoError(t, s.Create(ctx, rec))

	dup := *rec
	dup.Reason = "second"
	err := s.Create(ctx, &dup)
	assert.True(t, errors.Is(err, sentinel.ErrAlreadyExists))

	found, err := s.FindByCredential(ctx, rec.CredentialID)
	require.NoError(t, err)
	assert.Equal(t, "compromised", found.Reason)
}

func TestInMemoryConcurrentCreate(t *testing.T) {
	s := NewInMemory()
	rec := newRecord(t, "did:ex:alice", time.Now())

	successes, errs := testutil.RunConcurrentCollect(10, func(int) error {
		r := *rec
		return s.Create(context.Background(), &r)
	})
	assert.Equal(t, int32(1), successes)
	assert.Len(t, errs, 9)
	for _, err := range errs {
		assert.ErrorIs(t, err, sentinel.ErrAlreadyExists)
	}
}

func TestInMemoryFindMissing(t *testing.T) {
	_, err := NewInMemory().FindByCredential(context.Background(), id.NewCredentialID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryListByHolderNewestFirst(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	base := time.Now()
	older := newRecord(t, "did:ex:alice", base)
	newer := newRecord(t, "did:ex:alice", base.Add(time.Minute))
	other := newRecord(t, "did:ex:bob", base)
	for _, r := range []*models.Record{older, newer, other} {
		require.NoError(t, s.Create(ctx, r))
	}

	recs, err := s.ListByHolder(ctx, "did:ex:alice")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, newer.CredentialID, recs[0].CredentialID)
	assert.Equal(t, older.CredentialID, recs[1].CredentialID)
}

func TestInMemoryReturnsCopies(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	rec := newRecord(t, "did:ex:alice", time.Now())
	require.NoError(t, s.Create(ctx, rec))

	found, err := s.FindByCredential(ctx, rec.CredentialID)
	require.NoError(t, err)
	found.Reason = "mutated"

	again, err := s.FindByCredential(ctx, rec.CredentialID)
	require.NoError(t, err)
	assert.Equal(t, "compromised", again.Reason)
}
