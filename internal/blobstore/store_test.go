package blobstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/encryption"
	"credvault/pkg/platform/sentinel"
)

type StoreSuite struct {
	suite.Suite
	ctx     context.Context
	backend *MemoryBackend
	store   *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	cipher, err := encryption.NewCipher([]byte(strings.Repeat("k", encryption.KeySize)))
	s.Require().NoError(err)
	s.backend = NewMemoryBackend()
	s.store = New(cipher, s.backend, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func (s *StoreSuite) TestPutGetRoundTrip() {
	payload := map[string]any{"credentialId": "cred_1", "attributes": map[string]any{"age": "25"}}

	hash, err := s.store.Put(s.ctx, payload)
	s.Require().NoError(err)
	s.Len(hash.String(), 64)

	plain, err := s.store.Get(s.ctx, hash)
	s.Require().NoError(err)

	var got map[string]any
	s.Require().NoError(plain.Decode(&got))
	s.Equal(payload, got)
}

func (s *StoreSuite) TestIdenticalPlaintextsGetDistinctHashes() {
	h1, err := s.store.Put(s.ctx, "same")
	s.Require().NoError(err)
	h2, err := s.store.Put(s.ctx, "same")
	s.Require().NoError(err)

	s.NotEqual(h1, h2)
	for _, h := range []ContentHash{h1, h2} {
		plain, err := s.store.Get(s.ctx, h)
		s.Require().NoError(err)
		s.Equal("same", plain.String())
	}
	s.Equal(2, s.backend.Len())
}

func (s *StoreSuite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, "deadbeef")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *StoreSuite) TestGetCorruptBlob() {
	s.Require().NoError(s.backend.PutIfAbsent(s.ctx, "bad", "not-a-blob"))

	_, err := s.store.Get(s.ctx, "bad")
	s.True(dErrors.HasCode(err, dErrors.CodeCryptoFailure))
}

func (s *StoreSuite) TestHashCollisionRetries() {
	seeds := []string{"fixed", "fixed", "other"}
	cipher, err := encryption.NewCipher([]byte(strings.Repeat("k", encryption.KeySize)))
	s.Require().NoError(err)
	store := New(cipher, s.backend,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithSeedSource(func() string {
			next := seeds[0]
			seeds = seeds[1:]
			return next
		}),
	)

	first, err := store.Put(s.ctx, "a")
	s.Require().NoError(err)
	second, err := store.Put(s.ctx, "b")
	s.Require().NoError(err)

	s.NotEqual(first, second)
	plain, err := store.Get(s.ctx, first)
	s.Require().NoError(err)
	s.Equal("a", plain.String(), "collision must not overwrite the first blob")
}

func (s *StoreSuite) TestBackendFailureIsInternal() {
	cipher, err := encryption.NewCipher([]byte(strings.Repeat("k", encryption.KeySize)))
	s.Require().NoError(err)
	store := New(cipher, failingBackend{})

	_, err = store.Put(s.ctx, "x")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	_, err = store.Get(s.ctx, "x")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *StoreSuite) TestConcurrentPuts() {
	const writers = 50
	hashes := make(chan ContentHash, writers)
	errs := make(chan error, writers)

	for range writers {
		go func() {
			h, err := s.store.Put(s.ctx, "payload")
			hashes <- h
			errs <- err
		}()
	}

	seen := make(map[ContentHash]struct{}, writers)
	for range writers {
		s.Require().NoError(<-errs)
		seen[<-hashes] = struct{}{}
	}
	s.Len(seen, writers)
}

type failingBackend struct{}

func (failingBackend) PutIfAbsent(context.Context, ContentHash, string) error {
	return errors.New("connection refused")
}

func (failingBackend) Get(context.Context, ContentHash) (string, error) {
	return "", errors.New("connection refused")
}

func TestMemoryBackendPutIfAbsent(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	if err := b.PutIfAbsent(ctx, "h", "one"); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := b.PutIfAbsent(ctx, "h", "two"); !errors.Is(err, sentinel.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	got, err := b.Get(ctx, "h")
	if err != nil || got != "one" {
		t.Fatalf("expected original blob, got %q, %v", got, err)
	}
	if _, err := b.Get(ctx, "missing"); !errors.Is(err, sentinel.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
