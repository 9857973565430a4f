// Package blobstore is a content-addressed store for encrypted payloads.
//
// Hashes are derived from a fresh random seed rather than the plaintext, so two
// puts of identical content produce distinct, independently resolvable entries.
// Entries are immutable: there is no update or delete.
package blobstore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/encryption"
	"credvault/pkg/platform/sentinel"
)

// ContentHash addresses one stored blob.
type ContentHash string

func (h ContentHash) String() string { return string(h) }

// Backend persists encrypted blobs. PutIfAbsent must return sentinel.ErrAlreadyExists
// when the hash is taken and never overwrite; Get returns sentinel.ErrNotFound when absent.
type Backend interface {
	PutIfAbsent(ctx context.Context, hash ContentHash, blob string) error
	Get(ctx context.Context, hash ContentHash) (string, error)
}

// maxHashAttempts bounds retries on the (practically impossible) hash collision.
const maxHashAttempts = 3

// Store encrypts plaintexts and writes them through a Backend.
type Store struct {
	cipher  *encryption.Cipher
	backend Backend
	logger  *slog.Logger
	newSeed func() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithSeedSource overrides the random hash seed generator. Tests only.
func WithSeedSource(fn func() string) Option {
	return func(s *Store) { s.newSeed = fn }
}

// New constructs a Store.
func New(cipher *encryption.Cipher, backend Backend, opts ...Option) *Store {
	s := &Store{
		cipher:  cipher,
		backend: backend,
		logger:  slog.Default(),
		newSeed: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put encrypts plaintext and stores it under a fresh content hash.
func (s *Store) Put(ctx context.Context, plaintext any) (ContentHash, error) {
	blob, err := s.cipher.Encrypt(plaintext)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeCryptoFailure, "encrypt payload")
	}

	for range maxHashAttempts {
		digest, err := encryption.Digest(s.newSeed())
		if err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeCryptoFailure, "derive content hash")
		}
		hash := ContentHash(digest)

		err = s.backend.PutIfAbsent(ctx, hash, blob)
		if err == nil {
			return hash, nil
		}
		if !errors.Is(err, sentinel.ErrAlreadyExists) {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "store encrypted payload")
		}
		s.logger.WarnContext(ctx, "content hash collision, retrying", "content_hash", hash)
	}
	return "", dErrors.New(dErrors.CodeInternal, "could not allocate a unique content hash")
}

// Get fetches and decrypts the blob stored under hash.
func (s *Store) Get(ctx context.Context, hash ContentHash) (encryption.Plaintext, error) {
	blob, err := s.backend.Get(ctx, hash)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "payload not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load encrypted payload")
	}

	plain, err := s.cipher.Decrypt(blob)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeCryptoFailure, "decrypt payload")
	}
	return plain, nil
}
