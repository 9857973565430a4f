// Package service implements the credential lifecycle: request, issue, revoke,
// holder proofs, verifier checks and queries.
//
// Issue and Revoke are serialized per credential in-process by a sharded mutex;
// the store transition is a compare-and-swap on status so writers in other
// processes lose with InvalidState as well.
package service

import (
	"context"
	"log/slog"

	"credvault/internal/activity"
	"credvault/internal/anchor"
	"credvault/internal/blobstore"
	"credvault/internal/credential/models"
	"credvault/internal/credential/store"
	"credvault/internal/identity"
	"credvault/internal/platform/metrics"
	"credvault/internal/platform/tracer"
	"credvault/internal/proof"
	revmodels "credvault/internal/revocation/models"
	id "credvault/pkg/domain"
	"credvault/pkg/encryption"
	platformsync "credvault/pkg/platform/sync"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Store persists credentials. See credential/store for the error contract.
type Store interface {
	Create(ctx context.Context, c *models.Credential) error
	FindByID(ctx context.Context, credentialID id.CredentialID) (*models.Credential, error)
	ListByHolder(ctx context.Context, holder id.DID, filter store.Filter) ([]*models.Credential, error)
	ListByIssuer(ctx context.Context, issuer id.DID, filter store.Filter) ([]*models.Credential, error)
	Transition(ctx context.Context, credentialID id.CredentialID, t models.Transition) (*models.Credential, error)
	Stage(ctx context.Context, credentialID id.CredentialID, staged models.StagedIssuance) (*models.Credential, error)
}

// RevocationStore persists revocation records.
type RevocationStore interface {
	Create(ctx context.Context, rec *revmodels.Record) error
}

// Stores is the set of stores bound to one transaction.
type Stores struct {
	Credentials Store
	Revocations RevocationStore
}

// StoreTx runs fn with stores that commit or roll back together.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

// BlobStore holds encrypted issuance payloads.
type BlobStore interface {
	Put(ctx context.Context, plaintext any) (blobstore.ContentHash, error)
	Get(ctx context.Context, hash blobstore.ContentHash) (encryption.Plaintext, error)
}

// Ledger records anchor hashes.
type Ledger interface {
	Anchor(ctx context.Context, hash string, issuer id.DID) (anchor.Result, error)
	Find(ctx context.Context, hash string) (anchor.Record, error)
}

// RevocationChecker reports the active revocation of a credential, or nil.
type RevocationChecker interface {
	IsActive(ctx context.Context, credentialID id.CredentialID) (*revmodels.Record, error)
}

// Signer produces issuance signatures.
type Signer interface {
	Sign(ctx context.Context, in identity.SigningInput) (string, error)
}

// IdentityLedger registers credential types and checks credentials against the
// identity ledger.
type IdentityLedger interface {
	RegisterCredentialType(ctx context.Context, t identity.CredentialType) (identity.Registration[identity.CredentialDefinition], error)
	Verify(ctx context.Context, cred identity.CredentialView, credDefID string) (identity.Verification, error)
}

type Service struct {
	store       Store
	tx          StoreTx
	blobs       BlobStore
	ledger      Ledger
	revocations RevocationChecker
	identity    IdentityLedger
	signer      Signer
	proofs      *proof.Engine
	activity    activity.Publisher
	metrics     *metrics.Metrics
	tracer      tracer.Tracer
	logger      *slog.Logger
	locks       *platformsync.ShardedMutex
}

// Option configures the Service.
type Option func(*Service)

// WithSigner replaces the placeholder issuance signer.
func WithSigner(signer Signer) Option {
	return func(s *Service) {
		s.signer = signer
	}
}

func WithProofEngine(e *proof.Engine) Option {
	return func(s *Service) {
		s.proofs = e
	}
}

// WithActivity sets the activity log publisher. Publishing is best-effort.
func WithActivity(p activity.Publisher) Option {
	return func(s *Service) {
		s.activity = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates the lifecycle service. Panics if a required dependency is nil.
func New(
	credentials Store,
	tx StoreTx,
	blobs BlobStore,
	ledger Ledger,
	revocations RevocationChecker,
	identityLedger IdentityLedger,
	opts ...Option,
) *Service {
	if credentials == nil {
		panic("service.New: credential store is required")
	}
	if tx == nil {
		panic("service.New: transaction runner is required")
	}
	if blobs == nil {
		panic("service.New: blob store is required")
	}
	if ledger == nil {
		panic("service.New: anchor ledger is required")
	}
	if revocations == nil {
		panic("service.New: revocation registry is required")
	}
	if identityLedger == nil {
		panic("service.New: identity ledger is required")
	}

	s := &Service{
		store:       credentials,
		tx:          tx,
		blobs:       blobs,
		ledger:      ledger,
		revocations: revocations,
		identity:    identityLedger,
		signer:      identity.PlaceholderSigner{},
		proofs:      proof.NewEngine(),
		tracer:      tracer.NewNoop(),
		logger:      slog.Default(),
		locks:       platformsync.NewShardedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) publish(ctx context.Context, e activity.Event) {
	if s.activity == nil {
		return
	}
	s.activity.Publish(ctx, e)
}
