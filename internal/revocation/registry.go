// Package revocation answers whether a credential has been revoked.
//
// Verifiers must consult the registry independently of the credential's own status and of
// ledger verification: an issued credential with an active record is untrustworthy.
package revocation

import (
	"context"
	"errors"

	"credvault/internal/revocation/models"
	"credvault/internal/revocation/store"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/sentinel"
)

// Registry is a read-side view over the revocation store.
type Registry struct {
	store store.Store
}

func NewRegistry(s store.Store) *Registry {
	return &Registry{store: s}
}

// IsActive returns the active revocation record for credentialID, or nil, nil when the
// credential has none (or only an inactive one).
func (r *Registry) IsActive(ctx context.Context, credentialID id.CredentialID) (*models.Record, error) {
	rec, err := r.store.FindByCredential(ctx, credentialID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load revocation record")
	}
	if !rec.Active {
		return nil, nil
	}
	return rec, nil
}

// Find returns the revocation record regardless of its active flag.
func (r *Registry) Find(ctx context.Context, credentialID id.CredentialID) (*models.Record, error) {
	rec, err := r.store.FindByCredential(ctx, credentialID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "revocation record not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load revocation record")
	}
	return rec, nil
}

// ListByHolder returns the holder's revocation records, newest first.
func (r *Registry) ListByHolder(ctx context.Context, holder id.DID) ([]*models.Record, error) {
	recs, err := r.store.ListByHolder(ctx, holder)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list revocation records")
	}
	return recs, nil
}
