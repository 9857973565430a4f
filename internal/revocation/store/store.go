// Package store persists revocation records.
//
// Error contract: ErrNotFound when no record exists for a credential,
// ErrAlreadyExists when Create is called for a credential that already has one,
// wrapped errors for infrastructure failures.
package store

import (
	"context"

	"credvault/internal/revocation/models"
	id "credvault/pkg/domain"
)

type Store interface {
	Create(ctx context.Context, rec *models.Record) error
	FindByCredential(ctx context.Context, credentialID id.CredentialID) (*models.Record, error)
	ListByHolder(ctx context.Context, holder id.DID) ([]*models.Record, error)
}
