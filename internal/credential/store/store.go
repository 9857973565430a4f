// Package store persists credentials.
//
// Error contract: ErrNotFound for unknown ids, ErrAlreadyExists when Create
// collides with an existing id, ErrInvalidState when a Transition's From status
// no longer matches the stored status or a Stage targets a credential that is not
// pending.
package store

import (
	"context"

	"credvault/internal/credential/models"
	id "credvault/pkg/domain"
)

// Filter narrows list queries. A zero Status matches every status.
type Filter struct {
	Status models.Status
}

func (f Filter) matches(c *models.Credential) bool {
	return f.Status == "" || c.Status == f.Status
}

type Store interface {
	Create(ctx context.Context, c *models.Credential) error
	FindByID(ctx context.Context, credentialID id.CredentialID) (*models.Credential, error)
	ListByHolder(ctx context.Context, holder id.DID, filter Filter) ([]*models.Credential, error)
	ListByIssuer(ctx context.Context, issuer id.DID, filter Filter) ([]*models.Credential, error)
	// Transition atomically moves a credential from t.From to t.To and returns the updated credential.
	Transition(ctx context.Context, credentialID id.CredentialID, t models.Transition) (*models.Credential, error)
	Stage(ctx context.Context, credentialID id.CredentialID, staged models.StagedIssuance) (*models.Credential, error)
}
