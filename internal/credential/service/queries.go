package service

import (
	"context"

	"credvault/internal/credential/models"
	"credvault/internal/credential/store"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

func (s *Service) Get(ctx context.Context, credentialID id.CredentialID) (*models.Credential, error) {
	cred, err := s.store.FindByID(ctx, credentialID)
	if err != nil {
		return nil, fromStore(err, "load credential")
	}
	return cred, nil
}

// ListByHolder returns the holder's credentials, newest first.
func (s *Service) ListByHolder(ctx context.Context, holder id.DID, filter store.Filter) ([]*models.Credential, error) {
	if err := validateFilter(holder, filter); err != nil {
		return nil, err
	}
	creds, err := s.store.ListByHolder(ctx, holder, filter)
	if err != nil {
		return nil, fromStore(err, "list holder credentials")
	}
	return creds, nil
}

// ListByIssuer returns credentials requested from the issuer, newest first.
// Issuers use the pending filter as their work queue.
func (s *Service) ListByIssuer(ctx context.Context, issuer id.DID, filter store.Filter) ([]*models.Credential, error) {
	if err := validateFilter(issuer, filter); err != nil {
		return nil, err
	}
	creds, err := s.store.ListByIssuer(ctx, issuer, filter)
	if err != nil {
		return nil, fromStore(err, "list issuer credentials")
	}
	return creds, nil
}

// HolderStats counts the holder's credentials per status.
func (s *Service) HolderStats(ctx context.Context, holder id.DID) (models.HolderStats, error) {
	creds, err := s.ListByHolder(ctx, holder, store.Filter{})
	if err != nil {
		return models.HolderStats{}, err
	}
	var stats models.HolderStats
	for _, c := range creds {
		stats.Add(c.Status)
	}
	return stats, nil
}

// RevocationStatus reports whether the credential has an active revocation.
func (s *Service) RevocationStatus(ctx context.Context, credentialID id.CredentialID) (*RevocationStatus, error) {
	cred, err := s.store.FindByID(ctx, credentialID)
	if err != nil {
		return nil, fromStore(err, "load credential")
	}
	rec, err := s.revocations.IsActive(ctx, credentialID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check revocation")
	}
	return &RevocationStatus{
		CredentialID: credentialID,
		IsRevoked:    rec != nil,
		Status:       cred.Status,
		Details:      rec,
	}, nil
}

func validateFilter(did id.DID, filter store.Filter) error {
	if did.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "DID is required")
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown credential status: "+string(filter.Status))
	}
	return nil
}
