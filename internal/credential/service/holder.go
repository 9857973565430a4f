package service

import (
	"context"

	"credvault/internal/activity"
	"credvault/internal/blobstore"
	"credvault/internal/credential/models"
	"credvault/internal/proof"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/middleware/requesttime"
)

// Share decrypts the holder's payload and discloses only the revealed attributes.
func (s *Service) Share(ctx context.Context, cmd ShareCommand) (*proof.DisclosureProof, error) {
	cred, payload, err := s.loadHeld(ctx, cmd.CredentialID, cmd.HolderDID)
	if err != nil {
		return nil, err
	}
	p, err := s.proofs.ConstructProof(subjectOf(cred), payload.Attributes, cmd.Revealed)
	if err != nil {
		return nil, err
	}

	e := activity.New(activity.TypeShared, cred.HolderDID, cred.ID, requesttime.Now(ctx).UTC())
	e.RelatedDID = cmd.VerifierDID
	s.publish(ctx, e)
	return p, nil
}

// ProvePredicate evaluates a predicate over a held attribute and commits to the result.
func (s *Service) ProvePredicate(ctx context.Context, cmd PredicateCommand) (*proof.RangeProof, error) {
	cred, payload, err := s.loadHeld(ctx, cmd.CredentialID, cmd.HolderDID)
	if err != nil {
		return nil, err
	}
	return s.proofs.VerifyRangePredicate(subjectOf(cred), payload.Attributes, cmd.Attribute, cmd.Operator, cmd.Threshold)
}

// ProveOwnership binds the credential to its holder without revealing attributes.
func (s *Service) ProveOwnership(ctx context.Context, credentialID id.CredentialID, holder id.DID) (*proof.OwnershipProof, error) {
	cred, err := s.loadIssuedFor(ctx, credentialID, holder)
	if err != nil {
		return nil, err
	}
	return s.proofs.ProveOwnership(subjectOf(cred))
}

// RetrievePayload returns the decrypted issuance payload to its holder or issuer.
func (s *Service) RetrievePayload(ctx context.Context, credentialID id.CredentialID, actor id.DID) (*models.IssuancePayload, error) {
	cred, err := s.store.FindByID(ctx, credentialID)
	if err != nil {
		return nil, fromStore(err, "load credential")
	}
	if actor != cred.HolderDID && actor != cred.IssuerDID {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the holder or issuer may read the credential payload")
	}
	if cred.StorageHash == "" {
		return nil, wrongState(cred.Status, models.StatusIssued)
	}
	return s.decryptPayload(ctx, cred)
}

// loadIssuedFor loads an issued credential owned by holder. Credentials held by
// someone else are reported as not found.
func (s *Service) loadIssuedFor(ctx context.Context, credentialID id.CredentialID, holder id.DID) (*models.Credential, error) {
	cred, err := s.store.FindByID(ctx, credentialID)
	if err != nil {
		return nil, fromStore(err, "load credential")
	}
	if !cred.IsOwnedBy(holder) {
		return nil, dErrors.New(dErrors.CodeNotFound, "credential not found")
	}
	if cred.Status != models.StatusIssued {
		return nil, wrongState(cred.Status, models.StatusIssued)
	}
	return cred, nil
}

func (s *Service) loadHeld(ctx context.Context, credentialID id.CredentialID, holder id.DID) (*models.Credential, *models.IssuancePayload, error) {
	cred, err := s.loadIssuedFor(ctx, credentialID, holder)
	if err != nil {
		return nil, nil, err
	}
	payload, err := s.decryptPayload(ctx, cred)
	if err != nil {
		return nil, nil, err
	}
	return cred, payload, nil
}

func (s *Service) decryptPayload(ctx context.Context, cred *models.Credential) (*models.IssuancePayload, error) {
	plain, err := s.blobs.Get(ctx, blobstore.ContentHash(cred.StorageHash))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeCryptoFailure, "failed to load credential payload")
	}
	var payload models.IssuancePayload
	if err := plain.Decode(&payload); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeCryptoFailure, "failed to decode credential payload")
	}
	return &payload, nil
}

func subjectOf(c *models.Credential) proof.Subject {
	return proof.Subject{CredentialID: c.ID, CredDefID: c.CredDefID, HolderDID: c.HolderDID}
}
