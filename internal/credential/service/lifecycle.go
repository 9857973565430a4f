package service

import (
	"context"
	"errors"
	"time"

	"credvault/internal/activity"
	"credvault/internal/credential/models"
	"credvault/internal/identity"
	"credvault/internal/platform/tracer"
	revmodels "credvault/internal/revocation/models"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/encryption"
	"credvault/pkg/platform/middleware/requesttime"
	"credvault/pkg/platform/sentinel"
)

// Request records a pending credential.
func (s *Service) Request(ctx context.Context, cmd RequestCommand) (*models.Credential, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := requesttime.Now(ctx).UTC()
	cred, err := models.NewPending(id.NewCredentialID(), cmd.IssuerDID, cmd.HolderDID, cmd.CredentialType, cmd.Attributes, now)
	if err != nil {
		return nil, err
	}
	if err := s.registerType(ctx, cred); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, cred); err != nil {
		return nil, fromStore(err, "save credential request")
	}

	s.logger.InfoContext(ctx, "credential requested",
		"credential_id", cred.ID,
		"issuer_did", cred.IssuerDID,
		"holder_did", cred.HolderDID,
		"credential_type", cred.Type,
	)
	if s.metrics != nil {
		s.metrics.IncrementRequested(cred.Type)
	}
	e := activity.New(activity.TypeRequested, cred.HolderDID, cred.ID, now)
	e.RelatedDID = cred.IssuerDID
	e.Metadata = map[string]string{"credential_type": cred.Type}
	s.publish(ctx, e)
	return cred, nil
}

// registerType binds the credential's issuer to its schema and credential definition
// on the identity ledger.
func (s *Service) registerType(ctx context.Context, cred *models.Credential) error {
	reg, err := s.identity.RegisterCredentialType(ctx, identity.CredentialType{
		IssuerDID: cred.IssuerDID,
		Name:      cred.Type,
		SchemaID:  cred.SchemaID,
		CredDefID: cred.CredDefID,
		AttrNames: cred.Attributes.Names(),
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register credential type")
	}
	if reg.Created {
		s.logger.InfoContext(ctx, "credential type registered",
			"cred_def_id", reg.Value.ID,
			"issuer_did", cred.IssuerDID,
		)
	}
	return nil
}

// Issue signs, encrypts and anchors the issuance payload, then moves the credential
// from pending to issued. A failure before the transition leaves it pending.
func (s *Service) Issue(ctx context.Context, credentialID id.CredentialID) (result *IssueResult, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssue, tracer.String(tracer.AttrCredentialID, credentialID.String()))
	defer func() { span.End(err) }()

	key := credentialID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	cred, err := s.store.FindByID(ctx, credentialID)
	if err != nil {
		return nil, fromStore(err, "load credential")
	}
	if cred.Status != models.StatusPending {
		return nil, wrongState(cred.Status, models.StatusPending)
	}
	span.SetAttributes(tracer.String(tracer.AttrIssuerDID, cred.IssuerDID.String()))

	// idempotent; re-binds the issuer if the identity ledger lost its registry
	if err := s.registerType(ctx, cred); err != nil {
		return nil, err
	}
	staged, err := s.stage(ctx, cred)
	if err != nil {
		return nil, err
	}
	payload := staged.Payload(cred)

	anchorHash, err := encryption.Digest(payload)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeCryptoFailure, "failed to digest issuance payload")
	}
	anchorCtx, anchorSpan := s.tracer.Start(ctx, tracer.SpanIssueAnchor)
	anchored, err := s.ledger.Anchor(anchorCtx, anchorHash, cred.IssuerDID)
	anchorSpan.End(err)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeAnchorFailure, "failed to anchor issuance payload")
	}
	span.SetAttributes(
		tracer.String(tracer.AttrAnchorTxID, anchored.Record.TxID),
		tracer.Bool(tracer.AttrAnchorReused, !anchored.Created),
	)

	issued, err := s.store.Transition(ctx, credentialID, models.IssueTransition(models.Issuance{
		StorageHash: staged.StorageHash,
		AnchorHash:  anchorHash,
		AnchorTxID:  anchored.Record.TxID,
		IssuedAt:    staged.IssuedAt,
	}))
	if err != nil {
		return nil, fromStore(err, "mark credential issued")
	}

	s.logger.InfoContext(ctx, "credential issued",
		"credential_id", issued.ID,
		"issuer_did", issued.IssuerDID,
		"anchor_tx_id", issued.AnchorTxID,
	)
	if s.metrics != nil {
		s.metrics.IncrementIssued(issued.Type)
		s.metrics.ObserveIssuanceLatency(time.Since(start).Seconds())
	}
	e := activity.New(activity.TypeIssued, issued.IssuerDID, issued.ID, staged.IssuedAt)
	e.RelatedDID = issued.HolderDID
	e.Metadata = map[string]string{"anchor_tx_id": issued.AnchorTxID}
	s.publish(ctx, e)

	return &IssueResult{
		Credential:   issued,
		Anchor:       anchored.Record,
		AnchorReused: !anchored.Created,
		Signature:    staged.Signature,
	}, nil
}

// stage returns the credential's staged issuance. The first attempt signs the
// payload, stores it encrypted and records the stage; later attempts reuse it so a
// retry after a lost ledger acknowledgement anchors the same hash.
func (s *Service) stage(ctx context.Context, cred *models.Credential) (models.StagedIssuance, error) {
	if cred.Staged != nil {
		s.logger.DebugContext(ctx, "resuming staged issuance",
			"credential_id", cred.ID,
			"storage_hash", cred.Staged.StorageHash,
		)
		return *cred.Staged, nil
	}

	// truncated to what postgres keeps, so a reloaded stage rebuilds the same payload
	issuedAt := requesttime.Now(ctx).UTC().Truncate(time.Microsecond)
	signature, err := s.sign(ctx, cred, issuedAt)
	if err != nil {
		return models.StagedIssuance{}, err
	}
	staged := models.StagedIssuance{IssuedAt: issuedAt, Signature: signature}

	storeCtx, storeSpan := s.tracer.Start(ctx, tracer.SpanIssueStore)
	storageHash, err := s.blobs.Put(storeCtx, staged.Payload(cred))
	storeSpan.End(err)
	if err != nil {
		return models.StagedIssuance{}, dErrors.Wrap(err, dErrors.CodeCryptoFailure, "failed to store issuance payload")
	}
	staged.StorageHash = storageHash.String()

	if _, err := s.store.Stage(ctx, cred.ID, staged); err != nil {
		return models.StagedIssuance{}, fromStore(err, "stage issuance")
	}
	return staged, nil
}

func (s *Service) sign(ctx context.Context, cred *models.Credential, issuedAt time.Time) (string, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssueSign)
	attrsDigest, err := encryption.Digest(cred.Attributes)
	if err != nil {
		span.End(err)
		return "", dErrors.Wrap(err, dErrors.CodeCryptoFailure, "failed to digest attributes")
	}
	signature, err := s.signer.Sign(ctx, identity.SigningInput{
		CredentialID:     cred.ID,
		CredDefID:        cred.CredDefID,
		IssuerDID:        cred.IssuerDID,
		HolderDID:        cred.HolderDID,
		AttributesDigest: attrsDigest,
		IssuedAt:         issuedAt,
	})
	span.End(err)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeCryptoFailure, "failed to sign credential")
	}
	return signature, nil
}

// Revoke records a revocation and moves the credential from issued to revoked in
// one transaction. Revocation is irreversible.
func (s *Service) Revoke(ctx context.Context, credentialID id.CredentialID, reason string) (result *RevokeResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRevoke, tracer.String(tracer.AttrCredentialID, credentialID.String()))
	defer func() { span.End(err) }()

	key := credentialID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	cred, err := s.store.FindByID(ctx, credentialID)
	if err != nil {
		return nil, fromStore(err, "load credential")
	}
	if cred.Status != models.StatusIssued {
		return nil, wrongState(cred.Status, models.StatusIssued)
	}

	now := requesttime.Now(ctx).UTC()
	rec, err := revmodels.NewRecord(cred.ID, cred.IssuerDID, cred.HolderDID, reason, now)
	if err != nil {
		return nil, err
	}

	var revoked *models.Credential
	err = s.tx.RunInTx(ctx, func(ctx context.Context, stores Stores) error {
		if err := stores.Revocations.Create(ctx, rec); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyExists) {
				return dErrors.New(dErrors.CodeInvalidState, "credential is already revoked")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record revocation")
		}
		updated, err := stores.Credentials.Transition(ctx, cred.ID, models.RevokeTransition(models.Revocation{
			RevokedAt: now,
			Reason:    rec.Reason,
		}))
		if err != nil {
			return fromStore(err, "mark credential revoked")
		}
		revoked = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "credential revoked",
		"credential_id", revoked.ID,
		"issuer_did", revoked.IssuerDID,
		"reason", rec.Reason,
	)
	if s.metrics != nil {
		s.metrics.IncrementRevoked(revoked.Type)
	}
	e := activity.New(activity.TypeRevoked, revoked.IssuerDID, revoked.ID, now)
	e.RelatedDID = revoked.HolderDID
	e.Metadata = map[string]string{"reason": rec.Reason}
	s.publish(ctx, e)

	return &RevokeResult{Credential: revoked, Revocation: rec}, nil
}
