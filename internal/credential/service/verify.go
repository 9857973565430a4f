package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"credvault/internal/activity"
	"credvault/internal/anchor"
	"credvault/internal/credential/models"
	"credvault/internal/identity"
	"credvault/internal/platform/metrics"
	"credvault/internal/platform/tracer"
	revmodels "credvault/internal/revocation/models"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/middleware/requesttime"
)

// VerifyPresentation checks a presented credential. The revocation lookup, the
// identity ledger verification and the anchor lookup are independent and run
// concurrently; all must pass, the credential must be issued, and a supplied proof
// must verify for the same credential definition.
func (s *Service) VerifyPresentation(ctx context.Context, p Presentation) (result *PresentationResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify, tracer.String(tracer.AttrCredentialID, p.CredentialID.String()))
	defer func() {
		if result != nil {
			span.SetAttributes(tracer.Bool(tracer.AttrVerified, result.Verified))
		}
		span.End(err)
	}()

	if p.CredentialID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credential ID is required")
	}
	if p.Proof == nil && p.Revealed != nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "revealed attributes require a proof")
	}
	if p.Proof != nil && p.Revealed == nil {
		// a proof that discloses nothing
		p.Revealed = map[string]string{}
	}

	cred, err := s.store.FindByID(ctx, p.CredentialID)
	if err != nil {
		return nil, fromStore(err, "load credential")
	}
	checks, err := s.checkCredential(ctx, cred)
	if err != nil {
		return nil, err
	}

	result = &PresentationResult{
		CredentialID:   cred.ID,
		CredentialType: cred.Type,
		IssuerDID:      cred.IssuerDID,
		HolderDID:      cred.HolderDID,
		IssuedAt:       cred.IssuedAt,
		Status:         cred.Status,
		Revealed:       map[string]string{},
		Ledger:         checks.ledger,
		Anchor:         checks.anchor,
		Revocation:     checks.revocation,
		VerifiedAt:     requesttime.Now(ctx).UTC(),
	}
	if p.Revealed != nil {
		result.Revealed = p.Revealed
	}

	switch {
	case checks.revocation != nil:
		result.Reason = ReasonRevoked
	case p.Proof != nil:
		reason, err := s.checkDisclosure(p, cred, result)
		if err != nil {
			s.recordVerification(ctx, p.VerifierDID, cred, metrics.OutcomeInvalid, err.Error())
			return nil, err
		}
		result.Reason = reason
	}
	if result.Reason == "" {
		result.Reason = checks.reason(cred)
	}
	result.Verified = result.Reason == ""

	s.recordVerification(ctx, p.VerifierDID, cred, outcomeOf(result.Verified), result.Reason)
	return result, nil
}

// VerifyPredicateProof checks a range proof and the credential it speaks for. The
// verdict is positive only when the proof is authentic and its predicate holds.
func (s *Service) VerifyPredicateProof(ctx context.Context, p PredicatePresentation) (result *ProofVerdict, err error) {
	if p.Proof == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "range proof is required")
	}
	return s.verifyHolderProof(ctx, p.VerifierDID, p.Proof.CredentialID, func(cred *models.Credential, v *ProofVerdict) (string, error) {
		v.ProofType = p.Proof.ProofType
		v.Predicate = p.Proof.Predicate
		authentic, err := s.proofs.VerifyRangeProof(p.Proof)
		if err != nil {
			return "", err
		}
		switch {
		case !authentic:
			return ReasonProofFailed, nil
		case !p.Proof.Result:
			return ReasonPredicateFalse, nil
		}
		return "", nil
	})
}

// VerifyOwnershipProof checks an ownership proof and that its holder owns the credential.
func (s *Service) VerifyOwnershipProof(ctx context.Context, p OwnershipPresentation) (result *ProofVerdict, err error) {
	if p.Proof == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ownership proof is required")
	}
	return s.verifyHolderProof(ctx, p.VerifierDID, p.Proof.CredentialID, func(cred *models.Credential, v *ProofVerdict) (string, error) {
		v.ProofType = p.Proof.ProofType
		authentic, err := s.proofs.VerifyOwnership(p.Proof)
		if err != nil {
			return "", err
		}
		switch {
		case !authentic:
			return ReasonProofFailed, nil
		case p.Proof.HolderDID != cred.HolderDID:
			return ReasonHolderMismatch, nil
		}
		return "", nil
	})
}

// verifyHolderProof runs the credential checks shared by the predicate and ownership
// flows. check returns a rejection reason, or an error for a structurally invalid proof.
func (s *Service) verifyHolderProof(
	ctx context.Context,
	verifier id.DID,
	credentialID id.CredentialID,
	check func(cred *models.Credential, v *ProofVerdict) (string, error),
) (result *ProofVerdict, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify, tracer.String(tracer.AttrCredentialID, credentialID.String()))
	defer func() {
		if result != nil {
			span.SetAttributes(tracer.Bool(tracer.AttrVerified, result.Verified))
		}
		span.End(err)
	}()

	if credentialID.IsNil() {
		return nil, dErrors.New(dErrors.CodeProofInvalid, "proof credential id missing")
	}
	cred, err := s.store.FindByID(ctx, credentialID)
	if err != nil {
		return nil, fromStore(err, "load credential")
	}
	checks, err := s.checkCredential(ctx, cred)
	if err != nil {
		return nil, err
	}

	result = &ProofVerdict{
		CredentialID: cred.ID,
		HolderDID:    cred.HolderDID,
		Status:       cred.Status,
		Ledger:       checks.ledger,
		Revocation:   checks.revocation,
		VerifiedAt:   requesttime.Now(ctx).UTC(),
	}
	if checks.revocation != nil {
		result.Reason = ReasonRevoked
	} else {
		reason, err := check(cred, result)
		if err != nil {
			s.recordVerification(ctx, verifier, cred, metrics.OutcomeInvalid, err.Error())
			return nil, err
		}
		result.Reason = reason
	}
	if result.Reason == "" {
		result.Reason = checks.reason(cred)
	}
	result.Verified = result.Reason == ""

	s.recordVerification(ctx, verifier, cred, outcomeOf(result.Verified), result.Reason)
	return result, nil
}

// credentialChecks holds the proof-independent checks every verifier flow runs.
type credentialChecks struct {
	revocation *revmodels.Record
	ledger     identity.Verification
	anchor     *anchor.Record
}

func (s *Service) checkCredential(ctx context.Context, cred *models.Credential) (credentialChecks, error) {
	var c credentialChecks
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := s.revocations.IsActive(gctx, cred.ID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check revocation")
		}
		c.revocation = rec
		return nil
	})
	g.Go(func() error {
		v, err := s.identity.Verify(gctx, identity.CredentialView{
			CredentialID: cred.ID,
			IssuerDID:    cred.IssuerDID,
			CredDefID:    cred.CredDefID,
		}, cred.CredDefID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify credential on ledger")
		}
		c.ledger = v
		return nil
	})
	g.Go(func() error {
		if cred.AnchorHash == "" {
			return nil
		}
		rec, err := s.ledger.Find(gctx, cred.AnchorHash)
		switch {
		case err == nil:
			c.anchor = &rec
		case !dErrors.HasCode(err, dErrors.CodeNotFound):
			return dErrors.Wrap(err, dErrors.CodeAnchorFailure, "failed to look up credential anchor")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return credentialChecks{}, err
	}
	return c, nil
}

// reason reports why the credential itself fails verification, or "".
func (c credentialChecks) reason(cred *models.Credential) string {
	switch {
	case !c.ledger.Verified:
		return ReasonLedgerRejected
	case cred.Status != models.StatusIssued:
		return ReasonStatusNotIssued
	case c.anchor == nil || c.anchor.TxID != cred.AnchorTxID:
		return ReasonAnchorMissing
	}
	return ""
}

// checkDisclosure returns a rejection reason, or an error for structurally invalid proofs.
func (s *Service) checkDisclosure(p Presentation, cred *models.Credential, result *PresentationResult) (string, error) {
	verdict, err := s.proofs.VerifyProof(p.Proof, p.Revealed)
	if err != nil {
		return "", err
	}
	result.Proof = &verdict
	if !verdict.Verified || verdict.CredentialID != cred.ID {
		return ReasonProofFailed, nil
	}
	if p.Proof.CredDefID != cred.CredDefID {
		return ReasonCredDefMismatch, nil
	}
	return "", nil
}

func outcomeOf(verified bool) string {
	if verified {
		return metrics.OutcomeVerified
	}
	return metrics.OutcomeRejected
}

func (s *Service) recordVerification(ctx context.Context, verifier id.DID, cred *models.Credential, outcome, reason string) {
	if s.metrics != nil {
		s.metrics.IncrementProofVerification(outcome)
	}
	s.logger.InfoContext(ctx, "presentation verified",
		"credential_id", cred.ID,
		"verifier_did", verifier,
		"outcome", outcome,
	)
	if verifier.IsNil() {
		return
	}
	e := activity.New(activity.TypeVerified, verifier, cred.ID, requesttime.Now(ctx).UTC())
	e.RelatedDID = cred.HolderDID
	if outcome != metrics.OutcomeVerified {
		e.Status = activity.StatusFailed
		e.Metadata = map[string]string{"reason": reason}
	}
	s.publish(ctx, e)
}
