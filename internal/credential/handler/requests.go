package handler

import (
	"strings"

	"credvault/internal/credential/models"
	"credvault/internal/credential/service"
	"credvault/internal/proof"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/validation"
)

// RequestCredentialRequest asks an issuer to create a pending credential for a holder.
type RequestCredentialRequest struct {
	IssuerDID      string            `json:"issuerDid" validate:"required,did"`
	HolderDID      string            `json:"holderDid" validate:"required,did"`
	CredentialType string            `json:"credentialType" validate:"required,notblank,max=100"`
	Attributes     map[string]string `json:"attributes" validate:"required,min=1"`
}

func (r *RequestCredentialRequest) Normalize() {
	if r == nil {
		return
	}
	r.IssuerDID = strings.TrimSpace(r.IssuerDID)
	r.HolderDID = strings.TrimSpace(r.HolderDID)
	r.CredentialType = strings.TrimSpace(r.CredentialType)
}

func (r *RequestCredentialRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.CheckAttributes(r.Attributes)
}

func (r *RequestCredentialRequest) ToCommand() service.RequestCommand {
	return service.RequestCommand{
		IssuerDID:      id.DID(r.IssuerDID),
		HolderDID:      id.DID(r.HolderDID),
		CredentialType: r.CredentialType,
		Attributes:     models.Attributes(r.Attributes),
	}
}

type RevokeRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=500"`
}

func (r *RevokeRequest) Normalize() {
	if r == nil {
		return
	}
	r.Reason = strings.TrimSpace(r.Reason)
}

// ShareRequest names the attributes to disclose to a verifier. The rest stay hidden.
type ShareRequest struct {
	VerifierDID string   `json:"verifierDid" validate:"required,did"`
	Revealed    []string `json:"revealedAttributes"`
}

func (r *ShareRequest) Normalize() {
	if r == nil {
		return
	}
	r.VerifierDID = strings.TrimSpace(r.VerifierDID)
	r.Revealed = validation.DedupeAndTrim(r.Revealed)
}

func (r *ShareRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.CheckSliceCount("revealed attributes", len(r.Revealed), validation.MaxRevealed)
}

// PredicateRequest proves "attribute operator threshold" without revealing the attribute.
type PredicateRequest struct {
	Attribute string `json:"attribute" validate:"required,notblank,max=100"`
	Operator  string `json:"operator" validate:"required"`
	Threshold string `json:"threshold" validate:"required,notblank"`

	operator proof.Operator
}

func (r *PredicateRequest) Normalize() {
	if r == nil {
		return
	}
	r.Attribute = strings.TrimSpace(r.Attribute)
	r.Threshold = strings.TrimSpace(r.Threshold)
}

func (r *PredicateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	op, err := proof.ParseOperator(r.Operator)
	if err != nil {
		return err
	}
	r.operator = op
	return nil
}

// VerifyRequest is a presentation submitted by a verifier. Proof is optional;
// revealedAttributes may be omitted when the proof discloses nothing.
type VerifyRequest struct {
	CredentialID string                 `json:"credentialId" validate:"required,credential_id"`
	VerifierDID  string                 `json:"verifierDid" validate:"required,did"`
	Proof        *proof.DisclosureProof `json:"proof,omitempty"`
	Revealed     map[string]string      `json:"revealedAttributes,omitempty"`
}

func (r *VerifyRequest) Normalize() {
	if r == nil {
		return
	}
	r.CredentialID = strings.TrimSpace(r.CredentialID)
	r.VerifierDID = strings.TrimSpace(r.VerifierDID)
}

func (r *VerifyRequest) ToPresentation() service.Presentation {
	return service.Presentation{
		CredentialID: id.CredentialID(r.CredentialID),
		VerifierDID:  id.DID(r.VerifierDID),
		Proof:        r.Proof,
		Revealed:     r.Revealed,
	}
}

// VerifyPredicateRequest submits a range proof built by the holder.
type VerifyPredicateRequest struct {
	VerifierDID string            `json:"verifierDid" validate:"required,did"`
	Proof       *proof.RangeProof `json:"proof" validate:"required"`
}

func (r *VerifyPredicateRequest) Normalize() {
	if r == nil {
		return
	}
	r.VerifierDID = strings.TrimSpace(r.VerifierDID)
}

type VerifyOwnershipRequest struct {
	VerifierDID string                `json:"verifierDid" validate:"required,did"`
	Proof       *proof.OwnershipProof `json:"proof" validate:"required"`
}

func (r *VerifyOwnershipRequest) Normalize() {
	if r == nil {
		return
	}
	r.VerifierDID = strings.TrimSpace(r.VerifierDID)
}
