package service

import (
	"strings"
	"time"

	"credvault/internal/anchor"
	"credvault/internal/credential/models"
	"credvault/internal/identity"
	"credvault/internal/proof"
	revmodels "credvault/internal/revocation/models"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

// RequestCommand asks an issuer for a credential on behalf of a holder.
type RequestCommand struct {
	IssuerDID      id.DID
	HolderDID      id.DID
	CredentialType string
	Attributes     models.Attributes
}

func (c *RequestCommand) Validate() error {
	if c.IssuerDID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "issuer DID is required")
	}
	if c.HolderDID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "holder DID is required")
	}
	c.CredentialType = strings.TrimSpace(c.CredentialType)
	if c.CredentialType == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "credential type is required")
	}
	if len(c.Attributes) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "at least one attribute is required")
	}
	return nil
}

// IssueResult is the issued credential and where its payload was anchored.
type IssueResult struct {
	Credential *models.Credential
	Anchor     anchor.Record
	// AnchorReused is true when the ledger already held the anchor hash.
	AnchorReused bool
	Signature    string
}

type RevokeResult struct {
	Credential *models.Credential
	Revocation *revmodels.Record
}

// Presentation is what a verifier receives from a holder.
// Proof is optional. Revealed is only meaningful with a proof; a nil Revealed
// alongside a proof means nothing was disclosed.
type Presentation struct {
	CredentialID id.CredentialID
	VerifierDID  id.DID
	Proof        *proof.DisclosureProof
	Revealed     map[string]string
}

// Verdict reasons.
const (
	ReasonRevoked         = "credential has been revoked"
	ReasonProofFailed     = "zero-knowledge proof verification failed"
	ReasonCredDefMismatch = "proof credential definition does not match credential"
	ReasonLedgerRejected  = "credential not verified on ledger"
	ReasonStatusNotIssued = "credential is not in issued state"
	ReasonAnchorMissing   = "credential anchor not found on ledger"
	ReasonPredicateFalse  = "predicate does not hold"
	ReasonHolderMismatch  = "proof holder does not own the credential"
)

// PresentationResult is the verifier's verdict. A negative verdict is not an error.
type PresentationResult struct {
	Verified       bool                  `json:"verified"`
	Reason         string                `json:"reason,omitempty"`
	CredentialID   id.CredentialID       `json:"credentialId"`
	CredentialType string                `json:"credentialType"`
	IssuerDID      id.DID                `json:"issuerDid"`
	HolderDID      id.DID                `json:"holderDid"`
	IssuedAt       *time.Time            `json:"issuedAt,omitempty"`
	Status         models.Status         `json:"status"`
	Revealed       map[string]string     `json:"revealedAttributes"`
	Proof          *proof.VerifyResult   `json:"zkpVerification,omitempty"`
	Ledger         identity.Verification `json:"blockchainVerification"`
	Anchor         *anchor.Record        `json:"anchor,omitempty"`
	Revocation     *revmodels.Record     `json:"revocationDetails,omitempty"`
	VerifiedAt     time.Time             `json:"verifiedAt"`
}

// PredicatePresentation is a range proof handed to a verifier.
type PredicatePresentation struct {
	VerifierDID id.DID
	Proof       *proof.RangeProof
}

// OwnershipPresentation is an ownership proof handed to a verifier.
type OwnershipPresentation struct {
	VerifierDID id.DID
	Proof       *proof.OwnershipProof
}

// ProofVerdict is the verifier's verdict on a predicate or ownership proof.
type ProofVerdict struct {
	Verified     bool                  `json:"verified"`
	Reason       string                `json:"reason,omitempty"`
	CredentialID id.CredentialID       `json:"credentialId"`
	ProofType    proof.Type            `json:"proofType"`
	Predicate    string                `json:"predicate,omitempty"`
	HolderDID    id.DID                `json:"holderDid"`
	Status       models.Status         `json:"status"`
	Ledger       identity.Verification `json:"blockchainVerification"`
	Revocation   *revmodels.Record     `json:"revocationDetails,omitempty"`
	VerifiedAt   time.Time             `json:"verifiedAt"`
}

// RevocationStatus answers a verifier's revocation lookup.
type RevocationStatus struct {
	CredentialID id.CredentialID   `json:"credentialId"`
	IsRevoked    bool              `json:"isRevoked"`
	Status       models.Status     `json:"status"`
	Details      *revmodels.Record `json:"revocationDetails"`
}

// ShareCommand builds a selective-disclosure proof for a verifier.
type ShareCommand struct {
	CredentialID id.CredentialID
	HolderDID    id.DID
	VerifierDID  id.DID
	Revealed     []string
}

// PredicateCommand proves a predicate over one attribute without revealing it.
type PredicateCommand struct {
	CredentialID id.CredentialID
	HolderDID    id.DID
	Attribute    string
	Operator     proof.Operator
	Threshold    string
}
