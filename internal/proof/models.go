package proof

import (
	"time"

	id "credvault/pkg/domain"
)

// Type labels the kind of proof.
type Type string

const (
	TypeSelectiveDisclosure Type = "ZKP-Selective-Disclosure"
	TypeRange               Type = "ZKP-Range"
	TypeOwnership           Type = "ZKP-Ownership"
)

// Subject identifies the credential a proof is about.
type Subject struct {
	CredentialID id.CredentialID
	CredDefID    string
	HolderDID    id.DID
}

// DisclosureProof is an ephemeral selective-disclosure proof. Disclosed travels with the
// proof; only the hidden attributes stay with the holder.
type DisclosureProof struct {
	Commitment   string            `json:"commitment"`
	ProofType    Type              `json:"proofType"`
	CredentialID id.CredentialID   `json:"credentialId"`
	CredDefID    string            `json:"credDefId"`
	Timestamp    time.Time         `json:"timestamp"`
	HiddenCount  int               `json:"hiddenAttributesCount"`
	Disclosed    map[string]string `json:"disclosedAttributes"`
}

// VerifyResult is the outcome of VerifyProof. Verified=false with a nil error is a normal
// negative result.
type VerifyResult struct {
	Verified     bool              `json:"verified"`
	ProofType    Type              `json:"proofType,omitempty"`
	CredentialID id.CredentialID   `json:"credentialId,omitempty"`
	Disclosed    map[string]string `json:"revealedAttributes,omitempty"`
	VerifiedAt   time.Time         `json:"verifiedAt"`
}

// RangeProof attests the result of a predicate over an undisclosed attribute.
type RangeProof struct {
	Commitment   string          `json:"commitment"`
	ProofType    Type            `json:"proofType"`
	CredentialID id.CredentialID `json:"credentialId"`
	Predicate    string          `json:"predicate"`
	Result       bool            `json:"predicateResult"`
	Timestamp    time.Time       `json:"timestamp"`
}

// OwnershipProof binds a credential to its holder without revealing attributes.
type OwnershipProof struct {
	Commitment   string          `json:"commitment"`
	ProofType    Type            `json:"proofType"`
	CredentialID id.CredentialID `json:"credentialId"`
	HolderDID    id.DID          `json:"holderDid"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Commitment inputs. Field order is part of the committed encoding.

type disclosureInput struct {
	CredentialID          string            `json:"credentialId"`
	CredDefID             string            `json:"credDefId"`
	DisclosedAttributes   map[string]string `json:"disclosedAttributes"`
	HiddenAttributesCount int               `json:"hiddenAttributesCount"`
	Timestamp             string            `json:"timestamp"`
}

type rangeInput struct {
	CredentialID string `json:"credentialId"`
	Predicate    string `json:"predicate"`
	Result       bool   `json:"result"`
	Timestamp    string `json:"timestamp"`
}

type ownershipInput struct {
	CredentialID string `json:"credentialId"`
	HolderDID    string `json:"holderDid"`
	Timestamp    string `json:"timestamp"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
