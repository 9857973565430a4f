// Package models defines the credential aggregate and its lifecycle states.
package models

import (
	"maps"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

// Status is the lifecycle state of a credential.
type Status string

const (
	StatusPending Status = "pending"
	StatusIssued  Status = "issued"
	StatusRevoked Status = "revoked"
)

// IsValid reports whether s is a known lifecycle state.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusIssued, StatusRevoked:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus parses a status filter. The empty string is rejected.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown credential status: "+s)
	}
	return st, nil
}

// Attributes maps attribute names to their string values.
type Attributes map[string]string

// Names returns attribute names in sorted order.
func (a Attributes) Names() []string {
	return slices.Sorted(maps.Keys(a))
}

// Clone returns an independent copy; nil stays nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	return maps.Clone(a)
}

// Credential is the lifecycle aggregate.
//
// StorageHash, AnchorHash, AnchorTxID and IssuedAt are set iff Status != pending.
// RevokedAt and RevocationReason are set iff Status == revoked.
// Staged is only ever set while pending. Credentials are never deleted.
type Credential struct {
	ID               id.CredentialID
	SchemaID         string
	CredDefID        string
	IssuerDID        id.DID
	HolderDID        id.DID
	Type             string
	Attributes       Attributes
	Status           Status
	StorageHash      string
	AnchorHash       string
	AnchorTxID       string
	RequestedAt      time.Time
	IssuedAt         *time.Time
	RevokedAt        *time.Time
	RevocationReason string
	Staged           *StagedIssuance
}

// StagedIssuance is a signed and stored issuance payload that has not been anchored
// yet. A retried Issue rebuilds the payload from it, so the anchor hash is unchanged.
type StagedIssuance struct {
	IssuedAt    time.Time
	Signature   string
	StorageHash string
}

// SchemaIDFor derives the schema identifier for a credential type.
func SchemaIDFor(credentialType string) string { return "schema_" + credentialType }

// CredDefIDFor derives the credential definition identifier for a credential type.
func CredDefIDFor(credentialType string) string { return "credDef_" + credentialType }

// NewPending builds a pending credential with invariant checks.
func NewPending(credID id.CredentialID, issuer, holder id.DID, credentialType string, attrs Attributes, requestedAt time.Time) (*Credential, error) {
	if credID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credential ID required")
	}
	if issuer.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "issuer DID required")
	}
	if holder.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "holder DID required")
	}
	if strings.TrimSpace(credentialType) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credential type required")
	}
	if len(attrs) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one attribute is required")
	}
	for name, value := range attrs {
		if strings.TrimSpace(name) == "" {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "attribute names must be non-empty")
		}
		// canonical JSON would replace invalid bytes with U+FFFD
		if !utf8.ValidString(name) || !utf8.ValidString(value) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "attributes must be valid UTF-8")
		}
	}
	return &Credential{
		ID:          credID,
		SchemaID:    SchemaIDFor(credentialType),
		CredDefID:   CredDefIDFor(credentialType),
		IssuerDID:   issuer,
		HolderDID:   holder,
		Type:        credentialType,
		Attributes:  attrs.Clone(),
		Status:      StatusPending,
		RequestedAt: requestedAt,
	}, nil
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (c *Credential) Clone() *Credential {
	if c == nil {
		return nil
	}
	out := *c
	out.Attributes = c.Attributes.Clone()
	if c.IssuedAt != nil {
		t := *c.IssuedAt
		out.IssuedAt = &t
	}
	if c.RevokedAt != nil {
		t := *c.RevokedAt
		out.RevokedAt = &t
	}
	if c.Staged != nil {
		staged := *c.Staged
		out.Staged = &staged
	}
	return &out
}

// IsOwnedBy reports whether did is the holder.
func (c *Credential) IsOwnedBy(did id.DID) bool { return c.HolderDID == did }

// Issuance carries the fields written by the pending -> issued transition.
type Issuance struct {
	StorageHash string
	AnchorHash  string
	AnchorTxID  string
	IssuedAt    time.Time
}

// Revocation carries the fields written by the issued -> revoked transition.
type Revocation struct {
	RevokedAt time.Time
	Reason    string
}

// Transition describes a compare-and-swap status change.
// Exactly one of Issuance or Revocation is set, matching To.
type Transition struct {
	From       Status
	To         Status
	Issuance   *Issuance
	Revocation *Revocation
}

// IssueTransition builds the pending -> issued transition.
func IssueTransition(iss Issuance) Transition {
	return Transition{From: StatusPending, To: StatusIssued, Issuance: &iss}
}

// RevokeTransition builds the issued -> revoked transition.
func RevokeTransition(rev Revocation) Transition {
	return Transition{From: StatusIssued, To: StatusRevoked, Revocation: &rev}
}

// Apply writes the transition fields onto c. The caller has already checked c.Status == t.From.
func (t Transition) Apply(c *Credential) {
	c.Status = t.To
	if t.Issuance != nil {
		c.StorageHash = t.Issuance.StorageHash
		c.AnchorHash = t.Issuance.AnchorHash
		c.AnchorTxID = t.Issuance.AnchorTxID
		issuedAt := t.Issuance.IssuedAt
		c.IssuedAt = &issuedAt
		c.Staged = nil
	}
	if t.Revocation != nil {
		revokedAt := t.Revocation.RevokedAt
		c.RevokedAt = &revokedAt
		c.RevocationReason = t.Revocation.Reason
	}
}

// Payload rebuilds the issuance payload of a pending credential from its stage.
func (s StagedIssuance) Payload(c *Credential) *IssuancePayload {
	return &IssuancePayload{
		CredentialID: c.ID.String(),
		SchemaID:     c.SchemaID,
		CredDefID:    c.CredDefID,
		IssuerDID:    c.IssuerDID.String(),
		HolderDID:    c.HolderDID.String(),
		Attributes:   c.Attributes,
		IssuedAt:     s.IssuedAt.UTC().Format(time.RFC3339Nano),
		Signature:    s.Signature,
	}
}

// IssuancePayload is the canonical document encrypted into the blob store and digested
// into the anchor hash. Field order is fixed by declaration.
type IssuancePayload struct {
	CredentialID string     `json:"credentialId"`
	SchemaID     string     `json:"schemaId"`
	CredDefID    string     `json:"credDefId"`
	IssuerDID    string     `json:"issuerDid"`
	HolderDID    string     `json:"holderDid"`
	Attributes   Attributes `json:"attributes"`
	IssuedAt     string     `json:"issuedAt"`
	Signature    string     `json:"signature"`
}

// HolderStats counts a holder's credentials per status.
type HolderStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Issued  int `json:"issued"`
	Revoked int `json:"revoked"`
}

// Add counts one credential in the given status.
func (s *HolderStats) Add(st Status) {
	s.Total++
	switch st {
	case StatusPending:
		s.Pending++
	case StatusIssued:
		s.Issued++
	case StatusRevoked:
		s.Revoked++
	}
}
