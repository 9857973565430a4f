// Package identity is the port to the DID registry and credential-definition ledger.
//
// The Simulated implementation stands in for a network ledger: it mints DIDs and
// verification keys, registers schemas and credential definitions, and verifies a
// credential by its credential-definition association. Its registry lives in
// process memory.
package identity

import (
	"context"
	"time"

	id "credvault/pkg/domain"
)

// CredentialView is the slice of a credential the identity ledger needs to verify it.
type CredentialView struct {
	CredentialID id.CredentialID
	IssuerDID    id.DID
	CredDefID    string
}

// Verification is the ledger's verdict on a credential.
type Verification struct {
	Verified  bool      `json:"verified"`
	CredDefID string    `json:"credDefId"`
	Timestamp time.Time `json:"timestamp"`
}

// Service resolves verification material, registers credential types and checks
// credentials against the ledger.
type Service interface {
	RegisterCredentialType(ctx context.Context, t CredentialType) (Registration[CredentialDefinition], error)
	Verify(ctx context.Context, cred CredentialView, credDefID string) (Verification, error)
	PublicKey(ctx context.Context, did id.DID) (string, error)
}

// CredentialType names the schema and credential definition an issuer issues under.
type CredentialType struct {
	IssuerDID id.DID
	Name      string
	SchemaID  string
	CredDefID string
	AttrNames []string
}

// DIDDocument is a minted identifier with its verification key.
type DIDDocument struct {
	DID    id.DID `json:"did"`
	Verkey string `json:"verkey"`
}

// Schema is a registered credential schema.
type Schema struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	AttrNames []string `json:"attrNames"`
}

// CredentialDefinition binds an issuer to a schema.
type CredentialDefinition struct {
	ID       string   `json:"id"`
	SchemaID string   `json:"schemaId"`
	Type     string   `json:"type"`
	Tag      string   `json:"tag"`
	Issuers  []id.DID `json:"issuers"`
}

// Registration is a tagged result: Created is false when the entry already existed
// and Value is the existing entry.
type Registration[T any] struct {
	Value   T
	Created bool
}
