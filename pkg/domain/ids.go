// Package domain provides type-safe identifiers so credential ids and DIDs
// cannot be mixed up at compile time.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "credvault/pkg/domain-errors"
)

const credentialIDPrefix = "cred_"

// CredentialID is a prefixed identifier of the form "cred_<uuid>".
type CredentialID string

// DID is a decentralized identifier. The format is not constrained beyond being non-empty.
type DID string

// NewCredentialID mints a fresh credential identifier.
func NewCredentialID() CredentialID {
	return CredentialID(credentialIDPrefix + uuid.NewString())
}

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseCredentialID(s string) (CredentialID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "credential ID cannot be empty")
	}
	rest, ok := strings.CutPrefix(s, credentialIDPrefix)
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid credential ID format")
	}
	if _, err := uuid.Parse(rest); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid credential ID format")
	}
	return CredentialID(s), nil
}

func ParseDID(s string) (DID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "DID cannot be empty")
	}
	return DID(s), nil
}

func (id CredentialID) String() string { return string(id) }
func (d DID) String() string           { return string(d) }

func (id CredentialID) IsNil() bool { return id == "" }
func (d DID) IsNil() bool           { return d == "" }
