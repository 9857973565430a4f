package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

// Record is the single revocation entry of a credential.
// Active distinguishes a live revocation from a logically reinstated one; no
// reinstatement flow exists, so records are created active.
type Record struct {
	CredentialID id.CredentialID `json:"credentialId"`
	RevRegID     string          `json:"revRegId"`
	RevRegDefID  string          `json:"revRegDefId"`
	CredRevID    string          `json:"credRevId"`
	IssuerDID    id.DID          `json:"issuerDid"`
	HolderDID    id.DID          `json:"holderDid"`
	Reason       string          `json:"reason"`
	RevokedAt    time.Time       `json:"revokedAt"`
	Active       bool            `json:"isActive"`
}

// NewRecord builds an active revocation record with freshly minted registry identifiers.
func NewRecord(credentialID id.CredentialID, issuer, holder id.DID, reason string, revokedAt time.Time) (*Record, error) {
	if credentialID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credential ID required")
	}
	if issuer.IsNil() || holder.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "issuer and holder DIDs required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "revocation reason required")
	}
	return &Record{
		CredentialID: credentialID,
		RevRegID:     "revReg_" + uuid.NewString(),
		RevRegDefID:  "revRegDef_" + uuid.NewString(),
		CredRevID:    "credRev_" + uuid.NewString(),
		IssuerDID:    issuer,
		HolderDID:    holder,
		Reason:       reason,
		RevokedAt:    revokedAt,
		Active:       true,
	}, nil
}
