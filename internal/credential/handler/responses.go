package handler

import (
	"time"

	"credvault/internal/credential/models"
	revmodels "credvault/internal/revocation/models"
)

// CredentialResponse is the public view of a credential.
// Attribute values are included; the encrypted payload is not.
type CredentialResponse struct {
	ID               string            `json:"credentialId"`
	SchemaID         string            `json:"schemaId"`
	CredDefID        string            `json:"credDefId"`
	IssuerDID        string            `json:"issuerDid"`
	HolderDID        string            `json:"holderDid"`
	Type             string            `json:"credentialType"`
	Attributes       map[string]string `json:"attributes"`
	Status           string            `json:"status"`
	StorageHash      string            `json:"storageHash,omitempty"`
	AnchorHash       string            `json:"anchorHash,omitempty"`
	AnchorTxID       string            `json:"anchorTxId,omitempty"`
	RequestedAt      time.Time         `json:"requestedAt"`
	IssuedAt         *time.Time        `json:"issuedAt,omitempty"`
	RevokedAt        *time.Time        `json:"revokedAt,omitempty"`
	RevocationReason string            `json:"revocationReason,omitempty"`
}

type IssueResponse struct {
	Credential   CredentialResponse `json:"credential"`
	AnchorTxID   string             `json:"anchorTxId"`
	AnchorReused bool               `json:"anchorReused"`
}

type RevokeResponse struct {
	Credential CredentialResponse `json:"credential"`
	Revocation *revmodels.Record  `json:"revocation"`
}

type ListResponse struct {
	Credentials []CredentialResponse `json:"credentials"`
	Count       int                  `json:"count"`
}

func toCredentialResponse(c *models.Credential) CredentialResponse {
	return CredentialResponse{
		ID:               c.ID.String(),
		SchemaID:         c.SchemaID,
		CredDefID:        c.CredDefID,
		IssuerDID:        c.IssuerDID.String(),
		HolderDID:        c.HolderDID.String(),
		Type:             c.Type,
		Attributes:       c.Attributes,
		Status:           c.Status.String(),
		StorageHash:      c.StorageHash,
		AnchorHash:       c.AnchorHash,
		AnchorTxID:       c.AnchorTxID,
		RequestedAt:      c.RequestedAt,
		IssuedAt:         c.IssuedAt,
		RevokedAt:        c.RevokedAt,
		RevocationReason: c.RevocationReason,
	}
}

func toListResponse(creds []*models.Credential) ListResponse {
	out := make([]CredentialResponse, 0, len(creds))
	for _, c := range creds {
		out = append(out, toCredentialResponse(c))
	}
	return ListResponse{Credentials: out, Count: len(out)}
}
