package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

// SigningInput is what an issuer signs when issuing a credential.
// AttributesDigest commits to the attribute set without embedding the values.
type SigningInput struct {
	CredentialID     id.CredentialID
	CredDefID        string
	IssuerDID        id.DID
	HolderDID        id.DID
	AttributesDigest string
	IssuedAt         time.Time
}

// Signer produces the issuance signature embedded in the anchored payload.
type Signer interface {
	Sign(ctx context.Context, in SigningInput) (string, error)
}

// PlaceholderSigner returns an opaque sig_<uuid> marker.
type PlaceholderSigner struct{}

func (PlaceholderSigner) Sign(context.Context, SigningInput) (string, error) {
	return "sig_" + uuid.NewString(), nil
}

// IssuanceClaims is the JWS payload produced by JWTSigner.
type IssuanceClaims struct {
	CredentialID     string `json:"credential_id"`
	CredDefID        string `json:"cred_def_id"`
	AttributesDigest string `json:"attributes_digest"`
	jwt.RegisteredClaims
}

// JWTSigner signs issuance claims as an HS256 compact JWS.
type JWTSigner struct {
	key    []byte
	issuer string
}

func NewJWTSigner(key []byte, issuer string) (*JWTSigner, error) {
	if len(key) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "signing key is required")
	}
	return &JWTSigner{key: key, issuer: issuer}, nil
}

func (s *JWTSigner) Sign(_ context.Context, in SigningInput) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, IssuanceClaims{
		CredentialID:     in.CredentialID.String(),
		CredDefID:        in.CredDefID,
		AttributesDigest: in.AttributesDigest,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			Subject:  in.HolderDID.String(),
			Audience: jwt.ClaimStrings{in.IssuerDID.String()},
			IssuedAt: jwt.NewNumericDate(in.IssuedAt),
			ID:       uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeCryptoFailure, "sign issuance claims")
	}
	return signed, nil
}

// Verify parses a signature produced by Sign and returns its claims.
func (s *JWTSigner) Verify(signature string) (*IssuanceClaims, error) {
	claims := new(IssuanceClaims)
	token, err := jwt.ParseWithClaims(signature, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.key, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid issuance signature")
		}
		return nil, dErrors.New(dErrors.CodeInvalidInput, "issuance signature parse failed")
	}
	if !token.Valid {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid issuance signature")
	}
	return claims, nil
}
