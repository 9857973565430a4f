package encryption

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/hkdf"

	dErrors "credvault/pkg/domain-errors"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

const hkdfInfo = "credvault/payload-encryption/v1"

// ParseKey accepts either 64 hex characters or a 32-byte raw string.
// Any other length is rejected; keys are never truncated or zero-extended.
func ParseKey(material string) ([]byte, error) {
	if len(material) == 2*KeySize {
		if key, err := hex.DecodeString(material); err == nil {
			return key, nil
		}
	}
	if len(material) == KeySize {
		return []byte(material), nil
	}
	return nil, dErrors.New(dErrors.CodeCryptoFailure, "encryption key must be 32 raw bytes or 64 hex characters")
}

// DeriveKey stretches a passphrase into a 32-byte key with HKDF-SHA256.
// The same passphrase and salt always yield the same key.
func DeriveKey(passphrase, salt string) ([]byte, error) {
	if passphrase == "" {
		return nil, dErrors.New(dErrors.CodeCryptoFailure, "passphrase cannot be empty")
	}
	key := make([]byte, KeySize)
	r := hkdf.New(sha256.New, []byte(passphrase), []byte(salt), []byte(hkdfInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeCryptoFailure, "could not derive key")
	}
	return key, nil
}
