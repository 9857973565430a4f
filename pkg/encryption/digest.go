package encryption

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	dErrors "credvault/pkg/domain-errors"
)

// Digest returns the lowercase hex SHA-256 of v's canonical serialization.
// Byte slices are hashed as-is; everything else (strings included) is hashed over its
// JSON encoding, which sorts map keys and keeps struct fields in declaration order.
func Digest(v any) (string, error) {
	var data []byte
	switch value := v.(type) {
	case []byte:
		data = value
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeCryptoFailure, "could not serialize value for digest")
		}
		data = encoded
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
