package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "credvault/pkg/domain-errors"
)

func TestParseCredentialID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseCredentialID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects missing prefix", func(t *testing.T) {
		_, err := ParseCredentialID(uuid.NewString())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects non-uuid suffix", func(t *testing.T) {
		_, err := ParseCredentialID("cred_x")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts minted id", func(t *testing.T) {
		minted := NewCredentialID()
		parsed, err := ParseCredentialID(minted.String())
		require.NoError(t, err)
		assert.Equal(t, minted, parsed)
		assert.True(t, strings.HasPrefix(parsed.String(), "cred_"))
	})
}

func TestNewCredentialIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewCredentialID(), NewCredentialID())
}

func TestParseDID(t *testing.T) {
	_, err := ParseDID("   ")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	did, err := ParseDID(" did:example:alice ")
	require.NoError(t, err)
	assert.Equal(t, DID("did:example:alice"), did)
	assert.False(t, did.IsNil())
}
