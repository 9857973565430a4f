package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

func TestNewRecord(t *testing.T) {
	now := time.Now()
	credID := id.NewCredentialID()

	rec, err := NewRecord(credID, "did:ex:issuer", "did:ex:alice", "  compromised ", now)
	require.NoError(t, err)
	assert.Equal(t, "compromised", rec.Reason)
	assert.True(t, rec.Active)
	assert.True(t, strings.HasPrefix(rec.RevRegID, "revReg_"))
	assert.True(t, strings.HasPrefix(rec.RevRegDefID, "revRegDef_"))
	assert.True(t, strings.HasPrefix(rec.CredRevID, "credRev_"))

	_, err = NewRecord(credID, "did:ex:issuer", "did:ex:alice", " ", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = NewRecord("", "did:ex:issuer", "did:ex:alice", "r", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = NewRecord(credID, "", "did:ex:alice", "r", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
