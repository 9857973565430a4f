package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

func TestNewPending(t *testing.T) {
	now := time.Now()
	attrs := Attributes{"name": "Alice", "age": "25"}

	t.Run("derives schema and cred-def ids from type", func(t *testing.T) {
		c, err := NewPending(id.NewCredentialID(), "did:ex:issuer", "did:ex:alice", "Passport", attrs, now)
		require.NoError(t, err)
		assert.Equal(t, "schema_Passport", c.SchemaID)
		assert.Equal(t, "credDef_Passport", c.CredDefID)
		assert.Equal(t, StatusPending, c.Status)
		assert.Nil(t, c.IssuedAt)
		assert.Empty(t, c.StorageHash)
	})

	t.Run("copies attributes", func(t *testing.T) {
		in := Attributes{"id": "x"}
		c, err := NewPending(id.NewCredentialID(), "did:ex:issuer", "did:ex:alice", "T", in, now)
		require.NoError(t, err)
		in["id"] = "mutated"
		assert.Equal(t, "x", c.Attributes["id"])
	})

	cases := map[string]struct {
		issuer, holder id.DID
		typ            string
		attrs          Attributes
	}{
		"empty attributes": {"did:ex:i", "did:ex:h", "T", Attributes{}},
		"nil attributes":   {"did:ex:i", "did:ex:h", "T", nil},
		"empty name":       {"did:ex:i", "did:ex:h", "T", Attributes{"": "v"}},
		"invalid utf8":     {"did:ex:i", "did:ex:h", "T", Attributes{"name": "Al\xffice"}},
		"invalid utf8 key": {"did:ex:i", "did:ex:h", "T", Attributes{"n\xc3": "v"}},
		"missing issuer":   {"", "did:ex:h", "T", attrs},
		"missing holder":   {"did:ex:i", "", "T", attrs},
		"missing type":     {"did:ex:i", "did:ex:h", " ", attrs},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPending(id.NewCredentialID(), tc.issuer, tc.holder, tc.typ, tc.attrs, now)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestTransitionApply(t *testing.T) {
	now := time.Now().UTC()
	c, err := NewPending(id.NewCredentialID(), "did:ex:i", "did:ex:h", "T", Attributes{"a": "1"}, now)
	require.NoError(t, err)

	IssueTransition(Issuance{StorageHash: "s", AnchorHash: "a", AnchorTxID: "tx", IssuedAt: now}).Apply(c)
	assert.Equal(t, StatusIssued, c.Status)
	assert.Equal(t, "s", c.StorageHash)
	require.NotNil(t, c.IssuedAt)
	assert.Nil(t, c.RevokedAt)

	RevokeTransition(Revocation{RevokedAt: now, Reason: "compromised"}).Apply(c)
	assert.Equal(t, StatusRevoked, c.Status)
	assert.Equal(t, "compromised", c.RevocationReason)
	require.NotNil(t, c.RevokedAt)
	assert.Equal(t, "tx", c.AnchorTxID, "issuance fields survive revocation")
}

func TestCloneIsDeep(t *testing.T) {
	now := time.Now()
	c := &Credential{Attributes: Attributes{"a": "1"}, IssuedAt: &now}
	cp := c.Clone()
	cp.Attributes["a"] = "2"
	*cp.IssuedAt = now.Add(time.Hour)

	assert.Equal(t, "1", c.Attributes["a"])
	assert.Equal(t, now, *c.IssuedAt)
}

func TestStagedIssuancePayloadIsStable(t *testing.T) {
	c, err := NewPending(id.NewCredentialID(), "did:ex:i", "did:ex:h", "Degree", Attributes{"a": "1"}, time.Now())
	require.NoError(t, err)
	at := time.Date(2026, 3, 4, 5, 6, 7, 123456000, time.FixedZone("CET", 3600))
	staged := StagedIssuance{IssuedAt: at, Signature: "sig_1", StorageHash: "blob"}

	p := staged.Payload(c)
	assert.Equal(t, "2026-03-04T04:06:07.123456Z", p.IssuedAt)
	assert.Equal(t, "credDef_Degree", p.CredDefID)
	assert.Equal(t, "sig_1", p.Signature)
	assert.Equal(t, p, StagedIssuance{IssuedAt: at.UTC(), Signature: "sig_1"}.Payload(c))

	c.Staged = &staged
	cp := c.Clone()
	cp.Staged.Signature = "changed"
	assert.Equal(t, "sig_1", c.Staged.Signature)

	IssueTransition(Issuance{StorageHash: "blob", AnchorHash: "a", AnchorTxID: "tx", IssuedAt: at}).Apply(c)
	assert.Nil(t, c.Staged)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Issued ")
	require.NoError(t, err)
	assert.Equal(t, StatusIssued, st)

	_, err = ParseStatus("archived")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestHolderStats(t *testing.T) {
	var s HolderStats
	for _, st := range []Status{StatusPending, StatusIssued, StatusIssued, StatusRevoked} {
		s.Add(st)
	}
	assert.Equal(t, HolderStats{Total: 4, Pending: 1, Issued: 2, Revoked: 1}, s)
}
