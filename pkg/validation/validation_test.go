package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

type sample struct {
	HolderDID    string `json:"holder_did" validate:"required,did"`
	CredentialID string `json:"credential_id" validate:"omitempty,credential_id"`
	Reason       string `json:"reason" validate:"omitempty,notblank,max=10"`
	Kind         string `validate:"omitempty,oneof=a b"`
}

func TestValidateMessages(t *testing.T) {
	tests := []struct {
		name string
		req  sample
		want string
	}{
		{"missing did", sample{}, "holder_did is required"},
		{"not a did", sample{HolderDID: "alice"}, "holder_did must be a DID"},
		{"bad credential id", sample{HolderDID: "did:ex:a", CredentialID: "cred_x"}, "credential_id must be a credential id"},
		{"blank reason", sample{HolderDID: "did:ex:a", Reason: "   "}, "reason must not be blank"},
		{"long reason", sample{HolderDID: "did:ex:a", Reason: strings.Repeat("r", 11)}, "reason must be at most 10"},
		{"oneof", sample{HolderDID: "did:ex:a", Kind: "c"}, "kind must be one of [a b]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestValidatePasses(t *testing.T) {
	assert.NoError(t, Validate(sample{HolderDID: "did:ex:a", CredentialID: id.NewCredentialID().String(), Reason: "lost"}))
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "holder_did", toSnakeCase("HolderDID"))
	assert.Equal(t, "credential_id", toSnakeCase("CredentialID"))
	assert.Equal(t, "reason", toSnakeCase("Reason"))
}

// LimitsSuite covers the boundary invariant: max passes, max+1 fails.
type LimitsSuite struct {
	suite.Suite
}

func TestLimitsSuite(t *testing.T) {
	suite.Run(t, new(LimitsSuite))
}

func (s *LimitsSuite) TestCheckSliceCount() {
	s.NoError(CheckSliceCount("attributes", MaxAttributes, MaxAttributes))
	err := CheckSliceCount("attributes", MaxAttributes+1, MaxAttributes)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "too many attributes")
}

func (s *LimitsSuite) TestCheckStringLength() {
	s.NoError(CheckStringLength("reason", strings.Repeat("a", MaxReasonLength), MaxReasonLength))
	s.Error(CheckStringLength("reason", strings.Repeat("a", MaxReasonLength+1), MaxReasonLength))
}

func (s *LimitsSuite) TestCheckAttributes() {
	s.NoError(CheckAttributes(map[string]string{"name": "Alice"}))
	s.Error(CheckAttributes(map[string]string{" ": "x"}))
	s.Error(CheckAttributes(map[string]string{"name": "Al\xffice"}))
	s.Error(CheckAttributes(map[string]string{"n\xc3": "x"}))
	s.Error(CheckAttributes(map[string]string{"bio": strings.Repeat("x", MaxAttributeValueLength+1)}))

	many := make(map[string]string, MaxAttributes+1)
	for i := range MaxAttributes + 1 {
		many[strings.Repeat("k", i+1)] = "v"
	}
	s.Error(CheckAttributes(many))
}

func (s *LimitsSuite) TestDedupeAndTrim() {
	s.Equal([]string{"name", "age"}, DedupeAndTrim([]string{" name ", "age", "name", "", "  "}))
	s.Empty(DedupeAndTrim(nil))
}
