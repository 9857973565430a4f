package proof

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)

type EngineSuite struct {
	suite.Suite
	engine  *Engine
	subject Subject
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.engine = NewEngine(WithClock(func() time.Time { return fixedNow }))
	s.subject = Subject{
		CredentialID: id.NewCredentialID(),
		CredDefID:    "credDef_Identity",
		HolderDID:    "did:ex:alice",
	}
}

func (s *EngineSuite) TestAliceDisclosesAgeOnly() {
	attrs := map[string]string{"name": "Alice", "age": "30"}

	p, err := s.engine.ConstructProof(s.subject, attrs, []string{"age"})
	s.Require().NoError(err)

	s.Equal(map[string]string{"age": "30"}, p.Disclosed)
	s.Equal(1, p.HiddenCount)
	s.Equal(TypeSelectiveDisclosure, p.ProofType)
	s.Len(p.Commitment, 64)

	tampered, err := s.engine.VerifyProof(p, map[string]string{"age": "31"})
	s.Require().NoError(err)
	s.False(tampered.Verified)

	honest, err := s.engine.VerifyProof(p, map[string]string{"age": "30"})
	s.Require().NoError(err)
	s.True(honest.Verified)
	s.Equal(p.CredentialID, honest.CredentialID)
}

func (s *EngineSuite) TestUnknownRevealedNamesAreIgnored() {
	attrs := map[string]string{"name": "Alice", "age": "30"}

	p, err := s.engine.ConstructProof(s.subject, attrs, []string{"age", "ssn"})
	s.Require().NoError(err)
	s.Equal(map[string]string{"age": "30"}, p.Disclosed)
	s.Equal(1, p.HiddenCount)
}

func (s *EngineSuite) TestEverySubsetVerifies() {
	attrs := map[string]string{"a": "1", "b": "2", "c": "3"}
	subsets := [][]string{{}, {"a"}, {"b", "c"}, {"a", "b", "c"}}

	for _, revealed := range subsets {
		p, err := s.engine.ConstructProof(s.subject, attrs, revealed)
		s.Require().NoError(err)
		s.Equal(len(attrs)-len(revealed), p.HiddenCount)

		claimed := make(map[string]string, len(p.Disclosed))
		for k, v := range p.Disclosed {
			claimed[k] = v
		}
		res, err := s.engine.VerifyProof(p, claimed)
		s.Require().NoError(err)
		s.True(res.Verified, "revealed=%v", revealed)

		for k := range claimed {
			altered := make(map[string]string, len(claimed))
			for k2, v2 := range claimed {
				altered[k2] = v2
			}
			altered[k] += "x"
			res, err := s.engine.VerifyProof(p, altered)
			s.Require().NoError(err)
			s.False(res.Verified, "altering %s must fail", k)
		}
	}
}

func (s *EngineSuite) TestEmptyDisclosureVerifiesWithNilClaim() {
	p, err := s.engine.ConstructProof(s.subject, map[string]string{"a": "1"}, nil)
	s.Require().NoError(err)

	res, err := s.engine.VerifyProof(p, nil)
	s.Require().NoError(err)
	s.True(res.Verified)
}

func (s *EngineSuite) TestExtraClaimedAttributeFails() {
	p, err := s.engine.ConstructProof(s.subject, map[string]string{"a": "1", "b": "2"}, []string{"a"})
	s.Require().NoError(err)

	res, err := s.engine.VerifyProof(p, map[string]string{"a": "1", "b": "2"})
	s.Require().NoError(err)
	s.False(res.Verified)
}

func (s *EngineSuite) TestTamperedHiddenCountFails() {
	p, err := s.engine.ConstructProof(s.subject, map[string]string{"a": "1", "b": "2"}, []string{"a"})
	s.Require().NoError(err)

	p.HiddenCount = 0
	res, err := s.engine.VerifyProof(p, map[string]string{"a": "1"})
	s.Require().NoError(err)
	s.False(res.Verified)
}

func (s *EngineSuite) TestProofSurvivesJSONTransport() {
	p, err := s.engine.ConstructProof(s.subject, map[string]string{"name": "Alice", "age": "30"}, []string{"name"})
	s.Require().NoError(err)

	raw, err := json.Marshal(p)
	s.Require().NoError(err)
	var decoded DisclosureProof
	s.Require().NoError(json.Unmarshal(raw, &decoded))

	res, err := s.engine.VerifyProof(&decoded, map[string]string{"name": "Alice"})
	s.Require().NoError(err)
	s.True(res.Verified)
}

func (s *EngineSuite) TestStructurallyIncompleteProofFailsClosed() {
	valid, err := s.engine.ConstructProof(s.subject, map[string]string{"a": "1"}, []string{"a"})
	s.Require().NoError(err)

	cases := map[string]func(p *DisclosureProof){
		"missing commitment":    func(p *DisclosureProof) { p.Commitment = "" },
		"missing credential id": func(p *DisclosureProof) { p.CredentialID = "" },
		"missing cred def id":   func(p *DisclosureProof) { p.CredDefID = "" },
		"missing timestamp":     func(p *DisclosureProof) { p.Timestamp = time.Time{} },
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			p := *valid
			mutate(&p)
			res, err := s.engine.VerifyProof(&p, map[string]string{"a": "1"})
			s.False(res.Verified)
			s.True(dErrors.HasCode(err, dErrors.CodeProofInvalid))
		})
	}

	res, err := s.engine.VerifyProof(nil, nil)
	s.False(res.Verified)
	s.True(dErrors.HasCode(err, dErrors.CodeProofInvalid))
}

func (s *EngineSuite) TestConstructRequiresIdentifiers() {
	_, err := s.engine.ConstructProof(Subject{CredDefID: "x"}, map[string]string{"a": "1"}, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *EngineSuite) TestRangePredicate() {
	attrs := map[string]string{"age": "25", "country": "NZ"}

	adult, err := s.engine.VerifyRangePredicate(s.subject, attrs, "age", OpGreaterEqual, "18")
	s.Require().NoError(err)
	s.True(adult.Result)
	s.Equal("age >= 18", adult.Predicate)
	s.Equal(TypeRange, adult.ProofType)

	senior, err := s.engine.VerifyRangePredicate(s.subject, attrs, "age", OpGreaterEqual, "30")
	s.Require().NoError(err)
	s.False(senior.Result)
	s.NotEqual(adult.Commitment, senior.Commitment)

	ok, err := s.engine.VerifyRangeProof(adult)
	s.Require().NoError(err)
	s.True(ok)

	forged := *senior
	forged.Result = true
	ok, err = s.engine.VerifyRangeProof(&forged)
	s.Require().NoError(err)
	s.False(ok, "flipping the result must break the commitment")
}

func (s *EngineSuite) TestRangeOperators() {
	attrs := map[string]string{"score": "10", "code": "010"}
	cases := []struct {
		name      string
		attr      string
		op        Operator
		threshold string
		want      bool
	}{
		{"greater", "score", OpGreater, "9", true},
		{"greater equal boundary", "score", OpGreaterEqual, "10", true},
		{"less", "score", OpLess, "10", false},
		{"less equal", "score", OpLessEqual, "10", true},
		{"decimal threshold", "score", OpGreater, "9.5", true},
		{"equality is string based", "code", OpEqual, "10", false},
		{"equality exact", "code", OpEqual, "010", true},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			p, err := s.engine.VerifyRangePredicate(s.subject, attrs, tc.attr, tc.op, tc.threshold)
			s.Require().NoError(err)
			s.Equal(tc.want, p.Result)
		})
	}
}

func (s *EngineSuite) TestRangePredicateTrimsOperator() {
	p, err := s.engine.VerifyRangePredicate(s.subject, map[string]string{"age": "25"}, "age", Operator(" >= "), "18")
	s.Require().NoError(err)
	s.True(p.Result)
	s.Equal("age >= 18", p.Predicate)
}

func (s *EngineSuite) TestRangePredicateInvalidInput() {
	attrs := map[string]string{"age": "twenty", "n": "5"}

	_, err := s.engine.VerifyRangePredicate(s.subject, attrs, "age", OpGreater, "18")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput), "non-numeric attribute")

	_, err = s.engine.VerifyRangePredicate(s.subject, attrs, "n", OpGreater, "abc")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput), "non-numeric threshold")

	_, err = s.engine.VerifyRangePredicate(s.subject, attrs, "missing", OpGreater, "1")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput), "missing attribute")

	_, err = s.engine.VerifyRangePredicate(s.subject, attrs, "n", Operator("!="), "1")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput), "bad operator")
}

func (s *EngineSuite) TestOwnershipProof() {
	p, err := s.engine.ProveOwnership(s.subject)
	s.Require().NoError(err)
	s.Equal(TypeOwnership, p.ProofType)
	s.Equal(s.subject.HolderDID, p.HolderDID)

	ok, err := s.engine.VerifyOwnership(p)
	s.Require().NoError(err)
	s.True(ok)

	stolen := *p
	stolen.HolderDID = "did:ex:mallory"
	ok, err = s.engine.VerifyOwnership(&stolen)
	s.Require().NoError(err)
	s.False(ok)

	_, err = s.engine.ProveOwnership(Subject{CredentialID: s.subject.CredentialID})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestParseOperator(t *testing.T) {
	for _, raw := range []string{">", "<", ">=", "<=", "==", " >= "} {
		_, err := ParseOperator(raw)
		require.NoError(t, err, raw)
	}
	_, err := ParseOperator("=>")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
