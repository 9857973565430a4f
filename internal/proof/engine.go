// Package proof builds and checks hash-commitment proofs over credential attributes.
//
// These are commitment-equality checks, not zero-knowledge proofs: anyone holding the
// disclosed values, hidden count, timestamp and identifiers can recompute a commitment.
// They demonstrate consistency of a claimed disclosure with an earlier commitment, not
// knowledge of the hidden values.
package proof

import (
	"fmt"
	"time"

	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/encryption"
)

// Engine constructs and verifies proofs. It holds no state beyond its clock.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the proof timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ConstructProof discloses the attributes named in revealed. Unknown names are ignored.
func (e *Engine) ConstructProof(sub Subject, attributes map[string]string, revealed []string) (*DisclosureProof, error) {
	if sub.CredentialID.IsNil() || sub.CredDefID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credential and credential definition ids are required")
	}

	disclosed := make(map[string]string, len(revealed))
	for _, name := range revealed {
		if v, ok := attributes[name]; ok {
			disclosed[name] = v
		}
	}
	hidden := len(attributes) - len(disclosed)
	ts := e.now().UTC()

	commitment, err := encryption.Digest(disclosureInput{
		CredentialID:          sub.CredentialID.String(),
		CredDefID:             sub.CredDefID,
		DisclosedAttributes:   disclosed,
		HiddenAttributesCount: hidden,
		Timestamp:             formatTimestamp(ts),
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeCryptoFailure, "compute disclosure commitment")
	}

	return &DisclosureProof{
		Commitment:   commitment,
		ProofType:    TypeSelectiveDisclosure,
		CredentialID: sub.CredentialID,
		CredDefID:    sub.CredDefID,
		Timestamp:    ts,
		HiddenCount:  hidden,
		Disclosed:    disclosed,
	}, nil
}

// VerifyProof recomputes the commitment with the verifier's claimed disclosure.
// A structurally incomplete proof yields Verified=false together with a CodeProofInvalid error.
func (e *Engine) VerifyProof(p *DisclosureProof, claimed map[string]string) (VerifyResult, error) {
	result := VerifyResult{VerifiedAt: e.now().UTC()}
	if err := checkDisclosureStructure(p); err != nil {
		return result, err
	}
	result.ProofType = p.ProofType
	result.CredentialID = p.CredentialID
	result.Disclosed = claimed

	if claimed == nil {
		claimed = map[string]string{}
	}
	expected, err := encryption.Digest(disclosureInput{
		CredentialID:          p.CredentialID.String(),
		CredDefID:             p.CredDefID,
		DisclosedAttributes:   claimed,
		HiddenAttributesCount: p.HiddenCount,
		Timestamp:             formatTimestamp(p.Timestamp),
	})
	if err != nil {
		return result, dErrors.Wrap(err, dErrors.CodeCryptoFailure, "recompute disclosure commitment")
	}

	result.Verified = expected == p.Commitment
	return result, nil
}

func checkDisclosureStructure(p *DisclosureProof) error {
	switch {
	case p == nil:
		return dErrors.New(dErrors.CodeProofInvalid, "proof is required")
	case p.Commitment == "":
		return dErrors.New(dErrors.CodeProofInvalid, "proof commitment missing")
	case p.CredentialID.IsNil():
		return dErrors.New(dErrors.CodeProofInvalid, "proof credential id missing")
	case p.CredDefID == "":
		return dErrors.New(dErrors.CodeProofInvalid, "proof credential definition id missing")
	case p.Timestamp.IsZero():
		return dErrors.New(dErrors.CodeProofInvalid, "proof timestamp missing")
	case p.HiddenCount < 0:
		return dErrors.New(dErrors.CodeProofInvalid, "proof hidden count negative")
	}
	return nil
}

// VerifyRangePredicate evaluates name <op> threshold against the undisclosed value and
// commits to the result.
func (e *Engine) VerifyRangePredicate(sub Subject, attributes map[string]string, name string, op Operator, threshold string) (*RangeProof, error) {
	if sub.CredentialID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credential id is required")
	}
	op, err := ParseOperator(string(op))
	if err != nil {
		return nil, err
	}
	value, ok := attributes[name]
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "attribute not present in credential: "+name)
	}

	result, err := op.evaluate(value, threshold)
	if err != nil {
		return nil, err
	}

	predicate := fmt.Sprintf("%s %s %s", name, op, threshold)
	ts := e.now().UTC()
	commitment, err := rangeCommitment(sub.CredentialID.String(), predicate, result, ts)
	if err != nil {
		return nil, err
	}

	return &RangeProof{
		Commitment:   commitment,
		ProofType:    TypeRange,
		CredentialID: sub.CredentialID,
		Predicate:    predicate,
		Result:       result,
		Timestamp:    ts,
	}, nil
}

// VerifyRangeProof checks that a range proof's commitment matches its stated result.
func (e *Engine) VerifyRangeProof(p *RangeProof) (bool, error) {
	if p == nil || p.Commitment == "" || p.CredentialID.IsNil() || p.Predicate == "" || p.Timestamp.IsZero() {
		return false, dErrors.New(dErrors.CodeProofInvalid, "range proof is incomplete")
	}
	expected, err := rangeCommitment(p.CredentialID.String(), p.Predicate, p.Result, p.Timestamp)
	if err != nil {
		return false, err
	}
	return expected == p.Commitment, nil
}

func rangeCommitment(credentialID, predicate string, result bool, ts time.Time) (string, error) {
	c, err := encryption.Digest(rangeInput{
		CredentialID: credentialID,
		Predicate:    predicate,
		Result:       result,
		Timestamp:    formatTimestamp(ts),
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeCryptoFailure, "compute range commitment")
	}
	return c, nil
}

// ProveOwnership commits to the credential/holder binding.
func (e *Engine) ProveOwnership(sub Subject) (*OwnershipProof, error) {
	if sub.CredentialID.IsNil() || sub.HolderDID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credential id and holder DID are required")
	}
	ts := e.now().UTC()
	commitment, err := ownershipCommitment(sub, ts)
	if err != nil {
		return nil, err
	}
	return &OwnershipProof{
		Commitment:   commitment,
		ProofType:    TypeOwnership,
		CredentialID: sub.CredentialID,
		HolderDID:    sub.HolderDID,
		Timestamp:    ts,
	}, nil
}

// VerifyOwnership recomputes an ownership commitment.
func (e *Engine) VerifyOwnership(p *OwnershipProof) (bool, error) {
	if p == nil || p.Commitment == "" || p.CredentialID.IsNil() || p.HolderDID.IsNil() || p.Timestamp.IsZero() {
		return false, dErrors.New(dErrors.CodeProofInvalid, "ownership proof is incomplete")
	}
	expected, err := ownershipCommitment(Subject{CredentialID: p.CredentialID, HolderDID: p.HolderDID}, p.Timestamp)
	if err != nil {
		return false, err
	}
	return expected == p.Commitment, nil
}

func ownershipCommitment(sub Subject, ts time.Time) (string, error) {
	c, err := encryption.Digest(ownershipInput{
		CredentialID: sub.CredentialID.String(),
		HolderDID:    sub.HolderDID.String(),
		Timestamp:    formatTimestamp(ts),
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeCryptoFailure, "compute ownership commitment")
	}
	return c, nil
}
