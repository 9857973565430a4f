package proof

import (
	"strconv"
	"strings"

	dErrors "credvault/pkg/domain-errors"
)

// Operator is a range predicate comparison.
type Operator string

const (
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "=="
)

// ParseOperator validates a predicate operator.
func ParseOperator(s string) (Operator, error) {
	op := Operator(strings.TrimSpace(s))
	switch op {
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpEqual:
		return op, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "invalid operator: "+s)
}

// evaluate compares value against threshold. Ordering operators compare numerically;
// == compares the strings exactly.
func (op Operator) evaluate(value, threshold string) (bool, error) {
	if op == OpEqual {
		return value == threshold, nil
	}

	v, err := parseNumber(value)
	if err != nil {
		return false, dErrors.New(dErrors.CodeInvalidInput, "attribute value is not numeric")
	}
	t, err := parseNumber(threshold)
	if err != nil {
		return false, dErrors.New(dErrors.CodeInvalidInput, "threshold is not numeric")
	}

	switch op {
	case OpGreater:
		return v > t, nil
	case OpLess:
		return v < t, nil
	case OpGreaterEqual:
		return v >= t, nil
	case OpLessEqual:
		return v <= t, nil
	}
	return false, dErrors.New(dErrors.CodeInvalidInput, "invalid operator: "+string(op))
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
