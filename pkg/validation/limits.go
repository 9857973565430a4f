package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	dErrors "credvault/pkg/domain-errors"
)

// MaxBodySize is the maximum accepted request body (64 KB).
const MaxBodySize = 64 * 1024

// Credential payload limits.
const (
	MaxAttributes           = 100
	MaxAttributeNameLength  = 100
	MaxAttributeValueLength = 4096
	MaxRevealed             = MaxAttributes
	MaxReasonLength         = 500
	MaxCredentialTypeLength = 100
)

// CheckSliceCount validates that a collection does not exceed max elements.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed max bytes.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckAttributes bounds the number and size of credential attributes.
func CheckAttributes(attrs map[string]string) error {
	if err := CheckSliceCount("attributes", len(attrs), MaxAttributes); err != nil {
		return err
	}
	for name, value := range attrs {
		if strings.TrimSpace(name) == "" {
			return dErrors.New(dErrors.CodeValidation, "attribute names must not be blank")
		}
		if !utf8.ValidString(name) || !utf8.ValidString(value) {
			return dErrors.New(dErrors.CodeValidation, "attributes must be valid UTF-8")
		}
		if err := CheckStringLength("attribute name", name, MaxAttributeNameLength); err != nil {
			return err
		}
		if err := CheckStringLength("attribute "+name, value, MaxAttributeValueLength); err != nil {
			return err
		}
	}
	return nil
}

// DedupeAndTrim trims each value and drops blanks and repeats, keeping first-seen order.
func DedupeAndTrim(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
