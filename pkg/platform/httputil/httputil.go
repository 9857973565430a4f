package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "credvault/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding error cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates a domain error into an HTTP status and JSON body.
// Errors without a domain code become 500 without leaking their message.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := map[string]any{
			"error":     DomainCodeToHTTPCode(domainErr.Code),
			"retryable": dErrors.IsRetryable(err),
		}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), response)
		return
	}

	WriteJSON(w, http.StatusInternalServerError, map[string]any{
		"error":     DomainCodeToHTTPCode(dErrors.CodeInternal),
		"retryable": false,
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeProofInvalid:
		return http.StatusBadRequest
	case dErrors.CodeConflict, dErrors.CodeInvalidState:
		return http.StatusConflict
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeCryptoFailure, dErrors.CodeAnchorFailure:
		return http.StatusServiceUnavailable
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to the JSON error field.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation:
		return "validation_error"
	case dErrors.CodeConflict:
		return "conflict"
	case dErrors.CodeInvalidState:
		return "invalid_state"
	case dErrors.CodeForbidden:
		return "forbidden"
	case dErrors.CodeProofInvalid:
		return "proof_invalid"
	case dErrors.CodeCryptoFailure:
		return "crypto_failure"
	case dErrors.CodeAnchorFailure:
		return "anchor_failure"
	case dErrors.CodeTimeout:
		return "timeout"
	default:
		return "internal_error"
	}
}
