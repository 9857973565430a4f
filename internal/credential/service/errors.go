package service

import (
	"errors"
	"fmt"

	"credvault/internal/credential/models"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/sentinel"
)

// fromStore translates store sentinels into domain errors. Errors that already
// carry a domain code keep it.
func fromStore(err error, action string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "credential not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeInvalidState, "credential was modified concurrently")
	case errors.Is(err, sentinel.ErrAlreadyExists):
		return dErrors.New(dErrors.CodeConflict, "credential already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}

func wrongState(current, expected models.Status) error {
	return dErrors.New(dErrors.CodeInvalidState,
		fmt.Sprintf("credential is %s, expected %s", current, expected))
}
