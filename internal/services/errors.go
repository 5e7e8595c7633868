// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/utils"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationFailure carries field-level details for a 400 response.
type ValidationFailure struct {
	Details []utils.ValidationError
}

func (e *ValidationFailure) Error() string {
	if len(e.Details) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, e.Details[0].Message)
}

func (e *ValidationFailure) Unwrap() error {
	return ErrValidation
}

func invalid(details ...utils.ValidationError) error {
	return &ValidationFailure{Details: details}
}

// ValidationDetails extracts the details of a validation error, if any.
func ValidationDetails(err error) ([]utils.ValidationError, bool) {
	var failure *ValidationFailure
	if errors.As(err, &failure) {
		return failure.Details, true
	}
	return nil, false
}

// notFound translates store misses into ErrNotFound and passes other
// errors through.
func notFound(err error, what string) error {
	if repository.IsNotFound(err) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
