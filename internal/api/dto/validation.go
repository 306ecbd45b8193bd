package dto

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	apperrors "github.com/parentchild/account-service/pkg/util/errorutil"
)

// Validatable is implemented by request payloads.
type Validatable interface {
	Validate() error
}

// Check runs v.Validate and converts failures into a VALIDATION_FAILED error
// whose details map field names to messages.
func Check(v Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for field, ferr := range fieldErrs {
			details[field] = ferr.Error()
		}
		return apperrors.NewValidationError("invalid payload", details)
	}
	return apperrors.NewValidationError(err.Error(), nil)
}
