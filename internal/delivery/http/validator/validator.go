// Package validator adapts go-playground validation to echo's Validator hook.
package validator

import (
	domainerrors "bookbridge/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

type echoValidator struct {
	validate *playground.Validate
}

// New returns an echo.Validator backed by struct tags.
func New() *echoValidator {
	return &echoValidator{validate: playground.New()}
}

// Validate checks a bound request struct against its validate tags.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
