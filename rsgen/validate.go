package rsgen

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrInvalidConfig marks configuration errors.
var ErrInvalidConfig = errors.New("invalid configuration")

// validateConfig checks a defaulted Config.
func validateConfig(cfg *Config) error {
	if cfg.Sink == nil && cfg.OutDir == "" {
		return errors.Mark(errors.New("OutDir: required when no sink is set"), ErrInvalidConfig)
	}

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return errors.Mark(errors.Wrap(err, "validate configuration"), ErrInvalidConfig)
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, fieldPath(ve)+": "+formatValidationError(ve))
	}
	return errors.Mark(errors.New(strings.Join(messages, "; ")), ErrInvalidConfig)
}

// fieldPath returns the field name without the struct prefix, e.g. "ReservedWords[1]".
func fieldPath(ve validator.FieldError) string {
	ns := ve.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ve.Field()
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "required_without":
		return fmt.Sprintf("required when %s is not set", ve.Param())
	case "endswith":
		return fmt.Sprintf("must end with %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
