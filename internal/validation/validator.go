// Package validation provides HTTP request validation utilities using the validator/v10 library.
//
// Request structs declare rules with `validate` tags, the message for a failed
// field with a `msg` tag, and input cleanup with `sanitize` tags:
//
//	Name string `json:"name" validate:"min=3" msg:"Name must be at least 3 characters" sanitize:"trim,escape"`
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/shelfwise/shelfwise-server/internal/errors"
)

// FieldError is a single violation. The list returned in error details keeps struct field order.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain validation error whose
// details are a []FieldError.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(s, err)
	}
	return nil
}

// Prepare runs the full input pipeline on a pointer to a struct: trim and
// normalize, validate, then escape. Lengths are checked against the trimmed,
// unescaped text.
func (v *Validator) Prepare(s any) error {
	Sanitize(s)
	if err := v.Validate(s); err != nil {
		return err
	}
	Escape(s)
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(s any, err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	fieldErrors := make([]FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   e.Field(),
			Message: messageFor(t, e),
		})
	}

	return domainerrors.ValidationWithDetails(domainerrors.MsgValidationFailed, fieldErrors)
}

// messageFor prefers the field's msg tag over the generic wording.
func messageFor(t reflect.Type, e validator.FieldError) string {
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(e.StructField()); ok {
			if msg := f.Tag.Get("msg"); msg != "" {
				return msg
			}
		}
	}
	return friendlyMessage(e)
}

//nolint:gocyclo // Switch statement covering validation tags is intentionally exhaustive.
func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Please provide a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", e.Field(), e.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", e.Field(), e.Param())
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "lte":
		return e.Field() + " must be less than or equal to " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "lt":
		return e.Field() + " must be less than " + e.Param()
	default:
		return e.Field() + " is invalid"
	}
}
