package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Service errors
var (
	ErrInvalidCredentials = errors.New("invalid email/password combination")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationError carries the full, human readable messages of a rejected
// form, in field order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Add appends a full message such as "Email has already been taken".
func (e *ValidationError) Add(message string) {
	e.Messages = append(e.Messages, message)
}

// Empty reports whether no message was recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Messages) == 0
}

// newValidator returns a validator that names fields by their `label` tag.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

// validateStruct runs v over s and collects field failures into a
// ValidationError, which callers may extend before checking Empty.
func validateStruct(v *validator.Validate, s interface{}) (*ValidationError, error) {
	verr := &ValidationError{}
	err := v.Struct(s)
	if err == nil {
		return verr, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("failed to validate input: %w", err)
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field() + " " + messageFor(fe))
	}
	return verr, nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "can't be blank"
	case "email":
		return "is invalid"
	case "min":
		return fmt.Sprintf("is too short (minimum is %s characters)", fe.Param())
	case "max":
		return fmt.Sprintf("is too long (maximum is %s characters)", fe.Param())
	case "eqfield":
		return "doesn't match " + fe.Param()
	default:
		return "is invalid"
	}
}
