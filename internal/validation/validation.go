// Package validation binds request data into typed requests and
// validates it.
//
// It uses the `validator` library to enforce the rules defined in struct
// tags. Requests only carry rules for their path segments, so a failed
// rule means the URL does not name a resource and is reported as a 404.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/parking-api/internal/errs"
)

// Validatable is implemented by request types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// FieldError describes one failed rule.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Error is returned when a bound request fails validation. It unwraps to
// the 404 HTTPError that reaches the client.
type Error struct {
	Fields []FieldError
	*errs.HTTPError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Error
	}
	return fmt.Sprintf("invalid request: %s", strings.Join(parts, ", "))
}

func (e *Error) Unwrap() error {
	return e.HTTPError
}

// BindAndValidate binds path, query and body data into payload and validates it.
//
// Bind errors (malformed JSON, unsupported content type) are returned as-is
// so the global error handler can answer them.
//
// NOTE: c.Bind expects a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return &Error{
			Fields:    extractFieldErrors(err),
			HTTPError: errs.NewNotFoundError("Route not found", false, nil),
		}
	}

	return nil
}

func extractFieldErrors(err error) []FieldError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "request", Error: err.Error()}}
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		var msg string

		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "number":
			msg = "must be a number"
		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s:%s", fe.Tag(), fe.Param())
			} else {
				msg = fe.Tag()
			}
		}

		fieldErrors = append(fieldErrors, FieldError{
			Field: strings.ToLower(fe.Field()),
			Error: msg,
		})
	}

	return fieldErrors
}
