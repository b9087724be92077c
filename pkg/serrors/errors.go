package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Error codes shared across the CRM core. Controllers map these onto HTTP
// statuses; services and repositories never import net/http.
const (
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeInvalidReference  = "INVALID_REFERENCE"
	CodeDuplicateConflict = "DUPLICATE_CONFLICT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeParseFailure      = "PARSE_FAILURE"
	CodeInternal          = "INTERNAL_ERROR"
)

// Base is a coded error. Code is stable and machine-readable, Message is
// a human-readable English default.
type Base struct {
	Code    string
	Message string
}

func (e *Base) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on Code so sentinel comparisons survive fmt/errors wrapping
// and per-call-site messages.
func (e *Base) Is(target error) bool {
	t, ok := target.(*Base)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func NewError(code, message string) *Base {
	return &Base{Code: code, Message: message}
}

func NewErrorf(code, format string, args ...any) *Base {
	return &Base{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Canonical sentinels for errors.Is checks.
var (
	ErrUnauthenticated   = NewError(CodeUnauthenticated, "no authenticated tenant")
	ErrInvalidReference  = NewError(CodeInvalidReference, "referenced entity not found")
	ErrDuplicateConflict = NewError(CodeDuplicateConflict, "duplicate entity")
	ErrInternal          = NewError(CodeInternal, "internal error")
)

// ValidationErrors maps a field name to a human-readable message.
type ValidationErrors map[string]string

// ProcessValidatorErrors flattens go-playground validator errors into
// per-field messages keyed by struct field name.
func ProcessValidatorErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = messageForTag(fe)
	}
	return out
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "hexcolor6":
		return fmt.Sprintf("%s must be a 6-digit hex color", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
