package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
	})
}

func WriteValidationError(w http.ResponseWriter, fields map[string]string) error {
	return WriteJSON(w, http.StatusUnprocessableEntity, &ErrorEnvelope{
		Code:    serrors.CodeValidation,
		Message: "validation failed",
		Fields:  fields,
	})
}

// StatusForError maps a coded error onto an HTTP status. Unknown errors are
// treated as internal failures.
func StatusForError(err error) int {
	var base *serrors.Base
	if !errors.As(err, &base) {
		return http.StatusInternalServerError
	}
	switch base.Code {
	case serrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case serrors.CodeInvalidReference:
		return http.StatusNotFound
	case serrors.CodeDuplicateConflict:
		return http.StatusConflict
	case serrors.CodeValidation, serrors.CodeParseFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteCodedError renders err using its serrors code, falling back to a
// generic internal error for uncoded failures.
func WriteCodedError(w http.ResponseWriter, err error) error {
	var base *serrors.Base
	if errors.As(err, &base) {
		return WriteError(w, StatusForError(err), base.Code, base.Message)
	}
	return WriteError(w, http.StatusInternalServerError, serrors.CodeInternal, "internal error")
}
