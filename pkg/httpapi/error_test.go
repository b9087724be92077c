package httpapi_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutcrm/sprout-sdk/pkg/httpapi"
	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

func TestStatusForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", serrors.ErrUnauthenticated, http.StatusUnauthorized},
		{"invalid reference", serrors.ErrInvalidReference, http.StatusNotFound},
		{"duplicate", serrors.ErrDuplicateConflict, http.StatusConflict},
		{"validation", serrors.NewError(serrors.CodeValidation, "bad row"), http.StatusUnprocessableEntity},
		{"parse failure", serrors.NewError(serrors.CodeParseFailure, "bad csv"), http.StatusUnprocessableEntity},
		{"internal", serrors.ErrInternal, http.StatusInternalServerError},
		{"uncoded", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, httpapi.StatusForError(tt.err))
		})
	}
}

func TestWriteCodedError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := httpapi.WriteCodedError(rec, serrors.NewError(serrors.CodeDuplicateConflict, "email taken"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":"DUPLICATE_CONFLICT","message":"email taken"}`, rec.Body.String())
}
