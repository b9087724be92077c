package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/sproutcrm/sprout-sdk/pkg/httpapi"
	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

// decodeJSON parses the request body into dst and reports the failure to the
// client itself. Callers just return when it yields false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.CodeParseFailure, "invalid JSON body")
		return false
	}
	return true
}

// pathUUID extracts and parses a uuid path variable, writing a 404 when the
// value is not a valid uuid (an unparseable id can never reference anything).
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, serrors.CodeInvalidReference, "invalid id: "+raw)
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := atoiInRange(raw, 1, 200); err == nil {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := atoiInRange(raw, 0, 1<<30); err == nil {
			offset = v
		}
	}
	return limit, offset
}

func atoiInRange(raw string, min, max int) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return v, nil
}
