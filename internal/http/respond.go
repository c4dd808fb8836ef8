package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses. Unexpected errors are
// logged and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrSerializationFailure):
		writeJSON(w, http.StatusConflict, errorBody{Error: "conflict, try again"})
		return
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrHoldExists),
		errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		LoggerFromContext(r.Context()).WithError(err).Error("request failed")
		writeJSON(w, status, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(domain.ErrInvalidInput, "malformed body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errors.Wrapf(domain.ErrInvalidInput, "invalid %s", name)
	}
	return id, nil
}

// queryID parses an optional uuid query parameter.
func queryID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "invalid %s", name)
	}
	return &id, nil
}

// queryList accepts both repeated parameters and comma separated values.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryStatuses(r *http.Request) ([]domain.OpportunityStatus, error) {
	var out []domain.OpportunityStatus
	for _, raw := range queryList(r, "status") {
		s, err := domain.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func queryDate(r *http.Request, name string) (domain.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(raw)
}

func queryEntityType(r *http.Request) (domain.EntityType, error) {
	raw := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("entityType")))
	if raw == "" {
		return "", nil
	}
	t := domain.EntityType(raw)
	if !t.Valid() {
		return "", errors.Wrapf(domain.ErrInvalidInput, "unknown entity type %q", raw)
	}
	return t, nil
}

func badInput(format string, args ...interface{}) error {
	return errors.Wrapf(domain.ErrInvalidInput, format, args...)
}

func parseBodyID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, badInput("invalid %s", name)
	}
	return id, nil
}
