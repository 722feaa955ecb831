package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nikogura/folio/pkg/content"
	"github.com/pkg/errors"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 2 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// decodeJSON reads a bounded JSON body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) (ok bool) {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return ok
	}
	ok = true
	return ok
}

// failure carries the client-facing messages for one operation.
type failure struct {
	notFound string
	internal string
}

// handleError maps store errors to status codes. Internal causes are logged, never returned.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error, f failure) {
	var validation *content.ValidationError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	case errors.Is(err, content.ErrNotFound):
		writeError(w, http.StatusNotFound, f.notFound)
	case errors.Is(err, content.ErrConflict):
		writeError(w, http.StatusConflict, "Slug already in use")
	case errors.Is(err, content.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		s.log.ErrorContext(r.Context(), f.internal,
			slog.String("error", err.Error()),
			slog.String("request_id", RequestIDFromCtx(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, f.internal)
	}
}
