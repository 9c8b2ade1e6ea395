package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/yusufkecer/bookshelf-backend/internal/apperr"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAppError maps err to its status. Server-side failures are logged; errors
// that are not an *apperr.Error are reported as a generic 500.
func writeAppError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		logError(logger, r, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if appErr.HTTPStatus() >= http.StatusInternalServerError {
		logError(logger, r, err)
	}

	if appErr.Details != nil {
		writeJSON(w, appErr.HTTPStatus(), map[string]interface{}{
			"error":   appErr.Message,
			"details": appErr.Details,
		})
		return
	}
	writeError(w, appErr.HTTPStatus(), appErr.Message)
}

func logError(logger *slog.Logger, r *http.Request, err error) {
	logger.Error("request failed",
		"error", err,
		"request_method", r.Method,
		"request_url", r.URL.String(),
	)
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.BadRequestf("invalid request body")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequestf("invalid %s: %q", name, raw)
	}
	return id, nil
}

func notFoundBook(id int64) error {
	return apperr.BadRequestf("No book found for id: %d", id)
}

func wrapInternal(err error, action string) error {
	return apperr.Wrap(err, apperr.CodeInternal, fmt.Sprintf("failed to %s", action))
}
