package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wecare/healthtracker/internal/infrastructure/observability"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithFailure logs err with the request's logger and answers with the
// given status and public message.
func respondWithFailure(w http.ResponseWriter, r *http.Request, statusCode int, message string, err error) {
	logger := observability.LoggerFromContext(r.Context())
	event := logger.Error()
	if statusCode < http.StatusInternalServerError {
		event = logger.Warn()
	}
	event.Err(err).Str("path", r.URL.Path).Msg(message)

	respondWithError(w, statusCode, message)
}

// publicMessage returns the message of the AppError in err's chain without
// its type prefix or cause
func publicMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// queryLimit reads a positive "limit" query parameter. Anything else yields
// zero so the service default applies.
func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return 0
	}
	return limit
}

// queryUserID reads the optional "userId" query parameter
func queryUserID(r *http.Request) (*int64, bool) {
	raw := r.URL.Query().Get("userId")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}
