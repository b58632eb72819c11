package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kozaktomas/attendance-gate/internal/store"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondStoreError maps storage errors to HTTP statuses: conflicts for
// duplicates, not found for missing students, internal error otherwise.
func respondStoreError(w http.ResponseWriter, err error) {
	var dup *store.DuplicateFaceError
	switch {
	case errors.As(err, &dup):
		respondJSON(w, http.StatusConflict, map[string]any{
			"error":      dup.Error(),
			"student_id": dup.StudentID,
			"name":       dup.Name,
		})
	case errors.Is(err, store.ErrDuplicateExternalID),
		errors.Is(err, store.ErrDuplicateGroup):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrStudentNotFound),
		errors.Is(err, store.ErrUnknownStudent):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "storage error")
	}
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
