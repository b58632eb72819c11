package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kozaktomas/attendance-gate/internal/match"
	"github.com/kozaktomas/attendance-gate/internal/store"
)

// StudentResponse represents an enrolled student in API responses. The
// feature vector itself is never echoed back.
type StudentResponse struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Group      string `json:"group"`
	CreatedAt  string `json:"created_at"`
}

func studentToResponse(s store.Student) StudentResponse {
	return StudentResponse{
		ID:         s.ID,
		ExternalID: s.ExternalID,
		Name:       s.Name,
		Group:      s.Group,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
	}
}

// StudentsHandler manages the enrollment gallery.
type StudentsHandler struct {
	gallery store.GalleryWriter
	matcher match.Engine
	dim     int
	log     *zap.Logger
}

// NewStudentsHandler creates a students handler.
func NewStudentsHandler(gallery store.GalleryWriter, matcher match.Engine, dim int, log *zap.Logger) *StudentsHandler {
	return &StudentsHandler{gallery: gallery, matcher: matcher, dim: dim, log: log}
}

// EnrollRequest represents the request body for enrolling a student.
type EnrollRequest struct {
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	Group      string    `json:"group"`
	Vector     []float64 `json:"vector"`
}

// Enroll registers a new student with their feature vector. The vector must
// not match any enrolled student; the duplicate check runs inside the
// enrollment transaction.
func (h *StudentsHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.ExternalID == "" || req.Name == "" || req.Group == "" {
		respondError(w, http.StatusBadRequest, "external_id, name and group are required")
		return
	}
	if len(req.Vector) != h.dim {
		respondError(w, http.StatusBadRequest, "vector must have "+strconv.Itoa(h.dim)+" components")
		return
	}

	enrolled, err := h.gallery.Enroll(r.Context(), store.NewStudent{
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Group:      req.Group,
		Vector:     req.Vector,
	}, h.matcher.DupCheck(req.Vector))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	h.log.Info("student enrolled",
		zap.Int64("id", enrolled.ID),
		zap.String("external_id", sanitizeForLog(enrolled.ExternalID)),
	)
	respondJSON(w, http.StatusCreated, studentToResponse(*enrolled))
}

// List returns every enrolled student, optionally filtered by group.
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		students []store.Student
		err      error
	)
	if group := r.URL.Query().Get("group"); group != "" {
		students, err = h.gallery.ListByGroup(r.Context(), group)
	} else {
		students, err = h.gallery.ListAll(r.Context())
	}
	if err != nil {
		respondStoreError(w, err)
		return
	}

	response := make([]StudentResponse, len(students))
	for i := range students {
		response[i] = studentToResponse(students[i])
	}
	respondJSON(w, http.StatusOK, response)
}

// Get returns a single student by id.
func (h *StudentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	s, err := h.gallery.GetStudent(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, studentToResponse(*s))
}

// StudentUpdateRequest represents the request body for editing a student.
// The feature vector is immutable; re-enroll to change it.
type StudentUpdateRequest struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

// Update edits a student's name and group.
func (h *StudentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req StudentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Name == "" || req.Group == "" {
		respondError(w, http.StatusBadRequest, "name and group are required")
		return
	}

	if err := h.gallery.UpdateStudent(r.Context(), id, req.Name, req.Group); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete removes a student; their attendance rows cascade.
func (h *StudentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.gallery.DeleteStudent(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	h.log.Info("student deleted", zap.Int64("id", id))
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid student id")
		return 0, false
	}
	return id, true
}
