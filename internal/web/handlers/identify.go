package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kozaktomas/attendance-gate/internal/match"
	"github.com/kozaktomas/attendance-gate/internal/store"
)

// IdentifyHandler answers "whose face is this" queries without recording
// anything.
type IdentifyHandler struct {
	gallery store.GalleryReader
	matcher match.Engine
	dim     int
}

// NewIdentifyHandler creates an identify handler.
func NewIdentifyHandler(gallery store.GalleryReader, matcher match.Engine, dim int) *IdentifyHandler {
	return &IdentifyHandler{gallery: gallery, matcher: matcher, dim: dim}
}

// VectorRequest represents a request body carrying a probe vector.
type VectorRequest struct {
	Vector []float64 `json:"vector"`
}

// IdentifyResponse represents the outcome of an identification.
type IdentifyResponse struct {
	Matched bool             `json:"matched"`
	Student *StudentResponse `json:"student,omitempty"`
}

func (h *IdentifyHandler) probe(w http.ResponseWriter, r *http.Request) ([]float64, bool) {
	var req VectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return nil, false
	}
	if len(req.Vector) != h.dim {
		respondError(w, http.StatusBadRequest, "vector must have "+strconv.Itoa(h.dim)+" components")
		return nil, false
	}
	return req.Vector, true
}

// Identify matches a probe vector against the gallery. No match is a normal
// outcome, not an error.
func (h *IdentifyHandler) Identify(w http.ResponseWriter, r *http.Request) {
	probe, ok := h.probe(w, r)
	if !ok {
		return
	}

	gallery, err := h.gallery.ListAll(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if s, found := h.matcher.Identify(probe, gallery); found {
		resp := studentToResponse(s)
		respondJSON(w, http.StatusOK, IdentifyResponse{Matched: true, Student: &resp})
		return
	}
	respondJSON(w, http.StatusOK, IdentifyResponse{Matched: false})
}

// CheckDuplicate reports whether a probe vector already belongs to an
// enrolled student, for pre-enrollment validation in capture tooling. The
// authoritative check still runs inside the enrollment transaction.
func (h *IdentifyHandler) CheckDuplicate(w http.ResponseWriter, r *http.Request) {
	probe, ok := h.probe(w, r)
	if !ok {
		return
	}

	gallery, err := h.gallery.ListAll(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if s, found := h.matcher.CheckDuplicate(probe, gallery); found {
		resp := studentToResponse(s)
		respondJSON(w, http.StatusOK, IdentifyResponse{Matched: true, Student: &resp})
		return
	}
	respondJSON(w, http.StatusOK, IdentifyResponse{Matched: false})
}
