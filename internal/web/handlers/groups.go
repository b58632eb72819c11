package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kozaktomas/attendance-gate/internal/store"
)

// GroupsHandler manages the known class labels.
type GroupsHandler struct {
	groups store.GroupStore
}

// NewGroupsHandler creates a groups handler.
func NewGroupsHandler(g store.GroupStore) *GroupsHandler {
	return &GroupsHandler{groups: g}
}

// List returns every known group ordered by name.
func (h *GroupsHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.groups.ListGroups(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, names)
}

// GroupRequest represents the request body for creating a group.
type GroupRequest struct {
	Name string `json:"name"`
}

// Create registers a new group label.
func (h *GroupsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req GroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.groups.AddGroup(r.Context(), req.Name); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}
