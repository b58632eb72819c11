package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/attendance-gate/internal/store/mock"
)

func TestGroupsHandler_CreateAndList(t *testing.T) {
	m := mock.New()
	handler := NewGroupsHandler(m)

	for _, name := range []string{"8B", "7A"} {
		recorder := httptest.NewRecorder()
		handler.Create(recorder, jsonRequest(t, "POST", "/api/v1/groups", GroupRequest{Name: name}))
		assertStatusCode(t, recorder, http.StatusCreated)
	}

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/groups", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var names []string
	parseJSONResponse(t, recorder, &names)
	if len(names) != 2 || names[0] != "7A" || names[1] != "8B" {
		t.Errorf("groups = %v; want [7A 8B] ordered by name", names)
	}
}

func TestGroupsHandler_Create_Duplicate(t *testing.T) {
	handler := NewGroupsHandler(mock.New())

	recorder := httptest.NewRecorder()
	handler.Create(recorder, jsonRequest(t, "POST", "/api/v1/groups", GroupRequest{Name: "7A"}))
	assertStatusCode(t, recorder, http.StatusCreated)

	recorder = httptest.NewRecorder()
	handler.Create(recorder, jsonRequest(t, "POST", "/api/v1/groups", GroupRequest{Name: "7A"}))
	assertStatusCode(t, recorder, http.StatusConflict)
}

func TestGroupsHandler_Create_MissingName(t *testing.T) {
	handler := NewGroupsHandler(mock.New())

	recorder := httptest.NewRecorder()
	handler.Create(recorder, jsonRequest(t, "POST", "/api/v1/groups", GroupRequest{}))

	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestHealthCheck(t *testing.T) {
	recorder := httptest.NewRecorder()
	HealthCheck(recorder, httptest.NewRequest("GET", "/api/v1/health", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var resp map[string]string
	parseJSONResponse(t, recorder, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %q; want ok", resp["status"])
	}
}
