package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/attendance-gate/internal/store/mock"
)

func TestIdentifyHandler_Identify_Match(t *testing.T) {
	m := mock.New()
	seedStudent(t, m, "S-1", "Ana", "7A", 0)
	seedStudent(t, m, "S-2", "Budi", "7A", 10)
	handler := NewIdentifyHandler(m, testMatcher(), testDim)

	req := jsonRequest(t, "POST", "/api/v1/identify", VectorRequest{Vector: testVector(10.3)})
	recorder := httptest.NewRecorder()

	handler.Identify(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var resp IdentifyResponse
	parseJSONResponse(t, recorder, &resp)
	if !resp.Matched {
		t.Fatal("expected a match")
	}
	if resp.Student == nil || resp.Student.Name != "Budi" {
		t.Errorf("student = %+v; want Budi", resp.Student)
	}
}

func TestIdentifyHandler_Identify_NoMatch(t *testing.T) {
	m := mock.New()
	seedStudent(t, m, "S-1", "Ana", "7A", 0)
	handler := NewIdentifyHandler(m, testMatcher(), testDim)

	req := jsonRequest(t, "POST", "/api/v1/identify", VectorRequest{Vector: testVector(5)})
	recorder := httptest.NewRecorder()

	handler.Identify(recorder, req)

	// An unrecognized face is a normal outcome of identification.
	assertStatusCode(t, recorder, http.StatusOK)

	var resp IdentifyResponse
	parseJSONResponse(t, recorder, &resp)
	if resp.Matched || resp.Student != nil {
		t.Errorf("response = %+v; want no match", resp)
	}
}

func TestIdentifyHandler_Identify_EmptyGallery(t *testing.T) {
	handler := NewIdentifyHandler(mock.New(), testMatcher(), testDim)

	req := jsonRequest(t, "POST", "/api/v1/identify", VectorRequest{Vector: testVector(0)})
	recorder := httptest.NewRecorder()

	handler.Identify(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var resp IdentifyResponse
	parseJSONResponse(t, recorder, &resp)
	if resp.Matched {
		t.Error("empty gallery must not match")
	}
}

func TestIdentifyHandler_Identify_BadVector(t *testing.T) {
	handler := NewIdentifyHandler(mock.New(), testMatcher(), testDim)

	req := jsonRequest(t, "POST", "/api/v1/identify", VectorRequest{Vector: []float64{1, 2}})
	recorder := httptest.NewRecorder()

	handler.Identify(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestIdentifyHandler_Identify_StorageError(t *testing.T) {
	m := mock.New()
	m.ListAllError = errors.New("connection refused")
	handler := NewIdentifyHandler(m, testMatcher(), testDim)

	req := jsonRequest(t, "POST", "/api/v1/identify", VectorRequest{Vector: testVector(0)})
	recorder := httptest.NewRecorder()

	handler.Identify(recorder, req)

	assertStatusCode(t, recorder, http.StatusInternalServerError)
}

func TestIdentifyHandler_CheckDuplicate(t *testing.T) {
	m := mock.New()
	seedStudent(t, m, "S-1", "Ana", "7A", 0)
	handler := NewIdentifyHandler(m, testMatcher(), testDim)

	t.Run("duplicate", func(t *testing.T) {
		req := jsonRequest(t, "POST", "/api/v1/check-duplicate", VectorRequest{Vector: testVector(0.2)})
		recorder := httptest.NewRecorder()

		handler.CheckDuplicate(recorder, req)

		assertStatusCode(t, recorder, http.StatusOK)
		var resp IdentifyResponse
		parseJSONResponse(t, recorder, &resp)
		if !resp.Matched || resp.Student == nil || resp.Student.Name != "Ana" {
			t.Errorf("response = %+v; want match on Ana", resp)
		}
	})

	t.Run("new face", func(t *testing.T) {
		req := jsonRequest(t, "POST", "/api/v1/check-duplicate", VectorRequest{Vector: testVector(5)})
		recorder := httptest.NewRecorder()

		handler.CheckDuplicate(recorder, req)

		assertStatusCode(t, recorder, http.StatusOK)
		var resp IdentifyResponse
		parseJSONResponse(t, recorder, &resp)
		if resp.Matched {
			t.Errorf("response = %+v; want no match", resp)
		}
	})
}
