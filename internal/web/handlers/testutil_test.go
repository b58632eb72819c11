package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kozaktomas/attendance-gate/internal/ledger"
	"github.com/kozaktomas/attendance-gate/internal/match"
	"github.com/kozaktomas/attendance-gate/internal/store"
	"github.com/kozaktomas/attendance-gate/internal/store/mock"
)

const testDim = 128

// testVector builds a probe vector whose first component is x, so the
// distance between two test vectors is the difference of their x values.
func testVector(x float64) []float64 {
	v := make([]float64, testDim)
	v[0] = x
	return v
}

// testLedger wraps a mock store in a ledger with the default windows.
func testLedger(m *mock.Store) *ledger.Ledger {
	return ledger.New(m, 5*time.Minute, 7, zap.NewNop())
}

func testMatcher() match.Engine {
	return match.New(0.5)
}

// jsonRequest creates a request with a JSON-encoded body.
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithChiParams creates a request with chi URL parameters.
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// seedStudent enrolls a student directly into the mock store.
func seedStudent(t *testing.T, m *mock.Store, externalID, name, group string, x float64) int64 {
	t.Helper()
	return m.AddStudent(store.Student{
		ExternalID: externalID,
		Name:       name,
		Group:      group,
		Vector:     testVector(x),
		CreatedAt:  time.Now(),
	})
}

func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	if recorder.Code != want {
		t.Errorf("status = %d; want %d (body: %s)", recorder.Code, want, recorder.Body.String())
	}
}

func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, want string) {
	t.Helper()
	if got := recorder.Header().Get("Content-Type"); got != want {
		t.Errorf("content type = %q; want %q", got, want)
	}
}

func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), dest); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
}
