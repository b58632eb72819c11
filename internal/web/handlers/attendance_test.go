package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kozaktomas/attendance-gate/internal/store/mock"
)

func newAttendanceHandler(m *mock.Store) *AttendanceHandler {
	return NewAttendanceHandler(m, testLedger(m), testMatcher(), testDim, "Hadir", zap.NewNop())
}

func TestAttendanceHandler_CheckIn_Success(t *testing.T) {
	m := mock.New()
	seedStudent(t, m, "S-1", "Ana", "7A", 0)
	handler := newAttendanceHandler(m)

	req := jsonRequest(t, "POST", "/api/v1/attendance/check-in", CheckInRequest{
		Vector:   testVector(0.1),
		Activity: "Matematika",
	})
	recorder := httptest.NewRecorder()

	handler.CheckIn(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var resp CheckInResponse
	parseJSONResponse(t, recorder, &resp)
	if resp.Student.Name != "Ana" {
		t.Errorf("student = %q; want Ana", resp.Student.Name)
	}
	if resp.Ack.Status != "Hadir" {
		t.Errorf("status = %q; want Hadir", resp.Ack.Status)
	}
	if resp.Ack.Debounced {
		t.Error("first scan reported as debounced")
	}
	if m.HistoryCount() != 1 {
		t.Errorf("history rows = %d; want 1", m.HistoryCount())
	}
}

func TestAttendanceHandler_CheckIn_Debounce(t *testing.T) {
	m := mock.New()
	seedStudent(t, m, "S-1", "Ana", "7A", 0)
	handler := newAttendanceHandler(m)

	scan := func() *httptest.ResponseRecorder {
		req := jsonRequest(t, "POST", "/api/v1/attendance/check-in", CheckInRequest{
			Vector:   testVector(0.1),
			Activity: "Matematika",
		})
		recorder := httptest.NewRecorder()
		handler.CheckIn(recorder, req)
		return recorder
	}

	assertStatusCode(t, scan(), http.StatusOK)

	recorder := scan()
	assertStatusCode(t, recorder, http.StatusOK)

	var resp CheckInResponse
	parseJSONResponse(t, recorder, &resp)
	if !resp.Ack.Debounced {
		t.Error("immediate repeat scan was not debounced")
	}
}

func TestAttendanceHandler_CheckIn_Unrecognized(t *testing.T) {
	m := mock.New()
	seedStudent(t, m, "S-1", "Ana", "7A", 0)
	handler := newAttendanceHandler(m)

	req := jsonRequest(t, "POST", "/api/v1/attendance/check-in", CheckInRequest{
		Vector:   testVector(5),
		Activity: "Matematika",
	})
	recorder := httptest.NewRecorder()

	handler.CheckIn(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
	if m.HistoryCount() != 0 {
		t.Errorf("history rows = %d; want 0 (no write for unrecognized face)", m.HistoryCount())
	}
}

func TestAttendanceHandler_CheckIn_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  CheckInRequest
	}{
		{"missing activity", CheckInRequest{Vector: testVector(0)}},
		{"wrong vector dimension", CheckInRequest{Vector: []float64{1}, Activity: "Matematika"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newAttendanceHandler(mock.New())
			recorder := httptest.NewRecorder()

			handler.CheckIn(recorder, jsonRequest(t, "POST", "/api/v1/attendance/check-in", tc.req))

			assertStatusCode(t, recorder, http.StatusBadRequest)
		})
	}
}

func TestAttendanceHandler_Manual_Success(t *testing.T) {
	m := mock.New()
	id := seedStudent(t, m, "S-1", "Ana", "7A", 0)
	handler := newAttendanceHandler(m)

	day := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	req := jsonRequest(t, "POST", "/api/v1/attendance/manual", ManualRequest{
		StudentID: id,
		Activity:  "Matematika",
		Status:    "Sakit",
		Day:       day,
	})
	recorder := httptest.NewRecorder()

	handler.Manual(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	if m.HistoryCount() != 1 {
		t.Errorf("history rows = %d; want 1", m.HistoryCount())
	}
	if m.DailyCount() != 0 {
		t.Errorf("daily rows = %d; want 0 (past-day correction)", m.DailyCount())
	}
}

func TestAttendanceHandler_Manual_UnknownStudent(t *testing.T) {
	handler := newAttendanceHandler(mock.New())

	req := jsonRequest(t, "POST", "/api/v1/attendance/manual", ManualRequest{
		StudentID: 42,
		Activity:  "Matematika",
		Status:    "Sakit",
		Day:       time.Now().Format("2006-01-02"),
	})
	recorder := httptest.NewRecorder()

	handler.Manual(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
}

func TestAttendanceHandler_Manual_Validation(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	tests := []struct {
		name string
		req  ManualRequest
	}{
		{"missing student id", ManualRequest{Activity: "Matematika", Status: "Sakit", Day: today}},
		{"missing activity", ManualRequest{StudentID: 1, Status: "Sakit", Day: today}},
		{"missing status", ManualRequest{StudentID: 1, Activity: "Matematika", Day: today}},
		{"bad day format", ManualRequest{StudentID: 1, Activity: "Matematika", Status: "Sakit", Day: "01-09-2026"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newAttendanceHandler(mock.New())
			recorder := httptest.NewRecorder()

			handler.Manual(recorder, jsonRequest(t, "POST", "/api/v1/attendance/manual", tc.req))

			assertStatusCode(t, recorder, http.StatusBadRequest)
		})
	}
}
