package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kozaktomas/attendance-gate/internal/ledger"
	"github.com/kozaktomas/attendance-gate/internal/match"
	"github.com/kozaktomas/attendance-gate/internal/store"
)

// AttendanceHandler turns camera scans and manual corrections into ledger
// writes.
type AttendanceHandler struct {
	gallery store.GalleryReader
	ledger  *ledger.Ledger
	matcher match.Engine
	dim     int
	present string
	log     *zap.Logger
}

// NewAttendanceHandler creates an attendance handler. present is the status
// label recorded for a successful scan.
func NewAttendanceHandler(
	gallery store.GalleryReader,
	l *ledger.Ledger,
	matcher match.Engine,
	dim int,
	present string,
	log *zap.Logger,
) *AttendanceHandler {
	return &AttendanceHandler{
		gallery: gallery,
		ledger:  l,
		matcher: matcher,
		dim:     dim,
		present: present,
		log:     log,
	}
}

// CheckInRequest represents a camera scan: a probe vector plus the activity
// being attended.
type CheckInRequest struct {
	Vector   []float64 `json:"vector"`
	Activity string    `json:"activity"`
}

// CheckInResponse represents the outcome of a scan check-in.
type CheckInResponse struct {
	Student StudentResponse `json:"student"`
	Ack     ledger.Ack      `json:"ack"`
}

// CheckIn identifies the probe vector and records attendance for today.
// An unrecognized face returns 404; repeated scans inside the debounce
// window acknowledge without writing.
func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Activity == "" {
		respondError(w, http.StatusBadRequest, "activity is required")
		return
	}
	if len(req.Vector) != h.dim {
		respondError(w, http.StatusBadRequest, "vector must have "+strconv.Itoa(h.dim)+" components")
		return
	}

	gallery, err := h.gallery.ListAll(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	student, found := h.matcher.Identify(req.Vector, gallery)
	if !found {
		respondError(w, http.StatusNotFound, "face not recognized")
		return
	}

	ack, err := h.ledger.RecordScan(r.Context(), student.ID, req.Activity, h.present)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CheckInResponse{
		Student: studentToResponse(student),
		Ack:     ack,
	})
}

// ManualRequest represents a manual status correction.
type ManualRequest struct {
	StudentID int64  `json:"student_id"`
	Activity  string `json:"activity"`
	Status    string `json:"status"`
	Day       string `json:"date"` // YYYY-MM-DD
}

// Manual sets a student's status for any day by hand. The durable ledger
// row is always overwritten; the live view only changes when the day is
// today.
func (h *AttendanceHandler) Manual(w http.ResponseWriter, r *http.Request) {
	var req ManualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.StudentID <= 0 || req.Activity == "" || req.Status == "" {
		respondError(w, http.StatusBadRequest, "student_id, activity and status are required")
		return
	}
	day, err := time.Parse("2006-01-02", req.Day)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	ack, err := h.ledger.SetStatus(r.Context(), req.StudentID, req.Activity, req.Status, day)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	h.log.Info("manual attendance correction",
		zap.Int64("student_id", req.StudentID),
		zap.String("activity", sanitizeForLog(req.Activity)),
		zap.String("status", sanitizeForLog(req.Status)),
	)
	respondJSON(w, http.StatusOK, ack)
}
