package handlers

import (
	"net/http"
	"time"

	"github.com/kozaktomas/attendance-gate/internal/report"
	"github.com/kozaktomas/attendance-gate/internal/store"
)

// ReportsHandler serves the read-only attendance projections.
type ReportsHandler struct {
	reporter *report.Reporter
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(r *report.Reporter) *ReportsHandler {
	return &ReportsHandler{reporter: r}
}

// Daily returns the live attendance view of one group for an activity and
// day. Every member of the group appears exactly once; date defaults to
// today when omitted.
func (h *ReportsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	group := q.Get("group")
	activity := q.Get("activity")
	if group == "" || activity == "" {
		respondError(w, http.StatusBadRequest, "group and activity are required")
		return
	}

	day := time.Now()
	if d := q.Get("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	rows, err := h.reporter.Daily(r.Context(), group, activity, day)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// RangeRowResponse represents one row of the range report.
type RangeRowResponse struct {
	Day       string `json:"day"`
	Time      string `json:"time"`
	StudentID int64  `json:"student_id"`
	Name      string `json:"name"`
	Group     string `json:"group"`
	Activity  string `json:"activity"`
	Status    string `json:"status"`
}

// Range returns history rows between two dates inclusive, optionally
// narrowed by group and activity.
func (h *ReportsHandler) Range(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := time.Parse("2006-01-02", q.Get("start"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", q.Get("end"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		respondError(w, http.StatusBadRequest, "end must not precede start")
		return
	}

	rows, err := h.reporter.Range(r.Context(), store.RangeFilter{
		Start:    start,
		End:      end,
		Group:    q.Get("group"),
		Activity: q.Get("activity"),
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	response := make([]RangeRowResponse, len(rows))
	for i, row := range rows {
		response[i] = RangeRowResponse{
			Day:       row.Day.Format("2006-01-02"),
			Time:      row.TimeOfDay,
			StudentID: row.StudentID,
			Name:      row.Name,
			Group:     row.Group,
			Activity:  row.Activity,
			Status:    row.Status,
		}
	}
	respondJSON(w, http.StatusOK, response)
}
