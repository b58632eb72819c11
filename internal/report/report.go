// Package report builds the read-only projections served over the API:
// the live daily view of one group and the historical range report.
package report

import (
	"context"
	"time"

	"github.com/kozaktomas/attendance-gate/internal/config"
	"github.com/kozaktomas/attendance-gate/internal/store"
)

// DailyRow is one student of the daily view with the sentinels applied:
// students without a live record show the configured "not recorded" label
// and the unknown-time placeholder instead of nulls.
type DailyRow struct {
	StudentID  int64  `json:"student_id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	ScannedAt  string `json:"scanned_at"`
}

// Reporter resolves report queries against a ReportReader.
type Reporter struct {
	store    store.ReportReader
	statuses config.StatusConfig
}

// New creates a reporter using the given status labels.
func New(s store.ReportReader, statuses config.StatusConfig) *Reporter {
	return &Reporter{store: s, statuses: statuses}
}

// Daily returns one row per student of the group for the activity and day.
// The cardinality always equals the group size; absentees are filled in
// with the sentinel labels rather than dropped.
func (r *Reporter) Daily(ctx context.Context, group, activity string, day time.Time) ([]DailyRow, error) {
	rows, err := r.store.DailyView(ctx, group, activity, day)
	if err != nil {
		return nil, err
	}

	out := make([]DailyRow, 0, len(rows))
	for _, row := range rows {
		dr := DailyRow{
			StudentID:  row.StudentID,
			ExternalID: row.ExternalID,
			Name:       row.Name,
			Status:     r.statuses.NotRecorded,
			ScannedAt:  r.statuses.UnknownTime,
		}
		if row.Status != nil {
			dr.Status = *row.Status
		}
		if row.ScannedAt != nil {
			dr.ScannedAt = row.ScannedAt.Format("15:04:05")
		}
		out = append(out, dr)
	}
	return out, nil
}

// Range returns the historical rows for day in [start, end] inclusive,
// optionally narrowed by group and activity. Ordering is stable: group
// ascending, activity ascending, newest day and time first.
func (r *Reporter) Range(ctx context.Context, f store.RangeFilter) ([]store.RangeRow, error) {
	return r.store.RangeHistory(ctx, f)
}
