package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kozaktomas/attendance-gate/internal/store"
)

// ReportRepository serves the read-only reporting projections.
type ReportRepository struct {
	pool *Pool
}

// NewReportRepository creates a new PostgreSQL report repository.
func NewReportRepository(pool *Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// DailyView returns one row per student of the group, left-joined against
// the live table for the given activity and day. Students without a row
// come back with NULL status and time; the report layer fills the sentinel.
func (r *ReportRepository) DailyView(
	ctx context.Context, group, activity string, day time.Time,
) ([]store.DailyViewRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.external_id, s.name, d.status, d.scanned_at
		FROM students s
		LEFT JOIN daily_attendance d
			ON d.student_id = s.id AND d.activity = $2 AND d.day = $3::date
		WHERE s.group_name = $1
		ORDER BY s.name
	`, group, activity, day)
	if err != nil {
		return nil, fmt.Errorf("query daily view: %w", err)
	}
	defer rows.Close()

	var result []store.DailyViewRow
	for rows.Next() {
		var row store.DailyViewRow
		var status sql.NullString
		var scannedAt sql.NullTime
		if err := rows.Scan(&row.StudentID, &row.ExternalID, &row.Name, &status, &scannedAt); err != nil {
			return nil, fmt.Errorf("scan daily view row: %w", err)
		}
		if status.Valid {
			row.Status = &status.String
		}
		if scannedAt.Valid {
			row.ScannedAt = &scannedAt.Time
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily view: %w", err)
	}
	return result, nil
}

// RangeHistory returns history rows between the filter dates inclusive,
// ordered by group, activity, then descending recency.
func (r *ReportRepository) RangeHistory(ctx context.Context, f store.RangeFilter) ([]store.RangeRow, error) {
	query := `
		SELECT h.day, h.time_of_day::text, h.student_id, s.name, h.group_name, h.activity, h.status
		FROM history_attendance h
		JOIN students s ON s.id = h.student_id
		WHERE h.day BETWEEN $1::date AND $2::date
	`
	args := []any{f.Start, f.End}
	if f.Group != "" {
		args = append(args, f.Group)
		query += fmt.Sprintf(" AND h.group_name = $%d", len(args))
	}
	if f.Activity != "" {
		args = append(args, f.Activity)
		query += fmt.Sprintf(" AND h.activity = $%d", len(args))
	}
	query += " ORDER BY h.group_name ASC, h.activity ASC, h.day DESC, h.time_of_day DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query range history: %w", err)
	}
	defer rows.Close()

	var result []store.RangeRow
	for rows.Next() {
		var row store.RangeRow
		if err := rows.Scan(
			&row.Day, &row.TimeOfDay, &row.StudentID, &row.Name, &row.Group, &row.Activity, &row.Status,
		); err != nil {
			return nil, fmt.Errorf("scan range row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate range history: %w", err)
	}
	return result, nil
}

// Verify interface compliance.
var _ store.ReportReader = (*ReportRepository)(nil)
