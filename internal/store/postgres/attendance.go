package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/attendance-gate/internal/store"
)

// AttendanceRepository persists live and historical attendance rows.
type AttendanceRepository struct {
	pool *Pool
}

// NewAttendanceRepository creates a new PostgreSQL attendance repository.
func NewAttendanceRepository(pool *Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Upsert records one attendance event. Both tables are written with a
// single INSERT ... ON CONFLICT DO UPDATE each, inside one transaction, so
// concurrent recordings for the same (student, activity, day) key cannot
// transiently lose a row or trip the unique constraint. The student's
// current group is read in the same transaction and snapshotted into the
// history row.
func (r *AttendanceRepository) Upsert(ctx context.Context, u store.AttendanceUpsert) error {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var group string
	err = tx.QueryRowContext(ctx,
		"SELECT group_name FROM students WHERE id = $1", u.StudentID).Scan(&group)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrUnknownStudent
	}
	if err != nil {
		return fmt.Errorf("look up student: %w", err)
	}

	if !u.SkipDaily {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO daily_attendance (student_id, activity, status, day, scanned_at)
			VALUES ($1, $2, $3, $4::date, $5)
			ON CONFLICT (student_id, activity, day) DO UPDATE SET
				status     = EXCLUDED.status,
				scanned_at = EXCLUDED.scanned_at
		`, u.StudentID, u.Activity, u.Status, u.Day, u.At)
		if err != nil {
			return fmt.Errorf("upsert daily attendance: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history_attendance (student_id, group_name, activity, status, day, time_of_day)
		VALUES ($1, $2, $3, $4, $5::date, $6::time)
		ON CONFLICT (student_id, activity, day) DO UPDATE SET
			status      = EXCLUDED.status,
			group_name  = EXCLUDED.group_name,
			time_of_day = EXCLUDED.time_of_day
	`, u.StudentID, group, u.Activity, u.Status, u.Day, u.At.Format("15:04:05"))
	if err != nil {
		return fmt.Errorf("upsert history attendance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance: %w", err)
	}
	return nil
}

// LatestDaily returns the live row for (student, activity, day), or nil.
func (r *AttendanceRepository) LatestDaily(
	ctx context.Context, studentID int64, activity string, day time.Time,
) (*store.DailyRecord, error) {
	var rec store.DailyRecord
	err := r.pool.QueryRow(ctx, `
		SELECT id, student_id, activity, status, day, scanned_at
		FROM daily_attendance
		WHERE student_id = $1 AND activity = $2 AND day = $3::date
	`, studentID, activity, day).Scan(
		&rec.ID, &rec.StudentID, &rec.Activity, &rec.Status, &rec.Day, &rec.ScannedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query daily attendance: %w", err)
	}
	return &rec, nil
}

// PurgeDailyBefore removes live rows older than the given day.
func (r *AttendanceRepository) PurgeDailyBefore(ctx context.Context, day time.Time) (int64, error) {
	res, err := r.pool.Exec(ctx, "DELETE FROM daily_attendance WHERE day < $1::date", day)
	if err != nil {
		return 0, fmt.Errorf("purge daily attendance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge daily attendance: %w", err)
	}
	return n, nil
}

// Verify interface compliance.
var _ store.AttendanceWriter = (*AttendanceRepository)(nil)
