// Package ledger turns identified scans into attendance records. It owns
// the debounce rule that keeps a student lingering in front of the camera
// from producing a burst of identical writes, and the retention purge that
// keeps the live table small.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kozaktomas/attendance-gate/internal/store"
)

// StatusPresent is the status a successful camera scan records.
const StatusPresent = "Hadir"

// Ack reports the outcome of a recording. Debounced acknowledgements carry
// the previous scan's timestamp and caused no write.
type Ack struct {
	EventID    string    `json:"event_id"`
	StudentID  int64     `json:"student_id"`
	Activity   string    `json:"activity"`
	Status     string    `json:"status"`
	Day        time.Time `json:"day"`
	RecordedAt time.Time `json:"recorded_at"`
	Debounced  bool      `json:"debounced"`
}

// Ledger records attendance through an AttendanceWriter.
type Ledger struct {
	store     store.AttendanceWriter
	debounce  time.Duration
	retention int
	now       func() time.Time
	log       *zap.Logger
}

// New creates a ledger. debounce is the minimum gap between two identical
// scans of the same student and activity; retention is how many days of
// live rows PurgeStale keeps.
func New(s store.AttendanceWriter, debounce time.Duration, retentionDays int, log *zap.Logger) *Ledger {
	return &Ledger{
		store:     s,
		debounce:  debounce,
		retention: retentionDays,
		now:       time.Now,
		log:       log,
	}
}

// RecordScan records a camera check-in for today. When the student already
// has a live row with the same status scanned less than the debounce window
// ago, nothing is written and the acknowledgement echoes the earlier scan.
func (l *Ledger) RecordScan(ctx context.Context, studentID int64, activity, status string) (Ack, error) {
	now := l.now()
	day := store.DateOnly(now)

	last, err := l.store.LatestDaily(ctx, studentID, activity, day)
	if err != nil {
		return Ack{}, err
	}
	if last != nil && last.Status == status && now.Sub(last.ScannedAt) < l.debounce {
		l.log.Debug("scan debounced",
			zap.Int64("student_id", studentID),
			zap.String("activity", activity),
			zap.Time("previous_scan", last.ScannedAt),
		)
		return Ack{
			EventID:    uuid.NewString(),
			StudentID:  studentID,
			Activity:   activity,
			Status:     last.Status,
			Day:        day,
			RecordedAt: last.ScannedAt,
			Debounced:  true,
		}, nil
	}

	err = l.store.Upsert(ctx, store.AttendanceUpsert{
		StudentID: studentID,
		Activity:  activity,
		Status:    status,
		Day:       day,
		At:        now,
	})
	if err != nil {
		return Ack{}, err
	}

	l.log.Info("attendance recorded",
		zap.Int64("student_id", studentID),
		zap.String("activity", activity),
		zap.String("status", status),
	)
	return Ack{
		EventID:    uuid.NewString(),
		StudentID:  studentID,
		Activity:   activity,
		Status:     status,
		Day:        day,
		RecordedAt: now,
	}, nil
}

// SetStatus records a manual correction for any day. The durable history
// row is always overwritten; the live table is only touched when the target
// day is today, so corrections of past days cannot resurrect purged rows.
func (l *Ledger) SetStatus(ctx context.Context, studentID int64, activity, status string, day time.Time) (Ack, error) {
	now := l.now()
	day = store.DateOnly(day)

	err := l.store.Upsert(ctx, store.AttendanceUpsert{
		StudentID: studentID,
		Activity:  activity,
		Status:    status,
		Day:       day,
		At:        now,
		SkipDaily: !day.Equal(store.DateOnly(now)),
	})
	if err != nil {
		return Ack{}, err
	}

	l.log.Info("attendance corrected",
		zap.Int64("student_id", studentID),
		zap.String("activity", activity),
		zap.String("status", status),
		zap.Time("day", day),
	)
	return Ack{
		EventID:    uuid.NewString(),
		StudentID:  studentID,
		Activity:   activity,
		Status:     status,
		Day:        day,
		RecordedAt: now,
	}, nil
}

// PurgeStale deletes live rows older than the retention window. History
// rows are never touched.
func (l *Ledger) PurgeStale(ctx context.Context) (int64, error) {
	cutoff := store.DateOnly(l.now()).AddDate(0, 0, -l.retention)
	n, err := l.store.PurgeDailyBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		l.log.Info("purged stale live rows", zap.Int64("rows", n), zap.Time("cutoff", cutoff))
	}
	return n, nil
}
