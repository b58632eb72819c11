package store

import (
	"context"
	"time"
)

// GalleryReader provides read-only access to the enrollment gallery.
type GalleryReader interface {
	// ListAll returns every enrolled student with their vector, ordered by
	// ascending enrollment id. That order fixes the match engine's
	// first-match semantics (see match.Engine.Identify).
	ListAll(ctx context.Context) ([]Student, error)
	// GetStudent retrieves a student by id, ErrStudentNotFound if absent.
	GetStudent(ctx context.Context, id int64) (*Student, error)
	// ListByGroup returns the students of a group ordered by name.
	ListByGroup(ctx context.Context, group string) ([]Student, error)
}

// GalleryWriter extends GalleryReader with enrollment and maintenance.
type GalleryWriter interface {
	GalleryReader

	// Enroll inserts a new student. The duplicate-face check runs against
	// the gallery inside the same transaction, serialized against other
	// enrollments, so two concurrent enrollments of the same new face
	// cannot both pass. Returns ErrDuplicateExternalID, *DuplicateFaceError
	// or a wrapped storage error.
	Enroll(ctx context.Context, s NewStudent, dupCheck DupCheckFunc) (*Student, error)

	// UpdateStudent edits name and group. The vector is immutable.
	UpdateStudent(ctx context.Context, id int64, name, group string) error

	// DeleteStudent hard-deletes a student; attendance rows cascade.
	DeleteStudent(ctx context.Context, id int64) error
}

// AttendanceWriter persists attendance recordings.
type AttendanceWriter interface {
	// Upsert atomically replaces the live row and overwrites the history
	// row for (student, activity, day) in one transaction. Returns
	// ErrUnknownStudent when the student id does not exist.
	Upsert(ctx context.Context, u AttendanceUpsert) error

	// LatestDaily returns the live row for (student, activity, day),
	// or nil when there is none.
	LatestDaily(ctx context.Context, studentID int64, activity string, day time.Time) (*DailyRecord, error)

	// PurgeDailyBefore removes live rows with a day strictly before the
	// given date. Returns the number of rows removed.
	PurgeDailyBefore(ctx context.Context, day time.Time) (int64, error)
}

// ReportReader provides the read-only projections used for reporting.
type ReportReader interface {
	// DailyView returns one row per student of the group, left-joined
	// against the live table for the given activity and day.
	DailyView(ctx context.Context, group, activity string, day time.Time) ([]DailyViewRow, error)

	// RangeHistory returns history rows with day in [Start, End] inclusive,
	// optionally narrowed by group and activity, ordered by group ASC,
	// activity ASC, day DESC, time DESC.
	RangeHistory(ctx context.Context, f RangeFilter) ([]RangeRow, error)
}

// GroupStore manages the known class labels.
type GroupStore interface {
	ListGroups(ctx context.Context) ([]string, error)
	AddGroup(ctx context.Context, name string) error
}
