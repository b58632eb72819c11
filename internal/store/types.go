// Package store defines the domain types and repository contracts for the
// enrollment gallery and the attendance ledger. Implementations live in the
// postgres and mock subpackages.
package store

import (
	"time"
)

// Student is an enrolled person: a unique external code (e.g. a student
// number), a display name, a group/class label and exactly one feature
// vector. The vector is opaque to everything except distance computation.
type Student struct {
	ID         int64
	ExternalID string
	Name       string
	Group      string
	Vector     []float64
	CreatedAt  time.Time
}

// NewStudent carries the fields of an enrollment request.
type NewStudent struct {
	ExternalID string
	Name       string
	Group      string
	Vector     []float64
}

// DupCheckFunc inspects the gallery read inside the enrollment transaction
// and returns the conflicting student if the probe vector already belongs to
// someone, or nil when enrollment may proceed. The matching rule itself is
// the match engine's business; the store only guarantees the check and the
// insert are not interleaved with a concurrent enrollment.
type DupCheckFunc func(gallery []Student) *Student

// DailyRecord is a live attendance row: at most one per
// (student, activity, calendar day), replaced on every new scan.
type DailyRecord struct {
	ID        int64
	StudentID int64
	Activity  string
	Status    string
	ScannedAt time.Time
	Day       time.Time // date component only
}

// HistoryRecord is a durable ledger row, unique per
// (student, activity, day). Group is snapshotted at recording time.
type HistoryRecord struct {
	ID        int64
	StudentID int64
	Group     string
	Activity  string
	Status    string
	Day       time.Time
	TimeOfDay string // HH:MM:SS
}

// AttendanceUpsert describes one atomic recording. Day and At are supplied
// by the caller so manual corrections can target past dates.
type AttendanceUpsert struct {
	StudentID int64
	Activity  string
	Status    string
	Day       time.Time
	At        time.Time
	SkipDaily bool // manual corrections for past days leave the live table alone
}

// DailyViewRow is one student of a group left-joined against the live table.
// Status and ScannedAt are nil when the student has no record yet; the
// report layer substitutes the sentinel labels.
type DailyViewRow struct {
	StudentID  int64
	ExternalID string
	Name       string
	Status     *string
	ScannedAt  *time.Time
}

// RangeRow is one row of the historical range report.
type RangeRow struct {
	Day        time.Time
	TimeOfDay  string
	StudentID  int64
	Name       string
	Group      string
	Activity   string
	Status     string
}

// RangeFilter narrows a range report. Zero values mean "no filter".
type RangeFilter struct {
	Start    time.Time
	End      time.Time
	Group    string
	Activity string
}

// DateOnly truncates t to its calendar day in t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
