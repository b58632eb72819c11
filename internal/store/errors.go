package store

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateExternalID is returned when an enrollment reuses an
	// already-taken external student code.
	ErrDuplicateExternalID = errors.New("external id already enrolled")

	// ErrUnknownStudent is returned when an attendance operation references
	// a student id that does not exist. It must never silently create a
	// dangling row.
	ErrUnknownStudent = errors.New("unknown student")

	// ErrStudentNotFound is returned by lookups for a missing student.
	ErrStudentNotFound = errors.New("student not found")

	// ErrDuplicateGroup is returned when a group label already exists.
	ErrDuplicateGroup = errors.New("group already exists")
)

// DuplicateFaceError rejects an enrollment whose probe vector already
// belongs to an enrolled student. The existing student's name is surfaced
// so a human can diagnose the conflict.
type DuplicateFaceError struct {
	StudentID int64
	Name      string
}

func (e *DuplicateFaceError) Error() string {
	return fmt.Sprintf("face already enrolled as %q", e.Name)
}
