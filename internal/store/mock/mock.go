// Package mock provides in-memory implementations of the store interfaces
// for unit tests.
package mock

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/kozaktomas/attendance-gate/internal/store"
)

// Store is an in-memory implementation of every store interface. Writes are
// guarded by a mutex so handler tests can exercise concurrent paths.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	students map[int64]store.Student
	daily    map[string]store.DailyRecord   // key: studentID/activity/day
	history  map[string]store.HistoryRecord // key: studentID/activity/day
	groups   map[string]bool

	// Error injection
	ListAllError    error
	EnrollError     error
	UpsertError     error
	DailyViewError  error
	RangeError      error
	PurgeError      error
	ListGroupsError error
	AddGroupError   error
}

// New creates an empty mock store.
func New() *Store {
	return &Store{
		nextID:   1,
		students: make(map[int64]store.Student),
		daily:    make(map[string]store.DailyRecord),
		history:  make(map[string]store.HistoryRecord),
		groups:   make(map[string]bool),
	}
}

func key(studentID int64, activity string, day time.Time) string {
	return strconv.FormatInt(studentID, 10) + "/" + activity + "/" + store.DateOnly(day).Format("2006-01-02")
}

// AddStudent seeds a student and returns the assigned id.
func (m *Store) AddStudent(s store.Student) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == 0 {
		s.ID = m.nextID
	}
	if s.ID >= m.nextID {
		m.nextID = s.ID + 1
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	m.students[s.ID] = s
	return s.ID
}

// ListAll returns every student ordered by ascending id.
func (m *Store) ListAll(ctx context.Context) ([]store.Student, error) {
	if m.ListAllError != nil {
		return nil, m.ListAllError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedStudentsLocked(), nil
}

func (m *Store) sortedStudentsLocked() []store.Student {
	students := make([]store.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students
}

// GetStudent retrieves a student by id.
func (m *Store) GetStudent(ctx context.Context, id int64) (*store.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, store.ErrStudentNotFound
	}
	return &s, nil
}

// ListByGroup returns the students of a group ordered by name.
func (m *Store) ListByGroup(ctx context.Context, group string) ([]store.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var students []store.Student
	for _, s := range m.students {
		if s.Group == group {
			students = append(students, s)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

// Enroll inserts a new student after running the duplicate checks under the
// store lock, mirroring the serialized enrollment transaction.
func (m *Store) Enroll(ctx context.Context, s store.NewStudent, dupCheck store.DupCheckFunc) (*store.Student, error) {
	if m.EnrollError != nil {
		return nil, m.EnrollError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.students {
		if existing.ExternalID == s.ExternalID {
			return nil, store.ErrDuplicateExternalID
		}
	}
	if dupCheck != nil {
		if existing := dupCheck(m.sortedStudentsLocked()); existing != nil {
			return nil, &store.DuplicateFaceError{StudentID: existing.ID, Name: existing.Name}
		}
	}

	enrolled := store.Student{
		ID:         m.nextID,
		ExternalID: s.ExternalID,
		Name:       s.Name,
		Group:      s.Group,
		Vector:     s.Vector,
		CreatedAt:  time.Now(),
	}
	m.nextID++
	m.students[enrolled.ID] = enrolled
	return &enrolled, nil
}

// UpdateStudent edits name and group.
func (m *Store) UpdateStudent(ctx context.Context, id int64, name, group string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return store.ErrStudentNotFound
	}
	s.Name = name
	s.Group = group
	m.students[id] = s
	return nil
}

// DeleteStudent removes a student and cascades attendance rows.
func (m *Store) DeleteStudent(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[id]; !ok {
		return store.ErrStudentNotFound
	}
	delete(m.students, id)
	for k, rec := range m.daily {
		if rec.StudentID == id {
			delete(m.daily, k)
		}
	}
	for k, rec := range m.history {
		if rec.StudentID == id {
			delete(m.history, k)
		}
	}
	return nil
}

// Upsert replaces the live row and overwrites the history row for the key.
func (m *Store) Upsert(ctx context.Context, u store.AttendanceUpsert) error {
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.students[u.StudentID]
	if !ok {
		return store.ErrUnknownStudent
	}

	k := key(u.StudentID, u.Activity, u.Day)
	if !u.SkipDaily {
		m.daily[k] = store.DailyRecord{
			StudentID: u.StudentID,
			Activity:  u.Activity,
			Status:    u.Status,
			Day:       store.DateOnly(u.Day),
			ScannedAt: u.At,
		}
	}
	m.history[k] = store.HistoryRecord{
		StudentID: u.StudentID,
		Group:     s.Group,
		Activity:  u.Activity,
		Status:    u.Status,
		Day:       store.DateOnly(u.Day),
		TimeOfDay: u.At.Format("15:04:05"),
	}
	return nil
}

// LatestDaily returns the live row for the key, or nil.
func (m *Store) LatestDaily(
	ctx context.Context, studentID int64, activity string, day time.Time,
) (*store.DailyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.daily[key(studentID, activity, day)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// PurgeDailyBefore removes live rows older than the given day.
func (m *Store) PurgeDailyBefore(ctx context.Context, day time.Time) (int64, error) {
	if m.PurgeError != nil {
		return 0, m.PurgeError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := store.DateOnly(day)
	var n int64
	for k, rec := range m.daily {
		if rec.Day.Before(cutoff) {
			delete(m.daily, k)
			n++
		}
	}
	return n, nil
}

// DailyCount returns the number of live rows (test helper).
func (m *Store) DailyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.daily)
}

// HistoryCount returns the number of ledger rows (test helper).
func (m *Store) HistoryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

// HistoryFor returns the ledger row for the key, or nil (test helper).
func (m *Store) HistoryFor(studentID int64, activity string, day time.Time) *store.HistoryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.history[key(studentID, activity, day)]
	if !ok {
		return nil
	}
	return &rec
}

// DailyView returns one row per student of the group, joined against the
// live table.
func (m *Store) DailyView(
	ctx context.Context, group, activity string, day time.Time,
) ([]store.DailyViewRow, error) {
	if m.DailyViewError != nil {
		return nil, m.DailyViewError
	}
	students, _ := m.ListByGroup(ctx, group)

	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]store.DailyViewRow, 0, len(students))
	for _, s := range students {
		row := store.DailyViewRow{StudentID: s.ID, ExternalID: s.ExternalID, Name: s.Name}
		if rec, ok := m.daily[key(s.ID, activity, day)]; ok {
			status := rec.Status
			scannedAt := rec.ScannedAt
			row.Status = &status
			row.ScannedAt = &scannedAt
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RangeHistory filters and orders ledger rows like the SQL projection.
func (m *Store) RangeHistory(ctx context.Context, f store.RangeFilter) ([]store.RangeRow, error) {
	if m.RangeError != nil {
		return nil, m.RangeError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	start := store.DateOnly(f.Start)
	end := store.DateOnly(f.End)
	var rows []store.RangeRow
	for _, rec := range m.history {
		if rec.Day.Before(start) || rec.Day.After(end) {
			continue
		}
		if f.Group != "" && rec.Group != f.Group {
			continue
		}
		if f.Activity != "" && rec.Activity != f.Activity {
			continue
		}
		name := ""
		if s, ok := m.students[rec.StudentID]; ok {
			name = s.Name
		}
		rows = append(rows, store.RangeRow{
			Day:       rec.Day,
			TimeOfDay: rec.TimeOfDay,
			StudentID: rec.StudentID,
			Name:      name,
			Group:     rec.Group,
			Activity:  rec.Activity,
			Status:    rec.Status,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Group != rows[j].Group {
			return rows[i].Group < rows[j].Group
		}
		if rows[i].Activity != rows[j].Activity {
			return rows[i].Activity < rows[j].Activity
		}
		if !rows[i].Day.Equal(rows[j].Day) {
			return rows[i].Day.After(rows[j].Day)
		}
		return rows[i].TimeOfDay > rows[j].TimeOfDay
	})
	return rows, nil
}

// ListGroups returns the known class labels ordered by name.
func (m *Store) ListGroups(ctx context.Context) ([]string, error) {
	if m.ListGroupsError != nil {
		return nil, m.ListGroupsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.groups))
	for name := range m.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// AddGroup inserts a new class label.
func (m *Store) AddGroup(ctx context.Context, name string) error {
	if m.AddGroupError != nil {
		return m.AddGroupError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.groups[name] {
		return store.ErrDuplicateGroup
	}
	m.groups[name] = true
	return nil
}

// Verify interface compliance.
var _ store.GalleryWriter = (*Store)(nil)
var _ store.AttendanceWriter = (*Store)(nil)
var _ store.ReportReader = (*Store)(nil)
var _ store.GroupStore = (*Store)(nil)
