package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/kozaktomas/attendance-gate/internal/store"
)

// enrollLockKey is the advisory lock key serializing enrollments. A single
// coarse key is enough: enrollment is rare and the duplicate check must see
// every committed vector before the insert.
const enrollLockKey = int64(0x454E524C) // "ENRL"

const studentColumns = "id, external_id, name, group_name, vector, created_at"

// StudentRepository provides PostgreSQL-backed gallery storage.
type StudentRepository struct {
	pool *Pool
}

// NewStudentRepository creates a new PostgreSQL student repository.
func NewStudentRepository(pool *Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// ListAll returns every enrolled student ordered by ascending id.
// The order is part of the contract: identification walks candidates in
// this order and the first match wins.
func (r *StudentRepository) ListAll(ctx context.Context) ([]store.Student, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+studentColumns+" FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// GetStudent retrieves a student by id.
func (r *StudentRepository) GetStudent(ctx context.Context, id int64) (*store.Student, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+studentColumns+" FROM students WHERE id = $1", id)
	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByGroup returns the students of a group ordered by name.
func (r *StudentRepository) ListByGroup(ctx context.Context, group string) ([]store.Student, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+studentColumns+" FROM students WHERE group_name = $1 ORDER BY name", group)
	if err != nil {
		return nil, fmt.Errorf("query students by group: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// Enroll inserts a new student. The gallery read, the duplicate-face check
// and the insert run in one transaction under an advisory lock, so two
// concurrent enrollments of the same new face cannot both observe
// "no duplicate" before either commits.
func (r *StudentRepository) Enroll(
	ctx context.Context, s store.NewStudent, dupCheck store.DupCheckFunc,
) (*store.Student, error) {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", enrollLockKey); err != nil {
		return nil, fmt.Errorf("acquire enrollment lock: %w", err)
	}

	if dupCheck != nil {
		rows, err := tx.QueryContext(ctx, "SELECT "+studentColumns+" FROM students ORDER BY id")
		if err != nil {
			return nil, fmt.Errorf("query gallery: %w", err)
		}
		gallery, err := scanStudents(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}

		if existing := dupCheck(gallery); existing != nil {
			return nil, &store.DuplicateFaceError{StudentID: existing.ID, Name: existing.Name}
		}
	}

	enrolled := store.Student{
		ExternalID: s.ExternalID,
		Name:       s.Name,
		Group:      s.Group,
		Vector:     s.Vector,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO students (external_id, name, group_name, vector)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, s.ExternalID, s.Name, s.Group, pq.Array(s.Vector)).Scan(&enrolled.ID, &enrolled.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateExternalID
		}
		return nil, fmt.Errorf("insert student: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit enrollment: %w", err)
	}
	return &enrolled, nil
}

// UpdateStudent edits name and group.
func (r *StudentRepository) UpdateStudent(ctx context.Context, id int64, name, group string) error {
	res, err := r.pool.Exec(ctx,
		"UPDATE students SET name = $1, group_name = $2 WHERE id = $3", name, group, id)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if n == 0 {
		return store.ErrStudentNotFound
	}
	return nil
}

// DeleteStudent hard-deletes a student; attendance rows cascade.
func (r *StudentRepository) DeleteStudent(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if n == 0 {
		return store.ErrStudentNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// failure (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func scanStudent(scanner interface{ Scan(...any) error }) (store.Student, error) {
	var s store.Student
	var vector pq.Float64Array
	if err := scanner.Scan(&s.ID, &s.ExternalID, &s.Name, &s.Group, &vector, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("scan student: %w", err)
	}
	s.Vector = []float64(vector)
	return s, nil
}

func scanStudents(rows *sql.Rows) ([]store.Student, error) {
	var students []store.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}

// Verify interface compliance.
var _ store.GalleryReader = (*StudentRepository)(nil)
var _ store.GalleryWriter = (*StudentRepository)(nil)
