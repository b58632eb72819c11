package postgres

import (
	"context"
	"fmt"

	"github.com/kozaktomas/attendance-gate/internal/store"
)

// GroupRepository manages the known class labels.
type GroupRepository struct {
	pool *Pool
}

// NewGroupRepository creates a new PostgreSQL group repository.
func NewGroupRepository(pool *Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

// ListGroups returns all class labels ordered by name.
func (r *GroupRepository) ListGroups(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT name FROM groups ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return names, nil
}

// AddGroup inserts a new class label.
func (r *GroupRepository) AddGroup(ctx context.Context, name string) error {
	_, err := r.pool.Exec(ctx, "INSERT INTO groups (name) VALUES ($1)", name)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateGroup
		}
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

// Verify interface compliance.
var _ store.GroupStore = (*GroupRepository)(nil)
