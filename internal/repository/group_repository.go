package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/heartbeatpleasure/user-directory-api/internal/models"
)

// GroupRepository reads group metadata and membership for visibility
// checks on group-scoped directory requests.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs a GroupRepository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// FindByName fetches a group by its name. Returns nil when no group
// exists under that name.
func (r *GroupRepository) FindByName(ctx context.Context, name string) (*models.Group, error) {
	const q = `SELECT id, name, visibility_level, members_visibility_level FROM groups WHERE name = $1`
	var group models.Group
	if err := r.db.GetContext(ctx, &group, q, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find group %q: %w", name, err)
	}
	return &group, nil
}

// FindIDsByNames resolves group names to ids. Names with no matching
// group are dropped, so the result can be shorter than the input.
func (r *GroupRepository) FindIDsByNames(ctx context.Context, names []string) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(`SELECT id FROM groups WHERE name IN (?) ORDER BY id`, names)
	if err != nil {
		return nil, fmt.Errorf("expand group lookup: %w", err)
	}
	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("find groups by name: %w", err)
	}
	return ids, nil
}

// IsMember reports whether the user belongs to the group. Owners count
// as members.
func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM group_users WHERE group_id = $1 AND user_id = $2)`
	var member bool
	if err := r.db.GetContext(ctx, &member, q, groupID, userID); err != nil {
		return false, fmt.Errorf("check group membership: %w", err)
	}
	return member, nil
}
