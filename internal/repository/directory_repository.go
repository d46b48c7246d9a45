package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/heartbeatpleasure/user-directory-api/internal/models"
)

// DirectoryRepository executes the directory listing queries. All methods
// take the resolved DirectoryListQuery so every read (page, count, pin
// lookup) runs against the exact same filtered scope.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository constructs a DirectoryRepository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

const directoryColumns = `d.id, d.period_type, d.user_id,
        d.likes_received, d.likes_given, d.topics_entered, d.topic_count,
        d.post_count, d.posts_read, d.days_visited,
        users.username, users.name, users.title, users.avatar_template,
        users.trust_level, users.created_at AS user_created_at, users.last_seen_at`

const directoryFrom = ` FROM directory_items d JOIN users ON users.id = d.user_id`

// latestFieldJoin pairs each account with its most recent value row for
// the order-by field; older rows are invisible to the join, so the LEFT
// JOIN cannot multiply directory rows.
const latestFieldJoin = ` LEFT JOIN user_custom_fields ufv
        ON ufv.user_id = users.id AND ufv.name = ?
       AND ufv.id = (
           SELECT MAX(prev.id)
             FROM user_custom_fields prev
            WHERE prev.user_id = ufv.user_id
              AND prev.name = ufv.name
       )`

// List returns one page of directory entries.
func (r *DirectoryRepository) List(ctx context.Context, q models.DirectoryListQuery) ([]models.DirectoryEntry, error) {
	conds, whereArgs := directoryConds(q)
	join, orderBy, joinArgs := directoryOrder(q.Order)

	listQuery := fmt.Sprintf("SELECT %s%s%s WHERE %s ORDER BY %s LIMIT ? OFFSET ?",
		directoryColumns, directoryFrom, join, strings.Join(conds, " AND "), orderBy)

	args := append(joinArgs, whereArgs...)
	args = append(args, q.Limit, q.Offset)

	listQuery, listArgs, err := sqlx.In(listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("expand directory query: %w", err)
	}

	var entries []models.DirectoryEntry
	if err := r.db.SelectContext(ctx, &entries, r.db.Rebind(listQuery), listArgs...); err != nil {
		return nil, fmt.Errorf("list directory items: %w", err)
	}
	return entries, nil
}

// Count returns the total number of rows matching the filtered scope,
// independent of the page window.
func (r *DirectoryRepository) Count(ctx context.Context, q models.DirectoryListQuery) (int, error) {
	conds, args := directoryConds(q)
	countQuery := fmt.Sprintf("SELECT COUNT(*)%s WHERE %s", directoryFrom, strings.Join(conds, " AND "))

	countQuery, countArgs, err := sqlx.In(countQuery, args...)
	if err != nil {
		return 0, fmt.Errorf("expand directory count: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(countQuery), countArgs...); err != nil {
		return 0, fmt.Errorf("count directory items: %w", err)
	}
	return total, nil
}

// FindEntryForUser looks up a single user's entry inside the filtered
// scope. Returns nil when the user has no matching entry there.
func (r *DirectoryRepository) FindEntryForUser(ctx context.Context, q models.DirectoryListQuery, userID int64) (*models.DirectoryEntry, error) {
	conds, args := directoryConds(q)
	conds = append(conds, "d.user_id = ?")
	args = append(args, userID)

	entryQuery := fmt.Sprintf("SELECT %s%s WHERE %s LIMIT 1",
		directoryColumns, directoryFrom, strings.Join(conds, " AND "))

	entryQuery, entryArgs, err := sqlx.In(entryQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("expand entry lookup: %w", err)
	}

	var entry models.DirectoryEntry
	if err := r.db.GetContext(ctx, &entry, r.db.Rebind(entryQuery), entryArgs...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find directory entry: %w", err)
	}
	return &entry, nil
}

// AnyForUsers reports whether any of the given accounts has an entry in
// the filtered scope.
func (r *DirectoryRepository) AnyForUsers(ctx context.Context, q models.DirectoryListQuery, userIDs []int64) (bool, error) {
	if len(userIDs) == 0 {
		return false, nil
	}
	conds, args := directoryConds(q)
	conds = append(conds, "d.user_id IN (?)")
	args = append(args, userIDs)

	existsQuery := fmt.Sprintf("SELECT EXISTS (SELECT 1%s WHERE %s)",
		directoryFrom, strings.Join(conds, " AND "))

	existsQuery, existsArgs, err := sqlx.In(existsQuery, args...)
	if err != nil {
		return false, fmt.Errorf("expand existence check: %w", err)
	}

	var found bool
	if err := r.db.GetContext(ctx, &found, r.db.Rebind(existsQuery), existsArgs...); err != nil {
		return false, fmt.Errorf("check directory entries: %w", err)
	}
	return found, nil
}

// LastUpdatedAt returns the most recent refresh time for the period.
func (r *DirectoryRepository) LastUpdatedAt(ctx context.Context, periodType int) (*time.Time, error) {
	const q = `SELECT MAX(refreshed_at) FROM directory_items WHERE period_type = $1`
	var ts sql.NullTime
	if err := r.db.GetContext(ctx, &ts, q, periodType); err != nil {
		return nil, fmt.Errorf("directory last updated: %w", err)
	}
	if !ts.Valid {
		return nil, nil
	}
	return &ts.Time, nil
}

// directoryConds renders the scope conditions shared by every directory
// read: period, group membership, composed filters, exclusions, and the
// optional candidate restriction.
func directoryConds(q models.DirectoryListQuery) ([]string, []interface{}) {
	conds := []string{"d.period_type = ?"}
	args := []interface{}{q.PeriodType}

	if q.ForceEmpty {
		conds = append(conds, "FALSE")
		return conds, args
	}

	if q.GroupID != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM group_users gu WHERE gu.group_id = ? AND gu.user_id = users.id)")
		args = append(args, *q.GroupID)
	}

	if where, whereArgs := q.Filters.Where(); where != "" {
		conds = append(conds, where)
		args = append(args, whereArgs...)
	}

	if len(q.ExcludeUsernames) > 0 {
		conds = append(conds, "users.username NOT IN (?)")
		args = append(args, q.ExcludeUsernames)
	}

	if len(q.ExcludeGroupIDs) > 0 {
		conds = append(conds, "NOT EXISTS (SELECT 1 FROM group_users gu WHERE gu.group_id IN (?) AND gu.user_id = users.id)")
		args = append(args, q.ExcludeGroupIDs)
	}

	if q.UserIDs != nil {
		if len(q.UserIDs) == 0 {
			conds = append(conds, "FALSE")
		} else {
			conds = append(conds, "d.user_id IN (?)")
			args = append(args, q.UserIDs)
		}
	}

	return conds, args
}

// directoryOrder renders the ORDER BY clause for a resolved ordering,
// plus the extra join needed for field-value ordering. Every branch ends
// on d.id, the stable tie-break key.
func directoryOrder(o models.DirectoryOrder) (join, orderBy string, args []interface{}) {
	dir := "DESC"
	if o.Asc {
		dir = "ASC"
	}

	switch o.Kind {
	case models.OrderLastSeen:
		return "", fmt.Sprintf("users.last_seen_at %s NULLS LAST, d.id", dir), nil
	case models.OrderJoined:
		return "", fmt.Sprintf("users.created_at %s, d.id", dir), nil
	case models.OrderUsername:
		return "", fmt.Sprintf("users.username_lower %s, d.id", dir), nil
	case models.OrderStat:
		return "", fmt.Sprintf("d.%s %s, d.id", o.StatColumn, dir), nil
	case models.OrderFieldValue:
		return latestFieldJoin, fmt.Sprintf("ufv.value %s NULLS LAST, d.id", dir), []interface{}{o.FieldKey}
	default:
		// Unrecognized order keys intentionally fall back to entry-id
		// order rather than silently picking a default.
		return "", "d.id", nil
	}
}
