package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/heartbeatpleasure/user-directory-api/internal/models"
)

// UserRepository reads accounts for the advanced search endpoint and
// provides the bounded name-search candidate lookup used by the
// directory listing.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userCardColumns = `users.id, users.username, users.username_lower, users.name, users.title,
        users.avatar_template, users.trust_level, users.created_at, users.last_seen_at`

// Search lists eligible accounts matching the composed filters. SELECT
// DISTINCT guards against row multiplication from data anomalies even
// though the predicates themselves are existence-scoped.
func (r *UserRepository) Search(ctx context.Context, q models.UserSearchQuery) ([]models.UserCard, int, error) {
	where, args := q.Filters.Where()
	if where == "" {
		where = "TRUE"
	}

	orderClause := searchOrderClause(q.Order, q.Asc)
	listQuery := fmt.Sprintf(`SELECT DISTINCT %s FROM users WHERE %s ORDER BY %s LIMIT ? OFFSET ?`,
		userCardColumns, where, orderClause)

	listQuery, listArgs, err := sqlx.In(listQuery, append(append([]interface{}{}, args...), q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("expand search query: %w", err)
	}

	var users []models.UserCard
	if err := r.db.SelectContext(ctx, &users, r.db.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT users.id) FROM users WHERE %s", where)
	countQuery, countArgs, err := sqlx.In(countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("expand count query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// searchOrderClause maps the parsed order key to its column. Ties always
// break on users.id so pagination windows stay deterministic.
func searchOrderClause(order string, asc bool) string {
	dir := "DESC"
	if asc {
		dir = "ASC"
	}
	switch order {
	case "created":
		return fmt.Sprintf("users.created_at %s, users.id", dir)
	case "last_seen":
		return fmt.Sprintf("users.last_seen_at %s NULLS LAST, users.id", dir)
	default:
		return fmt.Sprintf("users.username_lower %s, users.id", dir)
	}
}

// FindIDByUsername resolves a username through the case-folded comparison
// key. Returns found=false when no account matches.
func (r *UserRepository) FindIDByUsername(ctx context.Context, username string) (int64, bool, error) {
	const q = `SELECT id FROM users WHERE username_lower = $1`
	var id int64
	if err := r.db.GetContext(ctx, &id, q, strings.ToLower(username)); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find user by username: %w", err)
	}
	return id, true, nil
}

// SearchNameCandidates returns up to limit account ids whose username or
// display name matches the term by prefix. This is the narrow interface
// onto the platform's name-search subsystem; staged accounts are
// included on purpose, mirroring its behavior.
func (r *UserRepository) SearchNameCandidates(ctx context.Context, term string, limit int) ([]int64, error) {
	norm := strings.ToLower(strings.TrimSpace(term))
	if norm == "" {
		return nil, nil
	}
	const q = `SELECT id FROM users
        WHERE username_lower LIKE $1 OR LOWER(COALESCE(name, '')) LIKE $1
        ORDER BY last_seen_at DESC NULLS LAST, id
        LIMIT $2`
	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, q, norm+"%", limit); err != nil {
		return nil, fmt.Errorf("search name candidates: %w", err)
	}
	return ids, nil
}
