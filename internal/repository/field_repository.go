package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/heartbeatpleasure/user-directory-api/internal/models"
)

// FieldRepository reads custom field definitions and their configured
// options. Definitions change rarely; callers cache the full listing for
// the duration of one request.
type FieldRepository struct {
	db *sqlx.DB
}

// NewFieldRepository constructs a FieldRepository.
func NewFieldRepository(db *sqlx.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

// ListFields returns all configured custom field definitions.
func (r *FieldRepository) ListFields(ctx context.Context) ([]models.UserField, error) {
	const query = `SELECT id, name, field_type, searchable FROM user_fields ORDER BY id`
	var fields []models.UserField
	if err := r.db.SelectContext(ctx, &fields, query); err != nil {
		return nil, fmt.Errorf("list user fields: %w", err)
	}
	return fields, nil
}

// ListOptions returns the selectable values configured for a field,
// ordered by option id. A position column is not guaranteed to exist, so
// the insertion-stable id is the ordering key.
func (r *FieldRepository) ListOptions(ctx context.Context, fieldID int64) ([]string, error) {
	const query = `SELECT value FROM user_field_options WHERE user_field_id = $1 ORDER BY id`
	values := []string{}
	if err := r.db.SelectContext(ctx, &values, query, fieldID); err != nil {
		return nil, fmt.Errorf("list options for field %d: %w", fieldID, err)
	}
	return values, nil
}
