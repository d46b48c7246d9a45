package service

import (
	"context"

	"github.com/heartbeatpleasure/user-directory-api/internal/models"
)

type fieldLister interface {
	ListFields(ctx context.Context) ([]models.UserField, error)
}

// FieldResolver maps configured field names to their storage keys. One
// resolver serves one request: the full name map loads on first use and
// is reused for every filter application within that request, never
// across requests.
type FieldResolver struct {
	repo   fieldLister
	byName map[string]models.UserField
}

// NewFieldResolver constructs a request-scoped resolver.
func NewFieldResolver(repo fieldLister) *FieldResolver {
	return &FieldResolver{repo: repo}
}

// Resolve returns the storage key for a configured field name. A blank
// or unknown name yields ok=false; callers treat that as "filter is a
// no-op", never as an error.
func (r *FieldResolver) Resolve(ctx context.Context, name string) (string, bool, error) {
	field, ok, err := r.lookup(ctx, name)
	if err != nil || !ok {
		return "", false, err
	}
	return field.StorageKey(), true, nil
}

// ResolveID returns the field id for a configured field name.
func (r *FieldResolver) ResolveID(ctx context.Context, name string) (int64, bool, error) {
	field, ok, err := r.lookup(ctx, name)
	if err != nil || !ok {
		return 0, false, err
	}
	return field.ID, true, nil
}

func (r *FieldResolver) lookup(ctx context.Context, name string) (models.UserField, bool, error) {
	if name == "" {
		return models.UserField{}, false, nil
	}
	if r.byName == nil {
		fields, err := r.repo.ListFields(ctx)
		if err != nil {
			return models.UserField{}, false, err
		}
		r.byName = make(map[string]models.UserField, len(fields))
		for _, f := range fields {
			r.byName[f.Name] = f
		}
	}
	field, ok := r.byName[name]
	return field, ok, nil
}
