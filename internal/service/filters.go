package service

import (
	"context"
	"time"

	"github.com/heartbeatpleasure/user-directory-api/internal/models"
	"github.com/heartbeatpleasure/user-directory-api/internal/query"
	"github.com/heartbeatpleasure/user-directory-api/pkg/config"
	appErrors "github.com/heartbeatpleasure/user-directory-api/pkg/errors"
)

// FilterComposer turns a request's raw attribute parameters into the
// immutable predicate set applied to a listing: the baseline eligibility
// conditions plus one latest-value predicate per supplied filter.
type FilterComposer struct {
	cfg config.SearchConfig
}

// NewFilterComposer constructs a FilterComposer.
func NewFilterComposer(cfg config.SearchConfig) *FilterComposer {
	return &FilterComposer{cfg: cfg}
}

// Compose builds the filter set for one request. Missing or blank
// parameters leave their dimension unconstrained; unknown field names
// degrade to a no-op filter. Filters always compose in the same order
// (gender, country, listen, share) so identical parameters produce an
// identical query.
func (c *FilterComposer) Compose(ctx context.Context, resolver *FieldResolver, params models.FieldFilters, now time.Time) (query.FilterSet, error) {
	var fs query.FilterSet
	for _, p := range query.Baseline(c.cfg.MinTrustLevel, now) {
		fs.Add(p)
	}

	single := []struct {
		fieldName string
		value     string
	}{
		{c.cfg.GenderField, params.Gender},
		{c.cfg.CountryField, params.Country},
	}
	for _, f := range single {
		if f.value == "" {
			continue
		}
		key, ok, err := resolver.Resolve(ctx, f.fieldName)
		if err != nil {
			return query.FilterSet{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve field")
		}
		if !ok {
			continue
		}
		if p, ok := query.FieldEquals(key, f.value); ok {
			fs.AddFieldFilter(p)
		}
	}

	multi := []struct {
		fieldName string
		raw       string
	}{
		{c.cfg.ListenField, params.Listen},
		{c.cfg.ShareField, params.Share},
	}
	for _, f := range multi {
		values := query.SplitCSV(f.raw)
		if len(values) == 0 {
			continue
		}
		key, ok, err := resolver.Resolve(ctx, f.fieldName)
		if err != nil {
			return query.FilterSet{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve field")
		}
		if !ok {
			continue
		}
		if p, ok := query.FieldIn(key, values); ok {
			fs.AddFieldFilter(p)
		}
	}

	return fs, nil
}
