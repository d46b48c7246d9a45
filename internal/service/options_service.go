package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/heartbeatpleasure/user-directory-api/internal/dto"
	"github.com/heartbeatpleasure/user-directory-api/pkg/config"
	appErrors "github.com/heartbeatpleasure/user-directory-api/pkg/errors"
)

const optionsCacheKey = "user_search:options"

type fieldOptionsRepository interface {
	fieldLister
	ListOptions(ctx context.Context, fieldID int64) ([]string, error)
}

type optionsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// OptionsService exposes the configured selectable values for each
// filterable attribute. The payload is read-mostly and cached with a
// short TTL; recomputing it redundantly under concurrency is harmless.
type OptionsService struct {
	fields fieldOptionsRepository
	cache  optionsCache
	cfg    config.SearchConfig
	logger *zap.Logger
}

// NewOptionsService constructs the options service.
func NewOptionsService(fields fieldOptionsRepository, cache optionsCache, cfg config.SearchConfig, logger *zap.Logger) *OptionsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptionsService{fields: fields, cache: cache, cfg: cfg, logger: logger}
}

// Options returns the option lists plus a cache-hit indicator.
func (s *OptionsService) Options(ctx context.Context) (*dto.FieldOptionsResponse, bool, error) {
	if !s.cfg.Enabled {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "user search is disabled")
	}

	if s.cache != nil {
		var cached dto.FieldOptionsResponse
		err := s.cache.Get(ctx, optionsCacheKey, &cached)
		if err == nil {
			return &cached, true, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("options cache get failed", zap.Error(err))
		}
	}

	resolver := NewFieldResolver(s.fields)

	response := &dto.FieldOptionsResponse{}
	for _, binding := range []struct {
		fieldName string
		dest      *[]string
	}{
		{s.cfg.GenderField, &response.Gender},
		{s.cfg.CountryField, &response.Country},
		{s.cfg.ListenField, &response.Listen},
		{s.cfg.ShareField, &response.Share},
	} {
		values, err := s.optionsFor(ctx, resolver, binding.fieldName)
		if err != nil {
			return nil, false, err
		}
		*binding.dest = values
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, optionsCacheKey, response, s.cfg.OptionsCacheTTL); err != nil {
			s.logger.Warn("options cache set failed", zap.Error(err))
		}
	}

	return response, false, nil
}

// optionsFor returns the configured values for one field name. A blank
// or unconfigured name yields an empty list, never an error.
func (s *OptionsService) optionsFor(ctx context.Context, resolver *FieldResolver, fieldName string) ([]string, error) {
	id, ok, err := resolver.ResolveID(ctx, fieldName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve field")
	}
	if !ok {
		return []string{}, nil
	}
	values, err := s.fields.ListOptions(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list field options")
	}
	return values, nil
}
