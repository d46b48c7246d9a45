package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/heartbeatpleasure/user-directory-api/internal/models"
	"github.com/heartbeatpleasure/user-directory-api/pkg/config"
	appErrors "github.com/heartbeatpleasure/user-directory-api/pkg/errors"
)

const (
	defaultSearchPageSize = 30
	maxSearchPageSize     = 100
)

type userSearchRepository interface {
	Search(ctx context.Context, q models.UserSearchQuery) ([]models.UserCard, int, error)
}

// SearchService backs the /user-search endpoint: baseline eligibility
// plus optional attribute filters over the full account set, paged.
type SearchService struct {
	users    userSearchRepository
	fields   fieldLister
	composer *FilterComposer
	cfg      config.SearchConfig
	logger   *zap.Logger
}

// NewSearchService constructs the search service.
func NewSearchService(users userSearchRepository, fields fieldLister, composer *FilterComposer, cfg config.SearchConfig, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{users: users, fields: fields, composer: composer, cfg: cfg, logger: logger}
}

// Search lists matching accounts and pagination metadata.
func (s *SearchService) Search(ctx context.Context, req models.SearchQuery) ([]models.UserCard, *models.Pagination, error) {
	if !s.cfg.Enabled {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "user search is disabled")
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage <= 0 {
		perPage = defaultSearchPageSize
	}
	if perPage > maxSearchPageSize {
		perPage = maxSearchPageSize
	}

	resolver := NewFieldResolver(s.fields)
	filters, err := s.composer.Compose(ctx, resolver, req.Filters, time.Now().UTC())
	if err != nil {
		return nil, nil, err
	}

	users, total, err := s.users.Search(ctx, models.UserSearchQuery{
		Filters: filters,
		Order:   parseSearchOrder(req.Order),
		Asc:     req.Asc,
		Limit:   perPage,
		Offset:  (page - 1) * perPage,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search users")
	}

	pagination := &models.Pagination{Page: page, PageSize: perPage, TotalCount: total}
	return users, pagination, nil
}

// parseSearchOrder folds unrecognized keys onto the username ordering.
func parseSearchOrder(order string) string {
	switch order {
	case "created", "last_seen":
		return order
	default:
		return "username"
	}
}
