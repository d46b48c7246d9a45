package service

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/heartbeatpleasure/user-directory-api/internal/dto"
	"github.com/heartbeatpleasure/user-directory-api/internal/models"
	"github.com/heartbeatpleasure/user-directory-api/internal/query"
	"github.com/heartbeatpleasure/user-directory-api/pkg/config"
	appErrors "github.com/heartbeatpleasure/user-directory-api/pkg/errors"
)

// nameSearchLimit bounds the candidate set returned by the name-search
// collaborator.
const nameSearchLimit = 200

const defaultDirectoryOrder = "last_seen"

type directoryRepository interface {
	List(ctx context.Context, q models.DirectoryListQuery) ([]models.DirectoryEntry, error)
	Count(ctx context.Context, q models.DirectoryListQuery) (int, error)
	FindEntryForUser(ctx context.Context, q models.DirectoryListQuery, userID int64) (*models.DirectoryEntry, error)
	AnyForUsers(ctx context.Context, q models.DirectoryListQuery, userIDs []int64) (bool, error)
	LastUpdatedAt(ctx context.Context, periodType int) (*time.Time, error)
}

type groupRepository interface {
	FindByName(ctx context.Context, name string) (*models.Group, error)
	FindIDsByNames(ctx context.Context, names []string) ([]int64, error)
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
}

type accountLookup interface {
	SearchNameCandidates(ctx context.Context, term string, limit int) ([]int64, error)
	FindIDByUsername(ctx context.Context, username string) (int64, bool, error)
}

// DirectoryService is the directory listing pipeline: base dataset
// selection, filter composition, ordering, pagination, conditional
// viewer pinning, and continuation-link construction.
type DirectoryService struct {
	entries   directoryRepository
	groups    groupRepository
	accounts  accountLookup
	fields    fieldLister
	composer  *FilterComposer
	metrics   *MetricsService
	cfg       config.DirectoryConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDirectoryService constructs the directory service.
func NewDirectoryService(entries directoryRepository, groups groupRepository, accounts accountLookup, fields fieldLister, composer *FilterComposer, metrics *MetricsService, cfg config.DirectoryConfig, validate *validator.Validate, logger *zap.Logger) *DirectoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{
		entries:   entries,
		groups:    groups,
		accounts:  accounts,
		fields:    fields,
		composer:  composer,
		metrics:   metrics,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
	}
}

// List runs one directory request end to end.
func (s *DirectoryService) List(ctx context.Context, viewer *models.JWTClaims, req models.DirectoryQuery) (*dto.DirectoryResponse, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrAccessDenied, "user directory is disabled")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidParameter.Code, appErrors.ErrInvalidParameter.Status, "invalid directory request")
	}

	periodType, ok := models.ParsePeriod(req.Period)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidParameter, "unknown period")
	}

	resolver := NewFieldResolver(s.fields)

	listQuery := models.DirectoryListQuery{PeriodType: periodType}

	if req.Group != "" {
		group, err := s.groups.FindByName(ctx, req.Group)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
		}
		if group == nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidParameter, "unknown group")
		}
		if err := s.ensureCanSeeGroup(ctx, viewer, group); err != nil {
			return nil, err
		}
		listQuery.GroupID = &group.ID
	}

	filters, err := s.composer.Compose(ctx, resolver, req.Filters, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	listQuery.Filters = filters
	listQuery.ExcludeUsernames = query.SplitCSV(req.ExcludeUsernames)

	// Unknown group names in the exclusion list degrade to no-ops; only
	// the scoping group parameter is strict about existence.
	if names := query.SplitCSV(req.ExcludeGroups); len(names) > 0 {
		ids, err := s.groups.FindIDsByNames(ctx, names)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve excluded groups")
		}
		listQuery.ExcludeGroupIDs = ids
	}

	order, orderParam, err := s.resolveOrder(ctx, resolver, req.Order, req.Asc)
	if err != nil {
		return nil, err
	}
	listQuery.Order = order

	if req.Name != "" {
		if err := s.applyNameSearch(ctx, viewer, req.Name, &listQuery); err != nil {
			return nil, err
		}
	}

	if req.Username != "" {
		if err := s.applyUsernameFilter(ctx, req.Username, &listQuery); err != nil {
			return nil, err
		}
	}

	page := req.Page
	if page < 0 {
		page = 0
	}
	if s.cfg.PageLimit > 0 && page > s.cfg.PageLimit {
		page = s.cfg.PageLimit
	}
	limit := s.cfg.PageSize
	if limit <= 0 {
		limit = 50
	}

	start := time.Now()
	total, err := s.entries.Count(ctx, listQuery)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count directory items")
	}

	listQuery.Limit = limit
	listQuery.Offset = page * limit

	entries, err := s.entries.List(ctx, listQuery)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list directory items")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("directory_list", time.Since(start))
	}

	if s.shouldPin(viewer, req, page, listQuery) {
		entries, err = s.pinViewer(ctx, viewer, listQuery, entries)
		if err != nil {
			return nil, err
		}
	}

	lastUpdated, err := s.entries.LastUpdatedAt(ctx, periodType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load refresh time")
	}

	items := make([]dto.DirectoryItemResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.NewDirectoryItemResponse(e))
	}

	return &dto.DirectoryResponse{
		DirectoryItems: items,
		Meta: dto.DirectoryMeta{
			LastUpdatedAt:           lastUpdated,
			TotalRowsDirectoryItems: total,
			LoadMoreDirectoryItems:  buildLoadMoreURL(req, orderParam, page+1),
		},
	}, nil
}

// ensureCanSeeGroup enforces both the group's own visibility and its
// member-list visibility before any data is returned.
func (s *DirectoryService) ensureCanSeeGroup(ctx context.Context, viewer *models.JWTClaims, group *models.Group) error {
	for _, level := range []int{group.VisibilityLevel, group.MembersVisibilityLevel} {
		ok, err := s.passesVisibility(ctx, viewer, group.ID, level)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check group visibility")
		}
		if !ok {
			return appErrors.Clone(appErrors.ErrAccessDenied, "group is not visible")
		}
	}
	return nil
}

func (s *DirectoryService) passesVisibility(ctx context.Context, viewer *models.JWTClaims, groupID int64, level int) (bool, error) {
	switch level {
	case models.GroupVisibilityPublic:
		return true, nil
	case models.GroupVisibilityLoggedIn:
		return viewer != nil, nil
	case models.GroupVisibilityStaff:
		return viewer != nil && viewer.Admin, nil
	default:
		if viewer == nil {
			return false, nil
		}
		if viewer.Admin {
			return true, nil
		}
		return s.groups.IsMember(ctx, groupID, viewer.UserID)
	}
}

// resolveOrder maps the order parameter onto an ordering strategy:
// known keys, then stat columns, then a configured user field, and
// finally the documented entry-id fallthrough. Also returns the
// effective order parameter echoed into the continuation link.
func (s *DirectoryService) resolveOrder(ctx context.Context, resolver *FieldResolver, order string, asc bool) (models.DirectoryOrder, string, error) {
	if order == "" {
		order = defaultDirectoryOrder
	}

	switch order {
	case "last_seen":
		return models.DirectoryOrder{Kind: models.OrderLastSeen, Asc: asc}, order, nil
	case "joined":
		return models.DirectoryOrder{Kind: models.OrderJoined, Asc: asc}, order, nil
	case "username":
		return models.DirectoryOrder{Kind: models.OrderUsername, Asc: asc}, order, nil
	}

	if col, ok := models.StatColumn(order); ok {
		return models.DirectoryOrder{Kind: models.OrderStat, StatColumn: col, Asc: asc}, order, nil
	}

	key, ok, err := resolver.Resolve(ctx, order)
	if err != nil {
		return models.DirectoryOrder{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve order field")
	}
	if ok {
		return models.DirectoryOrder{Kind: models.OrderFieldValue, FieldKey: key, Asc: asc}, order, nil
	}

	return models.DirectoryOrder{Kind: models.OrderNone, Asc: asc}, order, nil
}

// applyNameSearch narrows the listing to the name-search candidate set.
// An empty candidate set forces an empty result, never "all accounts".
// When the viewer is present and the candidates intersect the scoped
// result, the viewer's own id joins the set for relevance.
func (s *DirectoryService) applyNameSearch(ctx context.Context, viewer *models.JWTClaims, name string, listQuery *models.DirectoryListQuery) error {
	ids, err := s.accounts.SearchNameCandidates(ctx, name, nameSearchLimit)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "name search failed")
	}
	if len(ids) == 0 {
		listQuery.ForceEmpty = true
		return nil
	}
	if viewer != nil {
		found, err := s.entries.AnyForUsers(ctx, *listQuery, ids)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "name search failed")
		}
		if found && !containsID(ids, viewer.UserID) {
			ids = append(ids, viewer.UserID)
		}
	}
	listQuery.UserIDs = ids
	return nil
}

// applyUsernameFilter narrows the listing to one exact account, matched
// on the case-folded username key. Combined with a name search it
// intersects the candidate set.
func (s *DirectoryService) applyUsernameFilter(ctx context.Context, username string, listQuery *models.DirectoryListQuery) error {
	id, found, err := s.accounts.FindIDByUsername(ctx, username)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "username lookup failed")
	}
	if !found {
		listQuery.ForceEmpty = true
		return nil
	}
	if listQuery.UserIDs != nil && !containsID(listQuery.UserIDs, id) {
		listQuery.ForceEmpty = true
		return nil
	}
	listQuery.UserIDs = []int64{id}
	return nil
}

// shouldPin gates the viewer-pinning convenience: first page only, no
// group scope, no attribute filters, no name/username narrowing, a
// pinnable ordering, and a viewer who is not explicitly excluded.
func (s *DirectoryService) shouldPin(viewer *models.JWTClaims, req models.DirectoryQuery, page int, listQuery models.DirectoryListQuery) bool {
	if viewer == nil || page != 0 {
		return false
	}
	if req.Group != "" || listQuery.Filters.HasFieldFilters() {
		return false
	}
	if listQuery.ForceEmpty || listQuery.UserIDs != nil {
		return false
	}
	if !listQuery.Order.Pinnable() {
		return false
	}
	for _, name := range listQuery.ExcludeUsernames {
		if name == viewer.Username {
			return false
		}
	}
	return true
}

// pinViewer inserts the viewer's own entry at position 0 when it exists
// in the filtered scope but is absent from the visible page. The entry
// is already part of the total count, so no double-counting occurs, and
// an entry outside the scope is never resurrected.
func (s *DirectoryService) pinViewer(ctx context.Context, viewer *models.JWTClaims, listQuery models.DirectoryListQuery, entries []models.DirectoryEntry) ([]models.DirectoryEntry, error) {
	for _, e := range entries {
		if e.UserID == viewer.UserID {
			return entries, nil
		}
	}
	entry, err := s.entries.FindEntryForUser(ctx, listQuery, viewer.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load viewer entry")
	}
	if entry == nil {
		return entries, nil
	}
	return append([]models.DirectoryEntry{*entry}, entries...), nil
}

// buildLoadMoreURL renders the continuation link carrying every
// parameter needed to reproduce the same filtered, ordered result on
// the next page. Construction failures yield an empty link rather than
// failing the request.
func buildLoadMoreURL(req models.DirectoryQuery, orderParam string, nextPage int) string {
	u, err := url.Parse("/directory_items.json")
	if err != nil {
		return ""
	}

	v := url.Values{}
	v.Set("period", req.Period)
	v.Set("order", orderParam)
	if req.Asc {
		v.Set("asc", "true")
	}
	if req.Group != "" {
		v.Set("group", req.Group)
	}
	if req.ExcludeUsernames != "" {
		v.Set("exclude_usernames", req.ExcludeUsernames)
	}
	if req.ExcludeGroups != "" {
		v.Set("exclude_groups", req.ExcludeGroups)
	}
	if req.Name != "" {
		v.Set("name", req.Name)
	}
	if req.Username != "" {
		v.Set("username", req.Username)
	}
	if req.Filters.Gender != "" {
		v.Set("hb_gender", req.Filters.Gender)
	}
	if req.Filters.Country != "" {
		v.Set("hb_country", req.Filters.Country)
	}
	if req.Filters.Listen != "" {
		v.Set("hb_listen", req.Filters.Listen)
	}
	if req.Filters.Share != "" {
		v.Set("hb_share", req.Filters.Share)
	}
	v.Set("page", strconv.Itoa(nextPage))

	u.RawQuery = v.Encode()
	return u.String()
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
