package models

import (
	"time"

	"github.com/heartbeatpleasure/user-directory-api/internal/query"
)

// Period type codes as stored in directory_items.period_type.
const (
	PeriodAll       = 1
	PeriodYearly    = 2
	PeriodMonthly   = 3
	PeriodWeekly    = 4
	PeriodDaily     = 5
	PeriodQuarterly = 6
)

var periodTypes = map[string]int{
	"all":       PeriodAll,
	"yearly":    PeriodYearly,
	"monthly":   PeriodMonthly,
	"weekly":    PeriodWeekly,
	"daily":     PeriodDaily,
	"quarterly": PeriodQuarterly,
}

// ParsePeriod maps a period name to its type code.
func ParsePeriod(name string) (int, bool) {
	code, ok := periodTypes[name]
	return code, ok
}

// DirectoryItem is the per-(user, period) aggregate statistic row behind
// the directory listing.
type DirectoryItem struct {
	ID            int64 `db:"id" json:"id"`
	PeriodType    int   `db:"period_type" json:"-"`
	UserID        int64 `db:"user_id" json:"user_id"`
	LikesReceived int   `db:"likes_received" json:"likes_received"`
	LikesGiven    int   `db:"likes_given" json:"likes_given"`
	TopicsEntered int   `db:"topics_entered" json:"topics_entered"`
	TopicCount    int   `db:"topic_count" json:"topic_count"`
	PostCount     int   `db:"post_count" json:"post_count"`
	PostsRead     int   `db:"posts_read" json:"posts_read"`
	DaysVisited   int   `db:"days_visited" json:"days_visited"`
}

// DirectoryEntry joins a directory item with its user card columns.
type DirectoryEntry struct {
	DirectoryItem
	Username       string     `db:"username" json:"-"`
	Name           *string    `db:"name" json:"-"`
	Title          *string    `db:"title" json:"-"`
	AvatarTemplate string     `db:"avatar_template" json:"-"`
	TrustLevel     int        `db:"trust_level" json:"-"`
	UserCreatedAt  time.Time  `db:"user_created_at" json:"-"`
	LastSeenAt     *time.Time `db:"last_seen_at" json:"-"`
}

// StatColumn reports whether the order key names a sortable directory
// statistic column, returning the column name when it does.
func StatColumn(order string) (string, bool) {
	switch order {
	case "likes_received", "likes_given", "topics_entered", "topic_count",
		"post_count", "posts_read", "days_visited":
		return order, true
	}
	return "", false
}

// OrderKind identifies the ordering strategy for a directory listing.
type OrderKind int

const (
	// OrderNone leaves rows ordered only by the stable entry id. It is
	// the documented fallthrough for order keys that match neither a
	// known key, a stat column, nor a configured user field.
	OrderNone OrderKind = iota
	OrderLastSeen
	OrderJoined
	OrderUsername
	OrderStat
	OrderFieldValue
)

// DirectoryOrder is a fully resolved ordering choice.
type DirectoryOrder struct {
	Kind       OrderKind
	StatColumn string
	// FieldKey is the user_custom_fields storage key when Kind is
	// OrderFieldValue.
	FieldKey string
	Asc      bool
}

// Pinnable reports whether the viewer-pinning rule may run under this
// ordering. Stat-column and field-value orders are excluded: inserting a
// row there breaks the defined order and can surface an entry the window
// would have cut.
func (o DirectoryOrder) Pinnable() bool {
	switch o.Kind {
	case OrderLastSeen, OrderJoined, OrderUsername:
		return true
	}
	return false
}

// DirectoryQuery captures the raw request parameters of the directory
// listing endpoint.
type DirectoryQuery struct {
	Period           string `validate:"required"`
	Order            string
	Asc              bool
	Group            string
	ExcludeUsernames string
	ExcludeGroups    string
	Name             string
	Username         string
	Page             int `validate:"gte=0"`
	Filters          FieldFilters
}

// DirectoryListQuery is the resolved, repository-ready form of a
// directory request. Built once per request by the query engine.
type DirectoryListQuery struct {
	PeriodType       int
	GroupID          *int64
	Filters          query.FilterSet
	ExcludeUsernames []string
	ExcludeGroupIDs  []int64
	// UserIDs restricts the listing to the given accounts. nil means
	// unrestricted; ForceEmpty overrides everything with no results.
	UserIDs    []int64
	ForceEmpty bool
	Order      DirectoryOrder
	Limit      int
	Offset     int
}
