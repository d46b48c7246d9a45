package models

import (
	"time"

	"github.com/heartbeatpleasure/user-directory-api/internal/query"
)

// User represents a community account as stored in the users table. The
// identity subsystem owns these rows; this service only reads them.
type User struct {
	ID             int64      `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	UsernameLower  string     `db:"username_lower" json:"-"`
	Name           *string    `db:"name" json:"name,omitempty"`
	Title          *string    `db:"title" json:"title,omitempty"`
	AvatarTemplate string     `db:"avatar_template" json:"avatar_template"`
	Active         bool       `db:"active" json:"-"`
	Staged         bool       `db:"staged" json:"-"`
	TrustLevel     int        `db:"trust_level" json:"trust_level"`
	SuspendedTill  *time.Time `db:"suspended_till" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	LastSeenAt     *time.Time `db:"last_seen_at" json:"last_seen_at,omitempty"`
}

// UserCard is the projection of a user returned by the search endpoints.
type UserCard struct {
	ID             int64      `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	UsernameLower  string     `db:"username_lower" json:"-"`
	Name           *string    `db:"name" json:"name,omitempty"`
	Title          *string    `db:"title" json:"title,omitempty"`
	AvatarTemplate string     `db:"avatar_template" json:"avatar_template"`
	TrustLevel     int        `db:"trust_level" json:"trust_level"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	LastSeenAt     *time.Time `db:"last_seen_at" json:"last_seen_at,omitempty"`
}

// FieldFilters carries the raw attribute filter parameters of a request.
// Gender and Country accept a single value; Listen and Share accept a
// comma-separated list. A blank entry means the dimension is unconstrained.
type FieldFilters struct {
	Gender  string
	Country string
	Listen  string
	Share   string
}

// Empty reports whether no attribute filter parameter was supplied.
func (f FieldFilters) Empty() bool {
	return f.Gender == "" && f.Country == "" && f.Listen == "" && f.Share == ""
}

// SearchQuery captures the parameters of the /user-search endpoint.
type SearchQuery struct {
	Page    int
	PerPage int
	Order   string
	Asc     bool
	Filters FieldFilters
}

// UserSearchQuery is the repository-ready form of a /user-search request.
type UserSearchQuery struct {
	Filters query.FilterSet
	Order   string
	Asc     bool
	Limit   int
	Offset  int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
