package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartbeatpleasure/user-directory-api/internal/models"
	"github.com/heartbeatpleasure/user-directory-api/internal/query"
)

func userCardRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "username", "username_lower", "name", "title",
		"avatar_template", "trust_level", "created_at", "last_seen_at",
	}).
		AddRow(1, "Alice", "alice", "Alice A", nil, "/avatars/alice/{size}.png", 2, now, now).
		AddRow(2, "bob", "bob", nil, "Regular", "/avatars/bob/{size}.png", 1, now, nil)
}

func TestUserRepositorySearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT DISTINCT users.id, users.username, users.username_lower").
		WithArgs(30, 0).
		WillReturnRows(userCardRows(t))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT users.id) FROM users WHERE TRUE")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(57))

	users, total, err := repo.Search(context.Background(), models.UserSearchQuery{Limit: 30})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Username)
	assert.Nil(t, users[1].LastSeenAt)
	assert.Equal(t, 57, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositorySearchWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	var fs query.FilterSet
	p, ok := query.FieldEquals("user_field_7", "Canada")
	require.True(t, ok)
	fs.AddFieldFilter(p)

	mock.ExpectQuery("SELECT DISTINCT users.id, .+ FROM users WHERE EXISTS").
		WithArgs("user_field_7", "canada", 30, 30).
		WillReturnRows(userCardRows(t))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT users.id)")).
		WithArgs("user_field_7", "canada").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	_, total, err := repo.Search(context.Background(), models.UserSearchQuery{Filters: fs, Limit: 30, Offset: 30})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositorySearchOrderClause(t *testing.T) {
	tests := []struct {
		order string
		asc   bool
		want  string
	}{
		{order: "username", want: "users.username_lower DESC, users.id"},
		{order: "username", asc: true, want: "users.username_lower ASC, users.id"},
		{order: "created", want: "users.created_at DESC, users.id"},
		{order: "last_seen", want: "users.last_seen_at DESC NULLS LAST, users.id"},
		{order: "last_seen", asc: true, want: "users.last_seen_at ASC NULLS LAST, users.id"},
		{order: "anything_else", want: "users.username_lower DESC, users.id"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, searchOrderClause(tt.order, tt.asc))
	}
}

func TestUserRepositoryFindIDByUsername(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE username_lower = $1")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

	id, found, err := repo.FindIDByUsername(context.Background(), "Alice")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(10), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindIDByUsernameMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT id FROM users WHERE username_lower").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, found, err := repo.FindIDByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositorySearchNameCandidates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT id FROM users").
		WithArgs("ali%", 200).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))

	ids, err := repo.SearchNameCandidates(context.Background(), " Ali ", 200)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositorySearchNameCandidatesBlankTerm(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	ids, err := repo.SearchNameCandidates(context.Background(), "   ", 200)
	require.NoError(t, err)
	assert.Nil(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
