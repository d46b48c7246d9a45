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

func directoryRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "period_type", "user_id",
		"likes_received", "likes_given", "topics_entered", "topic_count",
		"post_count", "posts_read", "days_visited",
		"username", "name", "title", "avatar_template",
		"trust_level", "user_created_at", "last_seen_at",
	}).
		AddRow(1, models.PeriodAll, 10, 5, 2, 7, 1, 3, 40, 12,
			"alice", "Alice A", nil, "/avatars/alice/{size}.png", 2, now, now).
		AddRow(2, models.PeriodAll, 11, 0, 0, 1, 0, 0, 4, 2,
			"bob", nil, nil, "/avatars/bob/{size}.png", 1, now, nil)
}

func TestDirectoryRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery("SELECT d.id, d.period_type, d.user_id,[\\s\\S]+FROM directory_items d JOIN users ON users.id = d.user_id WHERE d.period_type = . ORDER BY users.last_seen_at DESC NULLS LAST, d.id").
		WithArgs(models.PeriodAll, 50, 0).
		WillReturnRows(directoryRows(t))

	entries, err := repo.List(context.Background(), models.DirectoryListQuery{
		PeriodType: models.PeriodAll,
		Order:      models.DirectoryOrder{Kind: models.OrderLastSeen},
		Limit:      50,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 5, entries[0].LikesReceived)
	assert.Nil(t, entries[1].LastSeenAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryListFieldValueOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery("LEFT JOIN user_custom_fields ufv[\\s\\S]+ORDER BY ufv.value ASC NULLS LAST, d.id").
		WithArgs("user_field_7", models.PeriodAll, 50, 0).
		WillReturnRows(directoryRows(t))

	_, err := repo.List(context.Background(), models.DirectoryListQuery{
		PeriodType: models.PeriodAll,
		Order:      models.DirectoryOrder{Kind: models.OrderFieldValue, FieldKey: "user_field_7", Asc: true},
		Limit:      50,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryListExpandsExclusionsAndCandidates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery("users.username NOT IN \\(\\?, \\?\\)[\\s\\S]+d.user_id IN \\(\\?, \\?, \\?\\)").
		WithArgs(models.PeriodWeekly, "system", "discobot", int64(5), int64(6), int64(9), 25, 25).
		WillReturnRows(directoryRows(t))

	_, err := repo.List(context.Background(), models.DirectoryListQuery{
		PeriodType:       models.PeriodWeekly,
		ExcludeUsernames: []string{"system", "discobot"},
		UserIDs:          []int64{5, 6, 9},
		Limit:            25,
		Offset:           25,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryCount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	var fs query.FilterSet
	for _, p := range query.Baseline(1, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		fs.Add(p)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM directory_items d JOIN users ON users.id = d.user_id WHERE")).
		WithArgs(models.PeriodMonthly, 1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(120))

	total, err := repo.Count(context.Background(), models.DirectoryListQuery{
		PeriodType: models.PeriodMonthly,
		Filters:    fs,
	})
	require.NoError(t, err)
	assert.Equal(t, 120, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryForceEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery("WHERE d.period_type = . AND FALSE").
		WithArgs(models.PeriodAll).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	total, err := repo.Count(context.Background(), models.DirectoryListQuery{
		PeriodType: models.PeriodAll,
		ForceEmpty: true,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryFindEntryForUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "period_type", "user_id",
		"likes_received", "likes_given", "topics_entered", "topic_count",
		"post_count", "posts_read", "days_visited",
		"username", "name", "title", "avatar_template",
		"trust_level", "user_created_at", "last_seen_at",
	}).AddRow(99, models.PeriodAll, 42, 1, 1, 1, 1, 1, 1, 1,
		"viewer", nil, nil, "/avatars/viewer/{size}.png", 1, now, now)

	mock.ExpectQuery("d.user_id = \\?[\\s\\S]*LIMIT 1").
		WithArgs(models.PeriodAll, int64(42)).
		WillReturnRows(rows)

	entry, err := repo.FindEntryForUser(context.Background(), models.DirectoryListQuery{PeriodType: models.PeriodAll}, 42)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int64(42), entry.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryFindEntryForUserMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery("d.user_id = ").
		WithArgs(models.PeriodAll, int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	entry, err := repo.FindEntryForUser(context.Background(), models.DirectoryListQuery{PeriodType: models.PeriodAll}, 42)
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryAnyForUsers(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM directory_items d JOIN users").
		WithArgs(models.PeriodAll, int64(5), int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	found, err := repo.AnyForUsers(context.Background(), models.DirectoryListQuery{PeriodType: models.PeriodAll}, []int64{5, 6})
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryAnyForUsersEmptySet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	found, err := repo.AnyForUsers(context.Background(), models.DirectoryListQuery{PeriodType: models.PeriodAll}, nil)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryLastUpdatedAt(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	refreshed := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(refreshed_at) FROM directory_items WHERE period_type = $1")).
		WithArgs(models.PeriodDaily).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(refreshed))

	ts, err := repo.LastUpdatedAt(context.Background(), models.PeriodDaily)
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.Equal(t, refreshed, *ts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryLastUpdatedAtEmptyPeriod(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery("SELECT MAX").
		WithArgs(models.PeriodQuarterly).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	ts, err := repo.LastUpdatedAt(context.Background(), models.PeriodQuarterly)
	require.NoError(t, err)
	assert.Nil(t, ts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryOrderClauses(t *testing.T) {
	tests := []struct {
		name     string
		order    models.DirectoryOrder
		wantJoin bool
		want     string
	}{
		{name: "last seen", order: models.DirectoryOrder{Kind: models.OrderLastSeen}, want: "users.last_seen_at DESC NULLS LAST, d.id"},
		{name: "joined asc", order: models.DirectoryOrder{Kind: models.OrderJoined, Asc: true}, want: "users.created_at ASC, d.id"},
		{name: "username", order: models.DirectoryOrder{Kind: models.OrderUsername}, want: "users.username_lower DESC, d.id"},
		{name: "stat", order: models.DirectoryOrder{Kind: models.OrderStat, StatColumn: "likes_received"}, want: "d.likes_received DESC, d.id"},
		{name: "field value", order: models.DirectoryOrder{Kind: models.OrderFieldValue, FieldKey: "user_field_7"}, wantJoin: true, want: "ufv.value DESC NULLS LAST, d.id"},
		{name: "fallthrough", order: models.DirectoryOrder{Kind: models.OrderNone}, want: "d.id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			join, orderBy, args := directoryOrder(tt.order)
			assert.Equal(t, tt.want, orderBy)
			if tt.wantJoin {
				assert.Contains(t, join, "LEFT JOIN user_custom_fields")
				assert.Equal(t, []interface{}{"user_field_7"}, args)
			} else {
				assert.Empty(t, join)
				assert.Empty(t, args)
			}
		})
	}
}
