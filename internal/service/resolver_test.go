package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartbeatpleasure/user-directory-api/internal/models"
)

type fakeFieldRepo struct {
	fields    []models.UserField
	options   map[int64][]string
	err       error
	listCalls int
}

func (f *fakeFieldRepo) ListFields(ctx context.Context) ([]models.UserField, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.fields, nil
}

func (f *fakeFieldRepo) ListOptions(ctx context.Context, fieldID int64) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.options[fieldID], nil
}

func TestFieldResolverResolve(t *testing.T) {
	repo := &fakeFieldRepo{fields: []models.UserField{
		{ID: 7, Name: "country"},
		{ID: 3, Name: "gender"},
	}}
	resolver := NewFieldResolver(repo)

	key, ok, err := resolver.Resolve(context.Background(), "country")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user_field_7", key)

	id, ok, err := resolver.ResolveID(context.Background(), "gender")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(3), id)
}

func TestFieldResolverLoadsOnce(t *testing.T) {
	repo := &fakeFieldRepo{fields: []models.UserField{{ID: 1, Name: "gender"}}}
	resolver := NewFieldResolver(repo)

	for i := 0; i < 4; i++ {
		_, _, err := resolver.Resolve(context.Background(), "gender")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, repo.listCalls)
}

func TestFieldResolverBlankAndUnknown(t *testing.T) {
	repo := &fakeFieldRepo{fields: []models.UserField{{ID: 1, Name: "gender"}}}
	resolver := NewFieldResolver(repo)

	_, ok, err := resolver.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, repo.listCalls)

	_, ok, err = resolver.Resolve(context.Background(), "no_such_field")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFieldResolverPropagatesErrors(t *testing.T) {
	repo := &fakeFieldRepo{err: errors.New("boom")}
	resolver := NewFieldResolver(repo)

	_, _, err := resolver.Resolve(context.Background(), "gender")
	assert.Error(t, err)
}
