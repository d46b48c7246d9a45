package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartbeatpleasure/user-directory-api/internal/dto"
	appErrors "github.com/heartbeatpleasure/user-directory-api/pkg/errors"
)

type fakeOptionsSrv struct {
	resp *dto.FieldOptionsResponse
	hit  bool
	err  error
}

func (f *fakeOptionsSrv) Options(context.Context) (*dto.FieldOptionsResponse, bool, error) {
	return f.resp, f.hit, f.err
}

func TestOptionsHandlerSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOptionsHandler(&fakeOptionsSrv{
		resp: &dto.FieldOptionsResponse{
			Gender:  []string{"woman", "man"},
			Country: []string{"Canada"},
			Listen:  []string{},
			Share:   []string{},
		},
		hit: true,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/user-search/options", nil)

	handler.Index(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, []interface{}{"woman", "man"}, envelope.Data["gender"])
	assert.Equal(t, []interface{}{}, envelope.Data["listen"])
}

func TestOptionsHandlerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOptionsHandler(&fakeOptionsSrv{err: appErrors.Clone(appErrors.ErrNotFound, "user search is disabled")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/user-search/options", nil)

	handler.Index(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
