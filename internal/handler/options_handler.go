package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heartbeatpleasure/user-directory-api/internal/dto"
	"github.com/heartbeatpleasure/user-directory-api/pkg/response"
)

type optionsService interface {
	Options(ctx context.Context) (*dto.FieldOptionsResponse, bool, error)
}

// OptionsHandler exposes the filter option lists for dropdowns.
type OptionsHandler struct {
	options optionsService
}

// NewOptionsHandler constructs OptionsHandler.
func NewOptionsHandler(options optionsService) *OptionsHandler {
	return &OptionsHandler{options: options}
}

// Index godoc
// @Summary List configured filter options
// @Tags Search
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /user-search/options [get]
func (h *OptionsHandler) Index(c *gin.Context) {
	options, cacheHit, err := h.options.Options(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil, map[string]interface{}{"cache_hit": cacheHit})
}
