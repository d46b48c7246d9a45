package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/heartbeatpleasure/user-directory-api/internal/models"
	"github.com/heartbeatpleasure/user-directory-api/pkg/response"
)

type searchService interface {
	Search(ctx context.Context, req models.SearchQuery) ([]models.UserCard, *models.Pagination, error)
}

// SearchHandler exposes the advanced user search endpoint.
type SearchHandler struct {
	search searchService
}

// NewSearchHandler constructs SearchHandler.
func NewSearchHandler(search searchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Index godoc
// @Summary Search users by profile attributes
// @Tags Search
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param per_page query int false "Page size (max 100)"
// @Param order query string false "Order key (created, last_seen, username)"
// @Param asc query bool false "Ascending order (default true)"
// @Param gender query string false "Gender filter"
// @Param country query string false "Country filter"
// @Param listen query string false "Listen filter (CSV)"
// @Param share query string false "Share filter (CSV)"
// @Success 200 {object} response.Envelope
// @Router /user-search [get]
func (h *SearchHandler) Index(c *gin.Context) {
	req := models.SearchQuery{
		Order: c.Query("order"),
		Asc:   c.DefaultQuery("asc", "true") != "false",
		Filters: models.FieldFilters{
			Gender:  c.Query("gender"),
			Country: c.Query("country"),
			Listen:  c.Query("listen"),
			Share:   c.Query("share"),
		},
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "30")); err == nil {
		req.PerPage = perPage
	}

	users, pagination, err := h.search.Search(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"users": users}, pagination)
}
