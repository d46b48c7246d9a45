package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/heartbeatpleasure/user-directory-api/internal/dto"
	"github.com/heartbeatpleasure/user-directory-api/internal/models"
	"github.com/heartbeatpleasure/user-directory-api/pkg/response"
)

type directoryService interface {
	List(ctx context.Context, viewer *models.JWTClaims, req models.DirectoryQuery) (*dto.DirectoryResponse, error)
}

// DirectoryHandler exposes the directory listing endpoint.
type DirectoryHandler struct {
	directory directoryService
}

// NewDirectoryHandler constructs DirectoryHandler.
func NewDirectoryHandler(directory directoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// Index godoc
// @Summary List directory items
// @Tags Directory
// @Produce json
// @Param period query string true "Period (daily, weekly, monthly, quarterly, yearly, all)"
// @Param order query string false "Order key"
// @Param asc query bool false "Ascending order"
// @Param group query string false "Scope to group"
// @Param exclude_usernames query string false "Comma-separated usernames to exclude"
// @Param exclude_groups query string false "Comma-separated group names whose members are excluded"
// @Param name query string false "Name search term"
// @Param username query string false "Exact username"
// @Param page query int false "Page index (0-based)"
// @Param hb_gender query string false "Gender filter"
// @Param hb_country query string false "Country filter"
// @Param hb_listen query string false "Listen filter (CSV)"
// @Param hb_share query string false "Share filter (CSV)"
// @Success 200 {object} response.Envelope
// @Router /directory_items [get]
func (h *DirectoryHandler) Index(c *gin.Context) {
	req := models.DirectoryQuery{
		Period:           c.Query("period"),
		Order:            strings.TrimSpace(c.Query("order")),
		Asc:              c.Query("asc") != "",
		Group:            c.Query("group"),
		ExcludeUsernames: c.Query("exclude_usernames"),
		ExcludeGroups:    c.Query("exclude_groups"),
		Name:             strings.TrimSpace(c.Query("name")),
		Username:         strings.TrimSpace(c.Query("username")),
		Filters: models.FieldFilters{
			Gender:  c.Query("hb_gender"),
			Country: c.Query("hb_country"),
			Listen:  c.Query("hb_listen"),
			Share:   c.Query("hb_share"),
		},
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "0")); err == nil {
		req.Page = page
	}

	result, err := h.directory.List(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
