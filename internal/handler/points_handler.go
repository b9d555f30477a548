package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/internal/service"
	appErrors "github.com/mentorhub/mentorhub-api/pkg/errors"
	"github.com/mentorhub/mentorhub-api/pkg/response"
)

// PointsHandler wires HTTP endpoints to the points and leaderboard services.
type PointsHandler struct {
	points      *service.PointsService
	leaderboard *service.LeaderboardService
}

// NewPointsHandler creates a new handler.
func NewPointsHandler(points *service.PointsService, leaderboard *service.LeaderboardService) *PointsHandler {
	return &PointsHandler{points: points, leaderboard: leaderboard}
}

// Mine godoc
// @Summary Get my points
// @Description Returns the caller's total, rank and tier
// @Tags Points
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /points/me [get]
func (h *PointsHandler) Mine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	points, err := h.points.GetUserPoints(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, points, nil)
}

// ForUser godoc
// @Summary Get a user's points
// @Tags Points
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/points [get]
func (h *PointsHandler) ForUser(c *gin.Context) {
	points, err := h.points.GetUserPoints(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, points, nil)
}

// Adjust godoc
// @Summary Adjust points
// @Description Apply an administrative point correction. Admin only, last write wins.
// @Tags Points
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body models.AdjustPointsRequest true "Adjustment"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users/{id}/points [patch]
func (h *PointsHandler) Adjust(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid adjustment payload"))
		return
	}
	req.UserID = c.Param("id")

	points, err := h.points.Adjust(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, points, nil)
}

// Leaderboard godoc
// @Summary Leaderboard
// @Description Ranked point standings. Ties share a dense rank.
// @Tags Points
// @Produce json
// @Param limit query int false "Window size" default(20)
// @Param offset query int false "Row offset" default(0)
// @Success 200 {object} response.Envelope
// @Router /leaderboard [get]
func (h *PointsHandler) Leaderboard(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, total, err := h.leaderboard.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries, &models.Pagination{
		Page:       offset/limit + 1,
		PageSize:   limit,
		TotalCount: total,
	})
}
