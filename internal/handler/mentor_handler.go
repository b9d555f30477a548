package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/internal/service"
	appErrors "github.com/mentorhub/mentorhub-api/pkg/errors"
	"github.com/mentorhub/mentorhub-api/pkg/response"
)

// MentorHandler wires HTTP endpoints to the mentor service.
type MentorHandler struct {
	service *service.MentorService
}

// NewMentorHandler creates a new handler.
func NewMentorHandler(svc *service.MentorService) *MentorHandler {
	return &MentorHandler{service: svc}
}

// Search godoc
// @Summary Search mentors
// @Description Search active mentor profiles. Flag filters match on any bit overlap.
// @Tags Mentors
// @Produce json
// @Param q query string false "Free text over name, headline and bio"
// @Param mentoring_levels query int false "Mentoring level flag set"
// @Param payment_types query int false "Payment type flag set"
// @Param expertise_domains query int false "Expertise domain flag set"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} response.Envelope
// @Router /mentors/search [get]
func (h *MentorHandler) Search(c *gin.Context) {
	filter := models.MentorFilter{
		Query:            c.Query("q"),
		MentoringLevels:  models.MentoringLevel(queryUint(c, "mentoring_levels")),
		PaymentTypes:     models.PaymentType(queryUint(c, "payment_types")),
		ExpertiseDomains: models.ExpertiseDomain(queryUint(c, "expertise_domains")),
		Page:             queryInt(c, "page", 1),
		PageSize:         queryInt(c, "page_size", 20),
	}

	profiles, total, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profiles, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Get mentor profile
// @Tags Mentors
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/profiles/{id} [get]
func (h *MentorHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// GetByUser godoc
// @Summary Get mentor profile by user
// @Description 404 means the user is not a mentor
// @Tags Mentors
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/profiles/by-user/{userId} [get]
func (h *MentorHandler) GetByUser(c *gin.Context) {
	detail, err := h.service.GetByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// GetMine godoc
// @Summary Get my mentor profile
// @Tags Mentors
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/profiles/me [get]
func (h *MentorHandler) GetMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	detail, err := h.service.GetByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create mentor profile
// @Description Register the caller as a mentor. One profile per user.
// @Tags Mentors
// @Accept json
// @Produce json
// @Param payload body models.UpsertMentorProfileRequest true "Profile payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /mentors/profiles [post]
func (h *MentorHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpsertMentorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mentor profile payload"))
		return
	}

	detail, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, detail)
}

// Update godoc
// @Summary Update mentor profile
// @Tags Mentors
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param payload body models.UpsertMentorProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/profiles/{id} [put]
func (h *MentorHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpsertMentorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mentor profile payload"))
		return
	}

	detail, err := h.service.Update(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role == models.RoleAdmin, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// Delete godoc
// @Summary Delete mentor profile
// @Tags Mentors
// @Produce json
// @Param id path string true "Profile ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/profiles/{id} [delete]
func (h *MentorHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role == models.RoleAdmin); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func queryUint(c *gin.Context, key string) uint32 {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(value)
}
