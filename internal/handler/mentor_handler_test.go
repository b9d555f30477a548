package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorhub-api/internal/middleware"
	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/internal/service"
)

type mentorRepoStub struct {
	profile    *models.MentorProfileDetail
	lastFilter models.MentorFilter
}

func (s *mentorRepoStub) Create(ctx context.Context, profile *models.MentorProfile) error {
	profile.ID = "mp1"
	s.profile = &models.MentorProfileDetail{MentorProfile: *profile}
	return nil
}

func (s *mentorRepoStub) Update(ctx context.Context, profile *models.MentorProfile) error {
	s.profile.MentorProfile = *profile
	return nil
}

func (s *mentorRepoStub) Delete(ctx context.Context, id string) error {
	s.profile = nil
	return nil
}

func (s *mentorRepoStub) FindByID(ctx context.Context, id string) (*models.MentorProfileDetail, error) {
	if s.profile == nil {
		return nil, sql.ErrNoRows
	}
	detail := *s.profile
	return &detail, nil
}

func (s *mentorRepoStub) FindByUserID(ctx context.Context, userID string) (*models.MentorProfileDetail, error) {
	if s.profile == nil || s.profile.UserID != userID {
		return nil, sql.ErrNoRows
	}
	detail := *s.profile
	return &detail, nil
}

func (s *mentorRepoStub) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	return s.profile != nil && s.profile.UserID == userID, nil
}

func (s *mentorRepoStub) Search(ctx context.Context, filter models.MentorFilter) ([]models.MentorProfileDetail, int, error) {
	s.lastFilter = filter
	if s.profile == nil {
		return nil, 0, nil
	}
	return []models.MentorProfileDetail{*s.profile}, 1, nil
}

func newMentorHandlerWithRepo(repo *mentorRepoStub) *MentorHandler {
	return NewMentorHandler(service.NewMentorService(repo, nil, nil))
}

func mentorTestContext(t *testing.T, method, target string, body []byte, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func TestMentorHandlerSearchParsesFlags(t *testing.T) {
	repo := &mentorRepoStub{}
	handler := newMentorHandlerWithRepo(repo)

	c, w := mentorTestContext(t, http.MethodGet, "/mentors/search?mentoring_levels=6&payment_types=1&q=golang", nil, nil)

	handler.Search(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.LevelJunior.With(models.LevelMid), repo.lastFilter.MentoringLevels)
	assert.Equal(t, models.PaymentFree, repo.lastFilter.PaymentTypes)
	assert.Equal(t, "golang", repo.lastFilter.Query)
}

func TestMentorHandlerSearchIgnoresBadFlagValue(t *testing.T) {
	repo := &mentorRepoStub{}
	handler := newMentorHandlerWithRepo(repo)

	c, w := mentorTestContext(t, http.MethodGet, "/mentors/search?expertise_domains=banana", nil, nil)

	handler.Search(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, repo.lastFilter.ExpertiseDomains)
}

func TestMentorHandlerCreate(t *testing.T) {
	repo := &mentorRepoStub{}
	handler := newMentorHandlerWithRepo(repo)

	payload, _ := json.Marshal(models.UpsertMentorProfileRequest{
		Headline:         "Principal engineer",
		Bio:              "Two decades of systems work.",
		ExperienceYears:  20,
		MentoringLevels:  models.LevelSenior,
		PaymentTypes:     models.PaymentFree,
		ExpertiseDomains: models.DomainEngineering,
	})
	c, w := mentorTestContext(t, http.MethodPost, "/mentors/profiles", payload, &models.JWTClaims{UserID: "u1", Role: models.RoleUser})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, repo.profile)
	assert.Equal(t, "u1", repo.profile.UserID)
}

func TestMentorHandlerCreateInvalidPayload(t *testing.T) {
	handler := newMentorHandlerWithRepo(&mentorRepoStub{})

	c, w := mentorTestContext(t, http.MethodPost, "/mentors/profiles", []byte(`{"headline":`), &models.JWTClaims{UserID: "u1", Role: models.RoleUser})

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMentorHandlerGetMineMissing(t *testing.T) {
	handler := newMentorHandlerWithRepo(&mentorRepoStub{})

	c, w := mentorTestContext(t, http.MethodGet, "/mentors/profiles/me", nil, &models.JWTClaims{UserID: "u1", Role: models.RoleUser})

	handler.GetMine(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
