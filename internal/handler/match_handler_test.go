package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorhub-api/internal/middleware"
	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/internal/service"
)

type matchRepoStub struct {
	detail  *models.MatchDetail
	deleted []string
}

func (s *matchRepoStub) Create(ctx context.Context, match *models.Match) error {
	match.ID = "m1"
	s.detail = &models.MatchDetail{Match: *match}
	return nil
}

func (s *matchRepoStub) FindByID(ctx context.Context, id string) (*models.MatchDetail, error) {
	if s.detail == nil {
		return nil, sql.ErrNoRows
	}
	detail := *s.detail
	return &detail, nil
}

func (s *matchRepoStub) List(ctx context.Context, filter models.MatchFilter) ([]models.MatchDetail, int, error) {
	return nil, 0, nil
}

func (s *matchRepoStub) UpdateStatus(ctx context.Context, id string, status models.MatchStatus, updatedAt time.Time) error {
	s.detail.Status = status
	return nil
}

func (s *matchRepoStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *matchRepoStub) ExistsOpenBetween(ctx context.Context, mentorID, menteeID string) (bool, error) {
	return false, nil
}

func (s *matchRepoStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return nil
}

type mentorLookupStub struct{}

func (s *mentorLookupStub) FindByUserID(ctx context.Context, userID string) (*models.MentorProfileDetail, error) {
	return &models.MentorProfileDetail{MentorProfile: models.MentorProfile{ID: "mp1", UserID: userID, Active: true}}, nil
}

type cvLookupStub struct{}

func (s *cvLookupStub) FindByUserID(ctx context.Context, userID string) (*models.CV, error) {
	return nil, sql.ErrNoRows
}

func newMatchHandlerWithRepo(repo *matchRepoStub) *MatchHandler {
	svc := service.NewMatchService(repo, &mentorLookupStub{}, &cvLookupStub{}, repo, nil, nil)
	return NewMatchHandler(svc)
}

func matchTestContext(t *testing.T, method, target string, body []byte, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
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

func TestMatchHandlerCreate(t *testing.T) {
	repo := &matchRepoStub{}
	handler := newMatchHandlerWithRepo(repo)

	payload, _ := json.Marshal(models.CreateMatchRequest{
		MentorID:      "mentor-1",
		Introduction:  "Looking for guidance with distributed systems.",
		PreferredTime: "Weekday evenings",
	})
	c, w := matchTestContext(t, http.MethodPost, "/matches", payload, &models.JWTClaims{UserID: "mentee-1", Role: models.RoleUser})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.MatchStatusPending, repo.detail.Status)
}

func TestMatchHandlerCreateUnauthenticated(t *testing.T) {
	handler := newMatchHandlerWithRepo(&matchRepoStub{})

	c, w := matchTestContext(t, http.MethodPost, "/matches", []byte(`{}`), nil)

	handler.Create(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMatchHandlerRespondWrongUser(t *testing.T) {
	repo := &matchRepoStub{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusPending},
	}}
	handler := newMatchHandlerWithRepo(repo)

	payload, _ := json.Marshal(models.RespondMatchRequest{Action: models.RespondActionAccept})
	c, w := matchTestContext(t, http.MethodPost, "/matches/m1/respond", payload, &models.JWTClaims{UserID: "mentee-1", Role: models.RoleUser})
	c.Params = gin.Params{{Key: "id", Value: "m1"}}

	handler.Respond(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMatchHandlerRespondAccept(t *testing.T) {
	repo := &matchRepoStub{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusPending},
	}}
	handler := newMatchHandlerWithRepo(repo)

	payload, _ := json.Marshal(models.RespondMatchRequest{Action: models.RespondActionAccept})
	c, w := matchTestContext(t, http.MethodPost, "/matches/m1/respond", payload, &models.JWTClaims{UserID: "mentor-1", Role: models.RoleUser})
	c.Params = gin.Params{{Key: "id", Value: "m1"}}

	handler.Respond(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.MatchStatusAccepted, repo.detail.Status)
}

func TestMatchHandlerCancel(t *testing.T) {
	repo := &matchRepoStub{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusPending},
	}}
	handler := newMatchHandlerWithRepo(repo)

	c, w := matchTestContext(t, http.MethodDelete, "/matches/m1", nil, &models.JWTClaims{UserID: "mentee-1", Role: models.RoleUser})
	c.Params = gin.Params{{Key: "id", Value: "m1"}}

	handler.Cancel(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"m1"}, repo.deleted)
}

func TestMatchHandlerGetNotFound(t *testing.T) {
	handler := newMatchHandlerWithRepo(&matchRepoStub{})

	c, w := matchTestContext(t, http.MethodGet, "/matches/missing", nil, &models.JWTClaims{UserID: "mentee-1", Role: models.RoleUser})
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
