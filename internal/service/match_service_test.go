package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mentorhub/mentorhub-api/internal/models"
	appErrors "github.com/mentorhub/mentorhub-api/pkg/errors"
)

type mockMatchRepo struct {
	detail       *models.MatchDetail
	findErr      error
	listResult   []models.MatchDetail
	listTotal    int
	created      *models.Match
	createErr    error
	updateErr    error
	deleted      []string
	openBetween  bool
	openErr      error
	auditLogs    []*models.AuditLog
	updateStatus models.MatchStatus
}

func (m *mockMatchRepo) Create(ctx context.Context, match *models.Match) error {
	if m.createErr != nil {
		return m.createErr
	}
	match.ID = "m1"
	m.created = match
	if m.detail == nil {
		m.detail = &models.MatchDetail{Match: *match}
	}
	return nil
}

func (m *mockMatchRepo) FindByID(ctx context.Context, id string) (*models.MatchDetail, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.detail == nil {
		return nil, sql.ErrNoRows
	}
	detail := *m.detail
	return &detail, nil
}

func (m *mockMatchRepo) List(ctx context.Context, filter models.MatchFilter) ([]models.MatchDetail, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockMatchRepo) UpdateStatus(ctx context.Context, id string, status models.MatchStatus, updatedAt time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updateStatus = status
	if m.detail != nil {
		m.detail.Status = status
	}
	return nil
}

func (m *mockMatchRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockMatchRepo) ExistsOpenBetween(ctx context.Context, mentorID, menteeID string) (bool, error) {
	return m.openBetween, m.openErr
}

func (m *mockMatchRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

type mockMentorLookup struct {
	profile *models.MentorProfileDetail
	err     error
}

func (m *mockMentorLookup) FindByUserID(ctx context.Context, userID string) (*models.MentorProfileDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

type mockCVLookup struct {
	cv  *models.CV
	err error
}

func (m *mockCVLookup) FindByUserID(ctx context.Context, userID string) (*models.CV, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cv, nil
}

func activeMentorLookup() *mockMentorLookup {
	return &mockMentorLookup{profile: &models.MentorProfileDetail{
		MentorProfile: models.MentorProfile{ID: "mp1", UserID: "mentor-1", Active: true},
	}}
}

func newMatchService(repo *mockMatchRepo, mentors *mockMentorLookup, cvs *mockCVLookup) *MatchService {
	return NewMatchService(repo, mentors, cvs, repo, validator.New(), zap.NewNop())
}

func TestMatchCreatePending(t *testing.T) {
	repo := &mockMatchRepo{}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	detail, err := svc.Create(context.Background(), "mentee-1", models.CreateMatchRequest{
		MentorID:      "mentor-1",
		Introduction:  "I would love some guidance on backend architecture.",
		PreferredTime: "Weekday evenings",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusPending, detail.Status)
	assert.Equal(t, "mentee-1", repo.created.MenteeID)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionMatchCreate, repo.auditLogs[0].Action)
}

func TestMatchCreateSelfRequest(t *testing.T) {
	svc := newMatchService(&mockMatchRepo{}, activeMentorLookup(), &mockCVLookup{})

	_, err := svc.Create(context.Background(), "mentor-1", models.CreateMatchRequest{
		MentorID:      "mentor-1",
		Introduction:  "Requesting mentorship from myself somehow.",
		PreferredTime: "Anytime",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMatchCreateIntroductionTooShort(t *testing.T) {
	svc := newMatchService(&mockMatchRepo{}, activeMentorLookup(), &mockCVLookup{})

	_, err := svc.Create(context.Background(), "mentee-1", models.CreateMatchRequest{
		MentorID:      "mentor-1",
		Introduction:  "Too short",
		PreferredTime: "Anytime",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMatchCreateDuplicateOpen(t *testing.T) {
	repo := &mockMatchRepo{openBetween: true}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	_, err := svc.Create(context.Background(), "mentee-1", models.CreateMatchRequest{
		MentorID:      "mentor-1",
		Introduction:  "A second request to the same mentor.",
		PreferredTime: "Anytime",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestMatchCreateInactiveMentor(t *testing.T) {
	mentors := &mockMentorLookup{profile: &models.MentorProfileDetail{
		MentorProfile: models.MentorProfile{ID: "mp1", UserID: "mentor-1", Active: false},
	}}
	svc := newMatchService(&mockMatchRepo{}, mentors, &mockCVLookup{})

	_, err := svc.Create(context.Background(), "mentee-1", models.CreateMatchRequest{
		MentorID:      "mentor-1",
		Introduction:  "Hoping this mentor is still available.",
		PreferredTime: "Anytime",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMatchCreateCVRequiredButMissing(t *testing.T) {
	svc := newMatchService(&mockMatchRepo{}, activeMentorLookup(), &mockCVLookup{err: sql.ErrNoRows})

	_, err := svc.Create(context.Background(), "mentee-1", models.CreateMatchRequest{
		MentorID:      "mentor-1",
		Introduction:  "Please find my CV attached to this request.",
		PreferredTime: "Anytime",
		CVIncluded:    true,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMatchGetRedactsWhilePending(t *testing.T) {
	repo := &mockMatchRepo{detail: &models.MatchDetail{
		Match:             models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusPending},
		MentorEmail:       "mentor@example.com",
		MenteeEmail:       "mentee@example.com",
		MentorLinkedInURL: "https://linkedin.com/in/mentor",
	}}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	detail, err := svc.Get(context.Background(), "m1", "mentee-1", false)
	require.NoError(t, err)
	assert.Empty(t, detail.MentorEmail)
	assert.Empty(t, detail.MenteeEmail)
	assert.Empty(t, detail.MentorLinkedInURL)
}

func TestMatchGetExposesContactsOnceAccepted(t *testing.T) {
	repo := &mockMatchRepo{detail: &models.MatchDetail{
		Match:       models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusAccepted},
		MentorEmail: "mentor@example.com",
		MenteeEmail: "mentee@example.com",
	}}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	detail, err := svc.Get(context.Background(), "m1", "mentor-1", false)
	require.NoError(t, err)
	assert.Equal(t, "mentor@example.com", detail.MentorEmail)
	assert.Equal(t, "mentee@example.com", detail.MenteeEmail)
}

func TestMatchGetNonParticipant(t *testing.T) {
	repo := &mockMatchRepo{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusPending},
	}}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	_, err := svc.Get(context.Background(), "m1", "stranger", false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestMatchRespondAccept(t *testing.T) {
	repo := &mockMatchRepo{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusPending},
	}}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	detail, err := svc.Respond(context.Background(), "m1", "mentor-1", models.RespondMatchRequest{Action: models.RespondActionAccept})
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusAccepted, detail.Status)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionMatchRespond, repo.auditLogs[0].Action)
}

func TestMatchRespondReject(t *testing.T) {
	repo := &mockMatchRepo{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusPending},
	}}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	detail, err := svc.Respond(context.Background(), "m1", "mentor-1", models.RespondMatchRequest{Action: models.RespondActionReject})
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusRejected, detail.Status)
}

func TestMatchRespondOnlyMentor(t *testing.T) {
	repo := &mockMatchRepo{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusPending},
	}}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	_, err := svc.Respond(context.Background(), "m1", "mentee-1", models.RespondMatchRequest{Action: models.RespondActionAccept})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestMatchRespondNotPending(t *testing.T) {
	repo := &mockMatchRepo{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusAccepted},
	}}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	_, err := svc.Respond(context.Background(), "m1", "mentor-1", models.RespondMatchRequest{Action: models.RespondActionAccept})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestMatchCompleteByEitherParticipant(t *testing.T) {
	for _, caller := range []string{"mentor-1", "mentee-1"} {
		repo := &mockMatchRepo{detail: &models.MatchDetail{
			Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusAccepted},
		}}
		svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

		detail, err := svc.Complete(context.Background(), "m1", caller)
		require.NoError(t, err)
		assert.Equal(t, models.MatchStatusCompleted, detail.Status)
	}
}

func TestMatchCompleteLegacyActive(t *testing.T) {
	repo := &mockMatchRepo{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusActive},
	}}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	detail, err := svc.Complete(context.Background(), "m1", "mentor-1")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, detail.Status)
}

func TestMatchCompletePendingRejected(t *testing.T) {
	repo := &mockMatchRepo{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusPending},
	}}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	_, err := svc.Complete(context.Background(), "m1", "mentor-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestMatchCancelPending(t *testing.T) {
	repo := &mockMatchRepo{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusPending},
	}}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	err := svc.Cancel(context.Background(), "m1", "mentee-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, repo.deleted)
}

func TestMatchCancelOnlyMentee(t *testing.T) {
	repo := &mockMatchRepo{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusPending},
	}}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	err := svc.Cancel(context.Background(), "m1", "mentor-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestMatchCancelAfterResponse(t *testing.T) {
	repo := &mockMatchRepo{detail: &models.MatchDetail{
		Match: models.Match{ID: "m1", MentorID: "mentor-1", MenteeID: "mentee-1", Status: models.MatchStatusAccepted},
	}}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	err := svc.Cancel(context.Background(), "m1", "mentee-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestMatchListRejectsUnknownStatus(t *testing.T) {
	svc := newMatchService(&mockMatchRepo{}, activeMentorLookup(), &mockCVLookup{})

	bogus := models.MatchStatus("paused")
	_, _, err := svc.List(context.Background(), models.MatchFilter{UserID: "u1", Role: models.MatchRoleMentee, Status: &bogus})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMatchListRedactsPendingRows(t *testing.T) {
	repo := &mockMatchRepo{
		listResult: []models.MatchDetail{
			{
				Match:       models.Match{ID: "m1", Status: models.MatchStatusPending},
				MentorEmail: "mentor@example.com",
			},
			{
				Match:       models.Match{ID: "m2", Status: models.MatchStatusCompleted},
				MentorEmail: "mentor@example.com",
			},
		},
		listTotal: 2,
	}
	svc := newMatchService(repo, activeMentorLookup(), &mockCVLookup{})

	matches, total, err := svc.List(context.Background(), models.MatchFilter{UserID: "u1", Role: models.MatchRoleMentee})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Empty(t, matches[0].MentorEmail)
	assert.Equal(t, "mentor@example.com", matches[1].MentorEmail)
}
