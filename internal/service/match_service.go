package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorhub/mentorhub-api/internal/models"
	appErrors "github.com/mentorhub/mentorhub-api/pkg/errors"
)

type matchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	FindByID(ctx context.Context, id string) (*models.MatchDetail, error)
	List(ctx context.Context, filter models.MatchFilter) ([]models.MatchDetail, int, error)
	UpdateStatus(ctx context.Context, id string, status models.MatchStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	ExistsOpenBetween(ctx context.Context, mentorID, menteeID string) (bool, error)
}

type matchMentorRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.MentorProfileDetail, error)
}

type matchCVRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.CV, error)
}

type matchAuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// MatchService owns the mentorship match lifecycle.
//
// The lifecycle is pending -> accepted | rejected, and accepted -> completed.
// The legacy active value is accepted's synonym and shares its transitions.
// Rejected and completed are terminal.
type MatchService struct {
	repo      matchRepository
	mentors   matchMentorRepository
	cvs       matchCVRepository
	audit     matchAuditRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMatchService constructs a MatchService.
func NewMatchService(repo matchRepository, mentors matchMentorRepository, cvs matchCVRepository, audit matchAuditRepository, validate *validator.Validate, logger *zap.Logger) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MatchService{repo: repo, mentors: mentors, cvs: cvs, audit: audit, validator: validate, logger: logger}
}

// Create files a new pending mentorship request from the mentee.
func (s *MatchService) Create(ctx context.Context, menteeID string, req models.CreateMatchRequest) (*models.MatchDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid match payload")
	}

	if req.MentorID == menteeID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot request mentorship from yourself")
	}

	profile, err := s.mentors.FindByUserID(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	if !profile.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor is not accepting requests")
	}

	open, err := s.repo.ExistsOpenBetween(ctx, req.MentorID, menteeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing matches")
	}
	if open {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an open match with this mentor already exists")
	}

	if req.CVIncluded {
		if _, err := s.cvs.FindByUserID(ctx, menteeID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "no CV on file to attach")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check CV")
		}
	}

	match := &models.Match{
		MentorID:      req.MentorID,
		MenteeID:      menteeID,
		Status:        models.MatchStatusPending,
		Introduction:  req.Introduction,
		PreferredTime: req.PreferredTime,
		CVIncluded:    req.CVIncluded,
	}
	if err := s.repo.Create(ctx, match); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create match")
	}

	s.recordAudit(ctx, menteeID, models.AuditActionMatchCreate, match.ID, []byte(`{"status":"pending"}`))

	return s.Get(ctx, match.ID, menteeID, false)
}

// Get returns a match visible to the caller, with contact details redacted
// while the request is pending.
func (s *MatchService) Get(ctx context.Context, id, callerID string, isAdmin bool) (*models.MatchDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "match not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load match")
	}

	if !isAdmin && detail.MentorID != callerID && detail.MenteeID != callerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not a participant of this match")
	}

	redactContacts(detail)
	return detail, nil
}

// List returns the caller's matches from the requested role perspective.
func (s *MatchService) List(ctx context.Context, filter models.MatchFilter) ([]models.MatchDetail, int, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "unknown match status")
	}

	matches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list matches")
	}
	for i := range matches {
		redactContacts(&matches[i])
	}
	return matches, total, nil
}

// Respond applies the mentor's accept or reject decision to a pending match.
func (s *MatchService) Respond(ctx context.Context, id, mentorID string, req models.RespondMatchRequest) (*models.MatchDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid respond payload")
	}

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "match not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load match")
	}

	if detail.MentorID != mentorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the requested mentor can respond")
	}
	if detail.Status != models.MatchStatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "match is no longer pending")
	}

	next := models.MatchStatusAccepted
	if req.Action == models.RespondActionReject {
		next = models.MatchStatusRejected
	}

	if err := s.repo.UpdateStatus(ctx, id, next, time.Now().UTC()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update match")
	}

	s.recordAudit(ctx, mentorID, models.AuditActionMatchRespond, id, []byte(`{"status":"`+string(next)+`"}`))

	return s.Get(ctx, id, mentorID, false)
}

// Complete finishes an in-progress match. Either participant may complete.
func (s *MatchService) Complete(ctx context.Context, id, callerID string) (*models.MatchDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "match not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load match")
	}

	if detail.MentorID != callerID && detail.MenteeID != callerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not a participant of this match")
	}
	if !detail.Status.InProgress() {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only an in-progress match can be completed")
	}

	if err := s.repo.UpdateStatus(ctx, id, models.MatchStatusCompleted, time.Now().UTC()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete match")
	}

	s.recordAudit(ctx, callerID, models.AuditActionMatchComplete, id, []byte(`{"status":"completed"}`))

	return s.Get(ctx, id, callerID, false)
}

// Cancel withdraws a pending request. Only the mentee may cancel, and only
// before the mentor has responded.
func (s *MatchService) Cancel(ctx context.Context, id, menteeID string) error {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "match not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load match")
	}

	if detail.MenteeID != menteeID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the requesting mentee can cancel")
	}
	if detail.Status != models.MatchStatusPending {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "only a pending request can be cancelled")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel match")
	}

	s.recordAudit(ctx, menteeID, models.AuditActionMatchCancel, id, []byte(`{"status":"cancelled"}`))
	return nil
}

func (s *MatchService) recordAudit(ctx context.Context, actorID, action, matchID string, values []byte) {
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   "match",
		ResourceID: &matchID,
		NewValues:  values,
	}); err != nil {
		s.logger.Warn("failed to record match audit log", zap.Error(err))
	}
}

// redactContacts hides counterpart contact details until the mentor accepts.
func redactContacts(detail *models.MatchDetail) {
	if detail.Status.ContactVisible() {
		return
	}
	detail.MentorEmail = ""
	detail.MenteeEmail = ""
	detail.MentorLinkedInURL = ""
}
