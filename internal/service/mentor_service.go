package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorhub/mentorhub-api/internal/models"
	appErrors "github.com/mentorhub/mentorhub-api/pkg/errors"
)

type mentorRepository interface {
	Create(ctx context.Context, profile *models.MentorProfile) error
	Update(ctx context.Context, profile *models.MentorProfile) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.MentorProfileDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.MentorProfileDetail, error)
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
	Search(ctx context.Context, filter models.MentorFilter) ([]models.MentorProfileDetail, int, error)
}

const maxFlagBits = 1<<31 - 1

// MentorService manages mentor profiles and discovery search.
type MentorService struct {
	repo      mentorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMentorService constructs a MentorService.
func NewMentorService(repo mentorRepository, validate *validator.Validate, logger *zap.Logger) *MentorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MentorService{repo: repo, validator: validate, logger: logger}
}

// Create registers the caller's mentor profile. One profile per user.
func (s *MentorService) Create(ctx context.Context, userID string, req models.UpsertMentorProfileRequest) (*models.MentorProfileDetail, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUserID(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check mentor profile")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "mentor profile already exists")
	}

	profile := &models.MentorProfile{
		UserID:           userID,
		Headline:         req.Headline,
		Bio:              req.Bio,
		ExperienceYears:  req.ExperienceYears,
		MentoringLevels:  req.MentoringLevels,
		PaymentTypes:     req.PaymentTypes,
		ExpertiseDomains: req.ExpertiseDomains,
		Active:           true,
	}
	if req.Active != nil {
		profile.Active = *req.Active
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create mentor profile")
	}

	return s.repoDetail(ctx, profile.ID)
}

// Update modifies the caller's existing profile. Admins may update any.
func (s *MentorService) Update(ctx context.Context, id, callerID string, isAdmin bool, req models.UpsertMentorProfileRequest) (*models.MentorProfileDetail, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.repoDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && existing.UserID != callerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot modify another user's mentor profile")
	}

	profile := existing.MentorProfile
	profile.Headline = req.Headline
	profile.Bio = req.Bio
	profile.ExperienceYears = req.ExperienceYears
	profile.MentoringLevels = req.MentoringLevels
	profile.PaymentTypes = req.PaymentTypes
	profile.ExpertiseDomains = req.ExpertiseDomains
	if req.Active != nil {
		profile.Active = *req.Active
	}

	if err := s.repo.Update(ctx, &profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update mentor profile")
	}

	return s.repoDetail(ctx, id)
}

// Delete removes a mentor profile.
func (s *MentorService) Delete(ctx context.Context, id, callerID string, isAdmin bool) error {
	existing, err := s.repoDetail(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && existing.UserID != callerID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete another user's mentor profile")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete mentor profile")
	}
	return nil
}

// Get fetches a single profile by ID.
func (s *MentorService) Get(ctx context.Context, id string) (*models.MentorProfileDetail, error) {
	return s.repoDetail(ctx, id)
}

// GetByUser fetches the profile owned by the given user.
func (s *MentorService) GetByUser(ctx context.Context, userID string) (*models.MentorProfileDetail, error) {
	detail, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor profile")
	}
	return detail, nil
}

// Search lists active mentors matching the filter. Bitmask criteria match
// when the stored set and the requested set share at least one bit.
func (s *MentorService) Search(ctx context.Context, filter models.MentorFilter) ([]models.MentorProfileDetail, int, error) {
	if filter.MentoringLevels > maxFlagBits || filter.PaymentTypes > maxFlagBits || filter.ExpertiseDomains > maxFlagBits {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "flag filter out of range")
	}

	profiles, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search mentors")
	}
	return profiles, total, nil
}

func (s *MentorService) repoDetail(ctx context.Context, id string) (*models.MentorProfileDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor profile")
	}
	return detail, nil
}

func (s *MentorService) validateRequest(req models.UpsertMentorProfileRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentor profile payload")
	}
	return nil
}
