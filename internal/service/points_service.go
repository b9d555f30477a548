package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorhub/mentorhub-api/internal/models"
	appErrors "github.com/mentorhub/mentorhub-api/pkg/errors"
)

type pointsRepository interface {
	GetTotals(ctx context.Context, userID string) (*models.UserPoints, error)
	AddPoints(ctx context.Context, userID string, delta int, updatedAt time.Time) error
	InsertEvent(ctx context.Context, event *models.PointEvent) error
	CountEventsSince(ctx context.Context, userID string, action models.PointAction, since time.Time) (int, error)
}

type pointsAuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type leaderboardInvalidator interface {
	Invalidate(ctx context.Context) error
}

// awardRule pairs an action's base value with its full-value threshold
// per rolling window. A zero threshold means the action is uncapped.
type awardRule struct {
	base      int
	threshold int
}

var awardRules = map[models.PointAction]awardRule{
	models.PointActionPostCreated:  {base: models.AwardPostCreated, threshold: models.ThresholdPostCreated},
	models.PointActionComment:      {base: models.AwardComment, threshold: models.ThresholdComment},
	models.PointActionLikeReceived: {base: models.AwardLikeReceived, threshold: models.ThresholdLikeReceived},
	models.PointActionBlogFeatured: {base: models.AwardBlogFeatured, threshold: models.ThresholdBlogFeatured},
}

// PointsService computes and applies engagement point awards.
//
// Awards diminish inside a rolling window: full value up to the action's
// threshold, half value up to twice the threshold, nothing beyond that.
type PointsService struct {
	repo      pointsRepository
	audit     pointsAuditRepository
	cache     leaderboardInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	window    time.Duration
}

// NewPointsService constructs a PointsService.
func NewPointsService(repo pointsRepository, audit pointsAuditRepository, cache leaderboardInvalidator, validate *validator.Validate, logger *zap.Logger, window time.Duration) *PointsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if window <= 0 {
		window = time.Hour
	}
	return &PointsService{repo: repo, audit: audit, cache: cache, validator: validate, logger: logger, window: window}
}

// Award applies the action's point value to the user, subject to the
// diminishing-returns rule, and returns the points actually granted.
func (s *PointsService) Award(ctx context.Context, userID string, action models.PointAction) (int, error) {
	rule, ok := awardRules[action]
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrValidation, "unknown point action")
	}

	now := time.Now().UTC()
	granted := rule.base

	if rule.threshold > 0 {
		count, err := s.repo.CountEventsSince(ctx, userID, action, now.Add(-s.window))
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count recent events")
		}
		switch {
		case count >= 2*rule.threshold:
			granted = 0
		case count >= rule.threshold:
			granted = rule.base / 2
		}
	}

	event := &models.PointEvent{UserID: userID, Action: action, Points: granted, CreatedAt: now}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record point event")
	}

	if granted != 0 {
		if err := s.repo.AddPoints(ctx, userID, granted, now); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply points")
		}
		s.invalidateLeaderboard(ctx)
	}

	s.logger.Debug("points awarded",
		zap.String("user_id", userID),
		zap.String("action", string(action)),
		zap.Int("points", granted))

	return granted, nil
}

// GetUserPoints returns the user's total, dense rank and tier. Users who
// never earned points report a zero total in the bronze tier.
func (s *PointsService) GetUserPoints(ctx context.Context, userID string) (*models.UserPoints, error) {
	points, err := s.repo.GetTotals(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.UserPoints{UserID: userID, Tier: models.TierForTotal(0)}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load points")
	}
	points.Tier = models.TierForTotal(points.Total)
	return points, nil
}

// Adjust applies an administrative delta outside the award rules.
func (s *PointsService) Adjust(ctx context.Context, adminID string, req models.AdjustPointsRequest) (*models.UserPoints, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid adjustment payload")
	}

	now := time.Now().UTC()
	event := &models.PointEvent{UserID: req.UserID, Action: models.PointActionAdjustment, Points: req.Delta, CreatedAt: now}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record adjustment event")
	}
	if err := s.repo.AddPoints(ctx, req.UserID, req.Delta, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply adjustment")
	}
	s.invalidateLeaderboard(ctx)

	values, _ := json.Marshal(map[string]interface{}{"delta": req.Delta, "reason": req.Reason})
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &adminID,
		Action:     models.AuditActionPointsAdjust,
		Resource:   "points",
		ResourceID: &req.UserID,
		NewValues:  values,
	}); err != nil {
		s.logger.Warn("failed to record adjustment audit log", zap.Error(err))
	}

	return s.GetUserPoints(ctx, req.UserID)
}

func (s *PointsService) invalidateLeaderboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate leaderboard cache", zap.Error(err))
	}
}
