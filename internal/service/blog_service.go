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

type blogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	FindByID(ctx context.Context, id, viewerID string) (*models.BlogDetail, error)
	List(ctx context.Context, filter models.BlogFilter, viewerID string) ([]models.BlogDetail, int, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id string) error
	SetFeatured(ctx context.Context, id string, featured bool, at time.Time) error
	ListComments(ctx context.Context, blogID string) ([]models.BlogComment, error)
	CreateComment(ctx context.Context, comment *models.BlogComment) error
	FindComment(ctx context.Context, id string) (*models.BlogComment, error)
	DeleteComment(ctx context.Context, id string) error
	HasLiked(ctx context.Context, blogID, userID string) (bool, error)
	AddLike(ctx context.Context, blogID, userID string) error
	RemoveLike(ctx context.Context, blogID, userID string) error
}

type pointsAwarder interface {
	Award(ctx context.Context, userID string, action models.PointAction) (int, error)
}

type blogAuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// BlogService manages community blogs, comments and likes, and feeds the
// points engine on engagement events.
type BlogService struct {
	repo      blogRepository
	points    pointsAwarder
	audit     blogAuditRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBlogService constructs a BlogService.
func NewBlogService(repo blogRepository, points pointsAwarder, audit blogAuditRepository, validate *validator.Validate, logger *zap.Logger) *BlogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BlogService{repo: repo, points: points, audit: audit, validator: validate, logger: logger}
}

// Create publishes a blog and awards authoring points.
func (s *BlogService) Create(ctx context.Context, authorID string, req models.UpsertBlogRequest) (*models.BlogDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid blog payload")
	}

	blog := &models.Blog{AuthorID: authorID, Title: req.Title, Content: req.Content}
	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create blog")
	}

	s.award(ctx, authorID, models.PointActionPostCreated)

	return s.Get(ctx, blog.ID, authorID)
}

// Get returns a blog with the viewer's like state.
func (s *BlogService) Get(ctx context.Context, id, viewerID string) (*models.BlogDetail, error) {
	detail, err := s.repo.FindByID(ctx, id, viewerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "blog not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blog")
	}
	return detail, nil
}

// List returns blogs matching the filter.
func (s *BlogService) List(ctx context.Context, filter models.BlogFilter, viewerID string) ([]models.BlogDetail, int, error) {
	blogs, total, err := s.repo.List(ctx, filter, viewerID)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blogs")
	}
	return blogs, total, nil
}

// Update edits a blog. Only the author or an admin may edit.
func (s *BlogService) Update(ctx context.Context, id, callerID string, isAdmin bool, req models.UpsertBlogRequest) (*models.BlogDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid blog payload")
	}

	detail, err := s.Get(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && detail.AuthorID != callerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot edit another user's blog")
	}

	blog := detail.Blog
	blog.Title = req.Title
	blog.Content = req.Content
	if err := s.repo.Update(ctx, &blog); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update blog")
	}

	return s.Get(ctx, id, callerID)
}

// Delete removes a blog. Only the author or an admin may delete.
func (s *BlogService) Delete(ctx context.Context, id, callerID string, isAdmin bool) error {
	detail, err := s.Get(ctx, id, callerID)
	if err != nil {
		return err
	}
	if !isAdmin && detail.AuthorID != callerID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete another user's blog")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete blog")
	}
	return nil
}

// Feature toggles a blog's featured flag. Featuring awards bonus points to
// the author; unfeaturing never claws points back.
func (s *BlogService) Feature(ctx context.Context, id, adminID string, req models.FeatureBlogRequest) (*models.BlogDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feature payload")
	}

	detail, err := s.Get(ctx, id, adminID)
	if err != nil {
		return nil, err
	}

	featured := *req.Featured
	if featured == detail.Featured {
		return detail, nil
	}

	if err := s.repo.SetFeatured(ctx, id, featured, time.Now().UTC()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to feature blog")
	}

	if featured {
		s.award(ctx, detail.AuthorID, models.PointActionBlogFeatured)
	}

	values := []byte(`{"featured":false}`)
	if featured {
		values = []byte(`{"featured":true}`)
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &adminID,
		Action:     models.AuditActionBlogFeature,
		Resource:   "blog",
		ResourceID: &id,
		NewValues:  values,
	}); err != nil {
		s.logger.Warn("failed to record feature audit log", zap.Error(err))
	}

	return s.Get(ctx, id, adminID)
}

// ListComments returns a blog's comments, oldest first.
func (s *BlogService) ListComments(ctx context.Context, blogID, viewerID string) ([]models.BlogComment, error) {
	if _, err := s.Get(ctx, blogID, viewerID); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, blogID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comments")
	}
	return comments, nil
}

// Comment attaches a comment and awards commenting points.
func (s *BlogService) Comment(ctx context.Context, blogID, authorID string, req models.CreateCommentRequest) (*models.BlogComment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload")
	}

	if _, err := s.Get(ctx, blogID, authorID); err != nil {
		return nil, err
	}

	comment := &models.BlogComment{BlogID: blogID, AuthorID: authorID, Content: req.Content}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create comment")
	}

	s.award(ctx, authorID, models.PointActionComment)

	created, err := s.repo.FindComment(ctx, comment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load comment")
	}
	return created, nil
}

// DeleteComment removes a comment. The comment author, the blog author and
// admins may delete.
func (s *BlogService) DeleteComment(ctx context.Context, commentID, callerID string, isAdmin bool) error {
	comment, err := s.repo.FindComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "comment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load comment")
	}

	if !isAdmin && comment.AuthorID != callerID {
		blog, err := s.Get(ctx, comment.BlogID, callerID)
		if err != nil {
			return err
		}
		if blog.AuthorID != callerID {
			return appErrors.Clone(appErrors.ErrForbidden, "cannot delete this comment")
		}
	}

	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete comment")
	}
	return nil
}

// Like records the caller's like and awards points to the blog's author.
// Liking twice is a no-op.
func (s *BlogService) Like(ctx context.Context, blogID, userID string) (*models.BlogDetail, error) {
	detail, err := s.Get(ctx, blogID, userID)
	if err != nil {
		return nil, err
	}

	liked, err := s.repo.HasLiked(ctx, blogID, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check like")
	}
	if liked {
		return detail, nil
	}

	if err := s.repo.AddLike(ctx, blogID, userID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to like blog")
	}

	if detail.AuthorID != userID {
		s.award(ctx, detail.AuthorID, models.PointActionLikeReceived)
	}

	return s.Get(ctx, blogID, userID)
}

// Unlike removes the caller's like. Points already granted stay granted.
func (s *BlogService) Unlike(ctx context.Context, blogID, userID string) (*models.BlogDetail, error) {
	if _, err := s.Get(ctx, blogID, userID); err != nil {
		return nil, err
	}

	liked, err := s.repo.HasLiked(ctx, blogID, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check like")
	}
	if liked {
		if err := s.repo.RemoveLike(ctx, blogID, userID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unlike blog")
		}
	}

	return s.Get(ctx, blogID, userID)
}

func (s *BlogService) award(ctx context.Context, userID string, action models.PointAction) {
	if s.points == nil {
		return
	}
	if _, err := s.points.Award(ctx, userID, action); err != nil {
		s.logger.Warn("failed to award points",
			zap.String("user_id", userID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}
