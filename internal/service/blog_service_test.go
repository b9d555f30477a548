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

type mockBlogRepo struct {
	detail      *models.BlogDetail
	findErr     error
	comments    map[string]*models.BlogComment
	liked       bool
	likeAdded   bool
	likeRemoved bool
	featuredSet *bool
	deleted     []string
	auditLogs   []*models.AuditLog
}

func (m *mockBlogRepo) Create(ctx context.Context, blog *models.Blog) error {
	blog.ID = "b1"
	if m.detail == nil {
		m.detail = &models.BlogDetail{Blog: *blog}
	}
	return nil
}

func (m *mockBlogRepo) FindByID(ctx context.Context, id, viewerID string) (*models.BlogDetail, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.detail == nil {
		return nil, sql.ErrNoRows
	}
	detail := *m.detail
	return &detail, nil
}

func (m *mockBlogRepo) List(ctx context.Context, filter models.BlogFilter, viewerID string) ([]models.BlogDetail, int, error) {
	if m.detail == nil {
		return nil, 0, nil
	}
	return []models.BlogDetail{*m.detail}, 1, nil
}

func (m *mockBlogRepo) Update(ctx context.Context, blog *models.Blog) error {
	m.detail.Blog = *blog
	return nil
}

func (m *mockBlogRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockBlogRepo) SetFeatured(ctx context.Context, id string, featured bool, at time.Time) error {
	m.featuredSet = &featured
	m.detail.Featured = featured
	return nil
}

func (m *mockBlogRepo) ListComments(ctx context.Context, blogID string) ([]models.BlogComment, error) {
	out := make([]models.BlogComment, 0, len(m.comments))
	for _, c := range m.comments {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockBlogRepo) CreateComment(ctx context.Context, comment *models.BlogComment) error {
	comment.ID = "c1"
	if m.comments == nil {
		m.comments = make(map[string]*models.BlogComment)
	}
	m.comments[comment.ID] = comment
	return nil
}

func (m *mockBlogRepo) FindComment(ctx context.Context, id string) (*models.BlogComment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (m *mockBlogRepo) DeleteComment(ctx context.Context, id string) error {
	delete(m.comments, id)
	return nil
}

func (m *mockBlogRepo) HasLiked(ctx context.Context, blogID, userID string) (bool, error) {
	return m.liked, nil
}

func (m *mockBlogRepo) AddLike(ctx context.Context, blogID, userID string) error {
	m.likeAdded = true
	return nil
}

func (m *mockBlogRepo) RemoveLike(ctx context.Context, blogID, userID string) error {
	m.likeRemoved = true
	return nil
}

func (m *mockBlogRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

type mockAwarder struct {
	awards []models.PointAction
	users  []string
}

func (m *mockAwarder) Award(ctx context.Context, userID string, action models.PointAction) (int, error) {
	m.awards = append(m.awards, action)
	m.users = append(m.users, userID)
	return 1, nil
}

func newBlogService(repo *mockBlogRepo, points *mockAwarder) *BlogService {
	return NewBlogService(repo, points, repo, validator.New(), zap.NewNop())
}

func TestBlogCreateAwardsAuthor(t *testing.T) {
	repo := &mockBlogRepo{}
	points := &mockAwarder{}
	svc := newBlogService(repo, points)

	detail, err := svc.Create(context.Background(), "author-1", models.UpsertBlogRequest{Title: "Hello", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, "author-1", detail.AuthorID)
	require.Len(t, points.awards, 1)
	assert.Equal(t, models.PointActionPostCreated, points.awards[0])
}

func TestBlogUpdateByStranger(t *testing.T) {
	repo := &mockBlogRepo{detail: &models.BlogDetail{Blog: models.Blog{ID: "b1", AuthorID: "author-1"}}}
	svc := newBlogService(repo, &mockAwarder{})

	_, err := svc.Update(context.Background(), "b1", "stranger", false, models.UpsertBlogRequest{Title: "T", Content: "C"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestBlogUpdateByAdmin(t *testing.T) {
	repo := &mockBlogRepo{detail: &models.BlogDetail{Blog: models.Blog{ID: "b1", AuthorID: "author-1", Title: "Old"}}}
	svc := newBlogService(repo, &mockAwarder{})

	detail, err := svc.Update(context.Background(), "b1", "admin-1", true, models.UpsertBlogRequest{Title: "New", Content: "Body"})
	require.NoError(t, err)
	assert.Equal(t, "New", detail.Title)
}

func TestBlogDeleteByAuthor(t *testing.T) {
	repo := &mockBlogRepo{detail: &models.BlogDetail{Blog: models.Blog{ID: "b1", AuthorID: "author-1"}}}
	svc := newBlogService(repo, &mockAwarder{})

	require.NoError(t, svc.Delete(context.Background(), "b1", "author-1", false))
	assert.Equal(t, []string{"b1"}, repo.deleted)
}

func TestBlogFeatureAwardsOnce(t *testing.T) {
	repo := &mockBlogRepo{detail: &models.BlogDetail{Blog: models.Blog{ID: "b1", AuthorID: "author-1"}}}
	points := &mockAwarder{}
	svc := newBlogService(repo, points)

	featured := true
	detail, err := svc.Feature(context.Background(), "b1", "admin-1", models.FeatureBlogRequest{Featured: &featured})
	require.NoError(t, err)
	assert.True(t, detail.Featured)
	require.Len(t, points.awards, 1)
	assert.Equal(t, models.PointActionBlogFeatured, points.awards[0])
	assert.Equal(t, "author-1", points.users[0])
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionBlogFeature, repo.auditLogs[0].Action)

	// Featuring an already featured blog is a no-op.
	_, err = svc.Feature(context.Background(), "b1", "admin-1", models.FeatureBlogRequest{Featured: &featured})
	require.NoError(t, err)
	assert.Len(t, points.awards, 1)
}

func TestBlogUnfeatureNoClawback(t *testing.T) {
	repo := &mockBlogRepo{detail: &models.BlogDetail{Blog: models.Blog{ID: "b1", AuthorID: "author-1", Featured: true}}}
	points := &mockAwarder{}
	svc := newBlogService(repo, points)

	featured := false
	detail, err := svc.Feature(context.Background(), "b1", "admin-1", models.FeatureBlogRequest{Featured: &featured})
	require.NoError(t, err)
	assert.False(t, detail.Featured)
	assert.Empty(t, points.awards)
}

func TestBlogCommentAwardsCommenter(t *testing.T) {
	repo := &mockBlogRepo{detail: &models.BlogDetail{Blog: models.Blog{ID: "b1", AuthorID: "author-1"}}}
	points := &mockAwarder{}
	svc := newBlogService(repo, points)

	comment, err := svc.Comment(context.Background(), "b1", "reader-1", models.CreateCommentRequest{Content: "Nice post"})
	require.NoError(t, err)
	assert.Equal(t, "reader-1", comment.AuthorID)
	require.Len(t, points.awards, 1)
	assert.Equal(t, models.PointActionComment, points.awards[0])
	assert.Equal(t, "reader-1", points.users[0])
}

func TestBlogDeleteCommentPermissions(t *testing.T) {
	newRepo := func() *mockBlogRepo {
		return &mockBlogRepo{
			detail: &models.BlogDetail{Blog: models.Blog{ID: "b1", AuthorID: "author-1"}},
			comments: map[string]*models.BlogComment{
				"c1": {ID: "c1", BlogID: "b1", AuthorID: "reader-1"},
			},
		}
	}

	// Comment author deletes their own comment.
	svc := newBlogService(newRepo(), &mockAwarder{})
	require.NoError(t, svc.DeleteComment(context.Background(), "c1", "reader-1", false))

	// Blog author moderates comments on their blog.
	svc = newBlogService(newRepo(), &mockAwarder{})
	require.NoError(t, svc.DeleteComment(context.Background(), "c1", "author-1", false))

	// Anyone else is rejected.
	svc = newBlogService(newRepo(), &mockAwarder{})
	err := svc.DeleteComment(context.Background(), "c1", "stranger", false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestBlogLikeAwardsAuthor(t *testing.T) {
	repo := &mockBlogRepo{detail: &models.BlogDetail{Blog: models.Blog{ID: "b1", AuthorID: "author-1"}}}
	points := &mockAwarder{}
	svc := newBlogService(repo, points)

	_, err := svc.Like(context.Background(), "b1", "reader-1")
	require.NoError(t, err)
	assert.True(t, repo.likeAdded)
	require.Len(t, points.awards, 1)
	assert.Equal(t, models.PointActionLikeReceived, points.awards[0])
	assert.Equal(t, "author-1", points.users[0])
}

func TestBlogLikeIdempotent(t *testing.T) {
	repo := &mockBlogRepo{detail: &models.BlogDetail{Blog: models.Blog{ID: "b1", AuthorID: "author-1"}}, liked: true}
	points := &mockAwarder{}
	svc := newBlogService(repo, points)

	_, err := svc.Like(context.Background(), "b1", "reader-1")
	require.NoError(t, err)
	assert.False(t, repo.likeAdded)
	assert.Empty(t, points.awards)
}

func TestBlogSelfLikeNoPoints(t *testing.T) {
	repo := &mockBlogRepo{detail: &models.BlogDetail{Blog: models.Blog{ID: "b1", AuthorID: "author-1"}}}
	points := &mockAwarder{}
	svc := newBlogService(repo, points)

	_, err := svc.Like(context.Background(), "b1", "author-1")
	require.NoError(t, err)
	assert.True(t, repo.likeAdded)
	assert.Empty(t, points.awards)
}

func TestBlogUnlike(t *testing.T) {
	repo := &mockBlogRepo{detail: &models.BlogDetail{Blog: models.Blog{ID: "b1", AuthorID: "author-1"}}, liked: true}
	svc := newBlogService(repo, &mockAwarder{})

	_, err := svc.Unlike(context.Background(), "b1", "reader-1")
	require.NoError(t, err)
	assert.True(t, repo.likeRemoved)
}

func TestBlogGetNotFound(t *testing.T) {
	svc := newBlogService(&mockBlogRepo{}, &mockAwarder{})

	_, err := svc.Get(context.Background(), "missing", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
