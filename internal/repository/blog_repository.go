package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mentorhub/mentorhub-api/internal/models"
)

// BlogRepository manages blogs, comments and likes.
type BlogRepository struct {
	db *sqlx.DB
}

// NewBlogRepository constructs a BlogRepository.
func NewBlogRepository(db *sqlx.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// Create inserts a new blog.
func (r *BlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if blog.ID == "" {
		blog.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = now
	}
	blog.UpdatedAt = now
	const query = `INSERT INTO blogs (id, author_id, title, content, featured, featured_at, like_count, created_at, updated_at)
        VALUES (:id, :author_id, :title, :content, :featured, :featured_at, :like_count, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, blog); err != nil {
		return fmt.Errorf("create blog: %w", err)
	}
	return nil
}

// FindByID fetches a blog with author name and the viewer's like state.
func (r *BlogRepository) FindByID(ctx context.Context, id, viewerID string) (*models.BlogDetail, error) {
	const query = `SELECT b.id, b.author_id, b.title, b.content, b.featured, b.featured_at, b.like_count, b.created_at, b.updated_at,
        u.full_name AS author_name,
        EXISTS(SELECT 1 FROM blog_likes l WHERE l.blog_id = b.id AND l.user_id = $2) AS liked
        FROM blogs b JOIN users u ON u.id = b.author_id WHERE b.id = $1`
	var detail models.BlogDetail
	if err := r.db.GetContext(ctx, &detail, query, id, viewerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return &detail, nil
}

// List returns blogs matching the filter.
func (r *BlogRepository) List(ctx context.Context, filter models.BlogFilter, viewerID string) ([]models.BlogDetail, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{viewerID}

	if filter.AuthorID != "" {
		conditions = append(conditions, fmt.Sprintf("b.author_id = $%d", len(args)+1))
		args = append(args, filter.AuthorID)
	}
	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("b.featured = $%d", len(args)+1))
		args = append(args, *filter.Featured)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(b.title) LIKE $%d OR LOWER(b.content) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base := fmt.Sprintf("FROM blogs b JOIN users u ON u.id = b.author_id WHERE %s", strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT b.id, b.author_id, b.title, b.content, b.featured, b.featured_at, b.like_count, b.created_at, b.updated_at,
        u.full_name AS author_name,
        EXISTS(SELECT 1 FROM blog_likes l WHERE l.blog_id = b.id AND l.user_id = $1) AS liked
        %s ORDER BY b.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)

	var blogs []models.BlogDetail
	if err := r.db.SelectContext(ctx, &blogs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}
	return blogs, total, nil
}

// Update modifies a blog's mutable fields.
func (r *BlogRepository) Update(ctx context.Context, blog *models.Blog) error {
	blog.UpdatedAt = time.Now().UTC()
	const query = `UPDATE blogs SET title = :title, content = :content, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, blog); err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	return nil
}

// Delete removes a blog with its comments and likes.
func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM blogs WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	return nil
}

// SetFeatured flips the featured flag.
func (r *BlogRepository) SetFeatured(ctx context.Context, id string, featured bool, at time.Time) error {
	const query = `UPDATE blogs SET featured = $2, featured_at = $3, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, featured, at); err != nil {
		return fmt.Errorf("feature blog: %w", err)
	}
	return nil
}

// ListComments returns a blog's comments, oldest first.
func (r *BlogRepository) ListComments(ctx context.Context, blogID string) ([]models.BlogComment, error) {
	const query = `SELECT c.id, c.blog_id, c.author_id, u.full_name AS author_name, c.content, c.created_at
        FROM blog_comments c JOIN users u ON u.id = c.author_id
        WHERE c.blog_id = $1 ORDER BY c.created_at ASC`
	var comments []models.BlogComment
	if err := r.db.SelectContext(ctx, &comments, query, blogID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// CreateComment inserts a comment.
func (r *BlogRepository) CreateComment(ctx context.Context, comment *models.BlogComment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO blog_comments (id, blog_id, author_id, content, created_at) VALUES (:id, :blog_id, :author_id, :content, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// FindComment fetches a single comment.
func (r *BlogRepository) FindComment(ctx context.Context, id string) (*models.BlogComment, error) {
	const query = `SELECT c.id, c.blog_id, c.author_id, u.full_name AS author_name, c.content, c.created_at
        FROM blog_comments c JOIN users u ON u.id = c.author_id WHERE c.id = $1`
	var comment models.BlogComment
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &comment, nil
}

// DeleteComment removes a comment.
func (r *BlogRepository) DeleteComment(ctx context.Context, id string) error {
	const query = `DELETE FROM blog_comments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// HasLiked reports whether the user already liked the blog.
func (r *BlogRepository) HasLiked(ctx context.Context, blogID, userID string) (bool, error) {
	const query = `SELECT 1 FROM blog_likes WHERE blog_id = $1 AND user_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, blogID, userID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check like: %w", err)
	}
	return true, nil
}

// AddLike records a like and bumps the counter.
func (r *BlogRepository) AddLike(ctx context.Context, blogID, userID string) error {
	const insert = `INSERT INTO blog_likes (blog_id, user_id, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, insert, blogID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("add like: %w", err)
	}
	const bump = `UPDATE blogs SET like_count = like_count + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, bump, blogID); err != nil {
		return fmt.Errorf("bump like count: %w", err)
	}
	return nil
}

// RemoveLike deletes a like and decrements the counter.
func (r *BlogRepository) RemoveLike(ctx context.Context, blogID, userID string) error {
	const remove = `DELETE FROM blog_likes WHERE blog_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, remove, blogID, userID); err != nil {
		return fmt.Errorf("remove like: %w", err)
	}
	const drop = `UPDATE blogs SET like_count = GREATEST(like_count - 1, 0) WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, drop, blogID); err != nil {
		return fmt.Errorf("drop like count: %w", err)
	}
	return nil
}
