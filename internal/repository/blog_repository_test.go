package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorhub-api/internal/models"
)

func blogDetailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "author_id", "title", "content", "featured", "featured_at",
		"like_count", "created_at", "updated_at", "author_name", "liked",
	})
}

func TestBlogCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlogRepository(db)

	mock.ExpectExec(`INSERT INTO blogs`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	blog := &models.Blog{AuthorID: "u1", Title: "Hello", Content: "World"}
	err := repo.Create(context.Background(), blog)
	require.NoError(t, err)
	assert.NotEmpty(t, blog.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogFindByIDWithViewerLike(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlogRepository(db)

	ts := time.Now().UTC()
	rows := blogDetailRows().AddRow("b1", "u1", "Hello", "World", false, nil, 3, ts, ts, "Author One", true)
	mock.ExpectQuery(`SELECT b\.id, .+ FROM blogs b JOIN users u ON u\.id = b\.author_id WHERE b\.id = \$1`).
		WithArgs("b1", "viewer-1").
		WillReturnRows(rows)

	detail, err := repo.FindByID(context.Background(), "b1", "viewer-1")
	require.NoError(t, err)
	assert.Equal(t, "Author One", detail.AuthorName)
	assert.True(t, detail.Liked)
	assert.Equal(t, 3, detail.LikeCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogListFeaturedFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlogRepository(db)

	ts := time.Now().UTC()
	rows := blogDetailRows().AddRow("b1", "u1", "Hello", "World", true, ts, 0, ts, ts, "Author One", false)
	mock.ExpectQuery(`SELECT b\.id, .+ ORDER BY b\.created_at DESC LIMIT 20 OFFSET 0`).
		WithArgs("viewer-1", true).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM blogs b`).
		WithArgs("viewer-1", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	featured := true
	blogs, total, err := repo.List(context.Background(), models.BlogFilter{Featured: &featured}, "viewer-1")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, blogs, 1)
	assert.True(t, blogs[0].Featured)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogSetFeatured(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlogRepository(db)

	mock.ExpectExec(`UPDATE blogs SET featured = \$2, featured_at = \$3, updated_at = \$3 WHERE id = \$1`).
		WithArgs("b1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetFeatured(context.Background(), "b1", true, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogAddLikeBumpsCounter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlogRepository(db)

	mock.ExpectExec(`INSERT INTO blog_likes`).
		WithArgs("b1", "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE blogs SET like_count = like_count \+ 1 WHERE id = \$1`).
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AddLike(context.Background(), "b1", "u1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogRemoveLikeFloorsAtZero(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlogRepository(db)

	mock.ExpectExec(`DELETE FROM blog_likes WHERE blog_id = \$1 AND user_id = \$2`).
		WithArgs("b1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE blogs SET like_count = GREATEST\(like_count - 1, 0\) WHERE id = \$1`).
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RemoveLike(context.Background(), "b1", "u1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogCommentLifecycle(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlogRepository(db)

	mock.ExpectExec(`INSERT INTO blog_comments`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	comment := &models.BlogComment{BlogID: "b1", AuthorID: "u1", Content: "Nice"}
	require.NoError(t, repo.CreateComment(context.Background(), comment))
	assert.NotEmpty(t, comment.ID)

	ts := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "blog_id", "author_id", "author_name", "content", "created_at"}).
		AddRow(comment.ID, "b1", "u1", "Author One", "Nice", ts)
	mock.ExpectQuery(`SELECT c\.id, .+ FROM blog_comments c JOIN users u ON u\.id = c\.author_id WHERE c\.id = \$1`).
		WithArgs(comment.ID).
		WillReturnRows(rows)

	found, err := repo.FindComment(context.Background(), comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Author One", found.AuthorName)

	mock.ExpectExec(`DELETE FROM blog_comments WHERE id = \$1`).
		WithArgs(comment.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteComment(context.Background(), comment.ID))
	require.NoError(t, mock.ExpectationsWereMet())
}
