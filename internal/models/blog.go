package models

import "time"

// Blog is a community article authored by a user.
type Blog struct {
	ID         string     `db:"id" json:"id"`
	AuthorID   string     `db:"author_id" json:"author_id"`
	Title      string     `db:"title" json:"title"`
	Content    string     `db:"content" json:"content"`
	Featured   bool       `db:"featured" json:"featured"`
	FeaturedAt *time.Time `db:"featured_at" json:"featured_at,omitempty"`
	LikeCount  int        `db:"like_count" json:"like_count"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// BlogDetail joins author display fields and the caller's like state.
type BlogDetail struct {
	Blog
	AuthorName string `db:"author_name" json:"author_name"`
	Liked      bool   `db:"liked" json:"liked"`
}

// BlogComment is a comment attached to a blog.
type BlogComment struct {
	ID         string    `db:"id" json:"id"`
	BlogID     string    `db:"blog_id" json:"blog_id"`
	AuthorID   string    `db:"author_id" json:"author_id"`
	AuthorName string    `db:"author_name" json:"author_name"`
	Content    string    `db:"content" json:"content"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// UpsertBlogRequest carries the writable blog fields.
type UpsertBlogRequest struct {
	Title   string `json:"title" validate:"required,max=300"`
	Content string `json:"content" validate:"required"`
}

// CreateCommentRequest carries a new comment's body.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// FeatureBlogRequest toggles the featured flag.
type FeatureBlogRequest struct {
	Featured *bool `json:"featured" validate:"required"`
}

// BlogFilter captures list criteria for blogs.
type BlogFilter struct {
	AuthorID string
	Featured *bool
	Search   string
	Page     int
	PageSize int
}
