package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mentorhub/mentorhub-api/internal/models"
)

// CVRepository manages CV metadata. One CV per user; uploads replace.
type CVRepository struct {
	db *sqlx.DB
}

// NewCVRepository constructs a CVRepository.
func NewCVRepository(db *sqlx.DB) *CVRepository {
	return &CVRepository{db: db}
}

// Upsert stores CV metadata, replacing any prior record for the user.
func (r *CVRepository) Upsert(ctx context.Context, cv *models.CV) error {
	if cv.ID == "" {
		cv.ID = uuid.NewString()
	}
	if cv.UploadedAt.IsZero() {
		cv.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO cvs (id, user_id, file_name, storage_key, size_bytes, mime_type, uploaded_at)
        VALUES (:id, :user_id, :file_name, :storage_key, :size_bytes, :mime_type, :uploaded_at)
        ON CONFLICT (user_id) DO UPDATE SET id = :id, file_name = :file_name, storage_key = :storage_key, size_bytes = :size_bytes, mime_type = :mime_type, uploaded_at = :uploaded_at`
	if _, err := r.db.NamedExecContext(ctx, query, cv); err != nil {
		return fmt.Errorf("upsert cv: %w", err)
	}
	return nil
}

// FindByUserID returns the user's CV metadata. sql.ErrNoRows means absence.
func (r *CVRepository) FindByUserID(ctx context.Context, userID string) (*models.CV, error) {
	const query = `SELECT id, user_id, file_name, storage_key, size_bytes, mime_type, uploaded_at FROM cvs WHERE user_id = $1 LIMIT 1`
	var cv models.CV
	if err := r.db.GetContext(ctx, &cv, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find cv: %w", err)
	}
	return &cv, nil
}

// DeleteByUserID removes the user's CV metadata.
func (r *CVRepository) DeleteByUserID(ctx context.Context, userID string) error {
	const query = `DELETE FROM cvs WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete cv: %w", err)
	}
	return nil
}
