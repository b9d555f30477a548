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

// PointsRepository manages point totals, award events and the leaderboard.
type PointsRepository struct {
	db *sqlx.DB
}

// NewPointsRepository constructs a PointsRepository.
func NewPointsRepository(db *sqlx.DB) *PointsRepository {
	return &PointsRepository{db: db}
}

// GetTotals returns the user's total and dense rank over all totals. Users
// without a row rank below every user that has earned points.
func (r *PointsRepository) GetTotals(ctx context.Context, userID string) (*models.UserPoints, error) {
	const query = `SELECT user_id, total, rank, updated_at FROM (
        SELECT user_id, total, DENSE_RANK() OVER (ORDER BY total DESC) AS rank, updated_at
        FROM user_points) ranked WHERE user_id = $1`
	var points models.UserPoints
	if err := r.db.GetContext(ctx, &points, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get user points: %w", err)
	}
	return &points, nil
}

// AddPoints applies an additive delta to the user's total, creating the row
// on first award. Last write wins; no optimistic locking.
func (r *PointsRepository) AddPoints(ctx context.Context, userID string, delta int, updatedAt time.Time) error {
	const query = `INSERT INTO user_points (user_id, total, updated_at) VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET total = user_points.total + $2, updated_at = $3`
	if _, err := r.db.ExecContext(ctx, query, userID, delta, updatedAt); err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	return nil
}

// InsertEvent records a single award event.
func (r *PointsRepository) InsertEvent(ctx context.Context, event *models.PointEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO point_events (id, user_id, action, points, created_at) VALUES (:id, :user_id, :action, :points, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("insert point event: %w", err)
	}
	return nil
}

// CountEventsSince counts the user's events for an action inside the
// rolling window used by the diminishing-returns rule.
func (r *PointsRepository) CountEventsSince(ctx context.Context, userID string, action models.PointAction, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM point_events WHERE user_id = $1 AND action = $2 AND created_at >= $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, action, since); err != nil {
		return 0, fmt.Errorf("count point events: %w", err)
	}
	return count, nil
}

// Leaderboard returns ordered totals with user names. The requested limit is
// honored as-is so bulk readers such as the export renderer get every row
// they ask for; public pagination bounds are enforced by the callers.
func (r *PointsRepository) Leaderboard(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT p.user_id, u.full_name, p.total, DENSE_RANK() OVER (ORDER BY p.total DESC) AS rank
        FROM user_points p JOIN users u ON u.id = p.user_id
        WHERE u.active = TRUE ORDER BY p.total DESC, u.full_name ASC LIMIT %d OFFSET %d`, limit, offset)

	var entries []models.LeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, 0, fmt.Errorf("load leaderboard: %w", err)
	}

	const countQuery = `SELECT COUNT(*) FROM user_points p JOIN users u ON u.id = p.user_id WHERE u.active = TRUE`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, fmt.Errorf("count leaderboard: %w", err)
	}
	return entries, total, nil
}
