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

// MatchRepository manages persistence for mentorship matches.
type MatchRepository struct {
	db *sqlx.DB
}

// NewMatchRepository constructs a MatchRepository.
func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchDetailColumns = `m.id, m.mentor_id, m.mentee_id, m.status, m.introduction, m.preferred_time, m.cv_included, m.created_at, m.updated_at,
        mentor.full_name AS mentor_name, mentee.full_name AS mentee_name,
        mentor.email AS mentor_email, mentee.email AS mentee_email, mentor.linkedin_url AS mentor_linkedin_url`

const matchDetailJoins = `FROM matches m
        JOIN users mentor ON mentor.id = m.mentor_id
        JOIN users mentee ON mentee.id = m.mentee_id`

// Create inserts a new match in the pending state.
func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if match.CreatedAt.IsZero() {
		match.CreatedAt = now
	}
	match.UpdatedAt = now
	const query = `INSERT INTO matches (id, mentor_id, mentee_id, status, introduction, preferred_time, cv_included, created_at, updated_at)
        VALUES (:id, :mentor_id, :mentee_id, :status, :introduction, :preferred_time, :cv_included, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, match); err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

// FindByID fetches a match detail by ID.
func (r *MatchRepository) FindByID(ctx context.Context, id string) (*models.MatchDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE m.id = $1", matchDetailColumns, matchDetailJoins)
	var detail models.MatchDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find match by id: %w", err)
	}
	return &detail, nil
}

// List returns the user's matches viewed from the given role perspective.
func (r *MatchRepository) List(ctx context.Context, filter models.MatchFilter) ([]models.MatchDetail, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	switch filter.Role {
	case models.MatchRoleMentor:
		conditions = append(conditions, fmt.Sprintf("m.mentor_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	default:
		conditions = append(conditions, fmt.Sprintf("m.mentee_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}

	if filter.Status != nil {
		if filter.Status.InProgress() {
			// accepted and active are a single observable bucket.
			conditions = append(conditions, fmt.Sprintf("m.status IN ($%d, $%d)", len(args)+1, len(args)+2))
			args = append(args, models.MatchStatusAccepted, models.MatchStatusActive)
		} else {
			conditions = append(conditions, fmt.Sprintf("m.status = $%d", len(args)+1))
			args = append(args, *filter.Status)
		}
	}

	base := fmt.Sprintf("%s WHERE %s", matchDetailJoins, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY m.created_at DESC LIMIT %d OFFSET %d", matchDetailColumns, base, size, offset)
	var matches []models.MatchDetail
	if err := r.db.SelectContext(ctx, &matches, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list matches: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count matches: %w", err)
	}
	return matches, total, nil
}

// UpdateStatus moves a match to the given status.
func (r *MatchRepository) UpdateStatus(ctx context.Context, id string, status models.MatchStatus, updatedAt time.Time) error {
	const query = `UPDATE matches SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, updatedAt); err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	return nil
}

// Delete removes a match record.
func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM matches WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}

// ExistsOpenBetween reports whether a non-terminal match already links the
// mentee to the mentor.
func (r *MatchRepository) ExistsOpenBetween(ctx context.Context, mentorID, menteeID string) (bool, error) {
	const query = `SELECT 1 FROM matches WHERE mentor_id = $1 AND mentee_id = $2 AND status NOT IN ($3, $4) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, mentorID, menteeID, models.MatchStatusRejected, models.MatchStatusCompleted); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check open match: %w", err)
	}
	return true, nil
}
