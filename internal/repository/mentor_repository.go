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

// MentorRepository manages persistence for mentor profiles.
type MentorRepository struct {
	db *sqlx.DB
}

// NewMentorRepository constructs a MentorRepository.
func NewMentorRepository(db *sqlx.DB) *MentorRepository {
	return &MentorRepository{db: db}
}

const mentorDetailColumns = `p.id, p.user_id, p.headline, p.bio, p.experience_years, p.mentoring_levels, p.payment_types, p.expertise_domains, p.active, p.created_at, p.updated_at,
        u.full_name, u.linkedin_url`

const mentorDetailJoins = `FROM mentor_profiles p JOIN users u ON u.id = p.user_id`

// Create inserts a new mentor profile.
func (r *MentorRepository) Create(ctx context.Context, profile *models.MentorProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	const query = `INSERT INTO mentor_profiles (id, user_id, headline, bio, experience_years, mentoring_levels, payment_types, expertise_domains, active, created_at, updated_at)
        VALUES (:id, :user_id, :headline, :bio, :experience_years, :mentoring_levels, :payment_types, :expertise_domains, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create mentor profile: %w", err)
	}
	return nil
}

// Update modifies an existing mentor profile.
func (r *MentorRepository) Update(ctx context.Context, profile *models.MentorProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE mentor_profiles SET headline = :headline, bio = :bio, experience_years = :experience_years, mentoring_levels = :mentoring_levels, payment_types = :payment_types, expertise_domains = :expertise_domains, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("update mentor profile: %w", err)
	}
	return nil
}

// Delete removes a mentor profile.
func (r *MentorRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM mentor_profiles WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete mentor profile: %w", err)
	}
	return nil
}

// FindByID fetches a profile detail by profile ID.
func (r *MentorRepository) FindByID(ctx context.Context, id string) (*models.MentorProfileDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE p.id = $1", mentorDetailColumns, mentorDetailJoins)
	var detail models.MentorProfileDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mentor profile: %w", err)
	}
	return &detail, nil
}

// FindByUserID fetches a profile detail by owning user. sql.ErrNoRows is
// passed through so callers can treat absence as a legitimate result.
func (r *MentorRepository) FindByUserID(ctx context.Context, userID string) (*models.MentorProfileDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE p.user_id = $1", mentorDetailColumns, mentorDetailJoins)
	var detail models.MentorProfileDetail
	if err := r.db.GetContext(ctx, &detail, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mentor profile by user: %w", err)
	}
	return &detail, nil
}

// ExistsByUserID checks whether the user already has a profile.
func (r *MentorRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT 1 FROM mentor_profiles WHERE user_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check mentor profile: %w", err)
	}
	return true, nil
}

// Search returns active mentor profiles matching the filter. Bitmask
// filters match when the stored set overlaps the requested set.
func (r *MentorRepository) Search(ctx context.Context, filter models.MentorFilter) ([]models.MentorProfileDetail, int, error) {
	conditions := []string{"p.active = TRUE"}
	var args []interface{}

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.full_name) LIKE $%d OR LOWER(p.headline) LIKE $%d OR LOWER(p.bio) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
	}
	if filter.MentoringLevels != 0 {
		conditions = append(conditions, fmt.Sprintf("(p.mentoring_levels & $%d) <> 0", len(args)+1))
		args = append(args, filter.MentoringLevels)
	}
	if filter.PaymentTypes != 0 {
		conditions = append(conditions, fmt.Sprintf("(p.payment_types & $%d) <> 0", len(args)+1))
		args = append(args, filter.PaymentTypes)
	}
	if filter.ExpertiseDomains != 0 {
		conditions = append(conditions, fmt.Sprintf("(p.expertise_domains & $%d) <> 0", len(args)+1))
		args = append(args, filter.ExpertiseDomains)
	}

	base := fmt.Sprintf("%s WHERE %s", mentorDetailJoins, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY p.created_at DESC LIMIT %d OFFSET %d", mentorDetailColumns, base, size, offset)
	var profiles []models.MentorProfileDetail
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search mentors: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count mentors: %w", err)
	}
	return profiles, total, nil
}
