package models

import "time"

// PointAction identifies the engagement event that earned points.
type PointAction string

const (
	PointActionPostCreated  PointAction = "post_created"
	PointActionComment      PointAction = "comment_created"
	PointActionLikeReceived PointAction = "like_received"
	PointActionBlogFeatured PointAction = "blog_featured"
	PointActionAdjustment   PointAction = "admin_adjustment"
)

// Base award values per action.
const (
	AwardPostCreated  = 10
	AwardComment      = 5
	AwardLikeReceived = 2
	AwardBlogFeatured = 25
)

// Diminishing-returns thresholds: events per rolling window at full value.
// Past the threshold the marginal award is halved, past twice the threshold
// it drops to zero. Zero means uncapped.
const (
	ThresholdPostCreated  = 3
	ThresholdComment      = 10
	ThresholdLikeReceived = 20
	ThresholdBlogFeatured = 0
)

// PointTier names the color tier for a point total.
type PointTier string

const (
	TierBronze   PointTier = "bronze"
	TierSilver   PointTier = "silver"
	TierGold     PointTier = "gold"
	TierPlatinum PointTier = "platinum"
)

// TierForTotal maps a point total onto its tier (thresholds 100/500/1000).
func TierForTotal(total int) PointTier {
	switch {
	case total >= 1000:
		return TierPlatinum
	case total >= 500:
		return TierGold
	case total >= 100:
		return TierSilver
	default:
		return TierBronze
	}
}

// UserPoints is the per-user counter with its derived rank.
type UserPoints struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Total     int       `db:"total" json:"total"`
	Rank      int       `db:"rank" json:"rank"`
	Tier      PointTier `db:"-" json:"tier"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PointEvent records a single award for window accounting.
type PointEvent struct {
	ID        string      `db:"id" json:"id"`
	UserID    string      `db:"user_id" json:"user_id"`
	Action    PointAction `db:"action" json:"action"`
	Points    int         `db:"points" json:"points"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// AdjustPointsRequest is an administrative point correction. The target user
// comes from the route path.
type AdjustPointsRequest struct {
	UserID string `json:"-" validate:"required"`
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,max=500"`
}

// LeaderboardEntry is a ranked row of the public leaderboard.
type LeaderboardEntry struct {
	UserID   string    `db:"user_id" json:"user_id"`
	FullName string    `db:"full_name" json:"full_name"`
	Total    int       `db:"total" json:"total"`
	Rank     int       `db:"rank" json:"rank"`
	Tier     PointTier `db:"-" json:"tier"`
}
