package models

import "time"

// MatchStatus enumerates the lifecycle states of a mentorship match.
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusAccepted  MatchStatus = "accepted"
	MatchStatusRejected  MatchStatus = "rejected"
	MatchStatusActive    MatchStatus = "active"
	MatchStatusCompleted MatchStatus = "completed"
)

// Valid reports whether the status is a known lifecycle state.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusPending, MatchStatusAccepted, MatchStatusRejected, MatchStatusActive, MatchStatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted.
func (s MatchStatus) Terminal() bool {
	return s == MatchStatusRejected || s == MatchStatusCompleted
}

// InProgress groups accepted and active into the single observable bucket
// the clients render. The two values are synonyms on the wire.
func (s MatchStatus) InProgress() bool {
	return s == MatchStatusAccepted || s == MatchStatusActive
}

// ContactVisible reports whether counterpart contact details may be
// disclosed for a match in this state. Contact fields stay hidden only
// while the request is pending.
func (s MatchStatus) ContactVisible() bool {
	return s.InProgress() || s == MatchStatusCompleted
}

// MatchRole is the perspective from which a user views their matches.
type MatchRole string

const (
	MatchRoleMentor MatchRole = "mentor"
	MatchRoleMentee MatchRole = "mentee"
)

// RespondAction is the mentor's binary decision on a pending match.
type RespondAction string

const (
	RespondActionAccept RespondAction = "accept"
	RespondActionReject RespondAction = "reject"
)

// Match is a mentorship request/engagement record linking one mentor and
// one mentee.
type Match struct {
	ID            string      `db:"id" json:"id"`
	MentorID      string      `db:"mentor_id" json:"mentor_id"`
	MenteeID      string      `db:"mentee_id" json:"mentee_id"`
	Status        MatchStatus `db:"status" json:"status"`
	Introduction  string      `db:"introduction" json:"introduction"`
	PreferredTime string      `db:"preferred_time" json:"preferred_time"`
	CVIncluded    bool        `db:"cv_included" json:"cv_included"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// MatchDetail carries the denormalized display fields joined from users.
// Contact fields are redacted by the service while the match is pending.
type MatchDetail struct {
	Match
	MentorName        string `db:"mentor_name" json:"mentor_name"`
	MenteeName        string `db:"mentee_name" json:"mentee_name"`
	MentorEmail       string `db:"mentor_email" json:"mentor_email,omitempty"`
	MenteeEmail       string `db:"mentee_email" json:"mentee_email,omitempty"`
	MentorLinkedInURL string `db:"mentor_linkedin_url" json:"mentor_linkedin_url,omitempty"`
}

// CreateMatchRequest is the mentee's payload for requesting mentorship.
type CreateMatchRequest struct {
	MentorID      string `json:"mentor_id" validate:"required"`
	Introduction  string `json:"introduction" validate:"required,min=10,max=500"`
	PreferredTime string `json:"preferred_time" validate:"required,min=3,max=200"`
	CVIncluded    bool   `json:"cv_included"`
}

// RespondMatchRequest is the mentor's decision on a pending request.
type RespondMatchRequest struct {
	Action RespondAction `json:"action" validate:"required,oneof=accept reject"`
}

// MatchFilter captures list criteria for a user's matches.
type MatchFilter struct {
	UserID   string
	Role     MatchRole
	Status   *MatchStatus
	Page     int
	PageSize int
}
