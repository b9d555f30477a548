package models

import "time"

// UserRole represents the available roles for the RBAC system.
// Mentor and mentee are perspectives on a match, not roles: a user may act
// as both at the same time.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	LinkedInURL  string     `db:"linkedin_url" json:"linkedin_url,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UpdateUserRequest carries the fields a profile update may change. Role
// and active are honored only for admin callers.
type UpdateUserRequest struct {
	FullName    string    `json:"full_name" validate:"required"`
	LinkedInURL string    `json:"linkedin_url" validate:"omitempty,url"`
	Role        *UserRole `json:"role" validate:"omitempty,oneof=ADMIN USER"`
	Active      *bool     `json:"active"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
