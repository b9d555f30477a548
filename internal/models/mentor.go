package models

import "time"

// Bitflag-encoded multi-select fields. The bit positions are part of the
// wire contract and must not be reordered.

// MentoringLevel flags describe the seniority levels a mentor serves.
type MentoringLevel uint32

const (
	LevelStudent MentoringLevel = 1 << iota
	LevelJunior
	LevelMid
	LevelSenior
	LevelExecutive
)

// MentoringLevelLabels maps each flag bit to its display label.
var MentoringLevelLabels = map[MentoringLevel]string{
	LevelStudent:   "student",
	LevelJunior:    "junior",
	LevelMid:       "mid",
	LevelSenior:    "senior",
	LevelExecutive: "executive",
}

// PaymentType flags describe accepted engagement models.
type PaymentType uint32

const (
	PaymentFree PaymentType = 1 << iota
	PaymentPaid
	PaymentBarter
)

// PaymentTypeLabels maps each flag bit to its display label.
var PaymentTypeLabels = map[PaymentType]string{
	PaymentFree:   "free",
	PaymentPaid:   "paid",
	PaymentBarter: "barter",
}

// ExpertiseDomain flags describe professional areas of expertise.
type ExpertiseDomain uint32

const (
	DomainEngineering ExpertiseDomain = 1 << iota
	DomainProduct
	DomainDesign
	DomainData
	DomainMarketing
	DomainManagement
	DomainCareer
)

// ExpertiseDomainLabels maps each flag bit to its display label.
var ExpertiseDomainLabels = map[ExpertiseDomain]string{
	DomainEngineering: "engineering",
	DomainProduct:     "product",
	DomainDesign:      "design",
	DomainData:        "data",
	DomainMarketing:   "marketing",
	DomainManagement:  "management",
	DomainCareer:      "career",
}

// Has reports whether all bits in flag are set.
func (l MentoringLevel) Has(flag MentoringLevel) bool { return l&flag == flag }

// With returns the union of the sets.
func (l MentoringLevel) With(flag MentoringLevel) MentoringLevel { return l | flag }

// Without returns the set difference.
func (l MentoringLevel) Without(flag MentoringLevel) MentoringLevel { return l &^ flag }

// Labels expands the set into its display labels in bit order.
func (l MentoringLevel) Labels() []string {
	labels := make([]string, 0)
	for bit := MentoringLevel(1); bit != 0 && bit <= LevelExecutive; bit <<= 1 {
		if l.Has(bit) {
			labels = append(labels, MentoringLevelLabels[bit])
		}
	}
	return labels
}

// Has reports whether all bits in flag are set.
func (p PaymentType) Has(flag PaymentType) bool { return p&flag == flag }

// With returns the union of the sets.
func (p PaymentType) With(flag PaymentType) PaymentType { return p | flag }

// Without returns the set difference.
func (p PaymentType) Without(flag PaymentType) PaymentType { return p &^ flag }

// Labels expands the set into its display labels in bit order.
func (p PaymentType) Labels() []string {
	labels := make([]string, 0)
	for bit := PaymentType(1); bit != 0 && bit <= PaymentBarter; bit <<= 1 {
		if p.Has(bit) {
			labels = append(labels, PaymentTypeLabels[bit])
		}
	}
	return labels
}

// Has reports whether all bits in flag are set.
func (d ExpertiseDomain) Has(flag ExpertiseDomain) bool { return d&flag == flag }

// With returns the union of the sets.
func (d ExpertiseDomain) With(flag ExpertiseDomain) ExpertiseDomain { return d | flag }

// Without returns the set difference.
func (d ExpertiseDomain) Without(flag ExpertiseDomain) ExpertiseDomain { return d &^ flag }

// Labels expands the set into its display labels in bit order.
func (d ExpertiseDomain) Labels() []string {
	labels := make([]string, 0)
	for bit := ExpertiseDomain(1); bit != 0 && bit <= DomainCareer; bit <<= 1 {
		if d.Has(bit) {
			labels = append(labels, ExpertiseDomainLabels[bit])
		}
	}
	return labels
}

// MentorProfile describes a user's public mentoring offer. One per user.
type MentorProfile struct {
	ID               string          `db:"id" json:"id"`
	UserID           string          `db:"user_id" json:"user_id"`
	Headline         string          `db:"headline" json:"headline"`
	Bio              string          `db:"bio" json:"bio"`
	ExperienceYears  int             `db:"experience_years" json:"experience_years"`
	MentoringLevels  MentoringLevel  `db:"mentoring_levels" json:"mentoring_levels"`
	PaymentTypes     PaymentType     `db:"payment_types" json:"payment_types"`
	ExpertiseDomains ExpertiseDomain `db:"expertise_domains" json:"expertise_domains"`
	Active           bool            `db:"active" json:"active"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// MentorProfileDetail joins display fields from the owning user.
type MentorProfileDetail struct {
	MentorProfile
	FullName    string `db:"full_name" json:"full_name"`
	LinkedInURL string `db:"linkedin_url" json:"linkedin_url,omitempty"`
}

// UpsertMentorProfileRequest creates or updates the caller's mentor
// profile. Flag fields carry the raw bit sets.
type UpsertMentorProfileRequest struct {
	Headline         string          `json:"headline" validate:"required,max=200"`
	Bio              string          `json:"bio" validate:"required,max=4000"`
	ExperienceYears  int             `json:"experience_years" validate:"gte=0,lte=60"`
	MentoringLevels  MentoringLevel  `json:"mentoring_levels" validate:"required"`
	PaymentTypes     PaymentType     `json:"payment_types" validate:"required"`
	ExpertiseDomains ExpertiseDomain `json:"expertise_domains" validate:"required"`
	Active           *bool           `json:"active"`
}

// MentorFilter captures search criteria for mentor discovery. Bitmask
// filters match on any bit overlap.
type MentorFilter struct {
	Query            string
	MentoringLevels  MentoringLevel
	PaymentTypes     PaymentType
	ExpertiseDomains ExpertiseDomain
	Page             int
	PageSize         int
}
