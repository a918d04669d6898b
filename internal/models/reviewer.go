package models

import "time"

// ReviewerRole gates supervisor-only operations (manual assignment, unassign).
type ReviewerRole string

const (
	RoleReviewer   ReviewerRole = "reviewer"
	RoleSupervisor ReviewerRole = "supervisor"
)

func (r ReviewerRole) Valid() bool {
	return r == RoleReviewer || r == RoleSupervisor
}

// Reviewer is a QC staff member eligible to own reviews.
type Reviewer struct {
	ReviewerID string       `json:"reviewer_id" gorm:"primaryKey"`
	Name       string       `json:"name"`
	Phone      string       `json:"phone"`
	Role       ReviewerRole `json:"role"`
	Active     bool         `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewerLoad pairs a reviewer with their current open-review count,
// used by automatic assignment.
type ReviewerLoad struct {
	Reviewer  Reviewer `json:"reviewer"`
	OpenCount int      `json:"open_count"`
}
