package models

import "time"

// ReviewStatus is the lifecycle state of a QC review.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusInReview ReviewStatus = "in_review"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusReturned ReviewStatus = "returned"
)

// Valid reports whether s is a known review status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusInReview, ReviewStatusApproved, ReviewStatusReturned:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further mutation.
func (s ReviewStatus) Terminal() bool {
	return s == ReviewStatusApproved || s == ReviewStatusReturned
}

// ReviewPriority orders the review queue; it never affects transitions.
type ReviewPriority string

const (
	PriorityHigh   ReviewPriority = "high"
	PriorityMedium ReviewPriority = "medium"
	PriorityLow    ReviewPriority = "low"
)

func (p ReviewPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// QueueRank maps priority to sort order (high first).
func (p ReviewPriority) QueueRank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// AssignmentType records how a reviewer ended up owning a review.
type AssignmentType string

const (
	AssignmentAutomatic AssignmentType = "automatic"
	AssignmentManual    AssignmentType = "manual"
)

// ReturnReason is the fixed taxonomy for returned reviews.
type ReturnReason string

const (
	ReturnIncompleteDocumentation ReturnReason = "incomplete_documentation"
	ReturnIncorrectInformation    ReturnReason = "incorrect_information"
	ReturnMissingSignatures       ReturnReason = "missing_signatures"
	ReturnStipulationNotMet       ReturnReason = "stipulation_not_met"
	ReturnComplianceIssue         ReturnReason = "compliance_issue"
	ReturnOther                   ReturnReason = "other"
)

func (r ReturnReason) Valid() bool {
	switch r {
	case ReturnIncompleteDocumentation, ReturnIncorrectInformation, ReturnMissingSignatures,
		ReturnStipulationNotMet, ReturnComplianceIssue, ReturnOther:
		return true
	}
	return false
}

// Decision is the terminal outcome a reviewer submits.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionReturned Decision = "returned"
)

func (d Decision) Valid() bool {
	return d == DecisionApproved || d == DecisionReturned
}

// QCReview is the per-application quality-control record. Items are owned by
// the review and never shared; CompletionPercentage is a cached projection of
// the items and is recomputed on every mutation, never set by callers.
type QCReview struct {
	ID            string `json:"id" gorm:"primaryKey"`
	ApplicationID string `json:"application_id" gorm:"index"`

	// Denormalized from the application service at creation, for listing filters
	BorrowerName string `json:"borrower_name" gorm:"index"`
	SchoolID     string `json:"school_id" gorm:"index"`
	SchoolName   string `json:"school_name"`

	Status   ReviewStatus   `json:"status" gorm:"index"`
	Priority ReviewPriority `json:"priority"`

	AssignedTo     string         `json:"assigned_to" gorm:"index"`
	AssignmentType AssignmentType `json:"assignment_type,omitempty"`
	AssignedAt     *time.Time     `json:"assigned_at"`

	ReturnReason ReturnReason `json:"return_reason,omitempty"`
	Notes        string       `json:"notes"`

	CompletionPercentage int `json:"completion_percentage"`

	// Optimistic-concurrency token, bumped on every successful mutation
	Version int64 `json:"version"`

	Items []VerificationItem `json:"items" gorm:"foreignKey:ReviewID"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Item returns the review's item with the given id, or nil.
func (r *QCReview) Item(itemID string) *VerificationItem {
	for i := range r.Items {
		if r.Items[i].ID == itemID {
			return &r.Items[i]
		}
	}
	return nil
}

// Refresh recomputes the cached completion percentage from the item set.
func (r *QCReview) Refresh() {
	r.CompletionPercentage = CompletionPercentage(r.Items)
}
