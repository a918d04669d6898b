package models

import "time"

// ReviewSortKey enumerates the listing sort columns.
type ReviewSortKey string

const (
	SortByBorrowerName ReviewSortKey = "borrower_name"
	SortByStatus       ReviewSortKey = "status"
	SortByPriority     ReviewSortKey = "priority"
	SortByAssignedAt   ReviewSortKey = "assigned_at"
	SortByCompletion   ReviewSortKey = "completion"
	SortByCreatedAt    ReviewSortKey = "created_at"
)

func (k ReviewSortKey) Valid() bool {
	switch k {
	case SortByBorrowerName, SortByStatus, SortByPriority, SortByAssignedAt,
		SortByCompletion, SortByCreatedAt:
		return true
	}
	return false
}

// ReviewFilter is the predicate set for listing reviews. Zero values mean
// "no constraint"; BorrowerName matches as a case-insensitive substring.
type ReviewFilter struct {
	Status        ReviewStatus
	Priority      ReviewPriority
	AssignedTo    string
	ApplicationID string
	BorrowerName  string
	SchoolID      string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// ReviewSort couples a sort key with a direction.
type ReviewSort struct {
	Key        ReviewSortKey
	Descending bool
}

// ReviewPage is 1-based pagination input.
type ReviewPage struct {
	Page     int
	PageSize int
}

// QCReviewListItem is the flat listing projection of a review; child items
// are summarized, not embedded.
type QCReviewListItem struct {
	ID                   string         `json:"id"`
	ApplicationID        string         `json:"application_id"`
	BorrowerName         string         `json:"borrower_name"`
	SchoolID             string         `json:"school_id"`
	SchoolName           string         `json:"school_name"`
	Status               ReviewStatus   `json:"status"`
	Priority             ReviewPriority `json:"priority"`
	AssignedTo           string         `json:"assigned_to"`
	AssignedAt           *time.Time     `json:"assigned_at"`
	CompletionPercentage int            `json:"completion_percentage"`
	ItemCount            int            `json:"item_count"`
	CreatedAt            time.Time      `json:"created_at"`
}

// ReviewList is one page of listing results plus the unpaginated total.
type ReviewList struct {
	Items []QCReviewListItem `json:"items"`
	Total int                `json:"total"`
}
