package storage

import (
	"errors"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
)

// Sentinel errors shared by both store implementations. The service layer
// maps these onto its typed error taxonomy.
var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrReviewerNotFound = errors.New("reviewer not found")
	ErrReviewerExists   = errors.New("reviewer already exists")
	ErrVersionConflict  = errors.New("review version conflict")
)

// Store defines the persistence operations for QC reviews and reviewers.
//
// UpdateReview is the single mutation path for a review: it loads the review
// and its items, runs mutate against them serialized with every other writer
// of the same review, and persists the result atomically. If mutate returns
// an error nothing is written. When expectedVersion is non-zero and does not
// match the stored version, the update fails with ErrVersionConflict before
// mutate runs. On success the version is bumped and the cached completion
// percentage refreshed.
type Store interface {
	// Review operations
	CreateReview(review *models.QCReview) (*models.QCReview, error)
	GetReview(id string) (*models.QCReview, error)
	UpdateReview(id string, expectedVersion int64, mutate func(*models.QCReview) error) (*models.QCReview, error)
	ListReviews(filter models.ReviewFilter, sort models.ReviewSort, page models.ReviewPage) (*models.ReviewList, error)

	// Reviewer operations
	CreateReviewer(reviewer *models.Reviewer) (*models.Reviewer, error)
	GetReviewer(reviewerID string) (*models.Reviewer, error)
	ListReviewers() ([]*models.Reviewer, error)
	// ReviewerLoads returns every active reviewer with their current count of
	// owned in-review reviews, for automatic assignment.
	ReviewerLoads() ([]models.ReviewerLoad, error)
}
