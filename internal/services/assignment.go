package services

import (
	"log"
	"time"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/storage"
)

// AssignmentService controls which reviewer owns a review. Ownership is the
// single concurrency-control point for human actors: item mutations and
// decision submission both check it.
type AssignmentService struct {
	store    storage.Store
	notifier Notifier
}

// NewAssignmentService creates a new assignment service.
func NewAssignmentService(store storage.Store, notifier Notifier) *AssignmentService {
	return &AssignmentService{store: store, notifier: notifier}
}

// AssignAutomatic assigns a pending review to the least-loaded active
// reviewer. Ties break on the lowest reviewer id, so selection is
// deterministic.
func (s *AssignmentService) AssignAutomatic(reviewID string) (*models.QCReview, error) {
	loads, err := s.store.ReviewerLoads()
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if len(loads) == 0 {
		return nil, Errorf(ErrPreconditionFailed, "no active reviewers available for automatic assignment")
	}

	// loads arrive ordered by reviewer id, so the first minimum wins ties
	chosen := loads[0]
	for _, l := range loads[1:] {
		if l.OpenCount < chosen.OpenCount {
			chosen = l
		}
	}

	updated, err := s.store.UpdateReview(reviewID, 0, func(review *models.QCReview) error {
		if review.Status.Terminal() {
			return Errorf(ErrInvalidState, "review %s is %s and can no longer be modified", review.ID, review.Status)
		}
		if review.AssignedTo != "" {
			return Errorf(ErrInvalidState, "review %s is already assigned to %s", review.ID, review.AssignedTo)
		}
		if review.Status != models.ReviewStatusPending {
			return Errorf(ErrInvalidState, "review %s is %s; automatic assignment requires a pending review", review.ID, review.Status)
		}

		now := time.Now()
		review.AssignedTo = chosen.Reviewer.ReviewerID
		review.AssignmentType = models.AssignmentAutomatic
		review.AssignedAt = &now
		review.Status = models.ReviewStatusInReview
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if err := s.notifier.ReviewAssigned(&chosen.Reviewer, updated); err != nil {
		log.Printf("assignment notification for %s failed: %v", updated.ID, err)
	}
	return updated, nil
}

// AssignManual assigns or reassigns a review to a specific reviewer. This is
// a supervisor override and is legal from Pending or InReview; mid-review
// reassignment keeps all item state.
func (s *AssignmentService) AssignManual(reviewID, reviewerID string, caller Identity) (*models.QCReview, error) {
	if !caller.Supervisor() {
		return nil, Errorf(ErrForbidden, "manual assignment requires the supervisor role")
	}
	if reviewerID == "" {
		return nil, Errorf(ErrValidation, "reviewer_id is required")
	}

	reviewer, err := s.store.GetReviewer(reviewerID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !reviewer.Active {
		return nil, Errorf(ErrValidation, "reviewer %s is inactive", reviewerID)
	}

	updated, err := s.store.UpdateReview(reviewID, 0, func(review *models.QCReview) error {
		if review.Status.Terminal() {
			return Errorf(ErrInvalidState, "review %s is %s and can no longer be modified", review.ID, review.Status)
		}

		now := time.Now()
		review.AssignedTo = reviewer.ReviewerID
		review.AssignmentType = models.AssignmentManual
		review.AssignedAt = &now
		if review.Status == models.ReviewStatusPending {
			review.Status = models.ReviewStatusInReview
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if err := s.notifier.ReviewAssigned(reviewer, updated); err != nil {
		log.Printf("assignment notification for %s failed: %v", updated.ID, err)
	}
	return updated, nil
}

// Unassign releases an in-review review back to the pending queue. Item
// state is preserved so a later assignee continues where the previous one
// stopped.
func (s *AssignmentService) Unassign(reviewID string, caller Identity) (*models.QCReview, error) {
	if !caller.Supervisor() {
		return nil, Errorf(ErrForbidden, "unassign requires the supervisor role")
	}

	updated, err := s.store.UpdateReview(reviewID, 0, func(review *models.QCReview) error {
		if review.Status.Terminal() {
			return Errorf(ErrInvalidState, "review %s is %s and can no longer be modified", review.ID, review.Status)
		}
		if review.Status != models.ReviewStatusInReview {
			return Errorf(ErrInvalidState, "review %s is %s; only an in-review review can be unassigned", review.ID, review.Status)
		}

		review.AssignedTo = ""
		review.AssignmentType = ""
		review.AssignedAt = nil
		review.Status = models.ReviewStatusPending
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return updated, nil
}
