package services

import (
	"errors"
	"log"
	"time"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/storage"
)

// DecisionService gates the terminal approve/return transition of a review.
type DecisionService struct {
	store    storage.Store
	notifier Notifier
}

// NewDecisionService creates a new decision service.
func NewDecisionService(store storage.Store, notifier Notifier) *DecisionService {
	return &DecisionService{store: store, notifier: notifier}
}

// errResubmitted signals that the review already carries this exact decision;
// the stored state is returned unchanged and nothing is written.
var errResubmitted = errors.New("decision already submitted")

// SubmitDecision records the terminal outcome of a review.
//
// Approval requires every item resolved and no standing rejection. A return
// requires a reason from the fixed taxonomy and has no completion
// requirement, so a review can be returned as soon as a problem is found.
// Re-submitting the identical decision against a decided review is a no-op
// that returns the stored state.
func (s *DecisionService) SubmitDecision(reviewID string, caller Identity, decision models.Decision, returnReason models.ReturnReason, notes string, expectedVersion int64) (*models.QCReview, error) {
	if !decision.Valid() {
		return nil, Errorf(ErrValidation, "decision %q must be approved or returned", decision)
	}

	updated, err := s.store.UpdateReview(reviewID, expectedVersion, func(review *models.QCReview) error {
		if review.Status.Terminal() {
			if s.sameDecision(review, decision, returnReason, notes) && review.AssignedTo == caller.ReviewerID {
				return errResubmitted
			}
			return Errorf(ErrInvalidState, "review %s is already %s", review.ID, review.Status)
		}
		if review.Status != models.ReviewStatusInReview {
			return Errorf(ErrInvalidState, "review %s is %s; a decision requires an in-review review", review.ID, review.Status)
		}
		if review.AssignedTo != caller.ReviewerID {
			return Errorf(ErrForbidden, "review %s is assigned to %s, not %s", review.ID, review.AssignedTo, caller.ReviewerID)
		}

		now := time.Now()
		switch decision {
		case models.DecisionApproved:
			unresolved := models.UnresolvedCount(review.Items)
			rejected := models.RejectedCount(review.Items)
			if unresolved > 0 || rejected > 0 {
				return Errorf(ErrPreconditionFailed,
					"review %s cannot be approved: %d unresolved and %d rejected item(s) remain",
					review.ID, unresolved, rejected)
			}
			review.Status = models.ReviewStatusApproved
		case models.DecisionReturned:
			if !returnReason.Valid() {
				return Errorf(ErrValidation, "return_reason %q is not in the return taxonomy", returnReason)
			}
			review.Status = models.ReviewStatusReturned
			review.ReturnReason = returnReason
		}
		if notes != "" {
			review.Notes = notes
		}
		review.CompletedAt = &now
		return nil
	})
	if errors.Is(err, errResubmitted) {
		existing, getErr := s.store.GetReview(reviewID)
		if getErr != nil {
			return nil, mapStoreErr(getErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if reviewer, err := s.store.GetReviewer(updated.AssignedTo); err == nil {
		if err := s.notifier.ReviewDecided(reviewer, updated); err != nil {
			log.Printf("decision notification for %s failed: %v", updated.ID, err)
		}
	}
	return updated, nil
}

// sameDecision reports whether the submission matches the decision the
// review already carries, payload included.
func (s *DecisionService) sameDecision(review *models.QCReview, decision models.Decision, returnReason models.ReturnReason, notes string) bool {
	switch decision {
	case models.DecisionApproved:
		if review.Status != models.ReviewStatusApproved {
			return false
		}
	case models.DecisionReturned:
		if review.Status != models.ReviewStatusReturned || review.ReturnReason != returnReason {
			return false
		}
	default:
		return false
	}
	return notes == "" || notes == review.Notes
}
