package services

import (
	"strings"
	"time"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/storage"
)

// VerificationService mutates the per-item verification state of a review.
// Every mutation runs serialized against other writers of the same review,
// updates the item, and refreshes the review's cached completion percentage
// in the same atomic store operation.
type VerificationService struct {
	store storage.Store
}

// NewVerificationService creates a new verification service.
func NewVerificationService(store storage.Store) *VerificationService {
	return &VerificationService{store: store}
}

// Verify marks an item verified. Requires the review to be in review and the
// caller to be its assigned reviewer. Re-verifying an already verified item
// restamps comments and the verification time without other side effects.
func (s *VerificationService) Verify(reviewID, itemID string, caller Identity, comments string, expectedVersion int64) (*models.VerificationItem, error) {
	return s.applyStatus(reviewID, itemID, caller, comments, expectedVersion, models.ItemStatusVerified)
}

// Reject marks an item rejected. A rejection without a stated reason is
// disallowed, so comments are mandatory here, unlike Verify.
func (s *VerificationService) Reject(reviewID, itemID string, caller Identity, comments string, expectedVersion int64) (*models.VerificationItem, error) {
	if strings.TrimSpace(comments) == "" {
		return nil, Errorf(ErrValidation, "comments are required to reject item %s", itemID)
	}
	return s.applyStatus(reviewID, itemID, caller, comments, expectedVersion, models.ItemStatusRejected)
}

// Waive marks a non-document item waived. Documents cannot be waived: the
// underlying file is either verified or rejected.
func (s *VerificationService) Waive(reviewID, itemID string, caller Identity, comments string, expectedVersion int64) (*models.VerificationItem, error) {
	if strings.TrimSpace(comments) == "" {
		return nil, Errorf(ErrValidation, "comments are required to waive item %s", itemID)
	}
	return s.applyStatus(reviewID, itemID, caller, comments, expectedVersion, models.ItemStatusWaived)
}

func (s *VerificationService) applyStatus(reviewID, itemID string, caller Identity, comments string, expectedVersion int64, status models.ItemStatus) (*models.VerificationItem, error) {
	updated, err := s.store.UpdateReview(reviewID, expectedVersion, func(review *models.QCReview) error {
		if review.Status.Terminal() {
			return Errorf(ErrInvalidState, "review %s is %s and can no longer be modified", review.ID, review.Status)
		}
		if review.Status != models.ReviewStatusInReview {
			return Errorf(ErrInvalidState, "review %s is %s; items can only be worked while in review", review.ID, review.Status)
		}
		if review.AssignedTo != caller.ReviewerID {
			return Errorf(ErrForbidden, "review %s is assigned to %s, not %s", review.ID, review.AssignedTo, caller.ReviewerID)
		}

		item := review.Item(itemID)
		if item == nil {
			return Errorf(ErrNotFound, "item %s not found on review %s", itemID, review.ID)
		}
		if status == models.ItemStatusWaived && !item.Waivable() {
			return Errorf(ErrUnsupportedOperation, "item %s is a document and cannot be waived; verify or reject it instead", itemID)
		}

		now := time.Now()
		item.Status = status
		item.VerifiedBy = caller.ReviewerID
		item.VerifiedAt = &now
		item.Comments = comments
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return updated.Item(itemID), nil
}

// Annotate updates an item's comments without touching its status, for
// audit-trail notes. It is legal in any non-terminal review state; while the
// review is in review only the assigned reviewer may annotate, and before
// assignment any authenticated reviewer may.
func (s *VerificationService) Annotate(reviewID, itemID string, caller Identity, comments string, expectedVersion int64) (*models.VerificationItem, error) {
	updated, err := s.store.UpdateReview(reviewID, expectedVersion, func(review *models.QCReview) error {
		if review.Status.Terminal() {
			return Errorf(ErrInvalidState, "review %s is %s and can no longer be modified", review.ID, review.Status)
		}
		if review.Status == models.ReviewStatusInReview && review.AssignedTo != caller.ReviewerID {
			return Errorf(ErrForbidden, "review %s is assigned to %s, not %s", review.ID, review.AssignedTo, caller.ReviewerID)
		}

		item := review.Item(itemID)
		if item == nil {
			return Errorf(ErrNotFound, "item %s not found on review %s", itemID, review.ID)
		}
		item.Comments = comments
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return updated.Item(itemID), nil
}
