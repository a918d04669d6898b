package services

import (
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/storage"
)

// ReviewerService manages the reviewer registry backing automatic
// assignment.
type ReviewerService struct {
	store storage.Store
}

// NewReviewerService creates a new reviewer service.
func NewReviewerService(store storage.Store) *ReviewerService {
	return &ReviewerService{store: store}
}

// Register adds a reviewer to the registry. Supervisor only.
func (s *ReviewerService) Register(caller Identity, reviewerID, name, phone string, role models.ReviewerRole) (*models.Reviewer, error) {
	if !caller.Supervisor() {
		return nil, Errorf(ErrForbidden, "registering reviewers requires the supervisor role")
	}
	if reviewerID == "" || name == "" {
		return nil, Errorf(ErrValidation, "reviewer_id and name are required")
	}
	if role == "" {
		role = models.RoleReviewer
	}
	if !role.Valid() {
		return nil, Errorf(ErrValidation, "role %q must be reviewer or supervisor", role)
	}

	reviewer := &models.Reviewer{
		ReviewerID: reviewerID,
		Name:       name,
		Phone:      phone,
		Role:       role,
		Active:     true,
	}
	created, err := s.store.CreateReviewer(reviewer)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return created, nil
}

// List returns all registered reviewers ordered by id.
func (s *ReviewerService) List() ([]*models.Reviewer, error) {
	reviewers, err := s.store.ListReviewers()
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return reviewers, nil
}
