package services

import (
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/storage"
)

// ListingService is the read-only query surface over reviews. Nothing
// mutates through this path.
type ListingService struct {
	store storage.Store
}

// NewListingService creates a new listing service.
func NewListingService(store storage.Store) *ListingService {
	return &ListingService{store: store}
}

// List returns one page of review projections matching the filter, plus the
// total match count for pagination controls.
func (s *ListingService) List(filter models.ReviewFilter, sortBy models.ReviewSort, page models.ReviewPage) (*models.ReviewList, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, Errorf(ErrValidation, "status %q is not a review status", filter.Status)
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, Errorf(ErrValidation, "priority %q is not a review priority", filter.Priority)
	}
	if sortBy.Key == "" {
		sortBy.Key = models.SortByCreatedAt
		sortBy.Descending = true
	}
	if !sortBy.Key.Valid() {
		return nil, Errorf(ErrValidation, "sort key %q is not supported", sortBy.Key)
	}

	list, err := s.store.ListReviews(filter, sortBy, page)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return list, nil
}
