package services

import (
	"errors"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/storage"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/utils"
)

// ReviewService creates and fetches QC reviews, seeding verification items
// from the application, document, stipulation, and checklist collaborators.
type ReviewService struct {
	store     storage.Store
	apps      ApplicationDirectory
	docs      DocumentCatalog
	stips     StipulationSource
	checklist ChecklistTemplate
}

// NewReviewService creates a new review service.
func NewReviewService(store storage.Store, apps ApplicationDirectory, docs DocumentCatalog, stips StipulationSource, checklist ChecklistTemplate) *ReviewService {
	return &ReviewService{
		store:     store,
		apps:      apps,
		docs:      docs,
		stips:     stips,
		checklist: checklist,
	}
}

// CreateReview opens a QC review for the given application and seeds its
// document, stipulation, and checklist items. The review starts Pending and
// unassigned.
func (s *ReviewService) CreateReview(applicationID string, priority models.ReviewPriority) (*models.QCReview, error) {
	if applicationID == "" {
		return nil, Errorf(ErrValidation, "application_id is required")
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, Errorf(ErrValidation, "priority %q is not one of high, medium, low", priority)
	}

	app, err := s.apps.GetApplication(applicationID)
	if err != nil {
		return nil, Errorf(ErrNotFound, "application %s: %v", applicationID, err)
	}

	items, err := s.seedItems(applicationID)
	if err != nil {
		return nil, err
	}

	review := &models.QCReview{
		ApplicationID: app.ApplicationID,
		BorrowerName:  app.BorrowerName,
		SchoolID:      app.SchoolID,
		SchoolName:    app.SchoolName,
		Status:        models.ReviewStatusPending,
		Priority:      priority,
		Items:         items,
	}

	created, err := s.store.CreateReview(review)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return created, nil
}

func (s *ReviewService) seedItems(applicationID string) ([]models.VerificationItem, error) {
	docs, err := s.docs.RequiredDocuments(applicationID)
	if err != nil {
		return nil, Errorf(ErrValidation, "loading required documents for %s: %v", applicationID, err)
	}
	stips, err := s.stips.Stipulations(applicationID)
	if err != nil {
		return nil, Errorf(ErrValidation, "loading stipulations for %s: %v", applicationID, err)
	}
	entries, err := s.checklist.Entries(applicationID)
	if err != nil {
		return nil, Errorf(ErrValidation, "loading checklist template for %s: %v", applicationID, err)
	}

	items := make([]models.VerificationItem, 0, len(docs)+len(stips)+len(entries))
	for _, d := range docs {
		items = append(items, models.VerificationItem{
			ID:           utils.NewItemID(),
			Kind:         models.ItemKindDocument,
			Status:       models.ItemStatusUnverified,
			DocumentID:   d.DocumentID,
			DocumentType: d.DocumentType,
			FileName:     d.FileName,
			DownloadURL:  d.DownloadURL,
		})
	}
	for _, desc := range stips {
		items = append(items, models.VerificationItem{
			ID:          utils.NewItemID(),
			Kind:        models.ItemKindStipulation,
			Status:      models.ItemStatusUnverified,
			Description: desc,
		})
	}
	for _, e := range entries {
		items = append(items, models.VerificationItem{
			ID:       utils.NewItemID(),
			Kind:     models.ItemKindChecklist,
			Status:   models.ItemStatusUnverified,
			Category: e.Category,
			Text:     e.Text,
		})
	}
	return items, nil
}

// GetReview returns the review with its items and a freshly computed
// completion percentage.
func (s *ReviewService) GetReview(reviewID string) (*models.QCReview, error) {
	review, err := s.store.GetReview(reviewID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	review.Refresh()
	return review, nil
}

// mapStoreErr translates storage sentinels into the typed error taxonomy.
// Unknown errors pass through untouched.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrReviewNotFound):
		return Errorf(ErrNotFound, "review not found")
	case errors.Is(err, storage.ErrReviewerNotFound):
		return Errorf(ErrNotFound, "reviewer not found")
	case errors.Is(err, storage.ErrReviewerExists):
		return Errorf(ErrValidation, "reviewer already registered")
	case errors.Is(err, storage.ErrVersionConflict):
		return Errorf(ErrConflict, "review was modified concurrently, reload and retry")
	default:
		return err
	}
}
