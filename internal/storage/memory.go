package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
)

// MemoryStore holds all data in memory, for tests and local development.
// A global lock guards the maps; each review additionally carries its own
// mutex so that mutations of one review are serialized without blocking
// writers of other reviews.
type MemoryStore struct {
	mu        sync.RWMutex
	reviews   map[string]*reviewRecord
	reviewers map[string]*models.Reviewer

	reviewCounter int
}

type reviewRecord struct {
	mu     sync.Mutex
	review models.QCReview
}

// NewMemoryStore creates a new in-memory storage.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reviews:   make(map[string]*reviewRecord),
		reviewers: make(map[string]*models.Reviewer),
	}
}

func cloneReview(r *models.QCReview) *models.QCReview {
	out := *r
	out.Items = make([]models.VerificationItem, len(r.Items))
	copy(out.Items, r.Items)
	return &out
}

// Review operations

func (m *MemoryStore) CreateReview(review *models.QCReview) (*models.QCReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if review.ID == "" {
		m.reviewCounter++
		review.ID = fmt.Sprintf("QCR%05d", m.reviewCounter)
	}
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	review.Version = 1
	for i := range review.Items {
		review.Items[i].ReviewID = review.ID
		review.Items[i].CreatedAt = now
		review.Items[i].UpdatedAt = now
	}
	review.Refresh()

	m.reviews[review.ID] = &reviewRecord{review: *cloneReview(review)}
	return cloneReview(review), nil
}

func (m *MemoryStore) GetReview(id string) (*models.QCReview, error) {
	m.mu.RLock()
	rec, exists := m.reviews[id]
	m.mu.RUnlock()
	if !exists {
		return nil, ErrReviewNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return cloneReview(&rec.review), nil
}

func (m *MemoryStore) UpdateReview(id string, expectedVersion int64, mutate func(*models.QCReview) error) (*models.QCReview, error) {
	m.mu.RLock()
	rec, exists := m.reviews[id]
	m.mu.RUnlock()
	if !exists {
		return nil, ErrReviewNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if expectedVersion > 0 && rec.review.Version != expectedVersion {
		return nil, ErrVersionConflict
	}

	// Mutate a copy so a failed mutation leaves the stored review untouched
	working := cloneReview(&rec.review)
	if err := mutate(working); err != nil {
		return nil, err
	}

	now := time.Now()
	working.Version++
	working.UpdatedAt = now
	for i := range working.Items {
		working.Items[i].UpdatedAt = now
	}
	working.Refresh()

	rec.review = *cloneReview(working)
	return working, nil
}

func (m *MemoryStore) ListReviews(filter models.ReviewFilter, sortBy models.ReviewSort, page models.ReviewPage) (*models.ReviewList, error) {
	m.mu.RLock()
	records := make([]*reviewRecord, 0, len(m.reviews))
	for _, rec := range m.reviews {
		records = append(records, rec)
	}
	m.mu.RUnlock()

	matched := make([]*models.QCReview, 0, len(records))
	for _, rec := range records {
		rec.mu.Lock()
		r := cloneReview(&rec.review)
		rec.mu.Unlock()
		if matchesFilter(r, filter) {
			matched = append(matched, r)
		}
	}

	sortReviews(matched, sortBy)

	total := len(matched)
	start, end := pageBounds(total, page)

	items := make([]models.QCReviewListItem, 0, end-start)
	for _, r := range matched[start:end] {
		items = append(items, toListItem(r))
	}
	return &models.ReviewList{Items: items, Total: total}, nil
}

func matchesFilter(r *models.QCReview, f models.ReviewFilter) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Priority != "" && r.Priority != f.Priority {
		return false
	}
	if f.AssignedTo != "" && r.AssignedTo != f.AssignedTo {
		return false
	}
	if f.ApplicationID != "" && r.ApplicationID != f.ApplicationID {
		return false
	}
	if f.SchoolID != "" && r.SchoolID != f.SchoolID {
		return false
	}
	if f.BorrowerName != "" && !strings.Contains(strings.ToLower(r.BorrowerName), strings.ToLower(f.BorrowerName)) {
		return false
	}
	if f.CreatedFrom != nil && r.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && r.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

func sortReviews(reviews []*models.QCReview, s models.ReviewSort) {
	key := s.Key
	if !key.Valid() {
		key = models.SortByCreatedAt
	}
	less := func(a, b *models.QCReview) bool {
		switch key {
		case models.SortByBorrowerName:
			return strings.ToLower(a.BorrowerName) < strings.ToLower(b.BorrowerName)
		case models.SortByStatus:
			return a.Status < b.Status
		case models.SortByPriority:
			return a.Priority.QueueRank() < b.Priority.QueueRank()
		case models.SortByAssignedAt:
			return timePtrBefore(a.AssignedAt, b.AssignedAt)
		case models.SortByCompletion:
			return a.CompletionPercentage < b.CompletionPercentage
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		if s.Descending {
			return less(reviews[j], reviews[i])
		}
		return less(reviews[i], reviews[j])
	})
}

// timePtrBefore orders nil timestamps (never assigned) last.
func timePtrBefore(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}

func pageBounds(total int, p models.ReviewPage) (int, int) {
	size := p.PageSize
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	pageNum := p.Page
	if pageNum <= 0 {
		pageNum = 1
	}
	start := (pageNum - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

func toListItem(r *models.QCReview) models.QCReviewListItem {
	return models.QCReviewListItem{
		ID:                   r.ID,
		ApplicationID:        r.ApplicationID,
		BorrowerName:         r.BorrowerName,
		SchoolID:             r.SchoolID,
		SchoolName:           r.SchoolName,
		Status:               r.Status,
		Priority:             r.Priority,
		AssignedTo:           r.AssignedTo,
		AssignedAt:           r.AssignedAt,
		CompletionPercentage: r.CompletionPercentage,
		ItemCount:            len(r.Items),
		CreatedAt:            r.CreatedAt,
	}
}

// Reviewer operations

func (m *MemoryStore) CreateReviewer(reviewer *models.Reviewer) (*models.Reviewer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.reviewers[reviewer.ReviewerID]; exists {
		return nil, ErrReviewerExists
	}
	now := time.Now()
	reviewer.CreatedAt = now
	reviewer.UpdatedAt = now
	stored := *reviewer
	m.reviewers[reviewer.ReviewerID] = &stored
	out := stored
	return &out, nil
}

func (m *MemoryStore) GetReviewer(reviewerID string) (*models.Reviewer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reviewer, exists := m.reviewers[reviewerID]
	if !exists {
		return nil, ErrReviewerNotFound
	}
	out := *reviewer
	return &out, nil
}

func (m *MemoryStore) ListReviewers() ([]*models.Reviewer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reviewers := make([]*models.Reviewer, 0, len(m.reviewers))
	for _, reviewer := range m.reviewers {
		out := *reviewer
		reviewers = append(reviewers, &out)
	}
	sort.Slice(reviewers, func(i, j int) bool {
		return reviewers[i].ReviewerID < reviewers[j].ReviewerID
	})
	return reviewers, nil
}

func (m *MemoryStore) ReviewerLoads() ([]models.ReviewerLoad, error) {
	reviewers, err := m.ListReviewers()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	m.mu.RLock()
	for _, rec := range m.reviews {
		rec.mu.Lock()
		if rec.review.Status == models.ReviewStatusInReview && rec.review.AssignedTo != "" {
			counts[rec.review.AssignedTo]++
		}
		rec.mu.Unlock()
	}
	m.mu.RUnlock()

	loads := make([]models.ReviewerLoad, 0, len(reviewers))
	for _, reviewer := range reviewers {
		if !reviewer.Active {
			continue
		}
		loads = append(loads, models.ReviewerLoad{
			Reviewer:  *reviewer,
			OpenCount: counts[reviewer.ReviewerID],
		})
	}
	return loads, nil
}
