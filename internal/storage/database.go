package storage

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
)

// DatabaseStore implements Store on PostgreSQL via GORM. Per-review
// serialization uses SELECT ... FOR UPDATE inside a transaction, so two
// writers of the same review never interleave; the version column backs the
// optimistic check for callers that send an expected version.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given GORM connection.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (d *DatabaseStore) CreateReview(review *models.QCReview) (*models.QCReview, error) {
	if review.ID == "" {
		review.ID = "QCR-" + uuid.NewString()
	}
	review.Version = 1
	for i := range review.Items {
		review.Items[i].ReviewID = review.ID
	}
	review.Refresh()

	if err := d.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func (d *DatabaseStore) GetReview(id string) (*models.QCReview, error) {
	var review models.QCReview
	err := d.db.Preload("Items").First(&review, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (d *DatabaseStore) UpdateReview(id string, expectedVersion int64, mutate func(*models.QCReview) error) (*models.QCReview, error) {
	var updated *models.QCReview
	err := d.db.Transaction(func(tx *gorm.DB) error {
		var review models.QCReview
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&review, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", id).Order("created_at, id").
			Find(&review.Items).Error; err != nil {
			return err
		}

		if expectedVersion > 0 && review.Version != expectedVersion {
			return ErrVersionConflict
		}

		if err := mutate(&review); err != nil {
			return err
		}

		review.Version++
		review.Refresh()
		if err := tx.Omit("Items").Save(&review).Error; err != nil {
			return err
		}
		for i := range review.Items {
			if err := tx.Save(&review.Items[i]).Error; err != nil {
				return err
			}
		}
		updated = &review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (d *DatabaseStore) ListReviews(filter models.ReviewFilter, sortBy models.ReviewSort, page models.ReviewPage) (*models.ReviewList, error) {
	query := d.db.Model(&models.QCReview{})
	query = applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	start, size := offsetAndSize(page)
	var reviews []models.QCReview
	err := query.Order(orderClause(sortBy)).
		Limit(size).Offset(start).
		Preload("Items").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	items := make([]models.QCReviewListItem, 0, len(reviews))
	for i := range reviews {
		items = append(items, toListItem(&reviews[i]))
	}
	return &models.ReviewList{Items: items, Total: int(total)}, nil
}

func applyFilter(query *gorm.DB, f models.ReviewFilter) *gorm.DB {
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		query = query.Where("priority = ?", f.Priority)
	}
	if f.AssignedTo != "" {
		query = query.Where("assigned_to = ?", f.AssignedTo)
	}
	if f.ApplicationID != "" {
		query = query.Where("application_id = ?", f.ApplicationID)
	}
	if f.SchoolID != "" {
		query = query.Where("school_id = ?", f.SchoolID)
	}
	if f.BorrowerName != "" {
		query = query.Where("lower(borrower_name) LIKE ?", "%"+strings.ToLower(f.BorrowerName)+"%")
	}
	if f.CreatedFrom != nil {
		query = query.Where("created_at >= ?", f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		query = query.Where("created_at <= ?", f.CreatedTo)
	}
	return query
}

func orderClause(s models.ReviewSort) string {
	column := "created_at"
	switch s.Key {
	case models.SortByBorrowerName:
		column = "lower(borrower_name)"
	case models.SortByStatus:
		column = "status"
	case models.SortByPriority:
		// high before medium before low
		column = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END"
	case models.SortByAssignedAt:
		column = "assigned_at"
	case models.SortByCompletion:
		column = "completion_percentage"
	}
	direction := "ASC"
	if s.Descending {
		direction = "DESC"
	}
	if s.Key == models.SortByAssignedAt {
		// unassigned reviews sort last either way
		return column + " " + direction + " NULLS LAST"
	}
	return column + " " + direction
}

func offsetAndSize(p models.ReviewPage) (int, int) {
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
	return (pageNum - 1) * size, size
}

// Reviewer operations

func (d *DatabaseStore) CreateReviewer(reviewer *models.Reviewer) (*models.Reviewer, error) {
	var existing models.Reviewer
	err := d.db.First(&existing, "reviewer_id = ?", reviewer.ReviewerID).Error
	if err == nil {
		return nil, ErrReviewerExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := d.db.Create(reviewer).Error; err != nil {
		return nil, err
	}
	return reviewer, nil
}

func (d *DatabaseStore) GetReviewer(reviewerID string) (*models.Reviewer, error) {
	var reviewer models.Reviewer
	err := d.db.First(&reviewer, "reviewer_id = ?", reviewerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reviewer, nil
}

func (d *DatabaseStore) ListReviewers() ([]*models.Reviewer, error) {
	var reviewers []*models.Reviewer
	if err := d.db.Order("reviewer_id").Find(&reviewers).Error; err != nil {
		return nil, err
	}
	return reviewers, nil
}

func (d *DatabaseStore) ReviewerLoads() ([]models.ReviewerLoad, error) {
	var reviewers []models.Reviewer
	if err := d.db.Where("active = ?", true).Order("reviewer_id").Find(&reviewers).Error; err != nil {
		return nil, err
	}

	type row struct {
		AssignedTo string
		N          int
	}
	var rows []row
	err := d.db.Model(&models.QCReview{}).
		Select("assigned_to, count(*) as n").
		Where("status = ? AND assigned_to <> ''", models.ReviewStatusInReview).
		Group("assigned_to").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.AssignedTo] = r.N
	}

	loads := make([]models.ReviewerLoad, 0, len(reviewers))
	for _, reviewer := range reviewers {
		loads = append(loads, models.ReviewerLoad{
			Reviewer:  reviewer,
			OpenCount: counts[reviewer.ReviewerID],
		})
	}
	return loads, nil
}
