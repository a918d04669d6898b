package storage

import (
	"sync"
	"testing"
	"time"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
)

func newTestReview(appID, borrower string, itemCount int) *models.QCReview {
	items := make([]models.VerificationItem, itemCount)
	for i := range items {
		items[i] = models.VerificationItem{
			ID:     borrower + "-item-" + string(rune('a'+i)),
			Kind:   models.ItemKindChecklist,
			Status: models.ItemStatusUnverified,
			Text:   "check",
		}
	}
	return &models.QCReview{
		ApplicationID: appID,
		BorrowerName:  borrower,
		SchoolID:      "SCH-1",
		Status:        models.ReviewStatusPending,
		Priority:      models.PriorityMedium,
		Items:         items,
	}
}

func TestCreateAndGetReview(t *testing.T) {
	store := NewMemoryStore()
	created, err := store.CreateReview(newTestReview("APP-1", "Ada", 2))
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated review id")
	}
	if created.Version != 1 {
		t.Fatalf("expected version 1, got %d", created.Version)
	}
	if created.CompletionPercentage != 0 {
		t.Fatalf("expected 0%% completion, got %d", created.CompletionPercentage)
	}

	got, err := store.GetReview(created.ID)
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}

	// Mutating the returned copy must not leak into the store
	got.Items[0].Status = models.ItemStatusVerified
	again, _ := store.GetReview(created.ID)
	if again.Items[0].Status != models.ItemStatusUnverified {
		t.Fatal("store state mutated through a returned copy")
	}

	if _, err := store.GetReview("missing"); err != ErrReviewNotFound {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestUpdateReviewBumpsVersionAndRefreshesCompletion(t *testing.T) {
	store := NewMemoryStore()
	created, _ := store.CreateReview(newTestReview("APP-1", "Ada", 2))

	updated, err := store.UpdateReview(created.ID, 0, func(r *models.QCReview) error {
		r.Items[0].Status = models.ItemStatusVerified
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateReview: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("expected version 2, got %d", updated.Version)
	}
	if updated.CompletionPercentage != 50 {
		t.Fatalf("expected completion refreshed to 50, got %d", updated.CompletionPercentage)
	}
}

func TestUpdateReviewVersionConflict(t *testing.T) {
	store := NewMemoryStore()
	created, _ := store.CreateReview(newTestReview("APP-1", "Ada", 1))

	// First writer succeeds against version 1
	if _, err := store.UpdateReview(created.ID, 1, func(r *models.QCReview) error { return nil }); err != nil {
		t.Fatalf("UpdateReview: %v", err)
	}
	// Stale writer still holding version 1 is rejected
	if _, err := store.UpdateReview(created.ID, 1, func(r *models.QCReview) error { return nil }); err != ErrVersionConflict {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestUpdateReviewFailedMutationWritesNothing(t *testing.T) {
	store := NewMemoryStore()
	created, _ := store.CreateReview(newTestReview("APP-1", "Ada", 1))

	boom := ErrReviewerExists // any sentinel works as the mutation failure
	_, err := store.UpdateReview(created.ID, 0, func(r *models.QCReview) error {
		r.Items[0].Status = models.ItemStatusVerified
		return boom
	})
	if err != boom {
		t.Fatalf("expected mutation error, got %v", err)
	}

	got, _ := store.GetReview(created.ID)
	if got.Version != 1 {
		t.Fatalf("version changed on failed mutation: %d", got.Version)
	}
	if got.Items[0].Status != models.ItemStatusUnverified {
		t.Fatal("item mutated despite failed mutation")
	}
}

func TestConcurrentUpdatesSerialize(t *testing.T) {
	store := NewMemoryStore()
	created, _ := store.CreateReview(newTestReview("APP-1", "Ada", 1))

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.UpdateReview(created.ID, 0, func(r *models.QCReview) error {
				r.Notes += "x"
				return nil
			})
			if err != nil {
				t.Errorf("UpdateReview: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := store.GetReview(created.ID)
	if got.Version != int64(1+writers) {
		t.Fatalf("expected version %d after %d serialized writes, got %d", 1+writers, writers, got.Version)
	}
	if len(got.Notes) != writers {
		t.Fatalf("lost update: expected %d appended notes, got %d", writers, len(got.Notes))
	}
}

func TestListReviewsFilterSortPaginate(t *testing.T) {
	store := NewMemoryStore()
	mk := func(borrower string, status models.ReviewStatus, priority models.ReviewPriority) *models.QCReview {
		r := newTestReview("APP-"+borrower, borrower, 1)
		r.Priority = priority
		created, err := store.CreateReview(r)
		if err != nil {
			t.Fatalf("CreateReview: %v", err)
		}
		if status != models.ReviewStatusPending {
			_, err = store.UpdateReview(created.ID, 0, func(r *models.QCReview) error {
				r.Status = status
				return nil
			})
			if err != nil {
				t.Fatalf("UpdateReview: %v", err)
			}
		}
		return created
	}

	mk("Avery", models.ReviewStatusPending, models.PriorityLow)
	mk("Blair", models.ReviewStatusInReview, models.PriorityHigh)
	mk("Casey", models.ReviewStatusPending, models.PriorityHigh)
	mk("Drew", models.ReviewStatusApproved, models.PriorityMedium)

	pending, err := store.ListReviews(
		models.ReviewFilter{Status: models.ReviewStatusPending},
		models.ReviewSort{Key: models.SortByBorrowerName},
		models.ReviewPage{Page: 1, PageSize: 10},
	)
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if pending.Total != 2 || len(pending.Items) != 2 {
		t.Fatalf("expected 2 pending reviews, got total=%d len=%d", pending.Total, len(pending.Items))
	}
	if pending.Items[0].BorrowerName != "Avery" || pending.Items[1].BorrowerName != "Casey" {
		t.Fatalf("unexpected name order: %s, %s", pending.Items[0].BorrowerName, pending.Items[1].BorrowerName)
	}

	// Substring match is case-insensitive
	sub, _ := store.ListReviews(
		models.ReviewFilter{BorrowerName: "ASE"},
		models.ReviewSort{}, models.ReviewPage{},
	)
	if sub.Total != 1 || sub.Items[0].BorrowerName != "Casey" {
		t.Fatalf("substring filter failed: %+v", sub)
	}

	// Priority sort puts high first
	byPriority, _ := store.ListReviews(
		models.ReviewFilter{},
		models.ReviewSort{Key: models.SortByPriority},
		models.ReviewPage{},
	)
	if byPriority.Items[0].Priority != models.PriorityHigh {
		t.Fatalf("expected high priority first, got %s", byPriority.Items[0].Priority)
	}

	// Page beyond the data still reports the full total
	page2, _ := store.ListReviews(
		models.ReviewFilter{},
		models.ReviewSort{Key: models.SortByCreatedAt},
		models.ReviewPage{Page: 2, PageSize: 3},
	)
	if page2.Total != 4 || len(page2.Items) != 1 {
		t.Fatalf("pagination wrong: total=%d len=%d", page2.Total, len(page2.Items))
	}
}

func TestReviewerLoadsCountsOpenReviews(t *testing.T) {
	store := NewMemoryStore()
	for _, id := range []string{"rev-a", "rev-b"} {
		_, err := store.CreateReviewer(&models.Reviewer{
			ReviewerID: id, Name: id, Role: models.RoleReviewer, Active: true,
		})
		if err != nil {
			t.Fatalf("CreateReviewer: %v", err)
		}
	}
	_, err := store.CreateReviewer(&models.Reviewer{
		ReviewerID: "rev-c", Name: "inactive", Role: models.RoleReviewer, Active: false,
	})
	if err != nil {
		t.Fatalf("CreateReviewer: %v", err)
	}

	created, _ := store.CreateReview(newTestReview("APP-1", "Ada", 1))
	now := time.Now()
	_, err = store.UpdateReview(created.ID, 0, func(r *models.QCReview) error {
		r.Status = models.ReviewStatusInReview
		r.AssignedTo = "rev-b"
		r.AssignedAt = &now
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateReview: %v", err)
	}

	loads, err := store.ReviewerLoads()
	if err != nil {
		t.Fatalf("ReviewerLoads: %v", err)
	}
	if len(loads) != 2 {
		t.Fatalf("expected 2 active reviewers, got %d", len(loads))
	}
	if loads[0].Reviewer.ReviewerID != "rev-a" || loads[0].OpenCount != 0 {
		t.Fatalf("unexpected first load: %+v", loads[0])
	}
	if loads[1].Reviewer.ReviewerID != "rev-b" || loads[1].OpenCount != 1 {
		t.Fatalf("unexpected second load: %+v", loads[1])
	}
}

func TestCreateReviewerRejectsDuplicates(t *testing.T) {
	store := NewMemoryStore()
	reviewer := &models.Reviewer{ReviewerID: "rev-a", Name: "A", Role: models.RoleReviewer, Active: true}
	if _, err := store.CreateReviewer(reviewer); err != nil {
		t.Fatalf("CreateReviewer: %v", err)
	}
	if _, err := store.CreateReviewer(reviewer); err != ErrReviewerExists {
		t.Fatalf("expected ErrReviewerExists, got %v", err)
	}
}
