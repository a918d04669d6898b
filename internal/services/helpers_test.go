package services

import (
	"sync"
	"testing"
	"time"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/storage"
)

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	assigned []string
	decided  []string
}

func (n *recordingNotifier) ReviewAssigned(reviewer *models.Reviewer, review *models.QCReview) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.assigned = append(n.assigned, reviewer.ReviewerID+":"+review.ID)
	return nil
}

func (n *recordingNotifier) ReviewDecided(reviewer *models.Reviewer, review *models.QCReview) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decided = append(n.decided, review.ID+":"+string(review.Status))
	return nil
}

func (n *recordingNotifier) ReviewStale(supervisor *models.Reviewer, reviewID string, age time.Duration) error {
	return nil
}

type testEnv struct {
	store        *storage.MemoryStore
	collab       *StaticCollaborators
	notifier     *recordingNotifier
	reviews      *ReviewService
	verification *VerificationService
	assignment   *AssignmentService
	decisions    *DecisionService
	listing      *ListingService
	reviewers    *ReviewerService
}

var (
	callerA    = Identity{ReviewerID: "rev-a", Role: models.RoleReviewer}
	callerB    = Identity{ReviewerID: "rev-b", Role: models.RoleReviewer}
	supervisor = Identity{ReviewerID: "sup-1", Role: models.RoleSupervisor}
)

// newTestEnv wires the engine over the in-memory store with two registered
// reviewers, a supervisor, and one application fixture carrying two
// documents, one stipulation, and no checklist entries.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := storage.NewMemoryStore()
	collab := NewStaticCollaborators(nil)
	collab.AddApplication(
		ApplicationSummary{
			ApplicationID: "APP-1",
			BorrowerName:  "Dana Whitfield",
			SchoolID:      "SCH-42",
			SchoolName:    "Lakeview Technical Institute",
		},
		[]RequiredDocument{
			{DocumentID: "DOC-1", DocumentType: "government_id", FileName: "id.pdf"},
			{DocumentID: "DOC-2", DocumentType: "enrollment_agreement", FileName: "enrollment.pdf"},
		},
		[]string{"Proof of enrollment for fall term"},
	)

	for _, r := range []models.Reviewer{
		{ReviewerID: "rev-a", Name: "Reviewer A", Role: models.RoleReviewer, Active: true},
		{ReviewerID: "rev-b", Name: "Reviewer B", Role: models.RoleReviewer, Active: true},
		{ReviewerID: "sup-1", Name: "Supervisor", Role: models.RoleSupervisor, Active: true},
	} {
		reviewer := r
		if _, err := store.CreateReviewer(&reviewer); err != nil {
			t.Fatalf("CreateReviewer: %v", err)
		}
	}

	notifier := &recordingNotifier{}
	return &testEnv{
		store:        store,
		collab:       collab,
		notifier:     notifier,
		reviews:      NewReviewService(store, collab, collab, collab, collab),
		verification: NewVerificationService(store),
		assignment:   NewAssignmentService(store, notifier),
		decisions:    NewDecisionService(store, notifier),
		listing:      NewListingService(store),
		reviewers:    NewReviewerService(store),
	}
}

// newAssignedReview creates the APP-1 review and manually assigns it to the
// given reviewer, returning the in-review state.
func (e *testEnv) newAssignedReview(t *testing.T, reviewerID string) *models.QCReview {
	t.Helper()
	review, err := e.reviews.CreateReview("APP-1", models.PriorityMedium)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	assigned, err := e.assignment.AssignManual(review.ID, reviewerID, supervisor)
	if err != nil {
		t.Fatalf("AssignManual: %v", err)
	}
	return assigned
}

// itemsOfKind returns the review's items of one kind.
func itemsOfKind(review *models.QCReview, kind models.ItemKind) []models.VerificationItem {
	var out []models.VerificationItem
	for _, item := range review.Items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

func expectKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}
