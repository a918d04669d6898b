package jobs

import (
	"log"
	"time"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/services"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/storage"
)

// ReminderJob periodically surfaces reviews that are going stale: pending
// reviews with no assignee and in-review reviews that have sat with one
// reviewer past the age threshold. It only reads and notifies; review state
// is never mutated here.
type ReminderJob struct {
	store     storage.Store
	notifier  services.Notifier
	interval  time.Duration
	staleAge  time.Duration
	isRunning bool
	stop      chan struct{}
}

// NewReminderJob creates a reminder job with the given sweep interval and
// in-review staleness threshold.
func NewReminderJob(store storage.Store, notifier services.Notifier, interval, staleAge time.Duration) *ReminderJob {
	return &ReminderJob{
		store:    store,
		notifier: notifier,
		interval: interval,
		staleAge: staleAge,
		stop:     make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (j *ReminderJob) Start() {
	if j.isRunning {
		log.Println("Reminder job already running")
		return
	}
	j.isRunning = true
	log.Println("Starting review reminder job...")
	go j.run()
}

// Stop halts the sweep.
func (j *ReminderJob) Stop() {
	if !j.isRunning {
		return
	}
	j.isRunning = false
	close(j.stop)
	log.Println("Stopping review reminder job...")
}

func (j *ReminderJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

// sweep logs the queue backlog and pings supervisors about stale reviews.
func (j *ReminderJob) sweep() {
	pending, err := j.store.ListReviews(
		models.ReviewFilter{Status: models.ReviewStatusPending},
		models.ReviewSort{Key: models.SortByCreatedAt},
		models.ReviewPage{Page: 1, PageSize: 100},
	)
	if err != nil {
		log.Printf("Reminder sweep failed listing pending reviews: %v", err)
		return
	}

	inReview, err := j.store.ListReviews(
		models.ReviewFilter{Status: models.ReviewStatusInReview},
		models.ReviewSort{Key: models.SortByAssignedAt},
		models.ReviewPage{Page: 1, PageSize: 100},
	)
	if err != nil {
		log.Printf("Reminder sweep failed listing in-review reviews: %v", err)
		return
	}

	stale := 0
	cutoff := time.Now().Add(-j.staleAge)
	for _, r := range inReview.Items {
		if r.AssignedAt != nil && r.AssignedAt.Before(cutoff) {
			stale++
		}
	}

	log.Printf("📋 QC queue: %d pending unassigned, %d in review (%d stale)",
		pending.Total, inReview.Total, stale)

	if stale == 0 {
		return
	}

	reviewers, err := j.store.ListReviewers()
	if err != nil {
		log.Printf("Reminder sweep failed listing reviewers: %v", err)
		return
	}
	for _, reviewer := range reviewers {
		if reviewer.Role != models.RoleSupervisor || !reviewer.Active {
			continue
		}
		for _, r := range inReview.Items {
			if r.AssignedAt != nil && r.AssignedAt.Before(cutoff) {
				age := time.Since(*r.AssignedAt)
				if err := j.notifier.ReviewStale(reviewer, r.ID, age); err != nil {
					log.Printf("Stale-review reminder to %s failed: %v", reviewer.ReviewerID, err)
				}
			}
		}
	}
}
