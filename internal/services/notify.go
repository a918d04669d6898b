package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
)

// Notifier delivers assignment and decision notifications to reviewers.
// Delivery failures never fail the operation that triggered them.
type Notifier interface {
	ReviewAssigned(reviewer *models.Reviewer, review *models.QCReview) error
	ReviewDecided(reviewer *models.Reviewer, review *models.QCReview) error
	ReviewStale(supervisor *models.Reviewer, reviewID string, age time.Duration) error
}

// SMSNotifier sends notifications over Twilio SMS.
type SMSNotifier struct {
	client *twilio.RestClient
	from   string
}

// NewSMSNotifier creates a Twilio-backed notifier from environment variables.
func NewSMSNotifier() (*SMSNotifier, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_PHONE_NUMBER")

	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &SMSNotifier{client: client, from: from}, nil
}

func (n *SMSNotifier) send(to, message string) error {
	if to == "" {
		return nil
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(n.from)
	params.SetTo(to)
	params.SetBody(message)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send SMS: %v", err)
		return err
	}
	log.Printf("✅ SMS sent! SID: %s", *resp.Sid)
	return nil
}

func (n *SMSNotifier) ReviewAssigned(reviewer *models.Reviewer, review *models.QCReview) error {
	msg := fmt.Sprintf("QC review %s (%s, %s priority) has been assigned to you.",
		review.ID, review.BorrowerName, review.Priority)
	return n.send(reviewer.Phone, msg)
}

func (n *SMSNotifier) ReviewDecided(reviewer *models.Reviewer, review *models.QCReview) error {
	msg := fmt.Sprintf("QC review %s has been %s.", review.ID, review.Status)
	if review.Status == models.ReviewStatusReturned {
		msg = fmt.Sprintf("QC review %s has been returned: %s.", review.ID, review.ReturnReason)
	}
	return n.send(reviewer.Phone, msg)
}

func (n *SMSNotifier) ReviewStale(supervisor *models.Reviewer, reviewID string, age time.Duration) error {
	msg := fmt.Sprintf("QC review %s has been in review for %s without a decision.",
		reviewID, age.Round(time.Hour))
	return n.send(supervisor.Phone, msg)
}

// LogNotifier writes notifications to the process log. Used when Twilio is
// not configured and in tests.
type LogNotifier struct{}

func (LogNotifier) ReviewAssigned(reviewer *models.Reviewer, review *models.QCReview) error {
	log.Printf("📣 Review %s assigned to %s", review.ID, reviewer.ReviewerID)
	return nil
}

func (LogNotifier) ReviewDecided(reviewer *models.Reviewer, review *models.QCReview) error {
	log.Printf("📣 Review %s decided: %s", review.ID, review.Status)
	return nil
}

func (LogNotifier) ReviewStale(supervisor *models.Reviewer, reviewID string, age time.Duration) error {
	log.Printf("📣 Review %s stale for %s (supervisor %s)", reviewID, age.Round(time.Hour), supervisor.ReviewerID)
	return nil
}
