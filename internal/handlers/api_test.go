package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/middleware"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/routes"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/services"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/storage"
)

// buildTestApp wires the full API over the in-memory store with one seeded
// application and three staff members.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	store := storage.NewMemoryStore()
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

	collab := services.NewStaticCollaborators(services.DefaultChecklist())
	collab.AddApplication(
		services.ApplicationSummary{
			ApplicationID: "APP-1",
			BorrowerName:  "Dana Whitfield",
			SchoolID:      "SCH-42",
			SchoolName:    "Lakeview Technical Institute",
		},
		[]services.RequiredDocument{
			{DocumentID: "DOC-1", DocumentType: "government_id", FileName: "id.pdf"},
		},
		[]string{"Proof of enrollment for fall term"},
	)

	app := fiber.New()
	routes.SetupRoutes(app, store, services.LogNotifier{}, collab)
	return app
}

func signTestToken(t *testing.T, reviewerID string, role models.ReviewerRole) string {
	t.Helper()
	token, err := middleware.SignToken(reviewerID, role, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var parsed map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

func TestAPIRequiresToken(t *testing.T) {
	app := buildTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/reviews", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health must be open, got %d", resp.StatusCode)
	}
}

func TestSupervisorOnlyRoutes(t *testing.T) {
	app := buildTestApp(t)
	reviewerToken := signTestToken(t, "rev-a", models.RoleReviewer)
	supToken := signTestToken(t, "sup-1", models.RoleSupervisor)

	resp, body := doJSON(t, app, http.MethodPost, "/api/reviews", reviewerToken,
		fiber.Map{"application_id": "APP-1"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create review: %d %v", resp.StatusCode, body)
	}
	reviewID := body["review"].(map[string]any)["id"].(string)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/reviews/"+reviewID+"/assign/manual", reviewerToken,
		fiber.Map{"reviewer_id": "rev-b"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-supervisor manual assign, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/api/reviews/"+reviewID+"/assign/manual", supToken,
		fiber.Map{"reviewer_id": "rev-b"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("supervisor manual assign failed: %d", resp.StatusCode)
	}
}

func TestFullReviewFlow(t *testing.T) {
	app := buildTestApp(t)
	tokenA := signTestToken(t, "rev-a", models.RoleReviewer)

	// Create and auto-assign; rev-a is the lowest idle reviewer id
	resp, body := doJSON(t, app, http.MethodPost, "/api/reviews", tokenA,
		fiber.Map{"application_id": "APP-1", "priority": "high"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create review: %d %v", resp.StatusCode, body)
	}
	review := body["review"].(map[string]any)
	reviewID := review["id"].(string)

	resp, body = doJSON(t, app, http.MethodPost, "/api/reviews/"+reviewID+"/assign", tokenA, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("auto assign: %d %v", resp.StatusCode, body)
	}
	if assignee := body["review"].(map[string]any)["assigned_to"]; assignee != "rev-a" {
		t.Fatalf("expected rev-a assigned, got %v", assignee)
	}

	// Premature approval carries the unresolved count
	resp, body = doJSON(t, app, http.MethodPost, "/api/reviews/"+reviewID+"/decision", tokenA,
		fiber.Map{"decision": "approved"})
	if resp.StatusCode != http.StatusPreconditionFailed {
		t.Fatalf("expected 412 on premature approval, got %d %v", resp.StatusCode, body)
	}

	// Work every item
	resp, body = doJSON(t, app, http.MethodGet, "/api/reviews/"+reviewID, tokenA, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get review: %d", resp.StatusCode)
	}
	items := body["review"].(map[string]any)["items"].([]any)
	for _, raw := range items {
		item := raw.(map[string]any)
		url := fmt.Sprintf("/api/reviews/%s/items/%s/verify", reviewID, item["id"].(string))
		resp, body = doJSON(t, app, http.MethodPost, url, tokenA, fiber.Map{"comments": "checked"})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("verify item: %d %v", resp.StatusCode, body)
		}
	}

	resp, body = doJSON(t, app, http.MethodPost, "/api/reviews/"+reviewID+"/decision", tokenA,
		fiber.Map{"decision": "approved", "notes": "clean file"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: %d %v", resp.StatusCode, body)
	}
	final := body["review"].(map[string]any)
	if final["status"] != "approved" || final["completion_percentage"].(float64) != 100 {
		t.Fatalf("unexpected final review: %v", final)
	}
}

func TestItemActionFailureStatuses(t *testing.T) {
	app := buildTestApp(t)
	tokenA := signTestToken(t, "rev-a", models.RoleReviewer)
	tokenB := signTestToken(t, "rev-b", models.RoleReviewer)

	_, body := doJSON(t, app, http.MethodPost, "/api/reviews", tokenA, fiber.Map{"application_id": "APP-1"})
	reviewID := body["review"].(map[string]any)["id"].(string)
	doJSON(t, app, http.MethodPost, "/api/reviews/"+reviewID+"/assign", tokenA, nil)

	resp, body := doJSON(t, app, http.MethodGet, "/api/reviews/"+reviewID, tokenA, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get review: %d", resp.StatusCode)
	}
	var docID, stipID string
	for _, raw := range body["review"].(map[string]any)["items"].([]any) {
		item := raw.(map[string]any)
		switch item["kind"].(string) {
		case "document":
			docID = item["id"].(string)
		case "stipulation":
			stipID = item["id"].(string)
		}
	}

	// Waiving a document is unsupported
	resp, body = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/reviews/%s/items/%s/waive", reviewID, docID), tokenA,
		fiber.Map{"comments": "skip it"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for document waive, got %d %v", resp.StatusCode, body)
	}

	// Rejecting without comments is a validation error
	resp, _ = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/reviews/%s/items/%s/reject", reviewID, stipID), tokenA, fiber.Map{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty reject comments, got %d", resp.StatusCode)
	}

	// A non-assignee is forbidden
	resp, _ = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/reviews/%s/items/%s/verify", reviewID, docID), tokenB,
		fiber.Map{"comments": "mine now"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-assignee, got %d", resp.StatusCode)
	}

	// Unknown review is a 404
	resp, _ = doJSON(t, app, http.MethodGet, "/api/reviews/QCR99999", tokenA, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown review, got %d", resp.StatusCode)
	}
}

func TestListEndpoint(t *testing.T) {
	app := buildTestApp(t)
	tokenA := signTestToken(t, "rev-a", models.RoleReviewer)

	for i := 0; i < 3; i++ {
		resp, body := doJSON(t, app, http.MethodPost, "/api/reviews", tokenA, fiber.Map{"application_id": "APP-1"})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create review: %d %v", resp.StatusCode, body)
		}
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/reviews?status=pending&page=1&page_size=2&sort_by=created_at&sort_dir=desc", tokenA, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: %d %v", resp.StatusCode, body)
	}
	if body["total"].(float64) != 3 {
		t.Fatalf("expected total 3, got %v", body["total"])
	}
	if len(body["reviews"].([]any)) != 2 {
		t.Fatalf("expected page of 2, got %d", len(body["reviews"].([]any)))
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/api/reviews?sort_by=shoe_size", tokenA, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad sort key, got %d", resp.StatusCode)
	}
}
