package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/handlers"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/middleware"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/services"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, notifier services.Notifier, collaborators *services.StaticCollaborators) {
	reviewSvc := services.NewReviewService(store, collaborators, collaborators, collaborators, collaborators)
	listingSvc := services.NewListingService(store)
	verificationSvc := services.NewVerificationService(store)
	assignmentSvc := services.NewAssignmentService(store, notifier)
	decisionSvc := services.NewDecisionService(store, notifier)
	reviewerSvc := services.NewReviewerService(store)

	reviewHandler := handlers.NewReviewHandler(reviewSvc, listingSvc)
	verificationHandler := handlers.NewVerificationHandler(verificationSvc)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentSvc)
	decisionHandler := handlers.NewDecisionHandler(decisionSvc)
	reviewerHandler := handlers.NewReviewerHandler(reviewerSvc)
	healthHandler := handlers.NewHealthHandler("1.0.0")

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api", middleware.RequireAuth())

	// Review routes
	reviews := api.Group("/reviews")
	reviews.Post("/", reviewHandler.CreateReview)
	reviews.Get("/", reviewHandler.ListReviews)
	reviews.Get("/:id", reviewHandler.GetReview)

	// Item verification routes
	items := reviews.Group("/:id/items/:itemID")
	items.Post("/verify", verificationHandler.VerifyItem)
	items.Post("/reject", verificationHandler.RejectItem)
	items.Post("/waive", verificationHandler.WaiveItem)
	items.Post("/annotate", verificationHandler.AnnotateItem)

	// Assignment routes
	reviews.Post("/:id/assign", assignmentHandler.AssignAutomatic)
	reviews.Post("/:id/assign/manual", middleware.RequireSupervisor(), assignmentHandler.AssignManual)
	reviews.Post("/:id/unassign", middleware.RequireSupervisor(), assignmentHandler.Unassign)

	// Decision route
	reviews.Post("/:id/decision", decisionHandler.SubmitDecision)

	// Reviewer registry routes
	reviewers := api.Group("/reviewers")
	reviewers.Post("/", middleware.RequireSupervisor(), reviewerHandler.RegisterReviewer)
	reviewers.Get("/", reviewerHandler.ListReviewers)
}
