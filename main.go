package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/claytonbench/underwriting-61kiqe-sub002/database"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/jobs"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/routes"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/services"
	"github.com/claytonbench/underwriting-61kiqe-sub002/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			err = godotenv.Load("environments/.env.development")
			if err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}

	if os.Getenv("ACCESS_TOKEN_SECRET") == "" {
		log.Println("⚠️  ACCESS_TOKEN_SECRET not set - API tokens will not validate")
	}

	// Initialize storage
	var store storage.Store

	// Check if we should use memory store (for testing)
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		// Connect to database
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		// Run migrations
		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.QCReview{},
			&models.VerificationItem{},
			&models.Reviewer{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Initialize notifier; fall back to log-only when Twilio is unconfigured
	var notifier services.Notifier
	smsNotifier, err := services.NewSMSNotifier()
	if err != nil {
		log.Printf("⚠️  Twilio not configured (%v) - notifications will be logged only", err)
		notifier = services.LogNotifier{}
	} else {
		log.Println("✅ Twilio SMS notifier initialized")
		notifier = smsNotifier
	}

	// Seed collaborators; production deployments point these at the
	// application, document, and stipulation services
	collaborators := services.NewStaticCollaborators(services.DefaultChecklist())
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		seedDevFixtures(collaborators)
	}

	// Start the review-aging reminder job
	reminderJob := jobs.NewReminderJob(store, notifier, time.Hour, 48*time.Hour)
	reminderJob.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "QC Review Engine v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, If-Match",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Root endpoint with service status
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     "QC Review Engine",
			"version":     "1.0.0",
			"status":      "healthy",
			"environment": getEnvironment(),
			"storage":     getStorageType(),
			"endpoints": fiber.Map{
				"health":    "/health",
				"reviews":   "/api/reviews",
				"reviewers": "/api/reviewers",
			},
		})
	})

	// Setup routes
	routes.SetupRoutes(app, store, notifier, collaborators)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping reminder job...")
		reminderJob.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 QC Review Engine starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

// seedDevFixtures registers sample applications so local development has
// something to create reviews against.
func seedDevFixtures(collaborators *services.StaticCollaborators) {
	collaborators.AddApplication(
		services.ApplicationSummary{
			ApplicationID: "APP-1001",
			BorrowerName:  "Dana Whitfield",
			SchoolID:      "SCH-42",
			SchoolName:    "Lakeview Technical Institute",
		},
		[]services.RequiredDocument{
			{DocumentID: "DOC-1", DocumentType: "government_id", FileName: "id.pdf"},
			{DocumentID: "DOC-2", DocumentType: "enrollment_agreement", FileName: "enrollment.pdf"},
		},
		[]string{"Proof of enrollment for fall term"},
	)
	collaborators.AddApplication(
		services.ApplicationSummary{
			ApplicationID: "APP-1002",
			BorrowerName:  "Miguel Ortega",
			SchoolID:      "SCH-17",
			SchoolName:    "Harborside College of Trades",
		},
		[]services.RequiredDocument{
			{DocumentID: "DOC-3", DocumentType: "government_id", FileName: "id.pdf"},
		},
		nil,
	)
	log.Printf("🌱 Seeded %d development applications", len(collaborators.ApplicationIDs()))
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}
