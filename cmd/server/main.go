package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/hiraya-ph/outage-watch/backend/internal/realtime"
	"github.com/hiraya-ph/outage-watch/backend/internal/router"
	"github.com/hiraya-ph/outage-watch/backend/pkg/config"
	"github.com/hiraya-ph/outage-watch/backend/pkg/firebase"
	"github.com/hiraya-ph/outage-watch/backend/pkg/mailer"
	"github.com/hiraya-ph/outage-watch/backend/pkg/queue"
	"github.com/hiraya-ph/outage-watch/backend/pkg/storage"
	"github.com/hiraya-ph/outage-watch/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase. Push and file uploads degrade to disabled when
	// credentials are absent so local development stays keyless.
	ctx := context.Background()
	deps := router.Deps{
		Config:   cfg,
		Postgres: db.Postgres,
		Mongo:    db.Mongo,
	}
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Printf("Firebase unavailable, push and uploads disabled: %v", err)
	} else {
		deps.Messaging = firebaseApp.Messaging
		deps.Files = storage.NewBucketStore(firebaseApp.StorageClient, cfg.StorageBucket, cfg.PublicBaseURL)
	}

	// Optional report queue
	if cfg.AMQPUrl != "" {
		publisher, err := queue.NewPublisher(cfg.AMQPUrl, cfg.AMQPExchange, "reports.accepted")
		if err != nil {
			log.Fatalf("Failed to connect report queue: %v", err)
		}
		defer publisher.Close()
		deps.Publisher = publisher
	}

	deps.Mail = mailer.NewSendgridMailer(cfg.SendgridAPIKey, cfg.MailFrom)

	// Realtime hub
	hub := realtime.NewHub()
	go hub.Run()
	deps.Hub = hub

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, deps)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
