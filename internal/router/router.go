package router

import (
	"log"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/hiraya-ph/outage-watch/backend/internal/geomap"
	"github.com/hiraya-ph/outage-watch/backend/internal/handlers"
	"github.com/hiraya-ph/outage-watch/backend/internal/middleware"
	"github.com/hiraya-ph/outage-watch/backend/internal/models"
	"github.com/hiraya-ph/outage-watch/backend/internal/notifications"
	"github.com/hiraya-ph/outage-watch/backend/internal/ratelimit"
	"github.com/hiraya-ph/outage-watch/backend/internal/realtime"
	"github.com/hiraya-ph/outage-watch/backend/internal/repositories"
	"github.com/hiraya-ph/outage-watch/backend/pkg/config"
	"github.com/hiraya-ph/outage-watch/backend/pkg/mailer"
	"github.com/hiraya-ph/outage-watch/backend/pkg/queue"
	"github.com/hiraya-ph/outage-watch/backend/pkg/storage"
)

// Deps carries the process-level dependencies the route tree needs.
type Deps struct {
	Config    *config.Config
	Postgres  *gorm.DB
	Mongo     *mongo.Client
	Messaging *messaging.Client
	Files     storage.FileStore
	Publisher *queue.Publisher
	Mail      mailer.Mailer
	Hub       *realtime.Hub
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	// AutoMigrate PostgreSQL models
	err := deps.Postgres.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Report{},
		&models.Announcement{},
		&models.DeviceToken{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.Health)

	mongoDB := deps.Mongo.Database("outagewatch")

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	profileRepo := repositories.NewPostgresProfileRepository(deps.Postgres)
	reportRepo := repositories.NewPostgresReportRepository(deps.Postgres)
	announcementRepo := repositories.NewPostgresAnnouncementRepository(deps.Postgres)
	tokenRepo := repositories.NewPostgresDeviceTokenRepository(deps.Postgres)
	draftRepo := repositories.NewMongoDraftRepository(mongoDB)
	stateRepo := repositories.NewMongoNotificationStateRepository(mongoDB)
	otpRepo := repositories.NewMongoOTPRepository(mongoDB)

	cooldown := ratelimit.NewCooldown(deps.Config.ReportCooldown)
	dispatcher := notifications.NewDispatcher(deps.Messaging, userRepo, profileRepo, stateRepo, tokenRepo)
	geocoder := geomap.NewGeocoder(deps.Config.GeocoderBaseURL)
	location := time.Local

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, profileRepo, otpRepo, deps.Mail, deps.Config.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public read-only routes ---
	public := e.Group("/api/v1")
	reportHandler := handlers.NewReportHandler(reportRepo, draftRepo, cooldown, deps.Files, deps.Publisher, deps.Hub)
	reportHandler.RegisterPublicRoutes(public)

	announcementHandler := handlers.NewAnnouncementHandler(announcementRepo, deps.Hub, dispatcher)
	announcementHandler.RegisterPublicRoutes(public)

	calendarHandler := handlers.NewCalendarHandler(reportRepo, location)
	calendarHandler.RegisterCalendarRoutes(public)

	mapHandler := handlers.NewMapHandler(announcementRepo, geocoder)
	mapHandler.RegisterMapRoutes(public)

	pageHandler := handlers.NewPageHandler()
	pageHandler.RegisterPageRoutes(public)

	realtimeHandler := handlers.NewRealtimeHandler(deps.Hub)
	realtimeHandler.RegisterRealtimeRoutes(public)
	log.Println("Public routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(deps.Config.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	authHandler.RegisterSessionRoutes(api)
	reportHandler.RegisterProtectedRoutes(api)

	profileHandler := handlers.NewProfileHandler(userRepo, profileRepo, deps.Files)
	profileHandler.RegisterProfileRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(announcementRepo, stateRepo, tokenRepo, userRepo, profileRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Protected routes configured.")

	// --- Admin routes ---
	admin := e.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(deps.Config.JWTSecret))
	admin.Use(middleware.AdminOnly())

	reportHandler.RegisterAdminRoutes(admin)
	announcementHandler.RegisterAdminRoutes(admin)
	log.Println("Admin routes configured.")
}
