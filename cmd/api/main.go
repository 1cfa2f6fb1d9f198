package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/visaflow/backend/internal/config"
	"github.com/visaflow/backend/internal/database"
	"github.com/visaflow/backend/internal/database/migrations"
	"github.com/visaflow/backend/internal/handlers"
	"github.com/visaflow/backend/internal/jobs"
	"github.com/visaflow/backend/internal/queue"
	"github.com/visaflow/backend/internal/routes"
	"github.com/visaflow/backend/internal/services/lifecycle"
	"github.com/visaflow/backend/internal/services/notify"
	"github.com/visaflow/backend/internal/services/payment"
	"github.com/visaflow/backend/internal/services/settings"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := config.LoadConfig()

	// Setup database connection
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto-migrate: %v", err)
	}

	// Redis cache for the settings service; the app degrades to direct
	// DB reads if it is unreachable
	var cache *redis.Client
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("Warning: redis unavailable, settings cache disabled: %v", err)
	} else {
		cache = rdb
	}

	// Notification stack: typed channel toggles, channel senders, the
	// queue-backed retrier and the dispatcher itself
	toggles := notify.NewToggles()
	senders := []notify.Sender{
		notify.NewEmailSender(cfg.SMTP),
		notify.NewSMSSender(cfg.SMS),
		notify.NewWhatsAppSender(cfg.WhatsApp),
	}
	notifyStore := notify.NewGormStore(db)

	jobQueue := queue.NewQueue(db)
	dispatcher := notify.NewDispatcher(notifyStore, toggles, senders, jobs.NewQueueRetrier(jobQueue))

	// Settings service seeds the toggles from the settings table and
	// keeps them fresh on admin writes
	settingsSvc := settings.NewService(db, cache, toggles)
	settingsSvc.RefreshToggles(context.Background())

	// Payment tracker publishes verification events into the lifecycle
	tracker := payment.NewTracker(payment.NewGormStore(db), cfg.Gateway.SharedSecret)
	lifecycleSvc := lifecycle.NewService(lifecycle.NewGormStore(db), dispatcher, true)
	tracker.OnVerified(lifecycleSvc.HandlePaymentVerified)

	// Background work: queue processor and recurring jobs
	jobs.RegisterAllJobHandlers(jobQueue, notifyStore, senders)
	jobQueue.StartProcessing()

	scheduler, err := jobs.StartScheduler(tracker)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Initialize router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.RegisterRoutes(router, routes.Handlers{
		Auth:         handlers.NewAuthHandler(db, cfg),
		Profile:      handlers.NewProfileHandler(db),
		Application:  handlers.NewApplicationHandler(db, lifecycleSvc),
		Payment:      handlers.NewPaymentHandler(db, tracker),
		Notification: handlers.NewNotificationHandler(db),
		AdminUser:    handlers.NewAdminUserHandler(db, dispatcher),
		Catalog:      handlers.NewCatalogHandler(db),
		Settings:     handlers.NewSettingsHandler(settingsSvc),
	})

	log.Printf("VisaFlow API server running on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
