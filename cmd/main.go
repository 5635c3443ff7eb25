package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mithunkr7/event-invite-backend/config"
	"github.com/mithunkr7/event-invite-backend/database"
	"github.com/mithunkr7/event-invite-backend/internal/auditlog"
	"github.com/mithunkr7/event-invite-backend/internal/auth"
	"github.com/mithunkr7/event-invite-backend/internal/event"
	"github.com/mithunkr7/event-invite-backend/internal/guest"
	"github.com/mithunkr7/event-invite-backend/internal/notification"
	"github.com/mithunkr7/event-invite-backend/internal/reminder"
	"github.com/mithunkr7/event-invite-backend/routes"
	"github.com/mithunkr7/event-invite-backend/utils"
)

// @title Event Invite Backend API
// @version 1.0
// @description RSVP collection and multi-channel notification backend.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}

	// Init Kafka
	utils.InitializeKafka()
	defer utils.CloseKafka()

	// Init Firebase
	log.Println("🔄 Initializing Firebase...")
	if err := utils.InitFirebase(); err != nil {
		log.Printf("⚠️ Firebase initialization failed: %v", err)
		log.Println("ℹ️ Continuing without Firebase (push notifications will be disabled)")
	} else if utils.IsFCMEnabled() {
		log.Println("✅ Firebase and FCM initialized successfully")
	} else {
		log.Println("⚠️ Firebase initialized but FCM client unavailable")
	}

	// Seed roles & bootstrap admin
	if err := auth.SeedUserRoles(db); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed roles: %v", err))
	}
	if err := auth.SeedAdminUser(db); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed admin user: %v", err))
	}

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auditlog.AuditLog{},
		&event.Event{},
		&event.CoHost{},
		&guest.Guest{},
		&guest.AdditionalGuest{},
		&notification.ChannelSetting{},
		&notification.NotificationLog{},
		&notification.InAppNotification{},
		&notification.FCMDeviceToken{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	deps := routes.Setup(router, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Host alert fan-out consumer
	go notification.StartKafkaConsumer(ctx, deps.NotifSvc)

	// Reminder scheduler
	scheduler := reminder.New(
		deps.EventRepo,
		deps.GuestRepo,
		deps.NotifSvc,
		time.Duration(cfg.ReminderTickMinutes)*time.Minute,
		time.Duration(cfg.ReminderLookaheadDays)*24*time.Hour,
	)
	go scheduler.Run(ctx)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	fmt.Printf("🚀 Server starting on port %s\n", port)
	if utils.IsFCMEnabled() {
		fmt.Println("✅ Firebase Cloud Messaging enabled")
	} else {
		fmt.Println("ℹ️ Firebase Cloud Messaging disabled")
		if err := utils.GetInitError(); err != nil {
			fmt.Printf("   Reason: %v\n", err)
		}
	}

	if err := router.Run(":" + port); err != nil {
		panic(fmt.Sprintf("Failed to start server: %v", err))
	}
}
