package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mithunkr7/event-invite-backend/config"
	"github.com/mithunkr7/event-invite-backend/database"
	"github.com/mithunkr7/event-invite-backend/internal/auditlog"
	"github.com/mithunkr7/event-invite-backend/internal/auth"
	"github.com/mithunkr7/event-invite-backend/internal/event"
	"github.com/mithunkr7/event-invite-backend/internal/guest"
	"github.com/mithunkr7/event-invite-backend/internal/notification"
	"github.com/mithunkr7/event-invite-backend/internal/reports"
	"github.com/mithunkr7/event-invite-backend/middleware"

	_ "github.com/mithunkr7/event-invite-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps exposes the wired services the background jobs in main need.
type Deps struct {
	NotifSvc  *notification.Service
	EventRepo *event.Repository
	GuestRepo guest.Repository
}

func Setup(r *gin.Engine, cfg *config.Config) *Deps {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())
	api.Use(middleware.AuditMiddleware())

	// ========== Audit Log Module ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// ========== Events & Notifications wiring ==========
	eventRepo := event.NewRepository(database.DB)
	eventService := event.NewService(eventRepo, auditSvc)
	eventHandler := event.NewHandler(eventService)

	notificationRepo := notification.NewRepository(database.DB)
	notifSvc := notification.NewService(notificationRepo, cfg, eventRepo, authRepo, auditSvc)
	notificationHandler := notification.NewHandler(notifSvc)

	guestRepo := guest.NewRepository(database.DB)
	guestService := guest.NewService(guestRepo, eventRepo, notifSvc, auditSvc)
	guestHandler := guest.NewHandler(guestService)

	reportsHandler := reports.NewHandler(eventRepo, guestRepo)

	// ========== Public RSVP (token-based, no auth) ==========
	rsvpRoutes := api.Group("/rsvp")
	{
		rsvpRoutes.GET("/:token", guestHandler.GetRSVP)
		rsvpRoutes.PATCH("/:token", guestHandler.UpdateRSVP)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	// ========== Audit Logs (Admin Only) ==========
	auditRoutes := protected.Group("/auditlogs")
	auditRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin))
	{
		auditRoutes.GET("/", auditHandler.GetAuditLogs)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}

	// ========== Events ==========
	eventRoutes := protected.Group("/events")
	{
		writeRoutes := eventRoutes.Group("")
		writeRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleHost))
		{
			writeRoutes.POST("/", eventHandler.CreateEvent)
			writeRoutes.POST("", eventHandler.CreateEvent)
			writeRoutes.PUT("/:id", eventHandler.UpdateEvent)
			writeRoutes.DELETE("/:id", eventHandler.DeleteEvent)
		}

		eventRoutes.GET("/", eventHandler.ListEvents)
		eventRoutes.GET("", eventHandler.ListEvents)
		eventRoutes.GET("/:id", eventHandler.GetEvent)

		// Reminder schedule (role checked in service: host, cohost, admin)
		eventRoutes.GET("/:id/reminder-schedule", eventHandler.GetReminderSchedule)
		eventRoutes.PUT("/:id/reminder-schedule", eventHandler.SetReminderSchedule)

		// Co-hosts
		eventRoutes.GET("/:id/cohosts", eventHandler.ListCoHosts)
		eventRoutes.POST("/:id/cohosts", eventHandler.AddCoHost)
		eventRoutes.DELETE("/:id/cohosts/:userId", eventHandler.RemoveCoHost)

		// Guests
		eventRoutes.GET("/:id/guests", guestHandler.ListGuests)
		eventRoutes.POST("/:id/guests", guestHandler.AddGuest)
		eventRoutes.DELETE("/:id/guests/:guestId", guestHandler.RemoveGuest)

		// Delivery history and exports
		eventRoutes.GET("/:id/notifications", notificationHandler.ListEventLogs)
		eventRoutes.GET("/:id/reports/guests", reportsHandler.ExportGuestList)
	}

	// ========== Notifications ==========
	notificationRoutes := protected.Group("/notifications")
	{
		notificationRoutes.GET("", notificationHandler.ListInApp)
		notificationRoutes.POST("/:id/read", notificationHandler.MarkInAppRead)
		notificationRoutes.POST("/read-all", notificationHandler.MarkAllInAppRead)
		notificationRoutes.POST("/device-tokens", notificationHandler.RegisterDeviceToken)
		notificationRoutes.DELETE("/device-tokens", notificationHandler.RemoveDeviceToken)
	}

	// ========== Channel Settings (Admin Only) ==========
	settingsRoutes := protected.Group("/admin/channel-settings")
	settingsRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin))
	{
		settingsRoutes.GET("", notificationHandler.GetChannelSetting)
		settingsRoutes.PUT("", notificationHandler.UpdateChannelSetting)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})

	return &Deps{
		NotifSvc:  notifSvc,
		EventRepo: eventRepo,
		GuestRepo: guestRepo,
	}
}
