package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/discoveryevent/ticketing-backend/config"
	"github.com/discoveryevent/ticketing-backend/database"
	"github.com/discoveryevent/ticketing-backend/internal/auditlog"
	"github.com/discoveryevent/ticketing-backend/internal/event"
	"github.com/discoveryevent/ticketing-backend/internal/notification"
	"github.com/discoveryevent/ticketing-backend/internal/organizer"
	"github.com/discoveryevent/ticketing-backend/internal/ticket"
	"github.com/discoveryevent/ticketing-backend/middleware"
	"github.com/discoveryevent/ticketing-backend/monitoring"
	"github.com/discoveryevent/ticketing-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "github.com/discoveryevent/ticketing-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the process-wide resources the routes are built on.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client // optional
	Notifier notification.Notifier
	Hasher   utils.PasswordHasher
	Codes    ticket.CodeGenerator // optional, defaults to UUIDs
}

func Setup(r *gin.Engine, cfg *config.Config, deps Deps) {
	db := deps.DB

	// ===========================
	// 🩺 Health, metrics, docs
	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(monitoring.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ===========================
	// 🧱 Repositories & services
	tx := database.NewTransactor(db)

	auditRepo := auditlog.NewRepository(db)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	organizerRepo := organizer.NewRepository(db)
	organizerSvc := organizer.NewService(organizerRepo, tx, deps.Hasher, auditSvc)
	organizerHandler := organizer.NewHandler(organizerSvc)

	ticketRepo := ticket.NewRepository(db)
	eventRepo := event.NewRepository(db)

	eventCache := event.NoopCache()
	if deps.Redis != nil {
		eventCache = event.NewRedisCache(deps.Redis, cfg.EventCacheTTL)
	}
	eventSvc := event.NewService(eventRepo, organizerRepo, ticketRepo, tx, auditSvc, event.WithCache(eventCache))
	eventHandler := event.NewHandler(eventSvc)

	ticketSvc := ticket.NewService(ticketRepo, eventRepo, tx, auditSvc, deps.Notifier, deps.Codes, ticket.WithEventCache(eventCache))
	ticketHandler := ticket.NewHandler(ticketSvc)

	// ===========================
	// 🌐 API
	api := r.Group(cfg.APIBasePath)
	api.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, deps.Redis))
	api.Use(middleware.AuditMiddleware())

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", organizerHandler.Register)
		authRoutes.POST("/login", organizerHandler.Login)
	}

	acting := middleware.ActingOrganizer(cfg.EnforceEventOwnership)

	eventRoutes := api.Group("/events")
	{
		eventRoutes.GET("", eventHandler.ListEvents)
		eventRoutes.GET("/:id", eventHandler.GetEvent)
		eventRoutes.GET("/:id/tickets", ticketHandler.ListForEvent)
		eventRoutes.GET("/:id/tickets/export", ticketHandler.Export)

		writeRoutes := eventRoutes.Group("")
		writeRoutes.Use(acting)
		{
			writeRoutes.POST("", eventHandler.CreateEvent)
			writeRoutes.PUT("/:id", eventHandler.UpdateEvent)
			writeRoutes.DELETE("/:id", eventHandler.DeleteEvent)
		}
	}

	api.GET("/organizers/:id/events", eventHandler.ListOrganizerEvents)

	ticketRoutes := api.Group("/tickets")
	{
		ticketRoutes.POST("/purchase", ticketHandler.Purchase)
		ticketRoutes.GET("/:code", ticketHandler.GetByCode)
	}

	api.GET("/audit-logs", auditHandler.GetAuditLogs)
}
