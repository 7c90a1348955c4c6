package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
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
	"github.com/discoveryevent/ticketing-backend/routes"
	"github.com/discoveryevent/ticketing-backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @title DiscoveryEvent's Ticketing API
// @version 1.0
// @description Organizer accounts, events and ticket sales.
// @BasePath /api
func main() {
	cfg := config.Load()
	setupLogging(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("❌ Database connection failed")
	}

	logrus.Info("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&organizer.Organizer{},
		&event.Event{},
		&ticket.Ticket{},
		&auditlog.AuditLog{},
		&notification.NotificationLog{},
	); err != nil {
		logrus.WithError(err).Fatal("❌ DB AutoMigrate failed")
	}
	logrus.Info("✅ Database migrations completed")

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		logrus.WithError(err).Warn("⚠️ Redis unavailable, continuing without cache")
		rdb = nil
	}

	// ===========================
	// 📧 Confirmation email delivery
	mailer, err := notification.NewMailer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("❌ Email setup failed")
	}
	notificationRepo := notification.NewRepository(db)

	var (
		dispatcher *notification.Dispatcher
		publisher  *notification.KafkaPublisher
		notifier   notification.Notifier
	)
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	newDispatcher := func() *notification.Dispatcher {
		return notification.NewDispatcher(mailer, notificationRepo, notification.DispatcherOptions{
			Workers:     cfg.EmailWorkers,
			MaxAttempts: cfg.EmailMaxAttempts,
		})
	}

	switch strings.ToLower(cfg.EmailDelivery) {
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			logrus.Fatal("❌ EMAIL_DELIVERY=kafka requires KAFKA_BROKERS")
		}
		publisher = notification.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTicketTopic)
		notifier = publisher
		logrus.WithField("topic", cfg.KafkaTicketTopic).Info("✅ Publishing ticket confirmations to kafka")

		if cfg.KafkaConsumerEnabled {
			dispatcher = newDispatcher()
			consumer := notification.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTicketTopic, cfg.KafkaGroupID, dispatcher)
			go func() {
				if err := consumer.Run(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
					logrus.WithError(err).Error("❌ Kafka confirmation consumer stopped")
				}
			}()
			logrus.WithField("group", cfg.KafkaGroupID).Info("✅ Kafka confirmation consumer started")
		}
	default:
		dispatcher = newDispatcher()
		notifier = dispatcher
	}

	// ===========================
	// 🌐 Router
	gin.SetMode(gin.ReleaseMode)
	if strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(monitoring.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Content-Length", "X-Requested-With", middleware.OrganizerHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg, routes.Deps{
		DB:       db,
		Redis:    rdb,
		Notifier: notifier,
		Hasher:   utils.NewPasswordHasher(cfg.PasswordHasher),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("🚀 Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("❌ Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("🛑 Server is shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("❌ Server forced to shutdown")
	}

	stopConsumer()
	if publisher != nil {
		if err := publisher.Close(ctx); err != nil {
			logrus.WithError(err).Warn("⚠️ Kafka publisher close failed")
		}
	}
	if dispatcher != nil {
		if err := dispatcher.Close(ctx); err != nil {
			logrus.WithError(err).Warn("⚠️ Pending confirmation emails were not all delivered")
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logrus.Info("✅ Server exited")
}

func setupLogging(cfg *config.Config) {
	if strings.EqualFold(cfg.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
