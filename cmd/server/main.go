package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mystic-tours/service-booking/internal/application"
	"github.com/mystic-tours/service-booking/internal/config"
	bookingDomain "github.com/mystic-tours/service-booking/internal/domain/booking"
	bookingEvents "github.com/mystic-tours/service-booking/internal/events"
	"github.com/mystic-tours/service-booking/internal/handler"
	"github.com/mystic-tours/service-booking/internal/platform/auth"
	"github.com/mystic-tours/service-booking/internal/platform/database"
	"github.com/mystic-tours/service-booking/internal/platform/health"
	"github.com/mystic-tours/service-booking/internal/platform/kafka"
	"github.com/mystic-tours/service-booking/internal/platform/logger"
	"github.com/mystic-tours/service-booking/internal/platform/middleware"
	"github.com/mystic-tours/service-booking/internal/repository"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations. Auto-migrate cannot express the partial unique
	// index guarding active assignments, so production always uses SQL files.
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.TourModel{},
			&repository.SiteImageModel{},
			&repository.DriverModel{},
			&repository.TourBookingModel{},
			&repository.TransferBookingModel{},
			&repository.AssignmentModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		dbURL := dbConfig.DatabaseURL()
		if err := database.RunMigrations(dbURL, "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, 15*time.Minute)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	tourBookingRepo := repository.NewGormTourBookingRepository(db)
	transferBookingRepo := repository.NewGormTransferBookingRepository(db)
	driverRepo := repository.NewGormDriverRepository(db)
	assignmentRepo := repository.NewGormAssignmentRepository(db)
	tourRepo := repository.NewGormTourRepository(db)
	imageRepo := repository.NewGormImageRepository(db)

	// Initialize pricing strategy
	pricingStrategy := bookingDomain.NewStandardPricingStrategy()

	// Initialize application services
	bookingService := application.NewBookingService(
		tourBookingRepo,
		transferBookingRepo,
		tourRepo,
		pricingStrategy,
		kafkaProducer,
		log,
	)
	assignmentService := application.NewAssignmentService(
		assignmentRepo,
		driverRepo,
		tourBookingRepo,
		transferBookingRepo,
		kafkaProducer,
		log,
	)
	driverService := application.NewDriverService(driverRepo, log)
	tourService := application.NewTourService(tourRepo, log)
	galleryService := application.NewGalleryService(imageRepo, log)

	// Initialize and start the notifier command consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	notifierConsumer := bookingEvents.NewNotifierCommandConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = notifierConsumer.Close() }()

	go func() {
		log.Info("starting notifier command consumer")
		if err := notifierConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("notifier command consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	adminHandler := handler.NewAdminHandler(bookingService, assignmentService, driverService)
	tourHandler := handler.NewTourHandler(tourService)
	galleryHandler := handler.NewGalleryHandler(galleryService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.SecurityHeaders())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	tourHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	galleryHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
