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
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/config"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/consumer"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/database"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/health"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/kafka"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/logger"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/middleware"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/repository"
)

const serviceName = "service-adoption"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName, zap.String("port", cfg.Port))

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(repository.Models()...); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsPath, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	cityRepo := repository.NewGormCityRepository(db)
	petRepo := repository.NewGormPetRepository(db)
	adoptionRepo := repository.NewGormAdoptionRepository(db)

	// Initialize application services
	adoptionService := application.NewAdoptionRequestService(
		userRepo,
		cityRepo,
		petRepo,
		adoptionRepo,
		kafkaProducer,
		log,
	)
	petService := application.NewPetService(petRepo, log)

	// Initialize and start adoption event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "adoption-service"
	adoptionConsumer := consumer.NewAdoptionEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		adoptionService,
		log,
	)
	defer func() { _ = adoptionConsumer.Close() }()

	go func() {
		log.Info("starting adoption event consumer")
		if err := adoptionConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("adoption event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	userHandler := handler.NewUserHandler(adoptionService)
	petHandler := handler.NewPetHandler(petService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	healthHandler := health.NewHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	userHandler.RegisterRoutes(&router.RouterGroup)
	petHandler.RegisterRoutes(&router.RouterGroup)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

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

	log.Info("shutting down " + serviceName + "...")

	// Stop the consumer before the server so no adoption is half recorded.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
