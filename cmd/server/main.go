package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	httpapi "bike-rental-marketplace/internal/api/http"
	"bike-rental-marketplace/internal/config"
	"bike-rental-marketplace/internal/delivery"
	"bike-rental-marketplace/internal/events"
	"bike-rental-marketplace/internal/jobs"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/notify"
	"bike-rental-marketplace/internal/payment"
	"bike-rental-marketplace/internal/rental"
	"bike-rental-marketplace/internal/repository"
	"bike-rental-marketplace/internal/repository/postgres"
	"bike-rental-marketplace/internal/scheduler"
	"bike-rental-marketplace/internal/security"
	"bike-rental-marketplace/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'execute-pickups', 'execute-dropoffs', 'purge-expired-quotes', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Bike Rental Marketplace...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "grpc_address", cfg.GetServerAddress(), "http_address", cfg.GetHTTPAddress())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Booking journal
	var journal repository.BookingRepository
	if cfg.Database.Enabled {
		logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
		db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		store := postgres.NewStore(db)
		defer closeStore(store)

		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("Failed to create schema", "error", err)
			log.Fatalf("Failed to create schema: %v", err)
		}
		logger.Info("Database connection established")
		journal = store.BookingRepository
	} else {
		logger.Info("Booking journal disabled")
	}

	// Event stream
	var publisher events.Publisher = events.NewLogPublisher()
	if cfg.Kafka.Enabled {
		logger.Info("Kafka configuration", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", "error", err)
		}
	}()

	// Booking confirmations
	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.SendGrid.Enabled {
		logger.Info("SendGrid configuration", "from", cfg.SendGrid.FromEmail)
		notifier = notify.NewSendGridNotifier(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	// Booking desk
	payments, err := payment.New(cfg.Payment.Mode)
	if err != nil {
		log.Fatalf("Failed to configure payments: %v", err)
	}
	var ids rental.IDGenerator = rental.UUIDGenerator{}
	if cfg.Booking.IDScheme == "sequence" {
		ids = rental.NewSequenceIDGenerator()
	}
	desk := rental.NewBookingDesk(payments, ids, rental.DeskOptions{
		ReleaseOnPaymentFailure: cfg.Booking.ReleaseOnPaymentFailure,
	})

	// Marketplace
	courier := delivery.NewScheduler()
	market := service.NewMarketplace(desk, journal, publisher, notifier, time.Duration(cfg.Booking.QuoteTTLMinutes)*time.Minute)
	if err := market.LoadCatalog(cfg.Catalog, courier); err != nil {
		logger.Error("Failed to load catalog", "error", err)
		log.Fatalf("Failed to load catalog: %v", err)
	}

	jobRunner := jobs.NewJobRunner(courier, market, cfg.Scheduler)
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.Run(ctx, *runOnce); err != nil {
			log.Fatalf("Failed to run job: %v", err)
		}
		return
	}

	// gRPC health and reflection
	lis, err := net.Listen("tcp", cfg.GetServerAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetServerAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	go func() {
		logger.Info("gRPC health server listening", "address", cfg.GetServerAddress())
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	// HTTP API
	tokens := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	httpServer := &http.Server{
		Addr:              cfg.GetHTTPAddress(),
		Handler:           httpapi.NewRouter(market, tokens),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP API listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	// Cron jobs
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()

	<-ctx.Done()
	logger.Info("Shutting down...")

	healthServer.Shutdown()
	cronScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Shutdown complete")
}

func closeStore(store *postgres.Store) {
	if err := store.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		logger.Warn("Failed to close database", "error", err)
	}
}
