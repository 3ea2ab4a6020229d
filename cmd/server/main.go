package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"leasehub-backend/internal/api/health"
	httpapi "leasehub-backend/internal/api/http"
	"leasehub-backend/internal/config"
	"leasehub-backend/internal/events"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/mailer"
	"leasehub-backend/internal/push"
	"leasehub-backend/internal/repository/postgres"
	"leasehub-backend/internal/security"
	"leasehub-backend/internal/service"
	"leasehub-backend/internal/telemetry"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Optional dotenv file loaded before the configuration")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("No env file loaded from %s: %v", *envFile, err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Leasehub backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "health_port", cfg.Health.Port)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Email configuration", "provider", cfg.Email.Provider, "from", cfg.Email.From)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize tracing
	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		logger.Error("Failed to initialize tracing", "error", err)
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)
	revoker, closeRevoker := newRevoker(ctx, cfg.Redis)
	defer closeRevoker()

	authorizer, err := security.NewAuthorizer()
	if err != nil {
		logger.Error("Failed to build authorizer", "error", err)
		log.Fatalf("Failed to build authorizer: %v", err)
	}

	// Initialize outbound channels
	sender, err := mailer.New(ctx, cfg.Email)
	if err != nil {
		logger.Error("Failed to initialize mailer", "error", err)
		log.Fatalf("Failed to initialize mailer: %v", err)
	}
	pushSender := push.NewNoopSender()
	if cfg.Push.Enabled {
		if pushSender, err = push.NewFCMSender(ctx, cfg.Push.CredentialsFile); err != nil {
			logger.Error("Failed to initialize push sender", "error", err)
			log.Fatalf("Failed to initialize push sender: %v", err)
		}
	}
	publisher, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
	if err != nil {
		logger.Warn("NATS unavailable, domain events disabled", "error", err)
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	// Initialize Services
	emailSvc := service.NewEmailService(sender)
	notifier := service.NewNotifier(store.UserRepository, store.NotificationRepository, emailSvc, pushSender)
	propertyCache := service.NewPropertyCache(cfg.Cache.Capacity, cfg.Cache.Shards, cfg.Cache.TTL)
	propertySvc := service.NewPropertyService(store.PropertyRepository, propertyCache, notifier)
	scoring := cfg.Scoring.Thresholds()

	services := httpapi.Services{
		Auth:          service.NewAuthService(store.UserRepository, tokenManager, revoker, emailSvc, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute),
		Users:         service.NewUserService(store.UserRepository),
		Admin:         service.NewAdminService(store.UserRepository, emailSvc),
		Properties:    propertySvc,
		Applications:  service.NewApplicationService(store.ApplicationRepository, store.PropertyRepository, store.LeaseRepository, notifier, publisher, scoring),
		Leases:        service.NewLeaseService(store.ApplicationRepository, store.LeaseRepository, store.CommentRepository, propertySvc, notifier, publisher),
		Webhooks:      service.NewWebhookService(store.UserRepository, store.ApplicationRepository, store.LeaseRepository, propertySvc, notifier, publisher),
		Payments:      service.NewPaymentService(store.PaymentRepository, store.ApplicationRepository, notifier, publisher),
		Escalations:   service.NewEscalationService(store.EscalationRepository, store.PaymentRepository, store.UserRepository, notifier, publisher),
		Tickets:       service.NewTicketService(store.TicketRepository, store.ApplicationRepository, store.CommentRepository, notifier, publisher),
		Notifications: service.NewNotificationService(store.NotificationRepository),
	}

	router := httpapi.NewRouter(services, httpapi.Options{
		Tokens:         tokenManager,
		Authorizer:     authorizer,
		DocuSignSecret: cfg.Webhooks.DocuSignSecret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Set up gRPC health server
	var healthSrv *health.Server
	if cfg.Health.Port != 0 {
		lis, err := net.Listen("tcp", cfg.GetHealthAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetHealthAddress())
			log.Fatalf("Failed to listen: %v", err)
		}
		healthSrv = health.NewServer(db, 10*time.Second)
		go healthSrv.Run(ctx)
		go func() {
			if err := healthSrv.Serve(lis); err != nil {
				logger.Error("Health server error", "error", err)
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("REST server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		logger.Error("Failed to serve REST API", "error", err)
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if healthSrv != nil {
		healthSrv.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("REST server shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("Tracer shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

// newRevoker uses redis when configured and falls back to process memory.
func newRevoker(ctx context.Context, cfg config.RedisConfig) (security.TokenRevoker, func()) {
	if cfg.URL == "" {
		logger.Warn("Redis URL not set, refresh token revocation is process-local")
		return security.NewMemoryRevoker(), func() {}
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.Error("Invalid redis URL", "error", err)
		log.Fatalf("Invalid redis URL: %v", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to ping redis", "error", err)
		log.Fatalf("Failed to ping redis: %v", err)
	}
	logger.Info("Redis connection established", "addr", opts.Addr)
	return security.NewRedisRevoker(client), func() { _ = client.Close() }
}
