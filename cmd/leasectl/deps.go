package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"leasehub-backend/internal/config"
	"leasehub-backend/internal/events"
	"leasehub-backend/internal/jobs"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/mailer"
	"leasehub-backend/internal/push"
	"leasehub-backend/internal/repository/postgres"
	"leasehub-backend/internal/service"
)

// openDB loads the configuration, initializes logging and connects to postgres.
func openDB(ctx context.Context, configPath string) (*config.Config, *sql.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")
	return cfg, db, nil
}

// newJobRunner wires the job runner and returns a cleanup for the
// connections it opened.
func newJobRunner(ctx context.Context, cfg *config.Config, db *sql.DB) (*jobs.JobRunner, func(), error) {
	store := postgres.NewStore(db)

	sender, err := mailer.New(ctx, cfg.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}
	pushSender := push.NewNoopSender()
	if cfg.Push.Enabled {
		if pushSender, err = push.NewFCMSender(ctx, cfg.Push.CredentialsFile); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize push sender: %w", err)
		}
	}
	publisher, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
	if err != nil {
		logger.Warn("NATS unavailable, domain events disabled", "error", err)
		publisher = events.NewNoopPublisher()
	}

	emailSvc := service.NewEmailService(sender)
	runner := jobs.NewJobRunner(jobs.Repositories{
		Payments:     store.PaymentRepository,
		Leases:       store.LeaseRepository,
		Escalations:  store.EscalationRepository,
		Users:        store.UserRepository,
		Applications: store.ApplicationRepository,
	}, jobs.Services{
		Email:    emailSvc,
		Notifier: service.NewNotifier(store.UserRepository, store.NotificationRepository, emailSvc, pushSender),
		Events:   publisher,
	}, cfg)
	return runner, publisher.Close, nil
}
