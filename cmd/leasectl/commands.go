package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository/postgres"
	"leasehub-backend/internal/scheduler"
	"leasehub-backend/migrations"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply all pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := openDB(ctx, *configPath)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := postgres.Migrate(ctx, db, migrations.FS)
			if err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending migrations.")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", v)
			}
			return nil
		},
	}
}

func jobsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run background jobs on demand",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run <name|all>",
		Short: "Run a single job, or every job with \"all\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, db, err := openDB(ctx, *configPath)
			if err != nil {
				return err
			}
			defer db.Close()

			runner, cleanup, err := newJobRunner(ctx, cfg, db)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := runner.Run(args[0]); err != nil {
				return fmt.Errorf("%w (known jobs: all, %s)", err, strings.Join(runner.Names(), ", "))
			}
			return nil
		},
	})
	return cmd
}

func schedulerCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run jobs on their cron schedules until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, db, err := openDB(ctx, *configPath)
			if err != nil {
				return err
			}
			defer db.Close()

			runner, cleanup, err := newJobRunner(ctx, cfg, db)
			if err != nil {
				return err
			}
			defer cleanup()

			sched, err := scheduler.NewScheduler(runner)
			if err != nil {
				return fmt.Errorf("failed to register jobs: %w", err)
			}
			sched.Start()
			<-ctx.Done()

			logger.Info("Shutdown signal received")
			sched.Stop()
			return nil
		},
	}
}
