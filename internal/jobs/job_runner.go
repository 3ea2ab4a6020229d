package jobs

import (
	"fmt"
	"sort"
	"time"

	"leasehub-backend/internal/config"
	"leasehub-backend/internal/events"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
	"leasehub-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos    Repositories
	services Services
	config   *config.Config
	now      func() time.Time
}

// Repositories holds the stores the jobs read and update
type Repositories struct {
	Payments     repository.PaymentRepository
	Leases       repository.LeaseRepository
	Escalations  repository.EscalationRepository
	Users        repository.UserRepository
	Applications repository.ApplicationRepository
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email    service.EmailService
	Notifier service.Notifier
	Events   events.Publisher
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos Repositories, services Services, cfg *config.Config) *JobRunner {
	if services.Events == nil {
		services.Events = events.NewNoopPublisher()
	}
	return &JobRunner{
		repos:    repos,
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// Jobs maps the CLI name of each job to its entry point.
func (jr *JobRunner) Jobs() map[string]func() {
	return map[string]func(){
		"mark-overdue-payments":        jr.MarkOverduePayments,
		"send-overdue-reminders":       jr.SendOverdueReminders,
		"remind-pending-lease-reviews": jr.RemindPendingLeaseReviews,
		"notify-stale-escalations":     jr.NotifyStaleEscalations,
	}
}

// Names lists the job names in a stable order.
func (jr *JobRunner) Names() []string {
	names := make([]string, 0, 4)
	for name := range jr.Jobs() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes one job by name, or every job when name is "all".
func (jr *JobRunner) Run(name string) error {
	if name == "all" {
		jr.RunAll()
		return nil
	}
	job, ok := jr.Jobs()[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	job()
	return nil
}

// RunAll runs every job once. Overdue marking goes first so reminders see
// today's overdue payments.
func (jr *JobRunner) RunAll() {
	jr.MarkOverduePayments()
	jr.SendOverdueReminders()
	jr.RemindPendingLeaseReviews()
	jr.NotifyStaleEscalations()
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	start := jr.now()
	jobFunc()
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
}
