package jobs

import (
	"context"
	"fmt"
	"time"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/service"
)

// RemindPendingLeaseReviews emails the party whose approval a lease has been
// waiting on for longer than the configured number of days.
func (jr *JobRunner) RemindPendingLeaseReviews() {
	jr.runWithRecovery("RemindPendingLeaseReviews", func() {
		ctx := context.Background()

		days := jr.config.Scheduler.LeaseReviewReminderDays
		cutoff := jr.now().Add(-time.Duration(days) * 24 * time.Hour)
		leases, err := jr.repos.Leases.ListStale(ctx,
			[]domain.LeaseStatus{domain.LeaseStatusPendingReview, domain.LeaseStatusTenantApproved}, cutoff)
		if err != nil {
			logger.Error("Failed to list stale lease agreements", "error", err)
			return
		}

		sent := 0
		for _, lease := range leases {
			app, err := jr.repos.Applications.GetByID(ctx, lease.ApplicationID)
			if err != nil {
				logger.Error("Failed to load application for lease", "application_id", lease.ApplicationID, "error", err)
				continue
			}

			// A lease without a document waits on the landlord to upload it.
			if lease.Status == domain.LeaseStatusPendingReview && lease.DocumentURL == "" {
				jr.services.Notifier.Notify(ctx, app.LandlordID, service.Notice{
					Type:       "LEASE_DOCUMENT_MISSING",
					Title:      "Lease document missing",
					Message:    fmt.Sprintf("Upload the lease document for application #%d so the tenant can review it.", app.ID),
					Attributes: map[string]string{"application_id": fmt.Sprint(app.ID), "lease_id": fmt.Sprint(lease.ID)},
				})
				sent++
				continue
			}

			// pending_review waits on the tenant, tenant_approved on the landlord
			waitingOn := app.TenantID
			if lease.Status == domain.LeaseStatusTenantApproved {
				waitingOn = app.LandlordID
			}

			user, err := jr.repos.Users.GetByID(ctx, waitingOn)
			if err != nil {
				logger.Error("Failed to load user for lease reminder", "user_id", waitingOn, "error", err)
				continue
			}
			if err := jr.services.Email.SendLeaseReviewReminder(ctx, user.Email, user.Name, app.ID, lease.Status); err != nil {
				logger.Error("Failed to send lease review reminder", "application_id", app.ID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Sent lease review reminders", "stale", len(leases), "sent", sent, "days", days)
	})
}
