package jobs

import (
	"context"
	"time"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
)

// NotifyStaleEscalations sends every active admin a digest of escalations
// still pending after the configured number of days.
func (jr *JobRunner) NotifyStaleEscalations() {
	jr.runWithRecovery("NotifyStaleEscalations", func() {
		ctx := context.Background()

		days := jr.config.Scheduler.StaleEscalationDays
		cutoff := jr.now().Add(-time.Duration(days) * 24 * time.Hour)
		stale, err := jr.repos.Escalations.ListStale(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale escalations", "error", err)
			return
		}
		if len(stale) == 0 {
			logger.Info("No stale escalations")
			return
		}

		admins, err := jr.repos.Users.ListByRole(ctx, domain.UserRoleAdmin)
		if err != nil {
			logger.Error("Failed to list admins", "error", err)
			return
		}

		sent := 0
		for _, admin := range admins {
			if admin.Blocked {
				continue
			}
			if err := jr.services.Email.SendStaleEscalationDigest(ctx, admin.Email, stale); err != nil {
				logger.Error("Failed to send stale escalation digest", "admin_id", admin.ID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Sent stale escalation digests", "escalations", len(stale), "admins", sent)
	})
}
