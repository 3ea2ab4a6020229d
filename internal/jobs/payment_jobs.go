package jobs

import (
	"context"
	"fmt"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/events"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/service"
	"leasehub-backend/internal/utils"
)

// MarkOverduePayments moves pending payments due before today to overdue
// and tells each tenant.
func (jr *JobRunner) MarkOverduePayments() {
	jr.runWithRecovery("MarkOverduePayments", func() {
		ctx := context.Background()

		payments, err := jr.repos.Payments.MarkOverdue(ctx, utils.StartOfDay(jr.now()))
		if err != nil {
			logger.Error("Failed to mark overdue payments", "error", err)
			return
		}
		logger.Info("Marked payments as overdue", "count", len(payments))

		for _, p := range payments {
			logger.Debug("Marked payment as overdue",
				"payment_id", p.ID,
				"tenant_id", p.TenantID,
				"property_id", p.PropertyID,
				"due_date", p.DueDate.Format(utils.DateLayout))

			jr.services.Notifier.Notify(ctx, p.TenantID, service.Notice{
				Type:    "PAYMENT_OVERDUE",
				Title:   "Rent payment overdue",
				Message: fmt.Sprintf("Your payment of %s due %s is overdue.", formatCents(p.AmountCents), p.DueDate.Format(utils.DateLayout)),
				Attributes: map[string]string{
					"payment_id":  fmt.Sprint(p.ID),
					"property_id": fmt.Sprint(p.PropertyID),
				},
			})
			jr.services.Events.Publish(ctx, events.New("payment", p.ID, "overdue", string(domain.PaymentStatusOverdue), 0))
		}
	})
}

// SendOverdueReminders emails every tenant a summary of their overdue payments.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		payments, err := jr.repos.Payments.ListOverdue(ctx)
		if err != nil {
			logger.Error("Failed to list overdue payments", "error", err)
			return
		}

		byTenant := make(map[int32][]domain.Payment)
		var order []int32
		for _, p := range payments {
			if _, seen := byTenant[p.TenantID]; !seen {
				order = append(order, p.TenantID)
			}
			byTenant[p.TenantID] = append(byTenant[p.TenantID], p)
		}

		sent := 0
		for _, tenantID := range order {
			user, err := jr.repos.Users.GetByID(ctx, tenantID)
			if err != nil {
				logger.Error("Failed to load tenant for overdue reminder", "tenant_id", tenantID, "error", err)
				continue
			}
			if user.Blocked {
				continue
			}
			if err := jr.services.Email.SendOverdueReminder(ctx, user.Email, user.Name, byTenant[tenantID]); err != nil {
				logger.Error("Failed to send overdue reminder", "tenant_id", tenantID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Sent overdue reminders", "tenants", len(order), "sent", sent)
	})
}

func formatCents(cents int32) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
