package service

import (
	"context"
	"fmt"
	"strings"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/mailer"
)

const signature = "\n\nBest regards,\nThe Leasehub Team"

type emailService struct {
	sender mailer.Sender
}

func NewEmailService(sender mailer.Sender) EmailService {
	return &emailService{sender: sender}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, body string) error {
	err := s.sender.Send(ctx, mailer.Message{
		To:      to,
		ToName:  toName,
		Subject: subject,
		Text:    body + signature,
	})
	if err != nil {
		return fmt.Errorf("failed to send %q: %w", subject, err)
	}
	return nil
}

func (s *emailService) SendWelcome(ctx context.Context, email, name string, role domain.UserRole) error {
	body := fmt.Sprintf("Hello %s,\n\nWelcome to Leasehub. Your %s account is ready.", name, role)
	if role == domain.UserRoleLandlord {
		body += "\n\nNew listings are reviewed by our team before they become visible to tenants."
	}
	return s.send(ctx, email, name, "Welcome to Leasehub", body)
}

func (s *emailService) SendNotification(ctx context.Context, email, name, subject, message string) error {
	body := fmt.Sprintf("Hello %s,\n\n%s", name, message)
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendAccountStatusNotification(ctx context.Context, email, name string, blocked bool, reason string) error {
	status := "reactivated"
	if blocked {
		status = "blocked"
	}
	body := fmt.Sprintf("Hello %s,\n\nYour Leasehub account has been %s.", name, status)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	return s.send(ctx, email, name, "Account Status Update", body)
}

func (s *emailService) SendOverdueReminder(ctx context.Context, email, name string, payments []domain.Payment) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nThe following rent payments are overdue:\n", name)
	var total int32
	for _, p := range payments {
		fmt.Fprintf(&b, "\n  - %s due %s", formatCents(p.AmountCents), p.DueDate.Format("2006-01-02"))
		total += p.AmountCents
	}
	fmt.Fprintf(&b, "\n\nTotal outstanding: %s. Please contact your landlord if you have already paid.", formatCents(total))
	return s.send(ctx, email, name, "Overdue rent reminder", b.String())
}

func (s *emailService) SendLeaseReviewReminder(ctx context.Context, email, name string, applicationID int32, status domain.LeaseStatus) error {
	action := "review and approve"
	if status == domain.LeaseStatusTenantApproved {
		action = "countersign"
	}
	body := fmt.Sprintf("Hello %s,\n\nThe lease agreement for application #%d is waiting for you to %s it.", name, applicationID, action)
	return s.send(ctx, email, name, "Lease agreement awaiting your review", body)
}

func (s *emailService) SendStaleEscalationDigest(ctx context.Context, email string, escalations []domain.Escalation) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\n%d escalation(s) have been waiting for review:\n", len(escalations))
	for _, e := range escalations {
		fmt.Fprintf(&b, "\n  - #%d (%s) opened %s", e.ID, e.Reason, e.CreatedOn.Format("2006-01-02"))
	}
	return s.send(ctx, email, "", "Escalations awaiting review", b.String())
}

func formatCents(cents int32) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
