package service

import (
	"context"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/push"
	"leasehub-backend/internal/repository"
)

// Notice is a user-facing message delivered in-app, by email and by push.
type Notice struct {
	Type       string
	Title      string
	Message    string
	Attributes map[string]string
}

// Notifier delivers notices on every channel. Delivery failures are logged only.
type Notifier interface {
	Notify(ctx context.Context, userID int32, n Notice)
}

type notifier struct {
	userRepo repository.UserRepository
	noteRepo repository.NotificationRepository
	emailSvc EmailService
	push     push.Sender
}

func NewNotifier(userRepo repository.UserRepository, noteRepo repository.NotificationRepository, emailSvc EmailService, pushSender push.Sender) Notifier {
	return &notifier{
		userRepo: userRepo,
		noteRepo: noteRepo,
		emailSvc: emailSvc,
		push:     pushSender,
	}
}

func (n *notifier) Notify(ctx context.Context, userID int32, notice Notice) {
	attrs := map[string]string{"type": notice.Type}
	for k, v := range notice.Attributes {
		attrs[k] = v
	}

	note := &domain.Notification{
		UserID:     userID,
		Title:      notice.Title,
		Message:    notice.Message,
		Attributes: attrs,
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.WarnContext(ctx, "Failed to store notification", "userID", userID, "type", notice.Type, "error", err)
	}

	user, err := n.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.WarnContext(ctx, "Failed to load notification recipient", "userID", userID, "error", err)
		return
	}

	if err := n.emailSvc.SendNotification(ctx, user.Email, user.Name, notice.Title, notice.Message); err != nil {
		logger.WarnContext(ctx, "Failed to email notification", "userID", userID, "type", notice.Type, "error", err)
	}

	if user.DeviceToken != "" {
		if err := n.push.Send(ctx, user.DeviceToken, notice.Title, notice.Message, attrs); err != nil {
			logger.WarnContext(ctx, "Failed to push notification", "userID", userID, "type", notice.Type, "error", err)
		}
	}
}
