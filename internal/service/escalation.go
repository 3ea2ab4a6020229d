package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/events"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
)

type escalationService struct {
	escRepo     repository.EscalationRepository
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	events      events.Publisher
	now         func() time.Time
}

func NewEscalationService(
	escRepo repository.EscalationRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	publisher events.Publisher,
) EscalationService {
	return &escalationService{
		escRepo:     escRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		events:      publisher,
		now:         time.Now,
	}
}

func validReason(r domain.EscalationReason) bool {
	switch r {
	case domain.EscalationReasonMissedPayment, domain.EscalationReasonPartialPayment,
		domain.EscalationReasonRepeatedLatePayments, domain.EscalationReasonOther:
		return true
	}
	return false
}

func (s *escalationService) CreateEscalation(ctx context.Context, landlordID int32, in CreateEscalationInput) (esc *domain.Escalation, err error) {
	ctx, span := startSpan(ctx, "escalation.Create", in.PaymentID)
	defer func() { endSpan(span, err) }()

	if !validReason(in.Reason) {
		return nil, invalid("unknown escalation reason %q", in.Reason)
	}
	payment, err := s.paymentRepo.GetByID(ctx, in.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment.LandlordID != landlordID {
		return nil, forbidden("payment %d belongs to another landlord", in.PaymentID)
	}
	if payment.Status != domain.PaymentStatusOverdue {
		return nil, invalid("only overdue payments can be escalated")
	}
	open, err := s.escRepo.HasOpenForPayment(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, fmt.Errorf("%w: an open escalation already exists for payment %d", domain.ErrConflict, payment.ID)
	}

	history, err := s.paymentRepo.ListByTenantProperty(ctx, payment.TenantID, payment.PropertyID)
	if err != nil {
		return nil, err
	}

	esc = &domain.Escalation{
		PaymentID:      payment.ID,
		PropertyID:     payment.PropertyID,
		LandlordID:     landlordID,
		TenantID:       payment.TenantID,
		Reason:         in.Reason,
		Description:    strings.TrimSpace(in.Description),
		Status:         domain.EscalationStatusPending,
		PaymentHistory: domain.SnapshotPayments(history),
	}
	if err := s.escRepo.Create(ctx, esc); err != nil {
		return nil, err
	}
	logger.Info("Escalation created", "escalationID", esc.ID, "paymentID", esc.PaymentID, "reason", esc.Reason)
	s.events.Publish(ctx, events.New("escalation", esc.ID, "created", string(esc.Status), landlordID))

	s.notifier.Notify(ctx, esc.TenantID, Notice{
		Type:       "ESCALATION_OPENED",
		Title:      "Payment escalated",
		Message:    fmt.Sprintf("Your landlord escalated an overdue payment of %s to Leasehub support", formatCents(payment.AmountCents)),
		Attributes: escalationAttrs(esc),
	})
	s.notifyAdmins(ctx, Notice{
		Type:       "ESCALATION_OPENED",
		Title:      "New escalation",
		Message:    fmt.Sprintf("Escalation #%d (%s) needs review", esc.ID, esc.Reason),
		Attributes: escalationAttrs(esc),
	})
	return esc, nil
}

func (s *escalationService) GetEscalation(ctx context.Context, actor Actor, escalationID int32) (*domain.Escalation, error) {
	esc, err := s.escRepo.GetByID(ctx, escalationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && esc.LandlordID != actor.UserID && esc.TenantID != actor.UserID {
		return nil, domain.ErrNotFound
	}
	return esc, nil
}

func (s *escalationService) ListEscalations(ctx context.Context, actor Actor, f domain.EscalationFilter) ([]domain.Escalation, int32, error) {
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)
	switch actor.Role {
	case domain.UserRoleTenant:
		f.TenantID = actor.UserID
	case domain.UserRoleLandlord:
		f.LandlordID = actor.UserID
	}
	return s.escRepo.List(ctx, f)
}

func (s *escalationService) StartReview(ctx context.Context, adminID, escalationID int32) (esc *domain.Escalation, err error) {
	ctx, span := startSpan(ctx, "escalation.StartReview", escalationID)
	defer func() { endSpan(span, err) }()

	esc, err = s.escRepo.GetByID(ctx, escalationID)
	if err != nil {
		return nil, err
	}
	assignee := adminID
	esc.AssignedAdminID = &assignee
	if err := s.transition(ctx, esc, domain.EscalationStatusInReview, adminID); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, esc.LandlordID, Notice{
		Type:       "ESCALATION_IN_REVIEW",
		Title:      "Escalation in review",
		Message:    fmt.Sprintf("An administrator is reviewing escalation #%d", esc.ID),
		Attributes: escalationAttrs(esc),
	})
	return esc, nil
}

func (s *escalationService) Resolve(ctx context.Context, adminID, escalationID int32, resolution string) (esc *domain.Escalation, err error) {
	ctx, span := startSpan(ctx, "escalation.Resolve", escalationID)
	defer func() { endSpan(span, err) }()

	resolution = strings.TrimSpace(resolution)
	if resolution == "" {
		return nil, invalid("a resolution is required")
	}
	esc, err = s.escRepo.GetByID(ctx, escalationID)
	if err != nil {
		return nil, err
	}
	esc.Resolution = resolution
	if err := s.transition(ctx, esc, domain.EscalationStatusResolved, adminID); err != nil {
		return nil, err
	}
	for _, uid := range []int32{esc.LandlordID, esc.TenantID} {
		s.notifier.Notify(ctx, uid, Notice{
			Type:       "ESCALATION_RESOLVED",
			Title:      "Escalation resolved",
			Message:    resolution,
			Attributes: escalationAttrs(esc),
		})
	}
	return esc, nil
}

func (s *escalationService) AddNote(ctx context.Context, adminID, escalationID int32, note string) (esc *domain.Escalation, err error) {
	ctx, span := startSpan(ctx, "escalation.AddNote", escalationID)
	defer func() { endSpan(span, err) }()

	note = strings.TrimSpace(note)
	if note == "" {
		return nil, invalid("note cannot be empty")
	}
	esc, err = s.escRepo.GetByID(ctx, escalationID)
	if err != nil {
		return nil, err
	}
	if esc.Status == domain.EscalationStatusClosed {
		return nil, invalid("notes cannot be added to a closed escalation")
	}
	entry := domain.AdminNote{AuthorID: adminID, Note: note, CreatedOn: s.now().UTC()}
	if err := s.escRepo.AppendNote(ctx, esc.ID, entry); err != nil {
		return nil, err
	}
	esc.AdminNotes = append(esc.AdminNotes, entry)
	return esc, nil
}

// Close ends an escalation. Admins may close any open or resolved escalation;
// the landlord may only withdraw their own pending one.
func (s *escalationService) Close(ctx context.Context, actor Actor, escalationID int32) (esc *domain.Escalation, err error) {
	ctx, span := startSpan(ctx, "escalation.Close", escalationID)
	defer func() { endSpan(span, err) }()

	esc, err = s.escRepo.GetByID(ctx, escalationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if esc.LandlordID != actor.UserID {
			return nil, forbidden("escalation %d belongs to another landlord", escalationID)
		}
		if esc.Status != domain.EscalationStatusPending {
			return nil, forbidden("only pending escalations can be withdrawn")
		}
	}
	if err := s.transition(ctx, esc, domain.EscalationStatusClosed, actor.UserID); err != nil {
		return nil, err
	}

	recipients := []int32{esc.TenantID}
	if actor.IsAdmin() {
		recipients = append(recipients, esc.LandlordID)
	}
	for _, uid := range recipients {
		s.notifier.Notify(ctx, uid, Notice{
			Type:       "ESCALATION_CLOSED",
			Title:      "Escalation closed",
			Message:    fmt.Sprintf("Escalation #%d was closed", esc.ID),
			Attributes: escalationAttrs(esc),
		})
	}
	return esc, nil
}

func (s *escalationService) transition(ctx context.Context, esc *domain.Escalation, next domain.EscalationStatus, actorID int32) error {
	if !esc.Status.CanTransitionTo(next) {
		return invalidTransition("escalation", esc.Status, next)
	}
	prev := esc.Status
	esc.Status = next
	if err := s.escRepo.Update(ctx, esc, prev); err != nil {
		esc.Status = prev
		return err
	}
	logger.Info("Escalation status changed", "escalationID", esc.ID, "from", prev, "to", next, "actorID", actorID)
	s.events.Publish(ctx, events.New("escalation", esc.ID, string(next), string(next), actorID))
	return nil
}

func (s *escalationService) notifyAdmins(ctx context.Context, n Notice) {
	admins, err := s.userRepo.ListByRole(ctx, domain.UserRoleAdmin)
	if err != nil {
		logger.WarnContext(ctx, "Failed to list admins for notification", "error", err)
		return
	}
	for _, a := range admins {
		s.notifier.Notify(ctx, a.ID, n)
	}
}

func escalationAttrs(esc *domain.Escalation) map[string]string {
	return map[string]string{
		"escalation_id": idString(esc.ID),
		"payment_id":    idString(esc.PaymentID),
		"status":        string(esc.Status),
	}
}
