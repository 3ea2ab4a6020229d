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

type paymentService struct {
	paymentRepo repository.PaymentRepository
	appRepo     repository.ApplicationRepository
	notifier    Notifier
	events      events.Publisher
	now         func() time.Time
}

func NewPaymentService(paymentRepo repository.PaymentRepository, appRepo repository.ApplicationRepository, notifier Notifier, publisher events.Publisher) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		appRepo:     appRepo,
		notifier:    notifier,
		events:      publisher,
		now:         time.Now,
	}
}

func (s *paymentService) RecordPayment(ctx context.Context, landlordID int32, in RecordPaymentInput) (*domain.Payment, error) {
	logger.EnterMethod("paymentService.RecordPayment", "landlordID", landlordID, "applicationID", in.ApplicationID, "amountCents", in.AmountCents)

	if in.AmountCents <= 0 {
		return nil, invalid("amount must be positive")
	}
	if in.DueDate.IsZero() {
		return nil, invalid("due date is required")
	}
	if in.Method == "" {
		in.Method = domain.PaymentMethodBankTransfer
	}
	app, err := s.appRepo.GetByID(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.LandlordID != landlordID {
		return nil, forbidden("application %d is for another landlord's property", in.ApplicationID)
	}
	if app.Status != domain.ApplicationStatusApproved {
		return nil, invalid("payments can only be recorded for an approved tenancy")
	}

	p := &domain.Payment{
		ApplicationID: app.ID,
		PropertyID:    app.PropertyID,
		TenantID:      app.TenantID,
		LandlordID:    app.LandlordID,
		AmountCents:   in.AmountCents,
		Status:        domain.PaymentStatusPending,
		Method:        in.Method,
		DueDate:       in.DueDate.UTC(),
		Notes:         in.Notes,
	}
	if in.Paid {
		paid := s.now().UTC()
		if in.PaidDate != nil {
			paid = in.PaidDate.UTC()
		}
		p.Status = domain.PaymentStatusPaid
		p.PaidDate = &paid
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		logger.ExitMethodWithError("paymentService.RecordPayment", err)
		return nil, err
	}

	title, msg := "Rent payment due", fmt.Sprintf("A rent payment of %s is due on %s", formatCents(p.AmountCents), p.DueDate.Format("2006-01-02"))
	if p.Status == domain.PaymentStatusPaid {
		title, msg = "Rent payment recorded", fmt.Sprintf("Your landlord recorded a payment of %s", formatCents(p.AmountCents))
	}
	s.notifier.Notify(ctx, p.TenantID, Notice{
		Type:       "PAYMENT_" + strings.ToUpper(string(p.Status)),
		Title:      title,
		Message:    msg,
		Attributes: map[string]string{"payment_id": idString(p.ID)},
	})
	s.events.Publish(ctx, events.New("payment", p.ID, "created", string(p.Status), landlordID))
	logger.ExitMethod("paymentService.RecordPayment", "paymentID", p.ID)
	return p, nil
}

func (s *paymentService) GetPayment(ctx context.Context, actor Actor, paymentID int32) (*domain.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && p.TenantID != actor.UserID && p.LandlordID != actor.UserID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *paymentService) ListPayments(ctx context.Context, actor Actor, f domain.PaymentFilter) ([]domain.Payment, int32, error) {
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)
	switch actor.Role {
	case domain.UserRoleTenant:
		f.TenantID = actor.UserID
	case domain.UserRoleLandlord:
		f.LandlordID = actor.UserID
	}
	return s.paymentRepo.List(ctx, f)
}

func (s *paymentService) MarkPaid(ctx context.Context, landlordID, paymentID int32, paidDate time.Time, method domain.PaymentMethod) (*domain.Payment, error) {
	p, err := s.ownedPayment(ctx, landlordID, paymentID)
	if err != nil {
		return nil, err
	}
	if paidDate.IsZero() {
		paidDate = s.now()
	}
	paid := paidDate.UTC()
	p.PaidDate = &paid
	if method != "" {
		p.Method = method
	}
	if err := s.transition(ctx, p, domain.PaymentStatusPaid, landlordID); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, p.TenantID, Notice{
		Type:       "PAYMENT_PAID",
		Title:      "Payment received",
		Message:    fmt.Sprintf("Your landlord confirmed your payment of %s", formatCents(p.AmountCents)),
		Attributes: map[string]string{"payment_id": idString(p.ID)},
	})
	return p, nil
}

func (s *paymentService) CancelPayment(ctx context.Context, landlordID, paymentID int32, reason string) (*domain.Payment, error) {
	p, err := s.ownedPayment(ctx, landlordID, paymentID)
	if err != nil {
		return nil, err
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		if p.Notes != "" {
			p.Notes += "\n"
		}
		p.Notes += "Cancelled: " + reason
	}
	if err := s.transition(ctx, p, domain.PaymentStatusCancelled, landlordID); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, p.TenantID, Notice{
		Type:       "PAYMENT_CANCELLED",
		Title:      "Payment cancelled",
		Message:    fmt.Sprintf("A payment of %s due %s was cancelled", formatCents(p.AmountCents), p.DueDate.Format("2006-01-02")),
		Attributes: map[string]string{"payment_id": idString(p.ID)},
	})
	return p, nil
}

func (s *paymentService) ownedPayment(ctx context.Context, landlordID, paymentID int32) (*domain.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.LandlordID != landlordID {
		return nil, forbidden("payment %d belongs to another landlord", paymentID)
	}
	return p, nil
}

func (s *paymentService) transition(ctx context.Context, p *domain.Payment, next domain.PaymentStatus, actorID int32) error {
	if !p.Status.CanTransitionTo(next) {
		return invalidTransition("payment", p.Status, next)
	}
	prev := p.Status
	p.Status = next
	if err := s.paymentRepo.Update(ctx, p, prev); err != nil {
		p.Status = prev
		return err
	}
	s.events.Publish(ctx, events.New("payment", p.ID, string(next), string(next), actorID))
	return nil
}
