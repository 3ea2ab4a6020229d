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
	"leasehub-backend/internal/utils"
)

const withdrawnReason = "withdrawn"

type applicationService struct {
	appRepo   repository.ApplicationRepository
	propRepo  repository.PropertyRepository
	leaseRepo repository.LeaseRepository
	notifier  Notifier
	events    events.Publisher
	scoring   utils.ScoringThresholds
	now       func() time.Time
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	propRepo repository.PropertyRepository,
	leaseRepo repository.LeaseRepository,
	notifier Notifier,
	publisher events.Publisher,
	scoring utils.ScoringThresholds,
) ApplicationService {
	return &applicationService{
		appRepo:   appRepo,
		propRepo:  propRepo,
		leaseRepo: leaseRepo,
		notifier:  notifier,
		events:    publisher,
		scoring:   scoring,
		now:       time.Now,
	}
}

func (s *applicationService) Apply(ctx context.Context, tenantID int32, in ApplyInput) (*domain.Application, error) {
	logger.EnterMethod("applicationService.Apply", "tenantID", tenantID, "propertyID", in.PropertyID)

	if in.MonthlyIncomeCents < 0 || in.MonthlyDebtCents < 0 {
		return nil, invalid("income and debt cannot be negative")
	}
	prop, err := s.propRepo.GetByID(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if prop.Status != domain.PropertyStatusApproved {
		return nil, invalid("property is not open for applications")
	}
	if prop.LandlordID == tenantID {
		return nil, invalid("cannot apply to your own property")
	}

	active, err := s.appRepo.HasActive(ctx, tenantID, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, fmt.Errorf("%w: an active application for this property already exists", domain.ErrConflict)
	}

	app := &domain.Application{
		PropertyID:         prop.ID,
		TenantID:           tenantID,
		LandlordID:         prop.LandlordID,
		Status:             domain.ApplicationStatusPending,
		Message:            in.Message,
		MonthlyIncomeCents: in.MonthlyIncomeCents,
		MonthlyDebtCents:   in.MonthlyDebtCents,
		TenantScoring:      utils.ScoreTenant(in.MonthlyIncomeCents, in.MonthlyDebtCents, prop.MonthlyRentCents, s.scoring),
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		logger.ExitMethodWithError("applicationService.Apply", err)
		return nil, err
	}

	s.notifier.Notify(ctx, prop.LandlordID, Notice{
		Type:       "APPLICATION_RECEIVED",
		Title:      "New application",
		Message:    fmt.Sprintf("A tenant applied for %q (score %.2f)", prop.Title, app.TenantScoring),
		Attributes: map[string]string{"application_id": idString(app.ID), "property_id": idString(prop.ID)},
	})
	s.events.Publish(ctx, events.New("application", app.ID, "created", string(app.Status), tenantID))
	logger.ExitMethod("applicationService.Apply", "applicationID", app.ID, "score", app.TenantScoring)
	return app, nil
}

func (s *applicationService) GetApplication(ctx context.Context, actor Actor, applicationID int32) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if _, ok := app.PartyRole(actor.UserID); !ok {
			return nil, domain.ErrNotFound
		}
	}
	lease, err := s.leaseRepo.GetByApplication(ctx, app.ID)
	switch {
	case err == nil:
		app.LeaseAgreement = lease
	case !isNotFound(err):
		return nil, err
	}
	return app, nil
}

func (s *applicationService) ListApplications(ctx context.Context, actor Actor, f domain.ApplicationFilter) ([]domain.Application, int32, error) {
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)
	switch actor.Role {
	case domain.UserRoleTenant:
		f.TenantID = actor.UserID
	case domain.UserRoleLandlord:
		f.LandlordID = actor.UserID
	}
	return s.appRepo.List(ctx, f)
}

func (s *applicationService) ScheduleViewing(ctx context.Context, landlordID, applicationID int32, date time.Time) (*domain.Application, error) {
	if utils.IsPastDate(date, s.now()) {
		return nil, invalid("viewing date cannot be in the past")
	}
	app, err := s.landlordApplication(ctx, landlordID, applicationID)
	if err != nil {
		return nil, err
	}
	viewing := date.UTC()
	app.ViewingDate = &viewing
	if err := s.transition(ctx, app, domain.ApplicationStatusViewing, landlordID); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, app.TenantID, Notice{
		Type:       "APPLICATION_VIEWING",
		Title:      "Viewing scheduled",
		Message:    fmt.Sprintf("A viewing was scheduled for %s", viewing.Format(time.RFC1123)),
		Attributes: map[string]string{"application_id": idString(app.ID)},
	})
	return app, nil
}

func (s *applicationService) ApproveApplication(ctx context.Context, landlordID, applicationID int32) (*domain.Application, error) {
	app, err := s.landlordApplication(ctx, landlordID, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransitionTo(domain.ApplicationStatusApproved) {
		return nil, invalidTransition("application", app.Status, domain.ApplicationStatusApproved)
	}
	prop, err := s.propRepo.GetByID(ctx, app.PropertyID)
	if err != nil {
		return nil, err
	}
	if prop.Status != domain.PropertyStatusApproved {
		return nil, fmt.Errorf("%w: property %d is %s", domain.ErrConflict, prop.ID, prop.Status)
	}
	if err := s.transition(ctx, app, domain.ApplicationStatusApproved, landlordID); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, app.TenantID, Notice{
		Type:       "APPLICATION_APPROVED",
		Title:      "Application approved",
		Message:    "Your application was approved. Propose a lease start date to continue.",
		Attributes: map[string]string{"application_id": idString(app.ID)},
	})
	return app, nil
}

func (s *applicationService) RejectApplication(ctx context.Context, landlordID, applicationID int32, reason string) (*domain.Application, error) {
	app, err := s.landlordApplication(ctx, landlordID, applicationID)
	if err != nil {
		return nil, err
	}
	app.RejectionReason = strings.TrimSpace(reason)
	if err := s.transition(ctx, app, domain.ApplicationStatusRejected, landlordID); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, app.TenantID, Notice{
		Type:       "APPLICATION_REJECTED",
		Title:      "Application rejected",
		Message:    "Your application was not accepted.",
		Attributes: map[string]string{"application_id": idString(app.ID)},
	})
	return app, nil
}

// WithdrawApplication lets the tenant pull a pending or viewing application.
func (s *applicationService) WithdrawApplication(ctx context.Context, tenantID, applicationID int32) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.TenantID != tenantID {
		return nil, forbidden("application %d belongs to another tenant", applicationID)
	}
	if app.Status != domain.ApplicationStatusPending && app.Status != domain.ApplicationStatusViewing {
		return nil, invalidTransition("application", app.Status, "withdrawn")
	}
	app.RejectionReason = withdrawnReason
	if err := s.transition(ctx, app, domain.ApplicationStatusRejected, tenantID); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, app.LandlordID, Notice{
		Type:       "APPLICATION_WITHDRAWN",
		Title:      "Application withdrawn",
		Message:    fmt.Sprintf("Application #%d was withdrawn by the tenant", app.ID),
		Attributes: map[string]string{"application_id": idString(app.ID)},
	})
	return app, nil
}

func (s *applicationService) landlordApplication(ctx context.Context, landlordID, applicationID int32) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.LandlordID != landlordID {
		return nil, forbidden("application %d is for another landlord's property", applicationID)
	}
	return app, nil
}

func (s *applicationService) transition(ctx context.Context, app *domain.Application, next domain.ApplicationStatus, actorID int32) error {
	if !app.Status.CanTransitionTo(next) {
		return invalidTransition("application", app.Status, next)
	}
	prev := app.Status
	app.Status = next
	if err := s.appRepo.Update(ctx, app, prev); err != nil {
		app.Status = prev
		return err
	}
	s.events.Publish(ctx, events.New("application", app.ID, string(next), string(next), actorID))
	logger.Info("Application status changed", "applicationID", app.ID, "from", prev, "to", next)
	return nil
}
