package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/events"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
	"leasehub-backend/internal/utils"
)

// leaseTracker holds the persistence and side effects shared by the lease
// operations and the signing webhook.
type leaseTracker struct {
	appRepo     repository.ApplicationRepository
	leaseRepo   repository.LeaseRepository
	propertySvc PropertyService
	notifier    Notifier
	events      events.Publisher
	now         func() time.Time
}

// save persists lease guarded by expected and publishes the status event when it changed.
func (t *leaseTracker) save(ctx context.Context, lease *domain.LeaseAgreement, expected domain.LeaseStatus, actorID int32) error {
	if err := t.leaseRepo.Update(ctx, lease, expected); err != nil {
		return err
	}
	if lease.Status != expected {
		logger.Info("Lease status changed", "leaseID", lease.ID, "applicationID", lease.ApplicationID, "from", expected, "to", lease.Status)
		t.events.Publish(ctx, events.New("lease", lease.ID, string(lease.Status), string(lease.Status), actorID))
	}
	return nil
}

// sign records the signature of role and completes the lease once both parties signed.
func (t *leaseTracker) sign(ctx context.Context, app *domain.Application, lease *domain.LeaseAgreement, role domain.UserRole, actorID int32) error {
	if lease.Status != domain.LeaseStatusLandlordApproved {
		return invalidTransition("lease", lease.Status, domain.LeaseStatusSigned)
	}
	now := t.now()
	if lease.MarkSigned(role, now) {
		// Let the property first; a rented property fails the signature.
		if err := t.propertySvc.MarkRented(ctx, app.PropertyID); err != nil {
			logger.WarnContext(ctx, "Lease cannot complete", "propertyID", app.PropertyID, "leaseID", lease.ID, "error", err)
			return fmt.Errorf("property %d cannot be let under lease %d: %w", app.PropertyID, lease.ID, err)
		}
		lease.Status = domain.LeaseStatusSigned
		lease.SignedAt = &now
	}
	if err := t.save(ctx, lease, domain.LeaseStatusLandlordApproved, actorID); err != nil {
		return err
	}

	if lease.Status != domain.LeaseStatusSigned {
		t.notifier.Notify(ctx, app.Counterparty(partyID(app, role)), Notice{
			Type:       "LEASE_PARTY_SIGNED",
			Title:      "Lease signed by the other party",
			Message:    fmt.Sprintf("The %s signed the lease for application #%d. Your signature is the last step.", role, app.ID),
			Attributes: leaseAttrs(app, lease),
		})
		return nil
	}

	for _, uid := range []int32{app.TenantID, app.LandlordID} {
		t.notifier.Notify(ctx, uid, Notice{
			Type:       "LEASE_SIGNED",
			Title:      "Lease fully signed",
			Message:    fmt.Sprintf("The lease for application #%d is signed by both parties.", app.ID),
			Attributes: leaseAttrs(app, lease),
		})
	}
	return nil
}

func partyID(app *domain.Application, role domain.UserRole) int32 {
	if role == domain.UserRoleTenant {
		return app.TenantID
	}
	return app.LandlordID
}

func leaseAttrs(app *domain.Application, lease *domain.LeaseAgreement) map[string]string {
	return map[string]string{
		"application_id": idString(app.ID),
		"lease_id":       idString(lease.ID),
		"lease_status":   string(lease.Status),
	}
}

type leaseService struct {
	*leaseTracker
	commentRepo repository.CommentRepository
}

func NewLeaseService(
	appRepo repository.ApplicationRepository,
	leaseRepo repository.LeaseRepository,
	commentRepo repository.CommentRepository,
	propertySvc PropertyService,
	notifier Notifier,
	publisher events.Publisher,
) LeaseService {
	return &leaseService{
		leaseTracker: &leaseTracker{
			appRepo:     appRepo,
			leaseRepo:   leaseRepo,
			propertySvc: propertySvc,
			notifier:    notifier,
			events:      publisher,
			now:         time.Now,
		},
		commentRepo: commentRepo,
	}
}

// party loads the application and the caller's role on it.
func (s *leaseService) party(ctx context.Context, userID, applicationID int32) (*domain.Application, domain.UserRole, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, "", err
	}
	role, ok := app.PartyRole(userID)
	if !ok {
		return nil, "", forbidden("not a party to application %d", applicationID)
	}
	return app, role, nil
}

func (s *leaseService) lease(ctx context.Context, applicationID int32) (*domain.LeaseAgreement, error) {
	lease, err := s.leaseRepo.GetByApplication(ctx, applicationID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: no lease agreement yet; the start date must be approved first", domain.ErrNotFound)
		}
		return nil, err
	}
	return lease, nil
}

func (s *leaseService) GetLease(ctx context.Context, actor Actor, applicationID int32) (*domain.LeaseAgreement, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if _, ok := app.PartyRole(actor.UserID); !ok && !actor.IsAdmin() {
		return nil, domain.ErrNotFound
	}
	lease, err := s.lease(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByParent(ctx, domain.CommentParentLease, lease.ID)
	if err != nil {
		return nil, err
	}
	lease.Comments = comments
	return lease, nil
}

func (s *leaseService) SetStartDate(ctx context.Context, userID, applicationID int32, date time.Time) (app *domain.Application, err error) {
	ctx, span := startSpan(ctx, "lease.SetStartDate", applicationID)
	defer func() { endSpan(span, err) }()

	app, _, err = s.party(ctx, userID, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationStatusApproved {
		return nil, invalid("application must be approved before scheduling the lease")
	}
	if utils.IsPastDate(date, s.now()) {
		return nil, invalid("lease start date cannot be in the past")
	}
	lease, err := s.leaseRepo.GetByApplication(ctx, applicationID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if lease != nil && lease.Status != domain.LeaseStatusPendingReview {
		return nil, invalidTransition("lease start date", lease.Status, "rescheduled")
	}

	start := utils.StartOfDay(date)
	setBy := userID
	app.LeaseStartDate = domain.LeaseStartDate{Date: &start, SetBy: &setBy}
	if err := s.appRepo.Update(ctx, app, domain.ApplicationStatusApproved); err != nil {
		return nil, err
	}
	app.LeaseAgreement = lease

	s.notifier.Notify(ctx, app.Counterparty(userID), Notice{
		Type:       "LEASE_START_PROPOSED",
		Title:      "Lease start date proposed",
		Message:    fmt.Sprintf("A lease start date of %s was proposed for application #%d", start.Format(utils.DateLayout), app.ID),
		Attributes: map[string]string{"application_id": idString(app.ID)},
	})
	return app, nil
}

func (s *leaseService) ApproveStartDate(ctx context.Context, userID, applicationID int32) (app *domain.Application, err error) {
	ctx, span := startSpan(ctx, "lease.ApproveStartDate", applicationID)
	defer func() { endSpan(span, err) }()

	app, _, err = s.party(ctx, userID, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationStatusApproved {
		return nil, invalid("application must be approved before scheduling the lease")
	}
	sd := app.LeaseStartDate
	switch {
	case sd.Date == nil:
		return nil, invalid("no lease start date has been proposed")
	case sd.Approved():
		return nil, fmt.Errorf("%w: lease start date already approved", domain.ErrConflict)
	case sd.SetBy != nil && *sd.SetBy == userID:
		return nil, forbidden("the proposed start date must be approved by the other party")
	case utils.IsPastDate(*sd.Date, s.now()):
		return nil, invalid("the proposed start date has passed; propose a new one")
	}

	approvedBy := userID
	app.LeaseStartDate.ApprovedBy = &approvedBy
	if err := s.appRepo.Update(ctx, app, domain.ApplicationStatusApproved); err != nil {
		return nil, err
	}

	lease, err := s.leaseRepo.GetByApplication(ctx, applicationID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if lease == nil {
		lease = &domain.LeaseAgreement{ApplicationID: app.ID, Status: domain.LeaseStatusPendingReview}
		if err := s.leaseRepo.Create(ctx, lease); err != nil {
			return nil, err
		}
		s.events.Publish(ctx, events.New("lease", lease.ID, "created", string(lease.Status), userID))
	}
	app.LeaseAgreement = lease

	s.notifier.Notify(ctx, app.Counterparty(userID), Notice{
		Type:       "LEASE_START_APPROVED",
		Title:      "Lease start date approved",
		Message:    fmt.Sprintf("The lease start date %s was approved. The lease agreement is now in review.", sd.Date.Format(utils.DateLayout)),
		Attributes: leaseAttrs(app, lease),
	})
	return app, nil
}

func (s *leaseService) SetDocument(ctx context.Context, landlordID, applicationID int32, documentURL string) (lease *domain.LeaseAgreement, err error) {
	ctx, span := startSpan(ctx, "lease.SetDocument", applicationID)
	defer func() { endSpan(span, err) }()

	app, role, err := s.party(ctx, landlordID, applicationID)
	if err != nil {
		return nil, err
	}
	if role != domain.UserRoleLandlord {
		return nil, forbidden("only the landlord can attach the lease document")
	}
	if err := validateDocumentURL(documentURL); err != nil {
		return nil, err
	}
	lease, err = s.lease(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if lease.Status != domain.LeaseStatusPendingReview {
		return nil, invalidTransition("lease document", lease.Status, "replaced")
	}

	lease.DocumentURL = documentURL
	lease.ResetReview()
	if err := s.save(ctx, lease, domain.LeaseStatusPendingReview, landlordID); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, app.TenantID, Notice{
		Type:       "LEASE_DOCUMENT_READY",
		Title:      "Lease document ready",
		Message:    fmt.Sprintf("The lease document for application #%d is ready for your review.", app.ID),
		Attributes: leaseAttrs(app, lease),
	})
	return lease, nil
}

func validateDocumentURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return invalid("document url must be an absolute http(s) url")
	}
	return nil
}

func (s *leaseService) Download(ctx context.Context, userID, applicationID int32) (string, error) {
	_, role, err := s.party(ctx, userID, applicationID)
	if err != nil {
		return "", err
	}
	lease, err := s.lease(ctx, applicationID)
	if err != nil {
		return "", err
	}
	if lease.DocumentURL == "" {
		return "", invalid("the landlord has not attached a lease document yet")
	}
	if !lease.HasDownloaded(role) {
		lease.MarkDownloaded(role, s.now())
		if err := s.save(ctx, lease, lease.Status, userID); err != nil {
			return "", err
		}
	}
	return lease.DocumentURL, nil
}

func (s *leaseService) Comment(ctx context.Context, userID, applicationID int32, body string, parentCommentID *int32) (*domain.Comment, error) {
	app, role, err := s.party(ctx, userID, applicationID)
	if err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalid("comment body is required")
	}
	lease, err := s.lease(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if lease.Status.Final() {
		return nil, invalid("comments are closed on a signed lease")
	}
	if parentCommentID != nil {
		thread, err := s.commentRepo.ListByParent(ctx, domain.CommentParentLease, lease.ID)
		if err != nil {
			return nil, err
		}
		if err := domain.CheckReplyTarget(thread, *parentCommentID); err != nil {
			return nil, err
		}
	}

	c := &domain.Comment{
		ParentType:      domain.CommentParentLease,
		ParentID:        lease.ID,
		AuthorID:        userID,
		AuthorRole:      role,
		Body:            body,
		ParentCommentID: parentCommentID,
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, app.Counterparty(userID), Notice{
		Type:       "LEASE_COMMENT",
		Title:      "New comment on your lease",
		Message:    body,
		Attributes: leaseAttrs(app, lease),
	})
	return c, nil
}

// Approve moves the lease forward: the tenant approves first, then the landlord.
// Each party must have downloaded the document before approving.
func (s *leaseService) Approve(ctx context.Context, userID, applicationID int32) (lease *domain.LeaseAgreement, err error) {
	ctx, span := startSpan(ctx, "lease.Approve", applicationID)
	defer func() { endSpan(span, err) }()

	app, role, err := s.party(ctx, userID, applicationID)
	if err != nil {
		return nil, err
	}
	lease, err = s.lease(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	var next domain.LeaseStatus
	switch role {
	case domain.UserRoleTenant:
		next = domain.LeaseStatusTenantApproved
	case domain.UserRoleLandlord:
		next = domain.LeaseStatusLandlordApproved
	}
	if !lease.Status.CanTransitionTo(next) {
		return nil, invalidTransition("lease", lease.Status, next)
	}
	if lease.DocumentURL == "" {
		return nil, invalid("no lease document to approve")
	}
	if !lease.HasDownloaded(role) {
		return nil, invalid("download the lease document before approving it")
	}

	now := s.now()
	prev := lease.Status
	lease.Status = next
	if role == domain.UserRoleTenant {
		lease.TenantApprovedAt = &now
	} else {
		lease.LandlordApprovedAt = &now
	}
	if err := s.save(ctx, lease, prev, userID); err != nil {
		return nil, err
	}

	msg := "The tenant approved the lease. Please review and approve it."
	if next == domain.LeaseStatusLandlordApproved {
		msg = "The landlord approved the lease. It is ready to be signed."
	}
	s.notifier.Notify(ctx, app.Counterparty(userID), Notice{
		Type:       "LEASE_" + strings.ToUpper(string(next)),
		Title:      "Lease approved",
		Message:    msg,
		Attributes: leaseAttrs(app, lease),
	})
	return lease, nil
}

func (s *leaseService) Sign(ctx context.Context, userID, applicationID int32) (lease *domain.LeaseAgreement, err error) {
	ctx, span := startSpan(ctx, "lease.Sign", applicationID)
	defer func() { endSpan(span, err) }()

	app, role, err := s.party(ctx, userID, applicationID)
	if err != nil {
		return nil, err
	}
	lease, err = s.lease(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if (role == domain.UserRoleTenant && lease.TenantSignedAt != nil) || (role == domain.UserRoleLandlord && lease.LandlordSignedAt != nil) {
		return nil, fmt.Errorf("%w: already signed", domain.ErrConflict)
	}
	if err := s.sign(ctx, app, lease, role, userID); err != nil {
		return nil, err
	}
	return lease, nil
}
