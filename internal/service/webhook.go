package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/events"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
)

const (
	docuSignEnvelopeSent      = "envelope-sent"
	docuSignRecipientComplete = "recipient-completed"
	docuSignEnvelopeComplete  = "envelope-completed"
)

type webhookService struct {
	*leaseTracker
	userRepo repository.UserRepository
}

func NewWebhookService(
	userRepo repository.UserRepository,
	appRepo repository.ApplicationRepository,
	leaseRepo repository.LeaseRepository,
	propertySvc PropertyService,
	notifier Notifier,
	publisher events.Publisher,
) WebhookService {
	return &webhookService{
		leaseTracker: &leaseTracker{
			appRepo:     appRepo,
			leaseRepo:   leaseRepo,
			propertySvc: propertySvc,
			notifier:    notifier,
			events:      publisher,
			now:         time.Now,
		},
		userRepo: userRepo,
	}
}

// HandleDocuSignEvent applies a DocuSign Connect event. Events that refer to
// unknown envelopes or no longer apply are acknowledged and dropped.
func (s *webhookService) HandleDocuSignEvent(ctx context.Context, payload []byte) (err error) {
	if !gjson.ValidBytes(payload) {
		return invalid("webhook payload is not valid json")
	}
	event := gjson.GetBytes(payload, "event").String()
	envelopeID := gjson.GetBytes(payload, "data.envelopeId").String()
	if envelopeID == "" {
		return invalid("webhook payload has no envelope id")
	}

	ctx, span := startSpan(ctx, "lease.DocuSign."+event, 0)
	defer func() { endSpan(span, err) }()
	logger.InfoContext(ctx, "DocuSign event received", "event", event, "envelopeID", envelopeID)

	switch event {
	case docuSignEnvelopeSent:
		err = s.envelopeSent(ctx, payload, envelopeID)
	case docuSignRecipientComplete:
		err = s.recipientCompleted(ctx, payload, envelopeID)
	case docuSignEnvelopeComplete:
		err = s.envelopeCompleted(ctx, envelopeID)
	default:
		logger.DebugContext(ctx, "Ignoring DocuSign event", "event", event)
	}
	return err
}

func (s *webhookService) envelopeSent(ctx context.Context, payload []byte, envelopeID string) error {
	lease, err := s.leaseRepo.GetByEnvelope(ctx, envelopeID)
	if isNotFound(err) {
		field := gjson.GetBytes(payload, `data.envelopeSummary.customFields.textCustomFields.#(name=="applicationId").value`).String()
		appID, convErr := strconv.Atoi(field)
		if convErr != nil {
			logger.WarnContext(ctx, "DocuSign envelope has no application reference", "envelopeID", envelopeID)
			return nil
		}
		lease, err = s.leaseRepo.GetByApplication(ctx, int32(appID))
	}
	if isNotFound(err) {
		logger.WarnContext(ctx, "DocuSign envelope for unknown lease", "envelopeID", envelopeID)
		return nil
	}
	if err != nil {
		return err
	}
	if lease.Status.Final() {
		return nil
	}

	now := s.now()
	lease.EnvelopeID = envelopeID
	lease.EnvelopeSentAt = &now
	return s.save(ctx, lease, lease.Status, 0)
}

func (s *webhookService) recipientCompleted(ctx context.Context, payload []byte, envelopeID string) error {
	app, lease, ok, err := s.byEnvelope(ctx, envelopeID)
	if !ok || err != nil {
		return err
	}

	recipientID := gjson.GetBytes(payload, "data.recipientId").String()
	email := signerEmail(payload, recipientID)
	if email == "" {
		logger.WarnContext(ctx, "DocuSign recipient without email", "envelopeID", envelopeID, "recipientID", recipientID)
		return nil
	}

	role, err := s.roleForEmail(ctx, app, email)
	if err != nil {
		return err
	}
	if role == "" {
		logger.WarnContext(ctx, "DocuSign recipient is not a party to the lease", "envelopeID", envelopeID)
		return nil
	}
	if err := s.sign(ctx, app, lease, role, partyID(app, role)); err != nil {
		if isInvalidTransition(err) {
			logger.WarnContext(ctx, "Dropping DocuSign signature", "envelopeID", envelopeID, "status", lease.Status)
			return nil
		}
		return err
	}
	return nil
}

func (s *webhookService) envelopeCompleted(ctx context.Context, envelopeID string) error {
	app, lease, ok, err := s.byEnvelope(ctx, envelopeID)
	if !ok || err != nil {
		return err
	}
	if lease.Status == domain.LeaseStatusSigned {
		return nil
	}
	if lease.Status != domain.LeaseStatusLandlordApproved {
		logger.WarnContext(ctx, "Dropping DocuSign completion", "envelopeID", envelopeID, "status", lease.Status)
		return nil
	}
	now := s.now()
	lease.MarkSigned(domain.UserRoleTenant, now)
	lease.MarkSigned(domain.UserRoleLandlord, now)
	// Both signatures are now present, so sign() completes the lease.
	return s.sign(ctx, app, lease, domain.UserRoleLandlord, 0)
}

func (s *webhookService) byEnvelope(ctx context.Context, envelopeID string) (*domain.Application, *domain.LeaseAgreement, bool, error) {
	lease, err := s.leaseRepo.GetByEnvelope(ctx, envelopeID)
	if isNotFound(err) {
		logger.WarnContext(ctx, "DocuSign event for unknown envelope", "envelopeID", envelopeID)
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}
	app, err := s.appRepo.GetByID(ctx, lease.ApplicationID)
	if err != nil {
		return nil, nil, false, err
	}
	return app, lease, true, nil
}

func (s *webhookService) roleForEmail(ctx context.Context, app *domain.Application, email string) (domain.UserRole, error) {
	for _, role := range []domain.UserRole{domain.UserRoleTenant, domain.UserRoleLandlord} {
		user, err := s.userRepo.GetByID(ctx, partyID(app, role))
		if err != nil {
			return "", err
		}
		if strings.EqualFold(user.Email, email) {
			return role, nil
		}
	}
	return "", nil
}

// signerEmail finds the email of the signer with recipientID in the envelope summary.
func signerEmail(payload []byte, recipientID string) string {
	if recipientID == "" {
		return ""
	}
	var email string
	gjson.GetBytes(payload, "data.envelopeSummary.recipients.signers").ForEach(func(_, signer gjson.Result) bool {
		if signer.Get("recipientId").String() == recipientID {
			email = signer.Get("email").String()
			return false
		}
		return true
	})
	return email
}
