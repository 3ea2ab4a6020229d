package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/events"
	"leasehub-backend/internal/service"
)

type mockPaymentRepo struct{ mock.Mock }

func (m *mockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Payment)
	return p, args.Error(1)
}

func (m *mockPaymentRepo) Update(ctx context.Context, p *domain.Payment, expected domain.PaymentStatus) error {
	return m.Called(ctx, p, expected).Error(0)
}

func (m *mockPaymentRepo) List(ctx context.Context, f domain.PaymentFilter) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, f)
	p, _ := args.Get(0).([]domain.Payment)
	return p, int32(args.Int(1)), args.Error(2)
}

func (m *mockPaymentRepo) ListByTenantProperty(ctx context.Context, tenantID, propertyID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, propertyID)
	p, _ := args.Get(0).([]domain.Payment)
	return p, args.Error(1)
}

func (m *mockPaymentRepo) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Payment, error) {
	args := m.Called(ctx, asOf)
	p, _ := args.Get(0).([]domain.Payment)
	return p, args.Error(1)
}

func (m *mockPaymentRepo) ListOverdue(ctx context.Context) ([]domain.Payment, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]domain.Payment)
	return p, args.Error(1)
}

type mockLeaseRepo struct{ mock.Mock }

func (m *mockLeaseRepo) Create(ctx context.Context, l *domain.LeaseAgreement) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockLeaseRepo) GetByApplication(ctx context.Context, applicationID int32) (*domain.LeaseAgreement, error) {
	args := m.Called(ctx, applicationID)
	l, _ := args.Get(0).(*domain.LeaseAgreement)
	return l, args.Error(1)
}

func (m *mockLeaseRepo) GetByEnvelope(ctx context.Context, envelopeID string) (*domain.LeaseAgreement, error) {
	args := m.Called(ctx, envelopeID)
	l, _ := args.Get(0).(*domain.LeaseAgreement)
	return l, args.Error(1)
}

func (m *mockLeaseRepo) Update(ctx context.Context, l *domain.LeaseAgreement, expected domain.LeaseStatus) error {
	return m.Called(ctx, l, expected).Error(0)
}

func (m *mockLeaseRepo) ListStale(ctx context.Context, statuses []domain.LeaseStatus, updatedBefore time.Time) ([]domain.LeaseAgreement, error) {
	args := m.Called(ctx, statuses, updatedBefore)
	l, _ := args.Get(0).([]domain.LeaseAgreement)
	return l, args.Error(1)
}

type mockEscalationRepo struct{ mock.Mock }

func (m *mockEscalationRepo) Create(ctx context.Context, e *domain.Escalation) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEscalationRepo) GetByID(ctx context.Context, id int32) (*domain.Escalation, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*domain.Escalation)
	return e, args.Error(1)
}

func (m *mockEscalationRepo) Update(ctx context.Context, e *domain.Escalation, expected domain.EscalationStatus) error {
	return m.Called(ctx, e, expected).Error(0)
}

func (m *mockEscalationRepo) AppendNote(ctx context.Context, id int32, note domain.AdminNote) error {
	return m.Called(ctx, id, note).Error(0)
}

func (m *mockEscalationRepo) List(ctx context.Context, f domain.EscalationFilter) ([]domain.Escalation, int32, error) {
	args := m.Called(ctx, f)
	e, _ := args.Get(0).([]domain.Escalation)
	return e, int32(args.Int(1)), args.Error(2)
}

func (m *mockEscalationRepo) HasOpenForPayment(ctx context.Context, paymentID int32) (bool, error) {
	args := m.Called(ctx, paymentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockEscalationRepo) ListStale(ctx context.Context, createdBefore time.Time) ([]domain.Escalation, error) {
	args := m.Called(ctx, createdBefore)
	e, _ := args.Get(0).([]domain.Escalation)
	return e, args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, role domain.UserRole, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, role, page, pageSize)
	u, _ := args.Get(0).([]domain.User)
	return u, int32(args.Int(1)), args.Error(2)
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	u, _ := args.Get(0).([]domain.User)
	return u, args.Error(1)
}

type mockApplicationRepo struct{ mock.Mock }

func (m *mockApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*domain.Application)
	return a, args.Error(1)
}

func (m *mockApplicationRepo) Update(ctx context.Context, a *domain.Application, expected domain.ApplicationStatus) error {
	return m.Called(ctx, a, expected).Error(0)
}

func (m *mockApplicationRepo) List(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, int32, error) {
	args := m.Called(ctx, f)
	a, _ := args.Get(0).([]domain.Application)
	return a, int32(args.Int(1)), args.Error(2)
}

func (m *mockApplicationRepo) HasActive(ctx context.Context, tenantID, propertyID int32) (bool, error) {
	args := m.Called(ctx, tenantID, propertyID)
	return args.Bool(0), args.Error(1)
}

func (m *mockApplicationRepo) FindApproved(ctx context.Context, tenantID, propertyID int32) (*domain.Application, error) {
	args := m.Called(ctx, tenantID, propertyID)
	a, _ := args.Get(0).(*domain.Application)
	return a, args.Error(1)
}

type mockEmailService struct{ mock.Mock }

func (m *mockEmailService) SendWelcome(ctx context.Context, email, name string, role domain.UserRole) error {
	return m.Called(ctx, email, name, role).Error(0)
}

func (m *mockEmailService) SendNotification(ctx context.Context, email, name, subject, message string) error {
	return m.Called(ctx, email, name, subject, message).Error(0)
}

func (m *mockEmailService) SendAccountStatusNotification(ctx context.Context, email, name string, blocked bool, reason string) error {
	return m.Called(ctx, email, name, blocked, reason).Error(0)
}

func (m *mockEmailService) SendOverdueReminder(ctx context.Context, email, name string, payments []domain.Payment) error {
	return m.Called(ctx, email, name, payments).Error(0)
}

func (m *mockEmailService) SendLeaseReviewReminder(ctx context.Context, email, name string, applicationID int32, status domain.LeaseStatus) error {
	return m.Called(ctx, email, name, applicationID, status).Error(0)
}

func (m *mockEmailService) SendStaleEscalationDigest(ctx context.Context, email string, escalations []domain.Escalation) error {
	return m.Called(ctx, email, escalations).Error(0)
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices map[int32][]service.Notice
}

func (n *recordingNotifier) Notify(_ context.Context, userID int32, notice service.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.notices == nil {
		n.notices = map[int32][]service.Notice{}
	}
	n.notices[userID] = append(n.notices[userID], notice)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Close() {}
