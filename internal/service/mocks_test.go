package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/events"
	"leasehub-backend/internal/mailer"
	"leasehub-backend/internal/security"
	"leasehub-backend/internal/service"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, role domain.UserRole, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, role, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}
func (m *MockUserRepo) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockPropertyRepo
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPropertyRepo) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) Update(ctx context.Context, p *domain.Property, expected domain.PropertyStatus) error {
	args := m.Called(ctx, p, expected)
	return args.Error(0)
}
func (m *MockPropertyRepo) List(ctx context.Context, f domain.PropertyFilter) ([]domain.Property, int32, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Property), args.Get(1).(int32), args.Error(2)
}
func (m *MockPropertyRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

// MockApplicationRepo
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) Update(ctx context.Context, a *domain.Application, expected domain.ApplicationStatus) error {
	args := m.Called(ctx, a, expected)
	return args.Error(0)
}
func (m *MockApplicationRepo) List(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, int32, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Application), args.Get(1).(int32), args.Error(2)
}
func (m *MockApplicationRepo) HasActive(ctx context.Context, tenantID, propertyID int32) (bool, error) {
	args := m.Called(ctx, tenantID, propertyID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) FindApproved(ctx context.Context, tenantID, propertyID int32) (*domain.Application, error) {
	args := m.Called(ctx, tenantID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

// MockLeaseRepo
type MockLeaseRepo struct {
	mock.Mock
}

func (m *MockLeaseRepo) Create(ctx context.Context, l *domain.LeaseAgreement) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockLeaseRepo) GetByApplication(ctx context.Context, applicationID int32) (*domain.LeaseAgreement, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaseAgreement), args.Error(1)
}
func (m *MockLeaseRepo) GetByEnvelope(ctx context.Context, envelopeID string) (*domain.LeaseAgreement, error) {
	args := m.Called(ctx, envelopeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaseAgreement), args.Error(1)
}
func (m *MockLeaseRepo) Update(ctx context.Context, l *domain.LeaseAgreement, expected domain.LeaseStatus) error {
	args := m.Called(ctx, l, expected)
	return args.Error(0)
}
func (m *MockLeaseRepo) ListStale(ctx context.Context, statuses []domain.LeaseStatus, updatedBefore time.Time) ([]domain.LeaseAgreement, error) {
	args := m.Called(ctx, statuses, updatedBefore)
	return args.Get(0).([]domain.LeaseAgreement), args.Error(1)
}

// MockCommentRepo
type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCommentRepo) ListByParent(ctx context.Context, parentType domain.CommentParent, parentID int32) ([]domain.Comment, error) {
	args := m.Called(ctx, parentType, parentID)
	return args.Get(0).([]domain.Comment), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) Update(ctx context.Context, p *domain.Payment, expected domain.PaymentStatus) error {
	args := m.Called(ctx, p, expected)
	return args.Error(0)
}
func (m *MockPaymentRepo) List(ctx context.Context, f domain.PaymentFilter) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Payment), args.Get(1).(int32), args.Error(2)
}
func (m *MockPaymentRepo) ListByTenantProperty(ctx context.Context, tenantID, propertyID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, propertyID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Payment, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListOverdue(ctx context.Context) ([]domain.Payment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// MockEscalationRepo
type MockEscalationRepo struct {
	mock.Mock
}

func (m *MockEscalationRepo) Create(ctx context.Context, e *domain.Escalation) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockEscalationRepo) GetByID(ctx context.Context, id int32) (*domain.Escalation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Escalation), args.Error(1)
}
func (m *MockEscalationRepo) Update(ctx context.Context, e *domain.Escalation, expected domain.EscalationStatus) error {
	args := m.Called(ctx, e, expected)
	return args.Error(0)
}
func (m *MockEscalationRepo) AppendNote(ctx context.Context, id int32, note domain.AdminNote) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}
func (m *MockEscalationRepo) List(ctx context.Context, f domain.EscalationFilter) ([]domain.Escalation, int32, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Escalation), args.Get(1).(int32), args.Error(2)
}
func (m *MockEscalationRepo) HasOpenForPayment(ctx context.Context, paymentID int32) (bool, error) {
	args := m.Called(ctx, paymentID)
	return args.Bool(0), args.Error(1)
}
func (m *MockEscalationRepo) ListStale(ctx context.Context, createdBefore time.Time) ([]domain.Escalation, error) {
	args := m.Called(ctx, createdBefore)
	return args.Get(0).([]domain.Escalation), args.Error(1)
}

// MockTicketRepo
type MockTicketRepo struct {
	mock.Mock
}

func (m *MockTicketRepo) Create(ctx context.Context, t *domain.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTicketRepo) GetByID(ctx context.Context, id int32) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}
func (m *MockTicketRepo) Update(ctx context.Context, t *domain.Ticket, expected domain.TicketStatus) error {
	args := m.Called(ctx, t, expected)
	return args.Error(0)
}
func (m *MockTicketRepo) List(ctx context.Context, f domain.TicketFilter) ([]domain.Ticket, int32, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Ticket), args.Get(1).(int32), args.Error(2)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(ctx context.Context, email, name string, role domain.UserRole) error {
	args := m.Called(ctx, email, name, role)
	return args.Error(0)
}
func (m *MockEmailService) SendNotification(ctx context.Context, email, name, subject, message string) error {
	args := m.Called(ctx, email, name, subject, message)
	return args.Error(0)
}
func (m *MockEmailService) SendAccountStatusNotification(ctx context.Context, email, name string, blocked bool, reason string) error {
	args := m.Called(ctx, email, name, blocked, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, email, name string, payments []domain.Payment) error {
	args := m.Called(ctx, email, name, payments)
	return args.Error(0)
}
func (m *MockEmailService) SendLeaseReviewReminder(ctx context.Context, email, name string, applicationID int32, status domain.LeaseStatus) error {
	args := m.Called(ctx, email, name, applicationID, status)
	return args.Error(0)
}
func (m *MockEmailService) SendStaleEscalationDigest(ctx context.Context, email string, escalations []domain.Escalation) error {
	args := m.Called(ctx, email, escalations)
	return args.Error(0)
}

// MockTokenManager
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(userID int32, email string, role domain.UserRole) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) GenerateRefreshToken(userID int32, email string, role domain.UserRole) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) ValidateToken(token string, expected security.TokenType) (*security.UserClaims, error) {
	args := m.Called(token, expected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}

// MockRevoker
type MockRevoker struct {
	mock.Mock
}

func (m *MockRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}
func (m *MockRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

// MockPushSender
type MockPushSender struct {
	mock.Mock
}

func (m *MockPushSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	args := m.Called(ctx, deviceToken, title, body, data)
	return args.Error(0)
}

// fakeMailer records outgoing messages.
type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type sentNotice struct {
	UserID int32
	Notice service.Notice
}

// recordingNotifier captures notices instead of delivering them.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotice
}

func (r *recordingNotifier) Notify(_ context.Context, userID int32, n service.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotice{UserID: userID, Notice: n})
}

func (r *recordingNotifier) types(userID int32) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range r.sent {
		if s.UserID == userID {
			out = append(out, s.Notice.Type)
		}
	}
	return out
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingPublisher) Close() {}

func (r *recordingPublisher) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.ResourceType+"."+e.EventType)
	}
	return out
}

// MockPropertyService
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) CreateProperty(ctx context.Context, landlordID int32, p *domain.Property) error {
	args := m.Called(ctx, landlordID, p)
	return args.Error(0)
}
func (m *MockPropertyService) UpdateProperty(ctx context.Context, landlordID, propertyID int32, upd service.PropertyUpdate) (*domain.Property, error) {
	args := m.Called(ctx, landlordID, propertyID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) ArchiveProperty(ctx context.Context, landlordID, propertyID int32) (*domain.Property, error) {
	args := m.Called(ctx, landlordID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) GetProperty(ctx context.Context, actor service.Actor, propertyID int32) (*domain.Property, error) {
	args := m.Called(ctx, actor, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) BrowseProperties(ctx context.Context, f domain.PropertyFilter) ([]domain.Property, int32, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Property), args.Get(1).(int32), args.Error(2)
}
func (m *MockPropertyService) ListMyProperties(ctx context.Context, landlordID int32, status domain.PropertyStatus, page, pageSize int32) ([]domain.Property, int32, error) {
	args := m.Called(ctx, landlordID, status, page, pageSize)
	return args.Get(0).([]domain.Property), args.Get(1).(int32), args.Error(2)
}
func (m *MockPropertyService) ListForModeration(ctx context.Context, status domain.PropertyStatus, page, pageSize int32) ([]domain.Property, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Property), args.Get(1).(int32), args.Error(2)
}
func (m *MockPropertyService) ModerateProperty(ctx context.Context, adminID, propertyID int32, approve bool, note string) (*domain.Property, error) {
	args := m.Called(ctx, adminID, propertyID, approve, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) MarkRented(ctx context.Context, propertyID int32) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}
