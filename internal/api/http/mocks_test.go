package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/service"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, *service.TokenPair, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*domain.User)
	p, _ := args.Get(1).(*service.TokenPair)
	return u, p, args.Error(2)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*domain.User, *service.TokenPair, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*domain.User)
	p, _ := args.Get(1).(*service.TokenPair)
	return u, p, args.Error(2)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refresh string) (*service.TokenPair, error) {
	args := m.Called(ctx, refresh)
	p, _ := args.Get(0).(*service.TokenPair)
	return p, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, refresh string) error {
	return m.Called(ctx, refresh).Error(0)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID int32, upd service.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, userID, upd)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

type mockLeaseService struct{ mock.Mock }

func (m *mockLeaseService) GetLease(ctx context.Context, actor service.Actor, applicationID int32) (*domain.LeaseAgreement, error) {
	args := m.Called(ctx, actor, applicationID)
	l, _ := args.Get(0).(*domain.LeaseAgreement)
	return l, args.Error(1)
}

func (m *mockLeaseService) SetStartDate(ctx context.Context, userID, applicationID int32, date time.Time) (*domain.Application, error) {
	args := m.Called(ctx, userID, applicationID, date)
	a, _ := args.Get(0).(*domain.Application)
	return a, args.Error(1)
}

func (m *mockLeaseService) ApproveStartDate(ctx context.Context, userID, applicationID int32) (*domain.Application, error) {
	args := m.Called(ctx, userID, applicationID)
	a, _ := args.Get(0).(*domain.Application)
	return a, args.Error(1)
}

func (m *mockLeaseService) SetDocument(ctx context.Context, landlordID, applicationID int32, documentURL string) (*domain.LeaseAgreement, error) {
	args := m.Called(ctx, landlordID, applicationID, documentURL)
	l, _ := args.Get(0).(*domain.LeaseAgreement)
	return l, args.Error(1)
}

func (m *mockLeaseService) Download(ctx context.Context, userID, applicationID int32) (string, error) {
	args := m.Called(ctx, userID, applicationID)
	return args.String(0), args.Error(1)
}

func (m *mockLeaseService) Comment(ctx context.Context, userID, applicationID int32, body string, parentCommentID *int32) (*domain.Comment, error) {
	args := m.Called(ctx, userID, applicationID, body, parentCommentID)
	c, _ := args.Get(0).(*domain.Comment)
	return c, args.Error(1)
}

func (m *mockLeaseService) Approve(ctx context.Context, userID, applicationID int32) (*domain.LeaseAgreement, error) {
	args := m.Called(ctx, userID, applicationID)
	l, _ := args.Get(0).(*domain.LeaseAgreement)
	return l, args.Error(1)
}

func (m *mockLeaseService) Sign(ctx context.Context, userID, applicationID int32) (*domain.LeaseAgreement, error) {
	args := m.Called(ctx, userID, applicationID)
	l, _ := args.Get(0).(*domain.LeaseAgreement)
	return l, args.Error(1)
}

type mockWebhookService struct{ mock.Mock }

func (m *mockWebhookService) HandleDocuSignEvent(ctx context.Context, payload []byte) error {
	return m.Called(ctx, payload).Error(0)
}

type mockPaymentService struct{ mock.Mock }

func (m *mockPaymentService) RecordPayment(ctx context.Context, landlordID int32, in service.RecordPaymentInput) (*domain.Payment, error) {
	args := m.Called(ctx, landlordID, in)
	p, _ := args.Get(0).(*domain.Payment)
	return p, args.Error(1)
}

func (m *mockPaymentService) GetPayment(ctx context.Context, actor service.Actor, paymentID int32) (*domain.Payment, error) {
	args := m.Called(ctx, actor, paymentID)
	p, _ := args.Get(0).(*domain.Payment)
	return p, args.Error(1)
}

func (m *mockPaymentService) ListPayments(ctx context.Context, actor service.Actor, filter domain.PaymentFilter) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, actor, filter)
	p, _ := args.Get(0).([]domain.Payment)
	return p, int32(args.Int(1)), args.Error(2)
}

func (m *mockPaymentService) MarkPaid(ctx context.Context, landlordID, paymentID int32, paidDate time.Time, method domain.PaymentMethod) (*domain.Payment, error) {
	args := m.Called(ctx, landlordID, paymentID, paidDate, method)
	p, _ := args.Get(0).(*domain.Payment)
	return p, args.Error(1)
}

func (m *mockPaymentService) CancelPayment(ctx context.Context, landlordID, paymentID int32, reason string) (*domain.Payment, error) {
	args := m.Called(ctx, landlordID, paymentID, reason)
	p, _ := args.Get(0).(*domain.Payment)
	return p, args.Error(1)
}

type mockEscalationService struct{ mock.Mock }

func (m *mockEscalationService) CreateEscalation(ctx context.Context, landlordID int32, in service.CreateEscalationInput) (*domain.Escalation, error) {
	args := m.Called(ctx, landlordID, in)
	e, _ := args.Get(0).(*domain.Escalation)
	return e, args.Error(1)
}

func (m *mockEscalationService) GetEscalation(ctx context.Context, actor service.Actor, escalationID int32) (*domain.Escalation, error) {
	args := m.Called(ctx, actor, escalationID)
	e, _ := args.Get(0).(*domain.Escalation)
	return e, args.Error(1)
}

func (m *mockEscalationService) ListEscalations(ctx context.Context, actor service.Actor, filter domain.EscalationFilter) ([]domain.Escalation, int32, error) {
	args := m.Called(ctx, actor, filter)
	e, _ := args.Get(0).([]domain.Escalation)
	return e, int32(args.Int(1)), args.Error(2)
}

func (m *mockEscalationService) StartReview(ctx context.Context, adminID, escalationID int32) (*domain.Escalation, error) {
	args := m.Called(ctx, adminID, escalationID)
	e, _ := args.Get(0).(*domain.Escalation)
	return e, args.Error(1)
}

func (m *mockEscalationService) Resolve(ctx context.Context, adminID, escalationID int32, resolution string) (*domain.Escalation, error) {
	args := m.Called(ctx, adminID, escalationID, resolution)
	e, _ := args.Get(0).(*domain.Escalation)
	return e, args.Error(1)
}

func (m *mockEscalationService) AddNote(ctx context.Context, adminID, escalationID int32, note string) (*domain.Escalation, error) {
	args := m.Called(ctx, adminID, escalationID, note)
	e, _ := args.Get(0).(*domain.Escalation)
	return e, args.Error(1)
}

func (m *mockEscalationService) Close(ctx context.Context, actor service.Actor, escalationID int32) (*domain.Escalation, error) {
	args := m.Called(ctx, actor, escalationID)
	e, _ := args.Get(0).(*domain.Escalation)
	return e, args.Error(1)
}
