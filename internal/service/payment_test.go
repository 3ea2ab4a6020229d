package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/service"
)

func TestPaymentService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Pending payment", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		appRepo := new(MockApplicationRepo)
		notifier := &recordingNotifier{}
		pub := &recordingPublisher{}
		svc := service.NewPaymentService(paymentRepo, appRepo, notifier, pub)

		appRepo.On("GetByID", ctx, leaseAppID).Return(approvedApp(), nil)
		paymentRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.TenantID == leaseTenantID && p.PropertyID == leasePropertyID && p.Status == domain.PaymentStatusPending
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Payment).ID = 30
		}).Return(nil)

		p, err := svc.RecordPayment(ctx, leaseLandlordID, service.RecordPaymentInput{ApplicationID: leaseAppID, AmountCents: 150000, DueDate: due})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentMethodBankTransfer, p.Method)
		assert.Nil(t, p.PaidDate)
		assert.Equal(t, []string{"PAYMENT_PENDING"}, notifier.types(leaseTenantID))
		assert.Equal(t, []string{"payment.created"}, pub.eventTypes())
	})

	t.Run("Already paid", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		appRepo := new(MockApplicationRepo)
		svc := service.NewPaymentService(paymentRepo, appRepo, &recordingNotifier{}, &recordingPublisher{})

		paidOn := due.AddDate(0, 0, -1)
		appRepo.On("GetByID", ctx, leaseAppID).Return(approvedApp(), nil)
		paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

		p, err := svc.RecordPayment(ctx, leaseLandlordID, service.RecordPaymentInput{ApplicationID: leaseAppID, AmountCents: 1000, DueDate: due, Paid: true, PaidDate: &paidOn, Method: domain.PaymentMethodCash})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPaid, p.Status)
		assert.Equal(t, paidOn, *p.PaidDate)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := service.NewPaymentService(new(MockPaymentRepo), new(MockApplicationRepo), &recordingNotifier{}, &recordingPublisher{})

		_, err := svc.RecordPayment(ctx, leaseLandlordID, service.RecordPaymentInput{ApplicationID: leaseAppID, AmountCents: 0, DueDate: due})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.RecordPayment(ctx, leaseLandlordID, service.RecordPaymentInput{ApplicationID: leaseAppID, AmountCents: 100})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Other landlord", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		svc := service.NewPaymentService(new(MockPaymentRepo), appRepo, &recordingNotifier{}, &recordingPublisher{})
		appRepo.On("GetByID", ctx, leaseAppID).Return(approvedApp(), nil)

		_, err := svc.RecordPayment(ctx, 77, service.RecordPaymentInput{ApplicationID: leaseAppID, AmountCents: 100, DueDate: due})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Application not approved", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		svc := service.NewPaymentService(new(MockPaymentRepo), appRepo, &recordingNotifier{}, &recordingPublisher{})
		app := approvedApp()
		app.Status = domain.ApplicationStatusPending
		appRepo.On("GetByID", ctx, leaseAppID).Return(app, nil)

		_, err := svc.RecordPayment(ctx, leaseLandlordID, service.RecordPaymentInput{ApplicationID: leaseAppID, AmountCents: 100, DueDate: due})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPaymentService_Transitions(t *testing.T) {
	ctx := context.Background()
	payment := func(status domain.PaymentStatus) *domain.Payment {
		return &domain.Payment{ID: 30, TenantID: leaseTenantID, LandlordID: leaseLandlordID, AmountCents: 5000, Status: status, Method: domain.PaymentMethodBankTransfer}
	}

	t.Run("Overdue payment marked paid", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		notifier := &recordingNotifier{}
		svc := service.NewPaymentService(paymentRepo, new(MockApplicationRepo), notifier, &recordingPublisher{})
		paymentRepo.On("GetByID", ctx, int32(30)).Return(payment(domain.PaymentStatusOverdue), nil)
		paymentRepo.On("Update", ctx, mock.AnythingOfType("*domain.Payment"), domain.PaymentStatusOverdue).Return(nil)

		p, err := svc.MarkPaid(ctx, leaseLandlordID, 30, time.Time{}, domain.PaymentMethodCard)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPaid, p.Status)
		assert.Equal(t, domain.PaymentMethodCard, p.Method)
		assert.NotNil(t, p.PaidDate)
		assert.Equal(t, []string{"PAYMENT_PAID"}, notifier.types(leaseTenantID))
	})

	t.Run("Paid payment cannot be cancelled", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		svc := service.NewPaymentService(paymentRepo, new(MockApplicationRepo), &recordingNotifier{}, &recordingPublisher{})
		paymentRepo.On("GetByID", ctx, int32(30)).Return(payment(domain.PaymentStatusPaid), nil)

		_, err := svc.CancelPayment(ctx, leaseLandlordID, 30, "typo")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		paymentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Cancel records reason", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		svc := service.NewPaymentService(paymentRepo, new(MockApplicationRepo), &recordingNotifier{}, &recordingPublisher{})
		p := payment(domain.PaymentStatusPending)
		p.Notes = "March rent"
		paymentRepo.On("GetByID", ctx, int32(30)).Return(p, nil)
		paymentRepo.On("Update", ctx, p, domain.PaymentStatusPending).Return(nil)

		got, err := svc.CancelPayment(ctx, leaseLandlordID, 30, "duplicate entry")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusCancelled, got.Status)
		assert.Equal(t, "March rent\nCancelled: duplicate entry", got.Notes)
	})

	t.Run("Conflict restores status", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		svc := service.NewPaymentService(paymentRepo, new(MockApplicationRepo), &recordingNotifier{}, &recordingPublisher{})
		p := payment(domain.PaymentStatusPending)
		paymentRepo.On("GetByID", ctx, int32(30)).Return(p, nil)
		paymentRepo.On("Update", ctx, p, domain.PaymentStatusPending).Return(domain.ErrConflict)

		_, err := svc.MarkPaid(ctx, leaseLandlordID, 30, time.Now(), "")
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, domain.PaymentStatusPending, p.Status)
	})

	t.Run("Tenant cannot read another tenant's payment", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		svc := service.NewPaymentService(paymentRepo, new(MockApplicationRepo), &recordingNotifier{}, &recordingPublisher{})
		paymentRepo.On("GetByID", ctx, int32(30)).Return(payment(domain.PaymentStatusPending), nil)

		_, err := svc.GetPayment(ctx, service.Actor{UserID: 55, Role: domain.UserRoleTenant}, 30)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("List scopes to landlord", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		svc := service.NewPaymentService(paymentRepo, new(MockApplicationRepo), &recordingNotifier{}, &recordingPublisher{})
		paymentRepo.On("List", ctx, domain.PaymentFilter{LandlordID: leaseLandlordID, Page: 1, PageSize: 20}).Return([]domain.Payment{}, int32(0), nil)

		_, _, err := svc.ListPayments(ctx, service.Actor{UserID: leaseLandlordID, Role: domain.UserRoleLandlord}, domain.PaymentFilter{})
		require.NoError(t, err)
		paymentRepo.AssertExpectations(t)
	})
}
