package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/service"
)

type ticketFixture struct {
	ticketRepo  *MockTicketRepo
	appRepo     *MockApplicationRepo
	commentRepo *MockCommentRepo
	notifier    *recordingNotifier
	svc         service.TicketService
}

func newTicketFixture() *ticketFixture {
	f := &ticketFixture{
		ticketRepo:  new(MockTicketRepo),
		appRepo:     new(MockApplicationRepo),
		commentRepo: new(MockCommentRepo),
		notifier:    &recordingNotifier{},
	}
	f.svc = service.NewTicketService(f.ticketRepo, f.appRepo, f.commentRepo, f.notifier, &recordingPublisher{})
	return f
}

func ticket(status domain.TicketStatus) *domain.Ticket {
	return &domain.Ticket{
		ID:         50,
		PropertyID: leasePropertyID,
		TenantID:   leaseTenantID,
		LandlordID: leaseLandlordID,
		Title:      "Leaking tap",
		Priority:   domain.TicketPriorityMedium,
		Status:     status,
	}
}

func TestTicketService_CreateTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults to medium priority", func(t *testing.T) {
		f := newTicketFixture()
		f.appRepo.On("FindApproved", ctx, leaseTenantID, leasePropertyID).Return(approvedApp(), nil)
		f.ticketRepo.On("Create", ctx, mock.AnythingOfType("*domain.Ticket")).Return(nil)

		tk, err := f.svc.CreateTicket(ctx, leaseTenantID, service.CreateTicketInput{PropertyID: leasePropertyID, Title: " Leaking tap "})
		require.NoError(t, err)
		assert.Equal(t, domain.TicketPriorityMedium, tk.Priority)
		assert.Equal(t, domain.TicketStatusNew, tk.Status)
		assert.Equal(t, leaseLandlordID, tk.LandlordID)
		assert.Equal(t, "Leaking tap", tk.Title)
		assert.Equal(t, []string{"TICKET_CREATED"}, f.notifier.types(leaseLandlordID))
	})

	t.Run("Requires tenancy", func(t *testing.T) {
		f := newTicketFixture()
		f.appRepo.On("FindApproved", ctx, leaseTenantID, leasePropertyID).Return(nil, domain.ErrNotFound)

		_, err := f.svc.CreateTicket(ctx, leaseTenantID, service.CreateTicketInput{PropertyID: leasePropertyID, Title: "Noise"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Bad priority", func(t *testing.T) {
		f := newTicketFixture()
		_, err := f.svc.CreateTicket(ctx, leaseTenantID, service.CreateTicketInput{PropertyID: leasePropertyID, Title: "Noise", Priority: "whenever"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Missing title", func(t *testing.T) {
		f := newTicketFixture()
		_, err := f.svc.CreateTicket(ctx, leaseTenantID, service.CreateTicketInput{PropertyID: leasePropertyID})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestTicketService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	tenant := service.Actor{UserID: leaseTenantID, Role: domain.UserRoleTenant}
	landlord := service.Actor{UserID: leaseLandlordID, Role: domain.UserRoleLandlord}
	admin := service.Actor{UserID: adminID, Role: domain.UserRoleAdmin}

	tests := []struct {
		name    string
		actor   service.Actor
		from    domain.TicketStatus
		to      domain.TicketStatus
		wantErr error
	}{
		{"landlord reviews", landlord, domain.TicketStatusNew, domain.TicketStatusReview, nil},
		{"landlord approves", landlord, domain.TicketStatusReview, domain.TicketStatusApproved, nil},
		{"landlord declines", landlord, domain.TicketStatusReview, domain.TicketStatusDeclined, nil},
		{"landlord resolves", landlord, domain.TicketStatusApproved, domain.TicketStatusResolved, nil},
		{"landlord closes declined", landlord, domain.TicketStatusDeclined, domain.TicketStatusClosed, nil},
		{"landlord cannot close new", landlord, domain.TicketStatusNew, domain.TicketStatusClosed, domain.ErrForbidden},
		{"tenant withdraws new", tenant, domain.TicketStatusNew, domain.TicketStatusClosed, nil},
		{"tenant closes resolved", tenant, domain.TicketStatusResolved, domain.TicketStatusClosed, nil},
		{"tenant cannot review", tenant, domain.TicketStatusNew, domain.TicketStatusReview, domain.ErrForbidden},
		{"admin approves", admin, domain.TicketStatusReview, domain.TicketStatusApproved, nil},
		{"skip review", landlord, domain.TicketStatusNew, domain.TicketStatusResolved, domain.ErrInvalidTransition},
		{"closed is final", admin, domain.TicketStatusClosed, domain.TicketStatusNew, domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTicketFixture()
			f.ticketRepo.On("GetByID", ctx, int32(50)).Return(ticket(tt.from), nil)
			f.ticketRepo.On("Update", ctx, mock.AnythingOfType("*domain.Ticket"), tt.from).Return(nil)

			tk, err := f.svc.UpdateStatus(ctx, tt.actor, 50, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.ticketRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, tk.Status)
		})
	}

	t.Run("Outsider is forbidden", func(t *testing.T) {
		f := newTicketFixture()
		f.ticketRepo.On("GetByID", ctx, int32(50)).Return(ticket(domain.TicketStatusNew), nil)

		_, err := f.svc.UpdateStatus(ctx, service.Actor{UserID: 99, Role: domain.UserRoleLandlord}, 50, domain.TicketStatusReview)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		f.ticketRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Outsider cannot read", func(t *testing.T) {
		f := newTicketFixture()
		f.ticketRepo.On("GetByID", ctx, int32(50)).Return(ticket(domain.TicketStatusNew), nil)

		_, err := f.svc.GetTicket(ctx, service.Actor{UserID: 99, Role: domain.UserRoleLandlord}, 50)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTicketService_Comment(t *testing.T) {
	ctx := context.Background()
	tenant := service.Actor{UserID: leaseTenantID, Role: domain.UserRoleTenant}

	t.Run("Tenant comments and landlord is notified", func(t *testing.T) {
		f := newTicketFixture()
		f.ticketRepo.On("GetByID", ctx, int32(50)).Return(ticket(domain.TicketStatusReview), nil)
		f.commentRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Comment) bool {
			return c.ParentType == domain.CommentParentTicket && c.ParentID == 50 && c.AuthorRole == domain.UserRoleTenant
		})).Return(nil)

		_, err := f.svc.Comment(ctx, tenant, 50, "still dripping", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"TICKET_COMMENT"}, f.notifier.types(leaseLandlordID))
		assert.Empty(t, f.notifier.types(leaseTenantID))
	})

	t.Run("Outsider is forbidden", func(t *testing.T) {
		f := newTicketFixture()
		f.ticketRepo.On("GetByID", ctx, int32(50)).Return(ticket(domain.TicketStatusReview), nil)

		_, err := f.svc.Comment(ctx, service.Actor{UserID: 99, Role: domain.UserRoleTenant}, 50, "hi", nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		f.commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Closed ticket", func(t *testing.T) {
		f := newTicketFixture()
		f.ticketRepo.On("GetByID", ctx, int32(50)).Return(ticket(domain.TicketStatusClosed), nil)

		_, err := f.svc.Comment(ctx, tenant, 50, "hello?", nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Get attaches comments", func(t *testing.T) {
		f := newTicketFixture()
		f.ticketRepo.On("GetByID", ctx, int32(50)).Return(ticket(domain.TicketStatusNew), nil)
		f.commentRepo.On("ListByParent", ctx, domain.CommentParentTicket, int32(50)).Return([]domain.Comment{{ID: 1}, {ID: 2}}, nil)

		tk, err := f.svc.GetTicket(ctx, tenant, 50)
		require.NoError(t, err)
		assert.Len(t, tk.Comments, 2)
	})
}
