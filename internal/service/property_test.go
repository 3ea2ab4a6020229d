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

func newPropertyService() (service.PropertyService, *MockPropertyRepo, *recordingNotifier) {
	repo := new(MockPropertyRepo)
	notifier := &recordingNotifier{}
	cache := service.NewPropertyCache(100, 2, time.Minute)
	return service.NewPropertyService(repo, cache, notifier), repo, notifier
}

func listing(status domain.PropertyStatus) *domain.Property {
	return &domain.Property{
		ID:               leasePropertyID,
		LandlordID:       leaseLandlordID,
		Title:            "Sunny Loft",
		Slug:             "sunny-loft",
		City:             "Austin",
		MonthlyRentCents: 180000,
		Bedrooms:         2,
		Bathrooms:        1,
		Status:           status,
	}
}

func TestPropertyService_CreateProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending with unique slug", func(t *testing.T) {
		svc, repo, _ := newPropertyService()
		repo.On("SlugExists", ctx, "sunny-loft").Return(true, nil)
		repo.On("SlugExists", ctx, "sunny-loft-2").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Property")).Return(nil)

		p := &domain.Property{Title: "Sunny Loft", City: "Austin", MonthlyRentCents: 100000, Status: domain.PropertyStatusApproved}
		require.NoError(t, svc.CreateProperty(ctx, leaseLandlordID, p))
		assert.Equal(t, "sunny-loft-2", p.Slug)
		assert.Equal(t, domain.PropertyStatusPending, p.Status)
		assert.Equal(t, leaseLandlordID, p.LandlordID)
	})

	t.Run("Validation", func(t *testing.T) {
		svc, _, _ := newPropertyService()
		err := svc.CreateProperty(ctx, leaseLandlordID, &domain.Property{Title: "x", City: "Austin"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPropertyService_UpdateProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejected listing returns to moderation", func(t *testing.T) {
		svc, repo, _ := newPropertyService()
		repo.On("GetByID", ctx, leasePropertyID).Return(listing(domain.PropertyStatusRejected), nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Property"), domain.PropertyStatusRejected).Return(nil)

		title := "Sunny Loft, renovated"
		p, err := svc.UpdateProperty(ctx, leaseLandlordID, leasePropertyID, service.PropertyUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, domain.PropertyStatusPending, p.Status)
		assert.Equal(t, title, p.Title)
	})

	t.Run("Other landlord", func(t *testing.T) {
		svc, repo, _ := newPropertyService()
		repo.On("GetByID", ctx, leasePropertyID).Return(listing(domain.PropertyStatusApproved), nil)

		_, err := svc.UpdateProperty(ctx, 77, leasePropertyID, service.PropertyUpdate{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Rented listing is frozen", func(t *testing.T) {
		svc, repo, _ := newPropertyService()
		repo.On("GetByID", ctx, leasePropertyID).Return(listing(domain.PropertyStatusRented), nil)

		_, err := svc.UpdateProperty(ctx, leaseLandlordID, leasePropertyID, service.PropertyUpdate{})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestPropertyService_ModerateProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("Approve", func(t *testing.T) {
		svc, repo, notifier := newPropertyService()
		repo.On("GetByID", ctx, leasePropertyID).Return(listing(domain.PropertyStatusPending), nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Property"), domain.PropertyStatusPending).Return(nil)

		p, err := svc.ModerateProperty(ctx, adminID, leasePropertyID, true, "")
		require.NoError(t, err)
		assert.Equal(t, domain.PropertyStatusApproved, p.Status)
		assert.Equal(t, []string{"PROPERTY_APPROVED"}, notifier.types(leaseLandlordID))
	})

	t.Run("Reject needs a note", func(t *testing.T) {
		svc, repo, _ := newPropertyService()
		repo.On("GetByID", ctx, leasePropertyID).Return(listing(domain.PropertyStatusPending), nil)

		_, err := svc.ModerateProperty(ctx, adminID, leasePropertyID, false, " ")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Only pending listings", func(t *testing.T) {
		svc, repo, _ := newPropertyService()
		repo.On("GetByID", ctx, leasePropertyID).Return(listing(domain.PropertyStatusApproved), nil)

		_, err := svc.ModerateProperty(ctx, adminID, leasePropertyID, false, "duplicate")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestPropertyService_GetProperty(t *testing.T) {
	ctx := context.Background()
	tenant := service.Actor{UserID: leaseTenantID, Role: domain.UserRoleTenant}

	t.Run("Cached after first read", func(t *testing.T) {
		svc, repo, _ := newPropertyService()
		repo.On("GetByID", mock.Anything, leasePropertyID).Return(listing(domain.PropertyStatusApproved), nil).Once()

		for i := 0; i < 3; i++ {
			p, err := svc.GetProperty(ctx, tenant, leasePropertyID)
			require.NoError(t, err)
			assert.Equal(t, "Sunny Loft", p.Title)
		}
		repo.AssertNumberOfCalls(t, "GetByID", 1)
	})

	t.Run("Pending hidden from tenants but visible to owner", func(t *testing.T) {
		svc, repo, _ := newPropertyService()
		repo.On("GetByID", mock.Anything, leasePropertyID).Return(listing(domain.PropertyStatusPending), nil)

		_, err := svc.GetProperty(ctx, tenant, leasePropertyID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = svc.GetProperty(ctx, service.Actor{UserID: leaseLandlordID, Role: domain.UserRoleLandlord}, leasePropertyID)
		assert.NoError(t, err)
	})
}

func TestPropertyService_BrowseProperties(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newPropertyService()

	want := domain.PropertyFilter{City: "Austin", Status: domain.PropertyStatusApproved, Page: 1, PageSize: 20}
	repo.On("List", mock.Anything, want).Return([]domain.Property{*listing(domain.PropertyStatusApproved)}, int32(1), nil).Once()

	items, total, err := svc.BrowseProperties(ctx, domain.PropertyFilter{City: "Austin", LandlordID: 9, Status: domain.PropertyStatusRented})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(1), total)

	_, _, err = svc.BrowseProperties(ctx, domain.PropertyFilter{City: "Austin"})
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestPropertyService_MarkRented(t *testing.T) {
	ctx := context.Background()

	t.Run("Approved becomes rented", func(t *testing.T) {
		svc, repo, _ := newPropertyService()
		repo.On("GetByID", ctx, leasePropertyID).Return(listing(domain.PropertyStatusApproved), nil)
		repo.On("Update", ctx, mock.MatchedBy(func(p *domain.Property) bool { return p.Status == domain.PropertyStatusRented }), domain.PropertyStatusApproved).Return(nil)

		require.NoError(t, svc.MarkRented(ctx, leasePropertyID))
		repo.AssertExpectations(t)
	})

	t.Run("Already rented conflicts", func(t *testing.T) {
		svc, repo, _ := newPropertyService()
		repo.On("GetByID", ctx, leasePropertyID).Return(listing(domain.PropertyStatusRented), nil)

		assert.ErrorIs(t, svc.MarkRented(ctx, leasePropertyID), domain.ErrConflict)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}
