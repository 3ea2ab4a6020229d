package repository

import (
	"context"
	"time"

	"leasehub-backend/internal/domain"
)

// Update methods that take an expected status only apply when the stored row
// still has that status, and return domain.ErrConflict otherwise.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, role domain.UserRole, page, pageSize int32) ([]domain.User, int32, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id int32) (*domain.Property, error)
	Update(ctx context.Context, property *domain.Property, expected domain.PropertyStatus) error
	List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, int32, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id int32) (*domain.Application, error)
	Update(ctx context.Context, app *domain.Application, expected domain.ApplicationStatus) error
	List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.Application, int32, error)
	HasActive(ctx context.Context, tenantID, propertyID int32) (bool, error)
	FindApproved(ctx context.Context, tenantID, propertyID int32) (*domain.Application, error)
}

type LeaseRepository interface {
	Create(ctx context.Context, lease *domain.LeaseAgreement) error
	GetByApplication(ctx context.Context, applicationID int32) (*domain.LeaseAgreement, error)
	GetByEnvelope(ctx context.Context, envelopeID string) (*domain.LeaseAgreement, error)
	Update(ctx context.Context, lease *domain.LeaseAgreement, expected domain.LeaseStatus) error
	ListStale(ctx context.Context, statuses []domain.LeaseStatus, updatedBefore time.Time) ([]domain.LeaseAgreement, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByParent(ctx context.Context, parentType domain.CommentParent, parentID int32) ([]domain.Comment, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment, expected domain.PaymentStatus) error
	List(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, int32, error)
	ListByTenantProperty(ctx context.Context, tenantID, propertyID int32) ([]domain.Payment, error)
	MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Payment, error)
	ListOverdue(ctx context.Context) ([]domain.Payment, error)
}

type EscalationRepository interface {
	Create(ctx context.Context, esc *domain.Escalation) error
	GetByID(ctx context.Context, id int32) (*domain.Escalation, error)
	Update(ctx context.Context, esc *domain.Escalation, expected domain.EscalationStatus) error
	AppendNote(ctx context.Context, id int32, note domain.AdminNote) error
	List(ctx context.Context, filter domain.EscalationFilter) ([]domain.Escalation, int32, error)
	HasOpenForPayment(ctx context.Context, paymentID int32) (bool, error)
	ListStale(ctx context.Context, createdBefore time.Time) ([]domain.Escalation, error)
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int32) (*domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket, expected domain.TicketStatus) error
	List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
