package service

import (
	"context"
	"time"

	"leasehub-backend/internal/domain"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID int32
	Role   domain.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == domain.UserRoleAdmin
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	PhoneNumber string
	Role        domain.UserRole
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (*TokenPair, error)
	Logout(ctx context.Context, refresh string) error
}

// ProfileUpdate carries optional profile fields; nil fields are left unchanged.
type ProfileUpdate struct {
	Name        *string
	PhoneNumber *string
	DeviceToken *string
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, upd ProfileUpdate) (*domain.User, error)
}

type AdminService interface {
	ListUsers(ctx context.Context, role domain.UserRole, page, pageSize int32) ([]domain.User, int32, error)
	BlockUser(ctx context.Context, adminID, userID int32, block bool, reason string) (*domain.User, error)
}

type PropertyUpdate struct {
	Title            *string
	Description      *string
	Address          *string
	City             *string
	MonthlyRentCents *int32
	Bedrooms         *int32
	Bathrooms        *int32
}

type PropertyService interface {
	CreateProperty(ctx context.Context, landlordID int32, p *domain.Property) error
	UpdateProperty(ctx context.Context, landlordID, propertyID int32, upd PropertyUpdate) (*domain.Property, error)
	ArchiveProperty(ctx context.Context, landlordID, propertyID int32) (*domain.Property, error)
	GetProperty(ctx context.Context, actor Actor, propertyID int32) (*domain.Property, error)
	BrowseProperties(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, int32, error)
	ListMyProperties(ctx context.Context, landlordID int32, status domain.PropertyStatus, page, pageSize int32) ([]domain.Property, int32, error)
	ListForModeration(ctx context.Context, status domain.PropertyStatus, page, pageSize int32) ([]domain.Property, int32, error)
	ModerateProperty(ctx context.Context, adminID, propertyID int32, approve bool, note string) (*domain.Property, error)
	MarkRented(ctx context.Context, propertyID int32) error
}

type ApplyInput struct {
	PropertyID         int32
	Message            string
	MonthlyIncomeCents int32
	MonthlyDebtCents   int32
}

type ApplicationService interface {
	Apply(ctx context.Context, tenantID int32, in ApplyInput) (*domain.Application, error)
	GetApplication(ctx context.Context, actor Actor, applicationID int32) (*domain.Application, error)
	ListApplications(ctx context.Context, actor Actor, filter domain.ApplicationFilter) ([]domain.Application, int32, error)
	ScheduleViewing(ctx context.Context, landlordID, applicationID int32, date time.Time) (*domain.Application, error)
	ApproveApplication(ctx context.Context, landlordID, applicationID int32) (*domain.Application, error)
	RejectApplication(ctx context.Context, landlordID, applicationID int32, reason string) (*domain.Application, error)
	WithdrawApplication(ctx context.Context, tenantID, applicationID int32) (*domain.Application, error)
}

// LeaseService drives the lease agreement of an approved application.
type LeaseService interface {
	GetLease(ctx context.Context, actor Actor, applicationID int32) (*domain.LeaseAgreement, error)
	SetStartDate(ctx context.Context, userID, applicationID int32, date time.Time) (*domain.Application, error)
	ApproveStartDate(ctx context.Context, userID, applicationID int32) (*domain.Application, error)
	SetDocument(ctx context.Context, landlordID, applicationID int32, documentURL string) (*domain.LeaseAgreement, error)
	Download(ctx context.Context, userID, applicationID int32) (string, error)
	Comment(ctx context.Context, userID, applicationID int32, body string, parentCommentID *int32) (*domain.Comment, error)
	Approve(ctx context.Context, userID, applicationID int32) (*domain.LeaseAgreement, error)
	Sign(ctx context.Context, userID, applicationID int32) (*domain.LeaseAgreement, error)
}

// WebhookService applies signing-provider callbacks to lease agreements.
type WebhookService interface {
	HandleDocuSignEvent(ctx context.Context, payload []byte) error
}

type RecordPaymentInput struct {
	ApplicationID int32
	AmountCents   int32
	DueDate       time.Time
	Method        domain.PaymentMethod
	Paid          bool
	PaidDate      *time.Time
	Notes         string
}

type PaymentService interface {
	RecordPayment(ctx context.Context, landlordID int32, in RecordPaymentInput) (*domain.Payment, error)
	GetPayment(ctx context.Context, actor Actor, paymentID int32) (*domain.Payment, error)
	ListPayments(ctx context.Context, actor Actor, filter domain.PaymentFilter) ([]domain.Payment, int32, error)
	MarkPaid(ctx context.Context, landlordID, paymentID int32, paidDate time.Time, method domain.PaymentMethod) (*domain.Payment, error)
	CancelPayment(ctx context.Context, landlordID, paymentID int32, reason string) (*domain.Payment, error)
}

type CreateEscalationInput struct {
	PaymentID   int32
	Reason      domain.EscalationReason
	Description string
}

// EscalationService tracks landlord escalations of unpaid rent to admins.
type EscalationService interface {
	CreateEscalation(ctx context.Context, landlordID int32, in CreateEscalationInput) (*domain.Escalation, error)
	GetEscalation(ctx context.Context, actor Actor, escalationID int32) (*domain.Escalation, error)
	ListEscalations(ctx context.Context, actor Actor, filter domain.EscalationFilter) ([]domain.Escalation, int32, error)
	StartReview(ctx context.Context, adminID, escalationID int32) (*domain.Escalation, error)
	Resolve(ctx context.Context, adminID, escalationID int32, resolution string) (*domain.Escalation, error)
	AddNote(ctx context.Context, adminID, escalationID int32, note string) (*domain.Escalation, error)
	Close(ctx context.Context, actor Actor, escalationID int32) (*domain.Escalation, error)
}

type CreateTicketInput struct {
	PropertyID  int32
	Title       string
	Description string
	Category    string
	Priority    domain.TicketPriority
}

type TicketService interface {
	CreateTicket(ctx context.Context, tenantID int32, in CreateTicketInput) (*domain.Ticket, error)
	GetTicket(ctx context.Context, actor Actor, ticketID int32) (*domain.Ticket, error)
	ListTickets(ctx context.Context, actor Actor, filter domain.TicketFilter) ([]domain.Ticket, int32, error)
	UpdateStatus(ctx context.Context, actor Actor, ticketID int32, status domain.TicketStatus) (*domain.Ticket, error)
	Comment(ctx context.Context, actor Actor, ticketID int32, body string, parentCommentID *int32) (*domain.Comment, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendWelcome(ctx context.Context, email, name string, role domain.UserRole) error
	SendNotification(ctx context.Context, email, name, subject, message string) error
	SendAccountStatusNotification(ctx context.Context, email, name string, blocked bool, reason string) error
	SendOverdueReminder(ctx context.Context, email, name string, payments []domain.Payment) error
	SendLeaseReviewReminder(ctx context.Context, email, name string, applicationID int32, status domain.LeaseStatus) error
	SendStaleEscalationDigest(ctx context.Context, email string, escalations []domain.Escalation) error
}
