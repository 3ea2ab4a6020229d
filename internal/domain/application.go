package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusViewing  ApplicationStatus = "viewing"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

var applicationTransitions = transitionTable[ApplicationStatus]{
	ApplicationStatusPending: {ApplicationStatusViewing, ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusViewing: {ApplicationStatusApproved, ApplicationStatusRejected},
}

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return applicationTransitions.allows(s, next)
}

// Active reports whether the application still blocks a new one for the same property.
func (s ApplicationStatus) Active() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusViewing || s == ApplicationStatusApproved
}

// LeaseStartDate is proposed by one party and approved by the other.
type LeaseStartDate struct {
	Date       *time.Time `json:"date,omitempty"`
	SetBy      *int32     `json:"set_by,omitempty"`
	ApprovedBy *int32     `json:"approved_by,omitempty"`
}

func (d LeaseStartDate) Approved() bool {
	return d.Date != nil && d.ApprovedBy != nil
}

type Application struct {
	ID                 int32             `json:"id"`
	PropertyID         int32             `json:"property_id"`
	TenantID           int32             `json:"tenant_id"`
	LandlordID         int32             `json:"landlord_id"`
	Status             ApplicationStatus `json:"status"`
	Message            string            `json:"message"`
	MonthlyIncomeCents int32             `json:"monthly_income_cents"`
	MonthlyDebtCents   int32             `json:"monthly_debt_cents"`
	TenantScoring      float64           `json:"tenant_scoring"`
	ViewingDate        *time.Time        `json:"viewing_date,omitempty"`
	RejectionReason    string            `json:"rejection_reason,omitempty"`
	LeaseStartDate     LeaseStartDate    `json:"lease_start_date"`
	LeaseAgreement     *LeaseAgreement   `json:"lease_agreement,omitempty"`
	CreatedOn          time.Time         `json:"created_on"`
	UpdatedOn          time.Time         `json:"updated_on"`
}

// PartyRole returns the role userID plays on the application, if any.
func (a *Application) PartyRole(userID int32) (UserRole, bool) {
	switch userID {
	case a.TenantID:
		return UserRoleTenant, true
	case a.LandlordID:
		return UserRoleLandlord, true
	}
	return "", false
}

// Counterparty returns the id of the other party on the application.
func (a *Application) Counterparty(userID int32) int32 {
	if userID == a.TenantID {
		return a.LandlordID
	}
	return a.TenantID
}

type ApplicationFilter struct {
	TenantID   int32
	LandlordID int32
	PropertyID int32
	Status     ApplicationStatus
	Page       int32
	PageSize   int32
}
