package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

var paymentTransitions = transitionTable[PaymentStatus]{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusOverdue, PaymentStatusCancelled},
	PaymentStatusOverdue: {PaymentStatusPaid, PaymentStatusCancelled},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return paymentTransitions.allows(s, next)
}

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodOther        PaymentMethod = "other"
)

type Payment struct {
	ID            int32         `json:"id"`
	ApplicationID int32         `json:"application_id"`
	PropertyID    int32         `json:"property_id"`
	TenantID      int32         `json:"tenant_id"`
	LandlordID    int32         `json:"landlord_id"`
	AmountCents   int32         `json:"amount_cents"`
	Status        PaymentStatus `json:"status"`
	Method        PaymentMethod `json:"method"`
	DueDate       time.Time     `json:"due_date"`
	PaidDate      *time.Time    `json:"paid_date,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	CreatedOn     time.Time     `json:"created_on"`
	UpdatedOn     time.Time     `json:"updated_on"`
}

type PaymentFilter struct {
	TenantID   int32
	LandlordID int32
	PropertyID int32
	Status     PaymentStatus
	Page       int32
	PageSize   int32
}
