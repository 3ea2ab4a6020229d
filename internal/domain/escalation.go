package domain

import "time"

type EscalationStatus string

const (
	EscalationStatusPending  EscalationStatus = "pending"
	EscalationStatusInReview EscalationStatus = "in_review"
	EscalationStatusResolved EscalationStatus = "resolved"
	EscalationStatusClosed   EscalationStatus = "closed"
)

var escalationTransitions = transitionTable[EscalationStatus]{
	EscalationStatusPending:  {EscalationStatusInReview, EscalationStatusClosed},
	EscalationStatusInReview: {EscalationStatusResolved, EscalationStatusClosed},
	EscalationStatusResolved: {EscalationStatusClosed},
}

func (s EscalationStatus) CanTransitionTo(next EscalationStatus) bool {
	return escalationTransitions.allows(s, next)
}

// Open reports whether the escalation still blocks a new one for the same payment.
func (s EscalationStatus) Open() bool {
	return s == EscalationStatusPending || s == EscalationStatusInReview
}

type EscalationReason string

const (
	EscalationReasonMissedPayment        EscalationReason = "missed_payment"
	EscalationReasonPartialPayment       EscalationReason = "partial_payment"
	EscalationReasonRepeatedLatePayments EscalationReason = "repeated_late_payment"
	EscalationReasonOther                EscalationReason = "other"
)

// AdminNote is an append-only entry on an escalation.
type AdminNote struct {
	AuthorID  int32     `json:"author_id"`
	Note      string    `json:"note"`
	CreatedOn time.Time `json:"created_on"`
}

// PaymentSnapshot is a frozen copy of a payment taken when the escalation was raised.
type PaymentSnapshot struct {
	PaymentID   int32         `json:"payment_id"`
	AmountCents int32         `json:"amount_cents"`
	Status      PaymentStatus `json:"status"`
	DueDate     time.Time     `json:"due_date"`
	PaidDate    *time.Time    `json:"paid_date,omitempty"`
}

type Escalation struct {
	ID              int32             `json:"id"`
	PaymentID       int32             `json:"payment_id"`
	PropertyID      int32             `json:"property_id"`
	LandlordID      int32             `json:"landlord_id"`
	TenantID        int32             `json:"tenant_id"`
	Reason          EscalationReason  `json:"reason"`
	Description     string            `json:"description"`
	Status          EscalationStatus  `json:"status"`
	Resolution      string            `json:"resolution,omitempty"`
	AssignedAdminID *int32            `json:"assigned_admin_id,omitempty"`
	AdminNotes      []AdminNote       `json:"admin_notes"`
	PaymentHistory  []PaymentSnapshot `json:"payment_history"`
	CreatedOn       time.Time         `json:"created_on"`
	UpdatedOn       time.Time         `json:"updated_on"`
}

func SnapshotPayments(payments []Payment) []PaymentSnapshot {
	history := make([]PaymentSnapshot, 0, len(payments))
	for _, p := range payments {
		history = append(history, PaymentSnapshot{
			PaymentID:   p.ID,
			AmountCents: p.AmountCents,
			Status:      p.Status,
			DueDate:     p.DueDate,
			PaidDate:    p.PaidDate,
		})
	}
	return history
}

type EscalationFilter struct {
	LandlordID int32
	TenantID   int32
	Status     EscalationStatus
	Page       int32
	PageSize   int32
}
