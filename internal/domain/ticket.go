package domain

import "time"

type TicketStatus string

const (
	TicketStatusNew      TicketStatus = "new"
	TicketStatusReview   TicketStatus = "review"
	TicketStatusApproved TicketStatus = "approved"
	TicketStatusDeclined TicketStatus = "declined"
	TicketStatusClosed   TicketStatus = "closed"
	TicketStatusResolved TicketStatus = "resolved"
)

var ticketTransitions = transitionTable[TicketStatus]{
	TicketStatusNew:      {TicketStatusReview, TicketStatusClosed},
	TicketStatusReview:   {TicketStatusApproved, TicketStatusDeclined},
	TicketStatusApproved: {TicketStatusResolved},
	TicketStatusDeclined: {TicketStatusClosed},
	TicketStatusResolved: {TicketStatusClosed},
}

func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	return ticketTransitions.allows(s, next)
}

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

type Ticket struct {
	ID          int32          `json:"id"`
	PropertyID  int32          `json:"property_id"`
	TenantID    int32          `json:"tenant_id"`
	LandlordID  int32          `json:"landlord_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Priority    TicketPriority `json:"priority"`
	Status      TicketStatus   `json:"status"`
	Comments    []Comment      `json:"comments"`
	CreatedOn   time.Time      `json:"created_on"`
	UpdatedOn   time.Time      `json:"updated_on"`
}

type TicketFilter struct {
	TenantID   int32
	LandlordID int32
	PropertyID int32
	Status     TicketStatus
	Priority   TicketPriority
	Page       int32
	PageSize   int32
}
