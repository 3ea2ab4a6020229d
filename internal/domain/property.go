package domain

import "time"

type PropertyStatus string

const (
	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusApproved PropertyStatus = "approved"
	PropertyStatusRejected PropertyStatus = "rejected"
	PropertyStatusRented   PropertyStatus = "rented"
	PropertyStatusArchived PropertyStatus = "archived"
)

var propertyTransitions = transitionTable[PropertyStatus]{
	PropertyStatusPending:  {PropertyStatusApproved, PropertyStatusRejected, PropertyStatusArchived},
	PropertyStatusApproved: {PropertyStatusRented, PropertyStatusArchived},
	PropertyStatusRejected: {PropertyStatusPending, PropertyStatusArchived},
	PropertyStatusRented:   {PropertyStatusApproved},
}

func (s PropertyStatus) CanTransitionTo(next PropertyStatus) bool {
	return propertyTransitions.allows(s, next)
}

type Property struct {
	ID               int32          `json:"id"`
	LandlordID       int32          `json:"landlord_id"`
	Title            string         `json:"title"`
	Slug             string         `json:"slug"`
	Description      string         `json:"description"`
	Address          string         `json:"address"`
	City             string         `json:"city"`
	MonthlyRentCents int32          `json:"monthly_rent_cents"`
	Bedrooms         int32          `json:"bedrooms"`
	Bathrooms        int32          `json:"bathrooms"`
	Status           PropertyStatus `json:"status"`
	ModerationNote   string         `json:"moderation_note,omitempty"`
	CreatedOn        time.Time      `json:"created_on"`
	UpdatedOn        time.Time      `json:"updated_on"`
}

// PropertyFilter narrows public listing searches. Zero values are ignored.
type PropertyFilter struct {
	City         string
	MaxRentCents int32
	MinBedrooms  int32
	Status       PropertyStatus
	LandlordID   int32
	Page         int32
	PageSize     int32
}
