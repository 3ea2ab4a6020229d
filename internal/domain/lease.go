package domain

import "time"

type LeaseStatus string

const (
	LeaseStatusPendingReview    LeaseStatus = "pending_review"
	LeaseStatusTenantApproved   LeaseStatus = "tenant_approved"
	LeaseStatusLandlordApproved LeaseStatus = "landlord_approved"
	LeaseStatusSigned           LeaseStatus = "signed"
)

var leaseTransitions = transitionTable[LeaseStatus]{
	LeaseStatusPendingReview:    {LeaseStatusTenantApproved},
	LeaseStatusTenantApproved:   {LeaseStatusLandlordApproved},
	LeaseStatusLandlordApproved: {LeaseStatusSigned},
}

func (s LeaseStatus) CanTransitionTo(next LeaseStatus) bool {
	return leaseTransitions.allows(s, next)
}

func (s LeaseStatus) Final() bool {
	return leaseTransitions.terminal(s)
}

// LeaseAgreement is the lease document attached to an approved application.
type LeaseAgreement struct {
	ID                   int32       `json:"id"`
	ApplicationID        int32       `json:"application_id"`
	Status               LeaseStatus `json:"status"`
	DocumentURL          string      `json:"document_url"`
	TenantDownloadedAt   *time.Time  `json:"tenant_downloaded_at,omitempty"`
	LandlordDownloadedAt *time.Time  `json:"landlord_downloaded_at,omitempty"`
	TenantApprovedAt     *time.Time  `json:"tenant_approved_at,omitempty"`
	LandlordApprovedAt   *time.Time  `json:"landlord_approved_at,omitempty"`
	TenantSignedAt       *time.Time  `json:"tenant_signed_at,omitempty"`
	LandlordSignedAt     *time.Time  `json:"landlord_signed_at,omitempty"`
	EnvelopeID           string      `json:"envelope_id,omitempty"`
	EnvelopeSentAt       *time.Time  `json:"envelope_sent_at,omitempty"`
	SignedAt             *time.Time  `json:"signed_at,omitempty"`
	Comments             []Comment   `json:"comments"`
	CreatedOn            time.Time   `json:"created_on"`
	UpdatedOn            time.Time   `json:"updated_on"`
}

// MarkDownloaded records the first download by the given party.
func (l *LeaseAgreement) MarkDownloaded(role UserRole, at time.Time) {
	switch role {
	case UserRoleTenant:
		if l.TenantDownloadedAt == nil {
			l.TenantDownloadedAt = &at
		}
	case UserRoleLandlord:
		if l.LandlordDownloadedAt == nil {
			l.LandlordDownloadedAt = &at
		}
	}
}

func (l *LeaseAgreement) HasDownloaded(role UserRole) bool {
	switch role {
	case UserRoleTenant:
		return l.TenantDownloadedAt != nil
	case UserRoleLandlord:
		return l.LandlordDownloadedAt != nil
	}
	return false
}

// MarkSigned records a party signature and returns true once both parties have signed.
func (l *LeaseAgreement) MarkSigned(role UserRole, at time.Time) bool {
	switch role {
	case UserRoleTenant:
		if l.TenantSignedAt == nil {
			l.TenantSignedAt = &at
		}
	case UserRoleLandlord:
		if l.LandlordSignedAt == nil {
			l.LandlordSignedAt = &at
		}
	}
	return l.TenantSignedAt != nil && l.LandlordSignedAt != nil
}

// ResetReview clears review progress after the document changes.
func (l *LeaseAgreement) ResetReview() {
	l.TenantDownloadedAt = nil
	l.LandlordDownloadedAt = nil
	l.TenantApprovedAt = nil
	l.LandlordApprovedAt = nil
}
