package domain

import "time"

type UserRole string

const (
	UserRoleTenant   UserRole = "tenant"
	UserRoleLandlord UserRole = "landlord"
	UserRoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleTenant, UserRoleLandlord, UserRoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID            int32     `json:"id"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phone_number"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	Role          UserRole  `json:"role"`
	Blocked       bool      `json:"blocked"`
	BlockedReason string    `json:"blocked_reason,omitempty"`
	DeviceToken   string    `json:"-"`
	CreatedOn     time.Time `json:"created_on"`
	UpdatedOn     time.Time `json:"updated_on"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
