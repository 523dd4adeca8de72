package domain

import "time"

// Role is the single authorization flag an identity carries.
type Role string

const (
	RoleStandard      Role = "standard"
	RoleAdministrator Role = "administrator"
)

// User is the account record keyed by email. It also holds the pending
// one-time passcode: OtpCode and OtpExpiresAt are always set or cleared together.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	Phone        *string    `json:"phone"`
	Role         Role       `json:"role"`
	OtpCode      string     `json:"-"`
	OtpExpiresAt *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}

// HasPendingOTP reports whether a passcode is currently outstanding.
func (u User) HasPendingOTP() bool {
	return u.OtpCode != "" && u.OtpExpiresAt != nil
}

// Profile holds the self-service editable fields of a user.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}
