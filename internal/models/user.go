package models

import "time"

type UserRole string

const (
	UserRoleCitizen  UserRole = "citizen"
	UserRoleOfficial UserRole = "official"
	UserRoleAdmin    UserRole = "admin"
)

// ParseRole maps a stored role string to a known role, reporting whether the
// value was recognised.
func ParseRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case UserRoleCitizen, UserRoleOfficial, UserRoleAdmin:
		return UserRole(s), true
	}
	return "", false
}

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusPending   AccountStatus = "pending"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusBlocked   AccountStatus = "blocked"
)

func ParseAccountStatus(s string) (AccountStatus, bool) {
	switch AccountStatus(s) {
	case AccountStatusActive, AccountStatusPending, AccountStatusSuspended, AccountStatusBlocked:
		return AccountStatus(s), true
	}
	return "", false
}

type User struct {
	ID            string
	FullName      string
	Email         string
	PhoneNumber   *string
	PasswordHash  []byte
	Role          UserRole
	AccountStatus AccountStatus
	AvatarURL     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OfficialProfile carries the verification fields collected at official
// registration. It exists only for users with role official.
type OfficialProfile struct {
	UserID          string
	EmployeeID      string
	Department      string
	Designation     string
	Zone            string
	GovernmentIDKey string
	VerifiedAt      *time.Time
	VerifiedBy      *string
}
