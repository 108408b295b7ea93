package domain

import "time"

// UserRole enumerates roles in the account roster.
type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperadmin UserRole = "superadmin"
	UserRoleUser       UserRole = "user"
)

// UserAccount models a known reporter or staff identity.
type UserAccount struct {
	ID         int64
	Email      string
	FirstName  string
	LastName   string
	Role       UserRole
	Department string
	Branch     string
	CreatedAt  time.Time
}

// IsStaff reports whether the account is eligible for ticket assignment.
func (u UserAccount) IsStaff() bool {
	return u.Role == UserRoleAdmin || u.Role == UserRoleSuperadmin
}
