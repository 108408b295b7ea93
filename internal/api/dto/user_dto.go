package dto

import "github.com/may-baker/helpdesk-service/internal/domain"

// UserResponse is the roster wire form.
type UserResponse struct {
	Email      string          `json:"email"`
	FirstName  string          `json:"firstname,omitempty"`
	LastName   string          `json:"lastname,omitempty"`
	Role       domain.UserRole `json:"role"`
	Department string          `json:"department,omitempty"`
	Branch     string          `json:"branch,omitempty"`
}

// FromUser maps a roster account to its wire form.
func FromUser(u domain.UserAccount) UserResponse {
	return UserResponse{
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		Department: u.Department,
		Branch:     u.Branch,
	}
}
