package service

import (
	"context"

	"github.com/may-baker/helpdesk-service/internal/domain"
)

// Policy selects an assignee from the roster, or nil when no account is
// eligible. Implementations must be deterministic for a given roster order.
type Policy interface {
	Select(roster []domain.UserAccount) *domain.UserAccount
}

// FirstEligiblePolicy picks the first admin or superadmin in roster listing
// order. A deliberate placeholder policy, not load balancing.
type FirstEligiblePolicy struct{}

// Select implements Policy.
func (FirstEligiblePolicy) Select(roster []domain.UserAccount) *domain.UserAccount {
	for i := range roster {
		if roster[i].IsStaff() {
			return &roster[i]
		}
	}
	return nil
}

// rosterSource is the directory surface assignment needs.
type rosterSource interface {
	Roster(ctx context.Context) ([]domain.UserAccount, error)
}

// AssignmentService owns assignee selection for new tickets.
type AssignmentService struct {
	directory rosterSource
	policy    Policy
}

// NewAssignmentService constructs the service; a nil policy falls back to the
// first-eligible default.
func NewAssignmentService(directory rosterSource, policy Policy) *AssignmentService {
	if policy == nil {
		policy = FirstEligiblePolicy{}
	}
	return &AssignmentService{directory: directory, policy: policy}
}

// PickAssignee returns the staff account to own a new ticket, or nil when the
// roster has no admin or superadmin.
func (s *AssignmentService) PickAssignee(ctx context.Context) (*domain.UserAccount, error) {
	roster, err := s.directory.Roster(ctx)
	if err != nil {
		return nil, err
	}
	return s.policy.Select(roster), nil
}
