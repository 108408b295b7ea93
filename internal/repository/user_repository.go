package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/may-baker/helpdesk-service/internal/domain"
)

// UserFilter defines query params for roster listing.
type UserFilter struct {
	Roles []domain.UserRole
}

// UserRepository handles persistence for roster accounts.
type UserRepository interface {
	List(ctx context.Context, filter UserFilter) ([]domain.UserAccount, error)
	GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates the repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.UserAccount, error) {
	query := `
        SELECT id, email, firstname, lastname, role, department, branch, created_at
        FROM users`
	args := []any{}

	if len(filter.Roles) > 0 {
		placeholders := make([]string, len(filter.Roles))
		for i, role := range filter.Roles {
			args = append(args, role)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += fmt.Sprintf(" WHERE role IN (%s)", strings.Join(placeholders, ","))
	}

	// Stable listing order; the assignment policy depends on it.
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UserAccount
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.Role,
			&user.Department,
			&user.Branch,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	const query = `
        SELECT id, email, firstname, lastname, role, department, branch, created_at
        FROM users WHERE email=$1`

	var user domain.UserAccount
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.Department,
		&user.Branch,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
