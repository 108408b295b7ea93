package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/may-baker/helpdesk-service/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	Department *string
	Status     *domain.TicketStatus
	ReportedBy *string
}

// TicketUpdate describes a partial field update. Nil fields are left
// untouched; the whole update is applied as a single atomic statement.
type TicketUpdate struct {
	Issue          *string
	Description    *string
	ReportedBy     *string
	Branch         *string
	Department     *string
	Staff          *string
	Status         *domain.TicketStatus
	Resolution     *string
	DateReported   *string
	TimeReported   *string
	ResolutionTime *string
	DateClosed     *string
}

// IsEmpty reports whether the update carries no fields.
func (u TicketUpdate) IsEmpty() bool {
	return u.Issue == nil && u.Description == nil && u.ReportedBy == nil &&
		u.Branch == nil && u.Department == nil && u.Staff == nil &&
		u.Status == nil && u.Resolution == nil && u.DateReported == nil &&
		u.TimeReported == nil && u.ResolutionTime == nil && u.DateClosed == nil
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, id int64, fields TicketUpdate) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (issue, description, reported_by, branch, department, staff, status,
            resolution, date_reported, time_reported, resolution_time, date_closed)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Issue,
		ticket.Description,
		ticket.ReportedBy,
		ticket.Branch,
		ticket.Department,
		ticket.Staff,
		ticket.Status,
		ticket.Resolution,
		ticket.DateReported,
		ticket.TimeReported,
		ticket.ResolutionTime,
		ticket.DateClosed,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

// Update applies the non-nil fields in a single UPDATE so concurrent writers
// stay last-write-wins per payload without corrupting unrelated columns.
// Returns pgx.ErrNoRows when the id is unknown.
func (r *ticketRepository) Update(ctx context.Context, id int64, fields TicketUpdate) error {
	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if fields.Issue != nil {
		add("issue", *fields.Issue)
	}
	if fields.Description != nil {
		add("description", *fields.Description)
	}
	if fields.ReportedBy != nil {
		add("reported_by", *fields.ReportedBy)
	}
	if fields.Branch != nil {
		add("branch", *fields.Branch)
	}
	if fields.Department != nil {
		add("department", *fields.Department)
	}
	if fields.Staff != nil {
		add("staff", *fields.Staff)
	}
	if fields.Status != nil {
		add("status", *fields.Status)
	}
	if fields.Resolution != nil {
		add("resolution", *fields.Resolution)
	}
	if fields.DateReported != nil {
		add("date_reported", *fields.DateReported)
	}
	if fields.TimeReported != nil {
		add("time_reported", *fields.TimeReported)
	}
	if fields.ResolutionTime != nil {
		add("resolution_time", *fields.ResolutionTime)
	}
	if fields.DateClosed != nil {
		add("date_closed", *fields.DateClosed)
	}

	// An empty payload still touches the row so unknown ids surface as not found.
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tickets SET %s WHERE id=$%d",
		strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, issue, description, reported_by, branch, department, staff, status,
               resolution, date_reported, time_reported, resolution_time, date_closed,
               created_at, updated_at
        FROM tickets WHERE id=$1`

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Issue,
		&ticket.Description,
		&ticket.ReportedBy,
		&ticket.Branch,
		&ticket.Department,
		&ticket.Staff,
		&ticket.Status,
		&ticket.Resolution,
		&ticket.DateReported,
		&ticket.TimeReported,
		&ticket.ResolutionTime,
		&ticket.DateClosed,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	query := `
        SELECT id, issue, description, reported_by, branch, department, staff, status,
               resolution, date_reported, time_reported, resolution_time, date_closed,
               created_at, updated_at
        FROM tickets`
	clauses := []string{}
	args := []any{}

	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.ReportedBy != nil {
		args = append(args, *filter.ReportedBy)
		clauses = append(clauses, fmt.Sprintf("reported_by=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Issue,
			&ticket.Description,
			&ticket.ReportedBy,
			&ticket.Branch,
			&ticket.Department,
			&ticket.Staff,
			&ticket.Status,
			&ticket.Resolution,
			&ticket.DateReported,
			&ticket.TimeReported,
			&ticket.ResolutionTime,
			&ticket.DateClosed,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
