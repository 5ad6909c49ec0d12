package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketFilter captures admin search parameters. CompanyID is mandatory;
// every query is tenant scoped.
type TicketFilter struct {
	CompanyID   string
	CustomerID  *string
	TypeID      *string
	CategoryID  *string
	AssigneeID  *string
	CreatedByID *string
	Statuses    []domain.TicketStatus
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	OverdueOnly bool
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetForCompany(ctx context.Context, companyID, id string) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, companyID, number string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, company_id, customer_id, type_id, category_id, category_module_id,
	created_by_user_id, assigned_to_user_id, ticket_number, title, description, status,
	form_data, resolution, rating, rating_feedback, submitted_at, approved_at, completed_at,
	closed_at, rejected_at, resolved_at, due_date, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	formData, err := json.Marshal(ticket.FormData)
	if err != nil {
		return fmt.Errorf("encode form data: %w", err)
	}
	const query = `
        INSERT INTO tickets (company_id, customer_id, type_id, category_id, category_module_id,
            created_by_user_id, assigned_to_user_id, ticket_number, title, description, status,
            form_data, submitted_at, due_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		ticket.CompanyID,
		ticket.CustomerID,
		ticket.TypeID,
		ticket.CategoryID,
		ticket.CategoryModuleID,
		ticket.CreatedByUserID,
		ticket.AssignedToUserID,
		ticket.TicketNumber,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		formData,
		ticket.SubmittedAt,
		ticket.DueDate,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	formData, err := json.Marshal(ticket.FormData)
	if err != nil {
		return fmt.Errorf("encode form data: %w", err)
	}
	const query = `
        UPDATE tickets SET assigned_to_user_id=$1, title=$2, description=$3, status=$4,
            form_data=$5, resolution=$6, rating=$7, rating_feedback=$8, approved_at=$9,
            completed_at=$10, closed_at=$11, rejected_at=$12, resolved_at=$13, due_date=$14,
            updated_at=NOW()
        WHERE id=$15 AND company_id=$16`
	cmd, err := r.db.Exec(ctx, query,
		ticket.AssignedToUserID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		formData,
		ticket.Resolution,
		ticket.Rating,
		ticket.RatingFeedback,
		ticket.ApprovedAt,
		ticket.CompletedAt,
		ticket.ClosedAt,
		ticket.RejectedAt,
		ticket.ResolvedAt,
		ticket.DueDate,
		ticket.ID,
		ticket.CompanyID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetForCompany(ctx context.Context, companyID, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1 AND company_id=$2`
	return r.fetchSingle(ctx, query, id, companyID)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, companyID, number string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_number=$1 AND company_id=$2`
	return r.fetchSingle(ctx, query, number, companyID)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, query, args...)
	return scanTicket(row)
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	args := []any{filter.CompanyID}
	clauses := []string{"company_id=$1"}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.TypeID != nil {
		args = append(args, *filter.TypeID)
		clauses = append(clauses, fmt.Sprintf("type_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assigned_to_user_id=$%d", len(args)))
	}
	if filter.CreatedByID != nil {
		args = append(args, *filter.CreatedByID)
		clauses = append(clauses, fmt.Sprintf("created_by_user_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.OverdueOnly {
		clauses = append(clauses, "due_date IS NOT NULL AND due_date < NOW() AND status NOT IN ('CLOSED','REJECTED')")
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(ticket_number) LIKE %s)", placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var formData []byte
	if err := row.Scan(
		&ticket.ID,
		&ticket.CompanyID,
		&ticket.CustomerID,
		&ticket.TypeID,
		&ticket.CategoryID,
		&ticket.CategoryModuleID,
		&ticket.CreatedByUserID,
		&ticket.AssignedToUserID,
		&ticket.TicketNumber,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&formData,
		&ticket.Resolution,
		&ticket.Rating,
		&ticket.RatingFeedback,
		&ticket.SubmittedAt,
		&ticket.ApprovedAt,
		&ticket.CompletedAt,
		&ticket.ClosedAt,
		&ticket.RejectedAt,
		&ticket.ResolvedAt,
		&ticket.DueDate,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(formData) > 0 {
		if err := json.Unmarshal(formData, &ticket.FormData); err != nil {
			return nil, fmt.Errorf("decode form data: %w", err)
		}
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
