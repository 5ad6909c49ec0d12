package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketTypeRepository persists ticket types with their form schemas.
type TicketTypeRepository interface {
	Create(ctx context.Context, ticketType *domain.TicketType) error
	Update(ctx context.Context, ticketType *domain.TicketType) error
	GetForCompany(ctx context.Context, companyID, id string) (*domain.TicketType, error)
	ListByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.TicketType, error)
}

type ticketTypeRepository struct {
	db Querier
}

// NewTicketTypeRepository constructs repository.
func NewTicketTypeRepository(db Querier) TicketTypeRepository {
	return &ticketTypeRepository{db: db}
}

func (r *ticketTypeRepository) Create(ctx context.Context, ticketType *domain.TicketType) error {
	schema, err := json.Marshal(ticketType.Schema)
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	const query = `
        INSERT INTO ticket_types (company_id, name, description, schema, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		ticketType.CompanyID,
		ticketType.Name,
		ticketType.Description,
		schema,
		ticketType.IsActive,
	).Scan(&ticketType.ID, &ticketType.CreatedAt, &ticketType.UpdatedAt)
}

func (r *ticketTypeRepository) Update(ctx context.Context, ticketType *domain.TicketType) error {
	schema, err := json.Marshal(ticketType.Schema)
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	const query = `
        UPDATE ticket_types SET name=$1, description=$2, schema=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5 AND company_id=$6`
	cmd, err := r.db.Exec(ctx, query,
		ticketType.Name,
		ticketType.Description,
		schema,
		ticketType.IsActive,
		ticketType.ID,
		ticketType.CompanyID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketTypeRepository) GetForCompany(ctx context.Context, companyID, id string) (*domain.TicketType, error) {
	const query = `
        SELECT id, company_id, name, description, schema, is_active, created_at, updated_at
        FROM ticket_types WHERE id=$1 AND company_id=$2`
	return scanTicketType(r.db.QueryRow(ctx, query, id, companyID))
}

func (r *ticketTypeRepository) ListByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.TicketType, error) {
	query := `
        SELECT id, company_id, name, description, schema, is_active, created_at, updated_at
        FROM ticket_types WHERE company_id=$1`
	if !includeInactive {
		query += ` AND is_active=TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketType
	for rows.Next() {
		ticketType, err := scanTicketType(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticketType)
	}
	return result, rows.Err()
}

func scanTicketType(row pgx.Row) (*domain.TicketType, error) {
	var ticketType domain.TicketType
	var schema []byte
	if err := row.Scan(
		&ticketType.ID,
		&ticketType.CompanyID,
		&ticketType.Name,
		&ticketType.Description,
		&schema,
		&ticketType.IsActive,
		&ticketType.CreatedAt,
		&ticketType.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(schema) > 0 {
		if err := json.Unmarshal(schema, &ticketType.Schema); err != nil {
			return nil, fmt.Errorf("decode schema: %w", err)
		}
	}
	return &ticketType, nil
}
