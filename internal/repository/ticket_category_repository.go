package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketCategoryRepository persists categories and their modules.
type TicketCategoryRepository interface {
	Create(ctx context.Context, category *domain.TicketCategory) error
	Update(ctx context.Context, category *domain.TicketCategory) error
	GetForCompany(ctx context.Context, companyID, id string) (*domain.TicketCategory, error)
	ListByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.TicketCategory, error)
	CreateModule(ctx context.Context, module *domain.TicketCategoryModule) error
	GetModule(ctx context.Context, categoryID, moduleID string) (*domain.TicketCategoryModule, error)
	ListModules(ctx context.Context, categoryID string) ([]domain.TicketCategoryModule, error)
}

type ticketCategoryRepository struct {
	db Querier
}

// NewTicketCategoryRepository constructs repository.
func NewTicketCategoryRepository(db Querier) TicketCategoryRepository {
	return &ticketCategoryRepository{db: db}
}

func (r *ticketCategoryRepository) Create(ctx context.Context, category *domain.TicketCategory) error {
	const query = `
        INSERT INTO ticket_categories (company_id, name, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		category.CompanyID,
		category.Name,
		category.IsActive,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *ticketCategoryRepository) Update(ctx context.Context, category *domain.TicketCategory) error {
	const query = `
        UPDATE ticket_categories SET name=$1, is_active=$2, updated_at=NOW()
        WHERE id=$3 AND company_id=$4`
	cmd, err := r.db.Exec(ctx, query,
		category.Name,
		category.IsActive,
		category.ID,
		category.CompanyID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketCategoryRepository) GetForCompany(ctx context.Context, companyID, id string) (*domain.TicketCategory, error) {
	const query = `
        SELECT id, company_id, name, is_active, created_at, updated_at
        FROM ticket_categories WHERE id=$1 AND company_id=$2`
	var category domain.TicketCategory
	if err := r.db.QueryRow(ctx, query, id, companyID).Scan(
		&category.ID,
		&category.CompanyID,
		&category.Name,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *ticketCategoryRepository) ListByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.TicketCategory, error) {
	query := `
        SELECT id, company_id, name, is_active, created_at, updated_at
        FROM ticket_categories WHERE company_id=$1`
	if !includeInactive {
		query += ` AND is_active=TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketCategory
	for rows.Next() {
		var category domain.TicketCategory
		if err := rows.Scan(
			&category.ID,
			&category.CompanyID,
			&category.Name,
			&category.IsActive,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *ticketCategoryRepository) CreateModule(ctx context.Context, module *domain.TicketCategoryModule) error {
	const query = `
        INSERT INTO ticket_category_modules (category_id, name, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		module.CategoryID,
		module.Name,
		module.IsActive,
	).Scan(&module.ID, &module.CreatedAt, &module.UpdatedAt)
}

func (r *ticketCategoryRepository) GetModule(ctx context.Context, categoryID, moduleID string) (*domain.TicketCategoryModule, error) {
	const query = `
        SELECT id, category_id, name, is_active, created_at, updated_at
        FROM ticket_category_modules WHERE id=$1 AND category_id=$2`
	var module domain.TicketCategoryModule
	if err := r.db.QueryRow(ctx, query, moduleID, categoryID).Scan(
		&module.ID,
		&module.CategoryID,
		&module.Name,
		&module.IsActive,
		&module.CreatedAt,
		&module.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ticketCategoryRepository) ListModules(ctx context.Context, categoryID string) ([]domain.TicketCategoryModule, error) {
	const query = `
        SELECT id, category_id, name, is_active, created_at, updated_at
        FROM ticket_category_modules WHERE category_id=$1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketCategoryModule
	for rows.Next() {
		var module domain.TicketCategoryModule
		if err := rows.Scan(
			&module.ID,
			&module.CategoryID,
			&module.Name,
			&module.IsActive,
			&module.CreatedAt,
			&module.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, module)
	}
	return result, rows.Err()
}
