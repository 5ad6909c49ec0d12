package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CompanyRepository defines persistence access for tenants.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	Update(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Company, error)
}

type companyRepository struct {
	db Querier
}

// NewCompanyRepository returns a Postgres-backed implementation.
func NewCompanyRepository(db Querier) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	const query = `
        INSERT INTO companies (name, slug, is_active, pmo_enabled, pmo_endpoint, pmo_api_key)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		company.Name,
		company.Slug,
		company.IsActive,
		company.PMO.Enabled,
		company.PMO.Endpoint,
		company.PMO.APIKey,
	).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
}

func (r *companyRepository) Update(ctx context.Context, company *domain.Company) error {
	const query = `
        UPDATE companies SET name=$1, is_active=$2, pmo_enabled=$3, pmo_endpoint=$4, pmo_api_key=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.db.Exec(ctx, query,
		company.Name,
		company.IsActive,
		company.PMO.Enabled,
		company.PMO.Endpoint,
		company.PMO.APIKey,
		company.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	const query = `
        SELECT id, name, slug, is_active, pmo_enabled, pmo_endpoint, pmo_api_key, created_at, updated_at
        FROM companies WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *companyRepository) GetBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	const query = `
        SELECT id, name, slug, is_active, pmo_enabled, pmo_endpoint, pmo_api_key, created_at, updated_at
        FROM companies WHERE slug=$1`
	return r.fetchSingle(ctx, query, slug)
}

func (r *companyRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Company, error) {
	var company domain.Company
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&company.ID,
		&company.Name,
		&company.Slug,
		&company.IsActive,
		&company.PMO.Enabled,
		&company.PMO.Endpoint,
		&company.PMO.APIKey,
		&company.CreatedAt,
		&company.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &company, nil
}
