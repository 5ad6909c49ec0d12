package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CustomerRepository defines persistence access for company customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	GetForCompany(ctx context.Context, companyID, id string) (*domain.Customer, error)
	ListByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.Customer, error)
}

type customerRepository struct {
	db Querier
}

// NewCustomerRepository constructs repository.
func NewCustomerRepository(db Querier) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (company_id, name, contact_email, contact_phone, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		customer.CompanyID,
		customer.Name,
		customer.ContactEmail,
		customer.ContactPhone,
		customer.IsActive,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	const query = `
        UPDATE customers SET name=$1, contact_email=$2, contact_phone=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5 AND company_id=$6`
	cmd, err := r.db.Exec(ctx, query,
		customer.Name,
		customer.ContactEmail,
		customer.ContactPhone,
		customer.IsActive,
		customer.ID,
		customer.CompanyID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) GetForCompany(ctx context.Context, companyID, id string) (*domain.Customer, error) {
	const query = `
        SELECT id, company_id, name, contact_email, contact_phone, is_active, created_at, updated_at
        FROM customers WHERE id=$1 AND company_id=$2`
	var customer domain.Customer
	if err := r.db.QueryRow(ctx, query, id, companyID).Scan(
		&customer.ID,
		&customer.CompanyID,
		&customer.Name,
		&customer.ContactEmail,
		&customer.ContactPhone,
		&customer.IsActive,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) ListByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.Customer, error) {
	query := `
        SELECT id, company_id, name, contact_email, contact_phone, is_active, created_at, updated_at
        FROM customers WHERE company_id=$1`
	if !includeInactive {
		query += ` AND is_active=TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.CompanyID,
			&customer.Name,
			&customer.ContactEmail,
			&customer.ContactPhone,
			&customer.IsActive,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, customer)
	}
	return result, rows.Err()
}
