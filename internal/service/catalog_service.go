package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CatalogService manages the per-company ticket catalog: types with their form
// schemas, categories with modules, customers and customer accounts.
type CatalogService struct {
	companies  repository.CompanyRepository
	customers  repository.CustomerRepository
	types      repository.TicketTypeRepository
	categories repository.TicketCategoryRepository
	users      repository.UserRepository
	bcryptCost int
}

// CatalogDependencies bundles repositories for the catalog service.
type CatalogDependencies struct {
	CompanyRepo  repository.CompanyRepository
	CustomerRepo repository.CustomerRepository
	TypeRepo     repository.TicketTypeRepository
	CategoryRepo repository.TicketCategoryRepository
	UserRepo     repository.UserRepository
	BcryptCost   int
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		companies:  deps.CompanyRepo,
		customers:  deps.CustomerRepo,
		types:      deps.TypeRepo,
		categories: deps.CategoryRepo,
		users:      deps.UserRepo,
		bcryptCost: deps.BcryptCost,
	}
}

func (s *CatalogService) requireAdmin(actor Actor) error {
	if err := actor.validate(); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// TicketTypeInput carries type create/update fields.
type TicketTypeInput struct {
	Name        string
	Description string
	Schema      []domain.FormField
	IsActive    *bool
}

// CreateTicketType adds a catalog entry with its form schema.
func (s *CatalogService) CreateTicketType(ctx context.Context, actor Actor, input TicketTypeInput) (*domain.TicketType, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewInvalidArgument("name is required", map[string]any{"field": "name"})
	}
	if err := validateSchema(input.Schema); err != nil {
		return nil, err
	}

	ticketType := &domain.TicketType{
		CompanyID:   actor.CompanyID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Schema:      input.Schema,
		IsActive:    true,
	}
	if err := s.types.Create(ctx, ticketType); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticketType, nil
}

// UpdateTicketType edits a catalog entry within the actor's company.
func (s *CatalogService) UpdateTicketType(ctx context.Context, actor Actor, id string, input TicketTypeInput) (*domain.TicketType, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	ticketType, err := s.types.GetForCompany(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		ticketType.Name = name
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		ticketType.Description = desc
	}
	if input.Schema != nil {
		if err := validateSchema(input.Schema); err != nil {
			return nil, err
		}
		ticketType.Schema = input.Schema
	}
	if input.IsActive != nil {
		ticketType.IsActive = *input.IsActive
	}
	if err := s.types.Update(ctx, ticketType); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticketType, nil
}

// ListTicketTypes returns the company's types. Customers only see active ones.
func (s *CatalogService) ListTicketTypes(ctx context.Context, actor Actor) ([]domain.TicketType, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	types, err := s.types.ListByCompany(ctx, actor.CompanyID, actor.IsAdmin())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return types, nil
}

// CreateCategory adds a ticket category.
func (s *CatalogService) CreateCategory(ctx context.Context, actor Actor, name string) (*domain.TicketCategory, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidArgument("name is required", map[string]any{"field": "name"})
	}
	category := &domain.TicketCategory{CompanyID: actor.CompanyID, Name: name, IsActive: true}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// UpdateCategory renames or toggles a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, actor Actor, id, name string, isActive *bool) (*domain.TicketCategory, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	category, err := s.categories.GetForCompany(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if name = strings.TrimSpace(name); name != "" {
		category.Name = name
	}
	if isActive != nil {
		category.IsActive = *isActive
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// ListCategories returns the company's categories.
func (s *CatalogService) ListCategories(ctx context.Context, actor Actor) ([]domain.TicketCategory, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	categories, err := s.categories.ListByCompany(ctx, actor.CompanyID, actor.IsAdmin())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// CreateCategoryModule adds a sub-grouping under a category.
func (s *CatalogService) CreateCategoryModule(ctx context.Context, actor Actor, categoryID, name string) (*domain.TicketCategoryModule, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetForCompany(ctx, actor.CompanyID, categoryID); err != nil {
		return nil, apperrors.MapError(err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidArgument("name is required", map[string]any{"field": "name"})
	}
	module := &domain.TicketCategoryModule{CategoryID: categoryID, Name: name, IsActive: true}
	if err := s.categories.CreateModule(ctx, module); err != nil {
		return nil, apperrors.MapError(err)
	}
	return module, nil
}

// ListCategoryModules lists modules under a company category.
func (s *CatalogService) ListCategoryModules(ctx context.Context, actor Actor, categoryID string) ([]domain.TicketCategoryModule, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetForCompany(ctx, actor.CompanyID, categoryID); err != nil {
		return nil, apperrors.MapError(err)
	}
	modules, err := s.categories.ListModules(ctx, categoryID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return modules, nil
}

// CustomerInput carries customer create/update fields.
type CustomerInput struct {
	Name         string
	ContactEmail string
	ContactPhone string
	IsActive     *bool
}

// CreateCustomer registers a customer party under the company.
func (s *CatalogService) CreateCustomer(ctx context.Context, actor Actor, input CustomerInput) (*domain.Customer, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewInvalidArgument("name is required", map[string]any{"field": "name"})
	}
	customer := &domain.Customer{
		CompanyID:    actor.CompanyID,
		Name:         name,
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		IsActive:     true,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// UpdateCustomer edits a customer within the company.
func (s *CatalogService) UpdateCustomer(ctx context.Context, actor Actor, id string, input CustomerInput) (*domain.Customer, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	customer, err := s.customers.GetForCompany(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		customer.Name = name
	}
	if email := strings.TrimSpace(input.ContactEmail); email != "" {
		customer.ContactEmail = email
	}
	if phone := strings.TrimSpace(input.ContactPhone); phone != "" {
		customer.ContactPhone = phone
	}
	if input.IsActive != nil {
		customer.IsActive = *input.IsActive
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// ListCustomers returns the company's customers.
func (s *CatalogService) ListCustomers(ctx context.Context, actor Actor, includeInactive bool) ([]domain.Customer, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	customers, err := s.customers.ListByCompany(ctx, actor.CompanyID, includeInactive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customers, nil
}

// CreateCustomerUser provisions a login bound to one of the company's
// customers.
func (s *CatalogService) CreateCustomerUser(ctx context.Context, actor Actor, customerID, name, email, password string) (*domain.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	customer, err := s.customers.GetForCompany(ctx, actor.CompanyID, customerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewInvalidArgument("email and password are required", nil)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		CompanyID:    actor.CompanyID,
		CustomerID:   &customer.ID,
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdatePMOSettings configures the company's external forwarding target.
func (s *CatalogService) UpdatePMOSettings(ctx context.Context, actor Actor, settings domain.PMOSettings) (*domain.Company, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if settings.Enabled && strings.TrimSpace(settings.Endpoint) == "" {
		return nil, apperrors.NewInvalidArgument("endpoint is required when forwarding is enabled", map[string]any{"field": "endpoint"})
	}
	company, err := s.companies.GetByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	company.PMO = settings
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, apperrors.MapError(err)
	}
	return company, nil
}

func validateSchema(schema []domain.FormField) error {
	seen := make(map[string]bool, len(schema))
	for _, field := range schema {
		if strings.TrimSpace(field.Key) == "" {
			return apperrors.NewInvalidArgument("schema field key is required", nil)
		}
		if seen[field.Key] {
			return apperrors.NewInvalidArgument("duplicate schema field key", map[string]any{"key": field.Key})
		}
		seen[field.Key] = true
		if !field.Kind.IsValid() {
			return apperrors.NewInvalidArgument("unknown schema field kind", map[string]any{"key": field.Key, "kind": string(field.Kind)})
		}
		if field.Kind == domain.FieldKindSelect && len(field.Options) == 0 {
			return apperrors.NewInvalidArgument("select field requires options", map[string]any{"key": field.Key})
		}
	}
	return nil
}
