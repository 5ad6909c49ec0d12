package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Hand-rolled mocks with overridable behavior per test. Getters fall back to
// pgx.ErrNoRows so unstubbed lookups behave like an empty database.

type mockTicketRepo struct {
	CreateFunc         func(ctx context.Context, ticket *domain.Ticket) error
	UpdateFunc         func(ctx context.Context, ticket *domain.Ticket) error
	GetForCompanyFunc  func(ctx context.Context, companyID, id string) (*domain.Ticket, error)
	GetByNumberFunc    func(ctx context.Context, companyID, number string) (*domain.Ticket, error)
	ListWithFilterFunc func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error)
}

func (m *mockTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ticket)
	}
	return nil
}

func (m *mockTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ticket)
	}
	return nil
}

func (m *mockTicketRepo) GetForCompany(ctx context.Context, companyID, id string) (*domain.Ticket, error) {
	if m.GetForCompanyFunc != nil {
		return m.GetForCompanyFunc(ctx, companyID, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockTicketRepo) GetByNumber(ctx context.Context, companyID, number string) (*domain.Ticket, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, companyID, number)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if m.ListWithFilterFunc != nil {
		return m.ListWithFilterFunc(ctx, filter)
	}
	return nil, nil
}

type mockCommentRepo struct {
	CreateFunc       func(ctx context.Context, comment *domain.TicketComment) error
	ListByTicketFunc func(ctx context.Context, ticketID string, includeInternal bool) ([]domain.TicketComment, error)
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *domain.TicketComment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *mockCommentRepo) ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]domain.TicketComment, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID, includeInternal)
	}
	return nil, nil
}

type mockHistoryRepo struct {
	CreateFunc       func(ctx context.Context, history *domain.TicketHistory) error
	ListByTicketFunc func(ctx context.Context, ticketID string) ([]domain.TicketHistory, error)
}

func (m *mockHistoryRepo) Create(ctx context.Context, history *domain.TicketHistory) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, history)
	}
	return nil
}

func (m *mockHistoryRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

type mockSequenceRepo struct {
	NextFunc func(ctx context.Context, companyID, period string) (int64, error)
}

func (m *mockSequenceRepo) Next(ctx context.Context, companyID, period string) (int64, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, companyID, period)
	}
	return 1, nil
}

type mockOutboxRepo struct {
	EnqueueFunc           func(ctx context.Context, entry *repository.PMOOutboxEntry) error
	ListPendingFunc       func(ctx context.Context, limit int) ([]repository.PMOOutboxEntry, error)
	MarkSentFunc          func(ctx context.Context, id string) error
	MarkAttemptFailedFunc func(ctx context.Context, id string, lastError string, exhausted bool) error
}

func (m *mockOutboxRepo) Enqueue(ctx context.Context, entry *repository.PMOOutboxEntry) error {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, entry)
	}
	return nil
}

func (m *mockOutboxRepo) ListPending(ctx context.Context, limit int) ([]repository.PMOOutboxEntry, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockOutboxRepo) MarkSent(ctx context.Context, id string) error {
	if m.MarkSentFunc != nil {
		return m.MarkSentFunc(ctx, id)
	}
	return nil
}

func (m *mockOutboxRepo) MarkAttemptFailed(ctx context.Context, id string, lastError string, exhausted bool) error {
	if m.MarkAttemptFailedFunc != nil {
		return m.MarkAttemptFailedFunc(ctx, id, lastError, exhausted)
	}
	return nil
}

type mockCompanyRepo struct {
	CreateFunc    func(ctx context.Context, company *domain.Company) error
	UpdateFunc    func(ctx context.Context, company *domain.Company) error
	GetByIDFunc   func(ctx context.Context, id string) (*domain.Company, error)
	GetBySlugFunc func(ctx context.Context, slug string) (*domain.Company, error)
}

func (m *mockCompanyRepo) Create(ctx context.Context, company *domain.Company) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, company)
	}
	return nil
}

func (m *mockCompanyRepo) Update(ctx context.Context, company *domain.Company) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, company)
	}
	return nil
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockCompanyRepo) GetBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, pgx.ErrNoRows
}

type mockCustomerRepo struct {
	CreateFunc        func(ctx context.Context, customer *domain.Customer) error
	UpdateFunc        func(ctx context.Context, customer *domain.Customer) error
	GetForCompanyFunc func(ctx context.Context, companyID, id string) (*domain.Customer, error)
	ListByCompanyFunc func(ctx context.Context, companyID string, includeInactive bool) ([]domain.Customer, error)
}

func (m *mockCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, customer)
	}
	return nil
}

func (m *mockCustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, customer)
	}
	return nil
}

func (m *mockCustomerRepo) GetForCompany(ctx context.Context, companyID, id string) (*domain.Customer, error) {
	if m.GetForCompanyFunc != nil {
		return m.GetForCompanyFunc(ctx, companyID, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockCustomerRepo) ListByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.Customer, error) {
	if m.ListByCompanyFunc != nil {
		return m.ListByCompanyFunc(ctx, companyID, includeInactive)
	}
	return nil, nil
}

type mockTypeRepo struct {
	CreateFunc        func(ctx context.Context, ticketType *domain.TicketType) error
	UpdateFunc        func(ctx context.Context, ticketType *domain.TicketType) error
	GetForCompanyFunc func(ctx context.Context, companyID, id string) (*domain.TicketType, error)
	ListByCompanyFunc func(ctx context.Context, companyID string, includeInactive bool) ([]domain.TicketType, error)
}

func (m *mockTypeRepo) Create(ctx context.Context, ticketType *domain.TicketType) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ticketType)
	}
	return nil
}

func (m *mockTypeRepo) Update(ctx context.Context, ticketType *domain.TicketType) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ticketType)
	}
	return nil
}

func (m *mockTypeRepo) GetForCompany(ctx context.Context, companyID, id string) (*domain.TicketType, error) {
	if m.GetForCompanyFunc != nil {
		return m.GetForCompanyFunc(ctx, companyID, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockTypeRepo) ListByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.TicketType, error) {
	if m.ListByCompanyFunc != nil {
		return m.ListByCompanyFunc(ctx, companyID, includeInactive)
	}
	return nil, nil
}

type mockCategoryRepo struct {
	CreateFunc        func(ctx context.Context, category *domain.TicketCategory) error
	UpdateFunc        func(ctx context.Context, category *domain.TicketCategory) error
	GetForCompanyFunc func(ctx context.Context, companyID, id string) (*domain.TicketCategory, error)
	ListByCompanyFunc func(ctx context.Context, companyID string, includeInactive bool) ([]domain.TicketCategory, error)
	CreateModuleFunc  func(ctx context.Context, module *domain.TicketCategoryModule) error
	GetModuleFunc     func(ctx context.Context, categoryID, moduleID string) (*domain.TicketCategoryModule, error)
	ListModulesFunc   func(ctx context.Context, categoryID string) ([]domain.TicketCategoryModule, error)
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *domain.TicketCategory) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, category)
	}
	return nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *domain.TicketCategory) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, category)
	}
	return nil
}

func (m *mockCategoryRepo) GetForCompany(ctx context.Context, companyID, id string) (*domain.TicketCategory, error) {
	if m.GetForCompanyFunc != nil {
		return m.GetForCompanyFunc(ctx, companyID, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockCategoryRepo) ListByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.TicketCategory, error) {
	if m.ListByCompanyFunc != nil {
		return m.ListByCompanyFunc(ctx, companyID, includeInactive)
	}
	return nil, nil
}

func (m *mockCategoryRepo) CreateModule(ctx context.Context, module *domain.TicketCategoryModule) error {
	if m.CreateModuleFunc != nil {
		return m.CreateModuleFunc(ctx, module)
	}
	return nil
}

func (m *mockCategoryRepo) GetModule(ctx context.Context, categoryID, moduleID string) (*domain.TicketCategoryModule, error) {
	if m.GetModuleFunc != nil {
		return m.GetModuleFunc(ctx, categoryID, moduleID)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockCategoryRepo) ListModules(ctx context.Context, categoryID string) ([]domain.TicketCategoryModule, error) {
	if m.ListModulesFunc != nil {
		return m.ListModulesFunc(ctx, categoryID)
	}
	return nil, nil
}

type mockUserRepo struct {
	CreateFunc     func(ctx context.Context, user *domain.User) error
	UpdateFunc     func(ctx context.Context, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	ListFunc       func(ctx context.Context, filter repository.UserFilter) ([]domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

type mockAttachmentRepo struct {
	CreateFunc       func(ctx context.Context, attachment *repository.TicketAttachment) error
	ListByTicketFunc func(ctx context.Context, ticketID string) ([]repository.TicketAttachment, error)
}

func (m *mockAttachmentRepo) Create(ctx context.Context, attachment *repository.TicketAttachment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, attachment)
	}
	return nil
}

func (m *mockAttachmentRepo) ListByTicket(ctx context.Context, ticketID string) ([]repository.TicketAttachment, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

// mockUnitOfWork invokes the callback with the fixture's transactional repos,
// so a test observes the same mocks inside and outside the transaction.
type mockUnitOfWork struct {
	repos        repository.TxRepositories
	WithinTxFunc func(ctx context.Context, fn func(repos repository.TxRepositories) error) error
}

func (m *mockUnitOfWork) WithinTx(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	if m.WithinTxFunc != nil {
		return m.WithinTxFunc(ctx, fn)
	}
	return fn(m.repos)
}
