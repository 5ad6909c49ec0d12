package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketTypeRequest payload for create/update of ticket types.
type TicketTypeRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Schema      []domain.FormField `json:"schema"`
	IsActive    *bool              `json:"is_active"`
}

// TicketTypeResponse response.
type TicketTypeResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Schema      []domain.FormField `json:"schema"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
}

// CategoryRequest payload.
type CategoryRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

// CategoryResponse response.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryModuleRequest payload.
type CategoryModuleRequest struct {
	Name string `json:"name"`
}

// CategoryModuleResponse response.
type CategoryModuleResponse struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// CustomerRequest payload.
type CustomerRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	IsActive     *bool  `json:"is_active"`
}

// CustomerResponse response.
type CustomerResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// CustomerUserRequest payload to provision a customer login.
type CustomerUserRequest struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// UserResponse response.
type UserResponse struct {
	ID         string          `json:"id"`
	CustomerID *string         `json:"customer_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       domain.UserRole `json:"role"`
	IsActive   bool            `json:"is_active"`
}

// PMOSettingsRequest payload for configuring forwarding.
type PMOSettingsRequest struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"api_key"`
}

// PMOSettingsResponse echoes the stored settings; the API key is never
// returned.
type PMOSettingsResponse struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
}

// NewTicketTypeResponse maps a ticket type.
func NewTicketTypeResponse(t domain.TicketType) TicketTypeResponse {
	return TicketTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Schema:      t.Schema,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
	}
}

// NewCategoryResponse maps a category.
func NewCategoryResponse(c domain.TicketCategory) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, IsActive: c.IsActive, CreatedAt: c.CreatedAt}
}

// NewCategoryModuleResponse maps a category module.
func NewCategoryModuleResponse(m domain.TicketCategoryModule) CategoryModuleResponse {
	return CategoryModuleResponse{ID: m.ID, CategoryID: m.CategoryID, Name: m.Name, IsActive: m.IsActive, CreatedAt: m.CreatedAt}
}

// NewCustomerResponse maps a customer.
func NewCustomerResponse(c domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:           c.ID,
		Name:         c.Name,
		ContactEmail: c.ContactEmail,
		ContactPhone: c.ContactPhone,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
	}
}

// NewUserResponse maps a user account.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		CustomerID: u.CustomerID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
	}
}
