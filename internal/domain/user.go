package domain

import "time"

// UserRole separates company staff from ticket-submitting customers.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleCustomer UserRole = "CUSTOMER"
)

// User is a company-scoped account. Customer-role users additionally carry the
// customer they act for.
type User struct {
	ID           string
	CompanyID    string
	CustomerID   *string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
