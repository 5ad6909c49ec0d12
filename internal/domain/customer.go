package domain

import "time"

// Customer is the company-scoped party a ticket is filed for.
type Customer struct {
	ID           string
	CompanyID    string
	Name         string
	ContactEmail string
	ContactPhone string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
