package domain

import "time"

// TicketCategory groups tickets within a company.
type TicketCategory struct {
	ID        string
	CompanyID string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TicketCategoryModule is an optional sub-grouping under a category.
type TicketCategoryModule struct {
	ID         string
	CategoryID string
	Name       string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
