package domain

import "time"

// TicketType defines a kind of request a customer can file, together with the
// dynamic form schema the submission wizard renders.
type TicketType struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Schema      []FormField
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FormField is one declared field of a ticket type's form schema.
type FormField struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}
