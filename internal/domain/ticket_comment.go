package domain

import "time"

// TicketComment is one entry in a ticket's thread. Comments are append-only;
// internal comments are never shown to customer-role users.
type TicketComment struct {
	ID                string
	TicketID          string
	UserID            string
	Content           string
	IsInternal        bool
	IsSystemGenerated bool
	CreatedAt         time.Time
}
