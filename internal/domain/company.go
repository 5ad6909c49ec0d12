package domain

import "time"

// Company is the tenant; all customers, users, catalog entries and tickets
// belong to exactly one company.
type Company struct {
	ID        string
	Name      string
	Slug      string
	IsActive  bool
	PMO       PMOSettings
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PMOSettings holds the per-tenant external PMO integration configuration.
type PMOSettings struct {
	Enabled  bool
	Endpoint string
	APIKey   string
}

// ForwardingConfigured reports whether approved tickets should be pushed out.
func (p PMOSettings) ForwardingConfigured() bool {
	return p.Enabled && p.Endpoint != ""
}
