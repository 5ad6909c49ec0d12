package service

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// Actor is the authenticated identity services operate on behalf of. Every
// operation is scoped to Actor.CompanyID; customer-role actors are further
// scoped to their customer.
type Actor struct {
	UserID     string
	CompanyID  string
	CustomerID *string
	Role       domain.UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// IsCustomer reports whether the actor is a customer-scoped account.
func (a Actor) IsCustomer() bool {
	return a.Role == domain.RoleCustomer
}

func (a Actor) validate() error {
	if a.UserID == "" || a.CompanyID == "" {
		return apperrors.NewNotAuthenticated("actor context incomplete")
	}
	if a.IsCustomer() && a.CustomerID == nil {
		return apperrors.NewNotAuthenticated("customer actor has no customer scope")
	}
	return nil
}
