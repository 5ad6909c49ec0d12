package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CatalogHandler manages the company catalog: ticket types, categories,
// modules, customers and PMO settings.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalogService}
}

// CreateTicketType POST /admin/ticket-types.
func (h *CatalogHandler) CreateTicketType(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.TicketTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	ticketType, err := h.service.CreateTicketType(c.Context(), actor, service.TicketTypeInput{
		Name:        req.Name,
		Description: req.Description,
		Schema:      req.Schema,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketTypeResponse(*ticketType)})
}

// UpdateTicketType PUT /admin/ticket-types/:id.
func (h *CatalogHandler) UpdateTicketType(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.TicketTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	ticketType, err := h.service.UpdateTicketType(c.Context(), actor, c.Params("id"), service.TicketTypeInput{
		Name:        req.Name,
		Description: req.Description,
		Schema:      req.Schema,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketTypeResponse(*ticketType)})
}

// ListTicketTypes GET /ticket-types.
func (h *CatalogHandler) ListTicketTypes(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	types, err := h.service.ListTicketTypes(c.Context(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.TicketTypeResponse, 0, len(types))
	for _, t := range types {
		items = append(items, dto.NewTicketTypeResponse(t))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCategory POST /admin/categories.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	category, err := h.service.CreateCategory(c.Context(), actor, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryResponse(*category)})
}

// UpdateCategory PUT /admin/categories/:id.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	category, err := h.service.UpdateCategory(c.Context(), actor, c.Params("id"), req.Name, req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(*category)})
}

// ListCategories GET /categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	categories, err := h.service.ListCategories(c.Context(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		items = append(items, dto.NewCategoryResponse(cat))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCategoryModule POST /admin/categories/:id/modules.
func (h *CatalogHandler) CreateCategoryModule(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.CategoryModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	module, err := h.service.CreateCategoryModule(c.Context(), actor, c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryModuleResponse(*module)})
}

// ListCategoryModules GET /categories/:id/modules.
func (h *CatalogHandler) ListCategoryModules(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	modules, err := h.service.ListCategoryModules(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CategoryModuleResponse, 0, len(modules))
	for _, module := range modules {
		items = append(items, dto.NewCategoryModuleResponse(module))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCustomer POST /admin/customers.
func (h *CatalogHandler) CreateCustomer(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	customer, err := h.service.CreateCustomer(c.Context(), actor, service.CustomerInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCustomerResponse(*customer)})
}

// UpdateCustomer PUT /admin/customers/:id.
func (h *CatalogHandler) UpdateCustomer(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	customer, err := h.service.UpdateCustomer(c.Context(), actor, c.Params("id"), service.CustomerInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(*customer)})
}

// ListCustomers GET /admin/customers.
func (h *CatalogHandler) ListCustomers(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	customers, err := h.service.ListCustomers(c.Context(), actor, c.Query("include_inactive") == "true")
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		items = append(items, dto.NewCustomerResponse(customer))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCustomerUser POST /admin/customer-users.
func (h *CatalogHandler) CreateCustomerUser(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.CustomerUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	user, err := h.service.CreateCustomerUser(c.Context(), actor, req.CustomerID, req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(*user)})
}

// UpdatePMOSettings PUT /admin/pmo-settings.
func (h *CatalogHandler) UpdatePMOSettings(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.PMOSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	company, err := h.service.UpdatePMOSettings(c.Context(), actor, domain.PMOSettings{
		Enabled:  req.Enabled,
		Endpoint: req.Endpoint,
		APIKey:   req.APIKey,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PMOSettingsResponse{
		Enabled:  company.PMO.Enabled,
		Endpoint: company.PMO.Endpoint,
	}})
}
