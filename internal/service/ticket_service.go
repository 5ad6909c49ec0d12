package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/pmo"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle: submission, the guarded
// status transitions, comments, ratings and PMO forwarding.
type TicketService struct {
	uow         repository.UnitOfWork
	tickets     repository.TicketRepository
	comments    repository.TicketCommentRepository
	history     repository.TicketHistoryRepository
	attachments repository.AttachmentRepository
	companies   repository.CompanyRepository
	customers   repository.CustomerRepository
	types       repository.TicketTypeRepository
	categories  repository.TicketCategoryRepository
	users       repository.UserRepository
	outbox      repository.PMOOutboxRepository
	pmoClient   *pmo.Client
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	UnitOfWork     repository.UnitOfWork
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.TicketCommentRepository
	HistoryRepo    repository.TicketHistoryRepository
	AttachmentRepo repository.AttachmentRepository
	CompanyRepo    repository.CompanyRepository
	CustomerRepo   repository.CustomerRepository
	TypeRepo       repository.TicketTypeRepository
	CategoryRepo   repository.TicketCategoryRepository
	UserRepo       repository.UserRepository
	OutboxRepo     repository.PMOOutboxRepository
	PMOClient      *pmo.Client
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		uow:         deps.UnitOfWork,
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		history:     deps.HistoryRepo,
		attachments: deps.AttachmentRepo,
		companies:   deps.CompanyRepo,
		customers:   deps.CustomerRepo,
		types:       deps.TypeRepo,
		categories:  deps.CategoryRepo,
		users:       deps.UserRepo,
		outbox:      deps.OutboxRepo,
		pmoClient:   deps.PMOClient,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// TicketCreateInput is the submission wizard payload.
type TicketCreateInput struct {
	CustomerID       *string
	TypeID           string
	CategoryID       string
	CategoryModuleID *string
	Title            string
	Description      string
	FormData         domain.FormData
	DueDate          *time.Time
	Attachments      []AttachmentInput
}

// AttachmentInput carries metadata for a file attached at submission time.
type AttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// TicketListFilter describes listing filters applied on top of tenant scope.
// CustomerID is honored for admins only; customer actors are always pinned to
// their own customer.
type TicketListFilter struct {
	Statuses    []domain.TicketStatus
	CustomerID  *string
	TypeID      *string
	CategoryID  *string
	AssigneeID  *string
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	OverdueOnly bool
	Limit       int
	Offset      int
}

// TicketDetail is a ticket together with its visible thread and audit trail.
type TicketDetail struct {
	Ticket      *domain.Ticket
	Comments    []domain.TicketComment
	History     []domain.TicketHistory
	Attachments []repository.TicketAttachment
	Actions     []domain.TicketAction
}

// CreateTicket validates the wizard payload and creates a ticket in
// UNDER_REVIEW, assigning the next company-scoped ticket number.
func (s *TicketService) CreateTicket(ctx context.Context, actor Actor, input TicketCreateInput) (*domain.Ticket, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}

	customerID, err := s.resolveCustomer(ctx, actor, input.CustomerID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewInvalidArgument("title is required", map[string]any{"field": "title"})
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.NewInvalidArgument("description is required", map[string]any{"field": "description"})
	}

	ticketType, err := s.types.GetForCompany(ctx, actor.CompanyID, input.TypeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !ticketType.IsActive {
		return nil, apperrors.NewInvalidArgument("ticket type is inactive", map[string]any{"field": "typeId"})
	}

	category, err := s.categories.GetForCompany(ctx, actor.CompanyID, input.CategoryID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !category.IsActive {
		return nil, apperrors.NewInvalidArgument("ticket category is inactive", map[string]any{"field": "categoryId"})
	}
	if input.CategoryModuleID != nil {
		if _, err := s.categories.GetModule(ctx, category.ID, *input.CategoryModuleID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	if err := input.FormData.Validate(ticketType.Schema); err != nil {
		return nil, apperrors.NewInvalidArgument(err.Error(), map[string]any{"field": "formData"})
	}

	now := time.Now()
	ticket := &domain.Ticket{
		CompanyID:        actor.CompanyID,
		CustomerID:       customerID,
		TypeID:           ticketType.ID,
		CategoryID:       category.ID,
		CategoryModuleID: input.CategoryModuleID,
		CreatedByUserID:  actor.UserID,
		Title:            title,
		Description:      description,
		Status:           domain.TicketStatusUnderReview,
		FormData:         input.FormData,
		SubmittedAt:      now,
		DueDate:          input.DueDate,
	}

	err = s.uow.WithinTx(ctx, func(repos repository.TxRepositories) error {
		seq, err := repos.Sequences.Next(ctx, actor.CompanyID, now.Format("200601"))
		if err != nil {
			return err
		}
		ticket.TicketNumber = formatTicketNumber(now, seq)
		if err := repos.Tickets.Create(ctx, ticket); err != nil {
			return err
		}
		desc := "ticket submitted"
		return repos.History.Create(ctx, &domain.TicketHistory{
			TicketID:    ticket.ID,
			UserID:      actor.UserID,
			Action:      domain.HistoryActionCreated,
			Description: &desc,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	for _, att := range input.Attachments {
		record := &repository.TicketAttachment{
			TicketID:   ticket.ID,
			UploadedBy: actor.UserID,
			StorageKey: att.StorageKey,
			FileName:   att.FileName,
			MimeType:   att.MimeType,
			SizeBytes:  att.SizeBytes,
		}
		if err := s.attachments.Create(ctx, record); err != nil {
			s.logger.Warn("attachment metadata not stored",
				zap.String("ticket_id", ticket.ID), zap.Error(err))
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		CompanyID: ticket.CompanyID,
		Actor:     events.Actor{UserID: actor.UserID, Role: actor.Role},
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			TypeID:       ticket.TypeID,
			CategoryID:   ticket.CategoryID,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// ApproveTicket moves an under-review ticket into progress, self-assigning the
// admin, and queues PMO forwarding when the company has it configured.
func (s *TicketService) ApproveTicket(ctx context.Context, actor Actor, ticketID, comment string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, func(t *domain.Ticket) (*domain.StatusChange, error) {
		return t.Approve(actor.UserID, comment)
	}, true)
}

// RejectTicket terminates a ticket with a mandatory reason.
func (s *TicketService) RejectTicket(ctx context.Context, actor Actor, ticketID, reason string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, func(t *domain.Ticket) (*domain.StatusChange, error) {
		return t.Reject(actor.UserID, reason)
	}, false)
}

// ResolveTicket completes work on an in-progress ticket.
func (s *TicketService) ResolveTicket(ctx context.Context, actor Actor, ticketID, comment string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, func(t *domain.Ticket) (*domain.StatusChange, error) {
		return t.Resolve(actor.UserID, comment)
	}, false)
}

// CloseTicket finalizes a resolved ticket.
func (s *TicketService) CloseTicket(ctx context.Context, actor Actor, ticketID, comment string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, func(t *domain.Ticket) (*domain.StatusChange, error) {
		return t.Close(actor.UserID, comment)
	}, false)
}

func (s *TicketService) transition(ctx context.Context, actor Actor, ticketID string, apply func(*domain.Ticket) (*domain.StatusChange, error), forwardPMO bool) (*domain.Ticket, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("only admins can change ticket status")
	}

	ticket, err := s.loadScoped(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	change, err := apply(ticket)
	if err != nil {
		return nil, err
	}

	var outboxEntry *repository.PMOOutboxEntry
	err = s.uow.WithinTx(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		if err := repos.History.Create(ctx, &change.History); err != nil {
			return err
		}
		if change.Comment != nil {
			if err := repos.Comments.Create(ctx, change.Comment); err != nil {
				return err
			}
		}
		if forwardPMO {
			entry, err := s.buildForwardEntry(ctx, ticket)
			if err != nil {
				// forwarding must never block the transition
				s.logger.Warn("pmo forward skipped", zap.String("ticket_id", ticket.ID), zap.Error(err))
				return nil
			}
			if entry != nil {
				if err := repos.Outbox.Enqueue(ctx, entry); err != nil {
					return err
				}
				outboxEntry = entry
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketStatusChanged,
		TicketID:  ticket.ID,
		CompanyID: ticket.CompanyID,
		Actor:     events.Actor{UserID: actor.UserID, Role: actor.Role},
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		},
	})

	if outboxEntry != nil {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventPMOForwardQueued,
			TicketID:  ticket.ID,
			CompanyID: ticket.CompanyID,
			Actor:     events.Actor{UserID: actor.UserID, Role: actor.Role},
			Payload:   events.PMOForwardQueuedPayload{OutboxID: outboxEntry.ID, Endpoint: outboxEntry.Endpoint},
		})
		s.pushForwardNow(ctx, outboxEntry)
	}
	return ticket, nil
}

// buildForwardEntry assembles an outbox entry when the company has PMO
// forwarding configured; returns nil when it does not.
func (s *TicketService) buildForwardEntry(ctx context.Context, ticket *domain.Ticket) (*repository.PMOOutboxEntry, error) {
	company, err := s.companies.GetByID(ctx, ticket.CompanyID)
	if err != nil {
		return nil, err
	}
	if !company.PMO.ForwardingConfigured() {
		return nil, nil
	}

	customer, err := s.customers.GetForCompany(ctx, ticket.CompanyID, ticket.CustomerID)
	if err != nil {
		return nil, err
	}
	ticketType, err := s.types.GetForCompany(ctx, ticket.CompanyID, ticket.TypeID)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.GetForCompany(ctx, ticket.CompanyID, ticket.CategoryID)
	if err != nil {
		return nil, err
	}
	creator, err := s.users.GetByID(ctx, ticket.CreatedByUserID)
	if err != nil {
		return nil, err
	}

	payload, err := pmo.EncodePayload(pmo.ForwardPayload{
		TicketNumber: ticket.TicketNumber,
		Title:        ticket.Title,
		Description:  ticket.Description,
		Type:         ticketType.Name,
		Category:     category.Name,
		Customer:     customer.Name,
		CreatedBy:    creator.Name,
		CreatedAt:    ticket.CreatedAt,
		FormData:     ticket.FormData,
	})
	if err != nil {
		return nil, err
	}

	return &repository.PMOOutboxEntry{
		TicketID:  ticket.ID,
		CompanyID: ticket.CompanyID,
		Endpoint:  company.PMO.Endpoint,
		APIKey:    company.PMO.APIKey,
		Payload:   payload,
		Status:    repository.OutboxStatusPending,
	}, nil
}

// pushForwardNow makes one immediate delivery attempt. Failures are soft; the
// entry stays pending for the background worker to retry.
func (s *TicketService) pushForwardNow(ctx context.Context, entry *repository.PMOOutboxEntry) {
	if s.pmoClient == nil {
		return
	}
	if err := s.pmoClient.Push(ctx, entry.Endpoint, entry.APIKey, entry.Payload); err != nil {
		s.logger.Warn("pmo push deferred to worker",
			zap.String("outbox_id", entry.ID), zap.Error(err))
		return
	}
	if err := s.outbox.MarkSent(ctx, entry.ID); err != nil {
		s.logger.Warn("pmo outbox not marked sent", zap.String("outbox_id", entry.ID), zap.Error(err))
	}
}

// AddComment appends a thread entry. Customers may only post public comments
// on their own tickets; terminal tickets remain commentable.
func (s *TicketService) AddComment(ctx context.Context, actor Actor, ticketID, content string, internal bool) (*domain.TicketComment, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if internal && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("only admins can post internal comments")
	}

	ticket, err := s.loadScoped(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	comment, err := ticket.NewComment(actor.UserID, content, internal)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Comments.Create(ctx, comment); err != nil {
			return err
		}
		desc := "comment added"
		return repos.History.Create(ctx, &domain.TicketHistory{
			TicketID:    ticket.ID,
			UserID:      actor.UserID,
			Action:      domain.HistoryActionCommentAdded,
			Description: &desc,
			CreatedAt:   comment.CreatedAt,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCommentAdded,
		TicketID:  ticket.ID,
		CompanyID: ticket.CompanyID,
		Actor:     events.Actor{UserID: actor.UserID, Role: actor.Role},
		Payload: events.TicketCommentAddedPayload{
			CommentID:  comment.ID,
			IsInternal: comment.IsInternal,
			Preview:    preview(comment.Content, 120),
		},
	})
	return comment, nil
}

// RateTicket records customer satisfaction on the actor's own resolved or
// closed ticket.
func (s *TicketService) RateTicket(ctx context.Context, actor Actor, ticketID string, rating int, feedback string) (*domain.Ticket, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if !actor.IsCustomer() {
		return nil, apperrors.NewForbidden("only customers can rate tickets")
	}

	ticket, err := s.loadScoped(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	entry, err := ticket.Rate(actor.UserID, rating, feedback)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		return repos.History.Create(ctx, entry)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketRated,
		TicketID:  ticket.ID,
		CompanyID: ticket.CompanyID,
		Actor:     events.Actor{UserID: actor.UserID, Role: actor.Role},
		Payload:   events.TicketRatedPayload{Rating: rating, Feedback: feedback},
	})
	return ticket, nil
}

// ListTickets returns tickets visible to the actor. Customers only ever see
// their own customer's tickets.
func (s *TicketService) ListTickets(ctx context.Context, actor Actor, filter TicketListFilter) ([]domain.Ticket, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	repoFilter := repository.TicketFilter{
		CompanyID:   actor.CompanyID,
		CustomerID:  filter.CustomerID,
		TypeID:      filter.TypeID,
		CategoryID:  filter.CategoryID,
		AssigneeID:  filter.AssigneeID,
		Statuses:    filter.Statuses,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		OverdueOnly: filter.OverdueOnly,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	if actor.IsCustomer() {
		repoFilter.CustomerID = actor.CustomerID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket loads a ticket with its thread, audit trail and attachments.
// Internal comments are withheld from customers.
func (s *TicketService) GetTicket(ctx context.Context, actor Actor, ticketID string) (*TicketDetail, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	ticket, err := s.loadScoped(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID, actor.IsAdmin())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	detail := &TicketDetail{
		Ticket:      ticket,
		Comments:    comments,
		History:     history,
		Attachments: attachments,
	}
	if actor.IsAdmin() {
		detail.Actions = ticket.AvailableActions()
	}
	return detail, nil
}

// loadScoped fetches a ticket within the actor's tenant. Cross-tenant and
// cross-customer lookups surface as not found, never as forbidden.
func (s *TicketService) loadScoped(ctx context.Context, actor Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetForCompany(ctx, actor.CompanyID, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if actor.IsCustomer() && ticket.CustomerID != *actor.CustomerID {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	return ticket, nil
}

func (s *TicketService) resolveCustomer(ctx context.Context, actor Actor, requested *string) (string, error) {
	if actor.IsCustomer() {
		if requested != nil && *requested != *actor.CustomerID {
			return "", apperrors.NewForbidden("customers can only file tickets for themselves")
		}
		return *actor.CustomerID, nil
	}
	if requested == nil || *requested == "" {
		return "", apperrors.NewInvalidArgument("customerId is required", map[string]any{"field": "customerId"})
	}
	customer, err := s.customers.GetForCompany(ctx, actor.CompanyID, *requested)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	if !customer.IsActive {
		return "", apperrors.NewInvalidArgument("customer is inactive", map[string]any{"field": "customerId"})
	}
	return customer.ID, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func formatTicketNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("TKT-%s-%04d", at.Format("200601"), seq)
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
