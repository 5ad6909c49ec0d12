package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// CreateTicketRequest is the submission wizard payload.
type CreateTicketRequest struct {
	CustomerID       *string             `json:"customer_id"`
	TypeID           string              `json:"type_id"`
	CategoryID       string              `json:"category_id"`
	CategoryModuleID *string             `json:"category_module_id"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	FormData         domain.FormData     `json:"form_data"`
	DueDate          *time.Time          `json:"due_date"`
	Attachments      []AttachmentRequest `json:"attachments"`
}

// AttachmentRequest describes attachment input.
type AttachmentRequest struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// ActionRequest carries the optional comment for approve, resolve and close.
type ActionRequest struct {
	Comment string `json:"comment"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// CommentRequest payload.
type CommentRequest struct {
	Content    string `json:"content"`
	IsInternal bool   `json:"is_internal"`
}

// RateRequest payload.
type RateRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// TicketSummary is the listing row.
type TicketSummary struct {
	ID           string              `json:"id"`
	TicketNumber string              `json:"ticket_number"`
	CustomerID   string              `json:"customer_id"`
	TypeID       string              `json:"type_id"`
	CategoryID   string              `json:"category_id"`
	Title        string              `json:"title"`
	Status       domain.TicketStatus `json:"status"`
	AssignedTo   *string             `json:"assigned_to"`
	DueDate      *time.Time          `json:"due_date"`
	SubmittedAt  time.Time           `json:"submitted_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID               string                `json:"id"`
	TicketNumber     string                `json:"ticket_number"`
	CustomerID       string                `json:"customer_id"`
	TypeID           string                `json:"type_id"`
	CategoryID       string                `json:"category_id"`
	CategoryModuleID *string               `json:"category_module_id"`
	CreatedBy        string                `json:"created_by"`
	AssignedTo       *string               `json:"assigned_to"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Status           domain.TicketStatus   `json:"status"`
	FormData         domain.FormData       `json:"form_data"`
	Resolution       *string               `json:"resolution"`
	Rating           *int                  `json:"rating"`
	RatingFeedback   *string               `json:"rating_feedback"`
	SubmittedAt      time.Time             `json:"submitted_at"`
	ApprovedAt       *time.Time            `json:"approved_at"`
	CompletedAt      *time.Time            `json:"completed_at"`
	ClosedAt         *time.Time            `json:"closed_at"`
	RejectedAt       *time.Time            `json:"rejected_at"`
	ResolvedAt       *time.Time            `json:"resolved_at"`
	DueDate          *time.Time            `json:"due_date"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	Comments         []CommentResponse     `json:"comments"`
	History          []HistoryResponse     `json:"history"`
	Attachments      []AttachmentResponse  `json:"attachments"`
	AvailableActions []domain.TicketAction `json:"available_actions,omitempty"`
}

// CommentResponse represents one thread entry.
type CommentResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// HistoryResponse represents one audit trail entry.
type HistoryResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	Action      domain.HistoryAction `json:"action"`
	OldValue    *string              `json:"old_value"`
	NewValue    *string              `json:"new_value"`
	Description *string              `json:"description"`
	CreatedAt   time.Time            `json:"created_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// NewTicketSummary maps a ticket to its listing row.
func NewTicketSummary(ticket domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		CustomerID:   ticket.CustomerID,
		TypeID:       ticket.TypeID,
		CategoryID:   ticket.CategoryID,
		Title:        ticket.Title,
		Status:       ticket.Status,
		AssignedTo:   ticket.AssignedToUserID,
		DueDate:      ticket.DueDate,
		SubmittedAt:  ticket.SubmittedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

// NewTicketSummaries maps a ticket slice.
func NewTicketSummaries(tickets []domain.Ticket) []TicketSummary {
	out := make([]TicketSummary, 0, len(tickets))
	for _, ticket := range tickets {
		out = append(out, NewTicketSummary(ticket))
	}
	return out
}

// NewTicketDetail maps a loaded detail to its response.
func NewTicketDetail(detail *service.TicketDetail) TicketDetailResponse {
	ticket := detail.Ticket
	resp := TicketDetailResponse{
		ID:               ticket.ID,
		TicketNumber:     ticket.TicketNumber,
		CustomerID:       ticket.CustomerID,
		TypeID:           ticket.TypeID,
		CategoryID:       ticket.CategoryID,
		CategoryModuleID: ticket.CategoryModuleID,
		CreatedBy:        ticket.CreatedByUserID,
		AssignedTo:       ticket.AssignedToUserID,
		Title:            ticket.Title,
		Description:      ticket.Description,
		Status:           ticket.Status,
		FormData:         ticket.FormData,
		Resolution:       ticket.Resolution,
		Rating:           ticket.Rating,
		RatingFeedback:   ticket.RatingFeedback,
		SubmittedAt:      ticket.SubmittedAt,
		ApprovedAt:       ticket.ApprovedAt,
		CompletedAt:      ticket.CompletedAt,
		ClosedAt:         ticket.ClosedAt,
		RejectedAt:       ticket.RejectedAt,
		ResolvedAt:       ticket.ResolvedAt,
		DueDate:          ticket.DueDate,
		CreatedAt:        ticket.CreatedAt,
		UpdatedAt:        ticket.UpdatedAt,
		Comments:         make([]CommentResponse, 0, len(detail.Comments)),
		History:          make([]HistoryResponse, 0, len(detail.History)),
		Attachments:      make([]AttachmentResponse, 0, len(detail.Attachments)),
		AvailableActions: detail.Actions,
	}
	for _, comment := range detail.Comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(comment))
	}
	for _, entry := range detail.History {
		resp.History = append(resp.History, HistoryResponse{
			ID:          entry.ID,
			UserID:      entry.UserID,
			Action:      entry.Action,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt,
		})
	}
	for _, att := range detail.Attachments {
		resp.Attachments = append(resp.Attachments, NewAttachmentResponse(att))
	}
	return resp
}

// NewCommentResponse maps a comment.
func NewCommentResponse(comment domain.TicketComment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		UserID:     comment.UserID,
		Content:    comment.Content,
		IsInternal: comment.IsInternal,
		CreatedAt:  comment.CreatedAt,
	}
}

// NewAttachmentResponse maps attachment metadata.
func NewAttachmentResponse(att repository.TicketAttachment) AttachmentResponse {
	return AttachmentResponse{
		ID:        att.ID,
		FileName:  att.FileName,
		MimeType:  att.MimeType,
		SizeBytes: att.SizeBytes,
	}
}
