package repository

import (
	"context"
	"time"
)

// TicketAttachment stores metadata for files attached to a ticket. Only the
// metadata lives here; the blob itself is an external concern.
type TicketAttachment struct {
	ID         string
	TicketID   string
	UploadedBy string
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}

// AttachmentRepository persists ticket attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *TicketAttachment) error
	ListByTicket(ctx context.Context, ticketID string) ([]TicketAttachment, error)
}

type attachmentRepository struct {
	db Querier
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(db Querier) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *TicketAttachment) error {
	const query = `
        INSERT INTO ticket_attachments (ticket_id, uploaded_by_user_id, storage_key, file_name, mime_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		attachment.TicketID,
		attachment.UploadedBy,
		attachment.StorageKey,
		attachment.FileName,
		attachment.MimeType,
		attachment.SizeBytes,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]TicketAttachment, error) {
	const query = `
        SELECT id, ticket_id, uploaded_by_user_id, storage_key, file_name, mime_type, size_bytes, created_at
        FROM ticket_attachments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TicketAttachment
	for rows.Next() {
		var attachment TicketAttachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.TicketID,
			&attachment.UploadedBy,
			&attachment.StorageKey,
			&attachment.FileName,
			&attachment.MimeType,
			&attachment.SizeBytes,
			&attachment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}
