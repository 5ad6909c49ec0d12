package repository

import (
	"context"
	"time"
)

// PMOOutboxStatus tracks delivery state of a queued forward.
type PMOOutboxStatus string

const (
	OutboxStatusPending PMOOutboxStatus = "PENDING"
	OutboxStatusSent    PMOOutboxStatus = "SENT"
	OutboxStatusFailed  PMOOutboxStatus = "FAILED"
)

// PMOOutboxEntry is one queued push of an approved ticket to a tenant's PMO
// endpoint. The row is written in the approve transaction; the worker owns it
// afterwards.
type PMOOutboxEntry struct {
	ID        string
	TicketID  string
	CompanyID string
	Endpoint  string
	APIKey    string
	Payload   []byte
	Status    PMOOutboxStatus
	Attempts  int
	LastError *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PMOOutboxRepository persists the forward queue.
type PMOOutboxRepository interface {
	Enqueue(ctx context.Context, entry *PMOOutboxEntry) error
	ListPending(ctx context.Context, limit int) ([]PMOOutboxEntry, error)
	MarkSent(ctx context.Context, id string) error
	MarkAttemptFailed(ctx context.Context, id string, lastError string, exhausted bool) error
}

type pmoOutboxRepository struct {
	db Querier
}

// NewPMOOutboxRepository constructs repository.
func NewPMOOutboxRepository(db Querier) PMOOutboxRepository {
	return &pmoOutboxRepository{db: db}
}

func (r *pmoOutboxRepository) Enqueue(ctx context.Context, entry *PMOOutboxEntry) error {
	const query = `
        INSERT INTO pmo_outbox (ticket_id, company_id, endpoint, api_key, payload, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		entry.TicketID,
		entry.CompanyID,
		entry.Endpoint,
		entry.APIKey,
		entry.Payload,
		OutboxStatusPending,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *pmoOutboxRepository) ListPending(ctx context.Context, limit int) ([]PMOOutboxEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
        SELECT id, ticket_id, company_id, endpoint, api_key, payload, status, attempts, last_error, created_at, updated_at
        FROM pmo_outbox WHERE status=$1 ORDER BY created_at ASC LIMIT $2`
	rows, err := r.db.Query(ctx, query, OutboxStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PMOOutboxEntry
	for rows.Next() {
		var entry PMOOutboxEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.CompanyID,
			&entry.Endpoint,
			&entry.APIKey,
			&entry.Payload,
			&entry.Status,
			&entry.Attempts,
			&entry.LastError,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *pmoOutboxRepository) MarkSent(ctx context.Context, id string) error {
	const query = `
        UPDATE pmo_outbox SET status=$1, attempts=attempts+1, last_error=NULL, updated_at=NOW()
        WHERE id=$2`
	_, err := r.db.Exec(ctx, query, OutboxStatusSent, id)
	return err
}

func (r *pmoOutboxRepository) MarkAttemptFailed(ctx context.Context, id string, lastError string, exhausted bool) error {
	status := OutboxStatusPending
	if exhausted {
		status = OutboxStatusFailed
	}
	const query = `
        UPDATE pmo_outbox SET status=$1, attempts=attempts+1, last_error=$2, updated_at=NOW()
        WHERE id=$3`
	_, err := r.db.Exec(ctx, query, status, lastError, id)
	return err
}
