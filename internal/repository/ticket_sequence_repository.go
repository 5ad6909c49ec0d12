package repository

import "context"

// TicketSequenceRepository allocates tenant-scoped monotonic ticket numbers.
// Next must run inside the same transaction as the ticket insert so a failed
// create never burns a number.
type TicketSequenceRepository interface {
	Next(ctx context.Context, companyID, period string) (int64, error)
}

type ticketSequenceRepository struct {
	db Querier
}

// NewTicketSequenceRepository constructs repository.
func NewTicketSequenceRepository(db Querier) TicketSequenceRepository {
	return &ticketSequenceRepository{db: db}
}

func (r *ticketSequenceRepository) Next(ctx context.Context, companyID, period string) (int64, error) {
	const query = `
        INSERT INTO ticket_sequences (company_id, period, value)
        VALUES ($1,$2,1)
        ON CONFLICT (company_id, period)
        DO UPDATE SET value = ticket_sequences.value + 1
        RETURNING value`
	var value int64
	if err := r.db.QueryRow(ctx, query, companyID, period).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}
