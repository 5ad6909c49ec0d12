package domain

import "time"

// HistoryAction labels what a history entry records.
type HistoryAction string

const (
	HistoryActionCreated       HistoryAction = "Created"
	HistoryActionStatusChanged HistoryAction = "StatusChanged"
	HistoryActionCommentAdded  HistoryAction = "CommentAdded"
	HistoryActionRatingAdded   HistoryAction = "RatingAdded"
)

// TicketHistory is an immutable audit trail entry. Entries are created only as
// a side effect of ticket mutations and are never updated or deleted.
type TicketHistory struct {
	ID          string
	TicketID    string
	UserID      string
	Action      HistoryAction
	OldValue    *string
	NewValue    *string
	Description *string
	CreatedAt   time.Time
}
