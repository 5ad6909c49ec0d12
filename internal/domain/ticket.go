package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusUnderReview TicketStatus = "UNDER_REVIEW"
	TicketStatusInProgress  TicketStatus = "IN_PROGRESS"
	TicketStatusResolved    TicketStatus = "RESOLVED"
	TicketStatusClosed      TicketStatus = "CLOSED"
	TicketStatusRejected    TicketStatus = "REJECTED"
)

var validStatuses = map[TicketStatus]bool{
	TicketStatusUnderReview: true,
	TicketStatusInProgress:  true,
	TicketStatusResolved:    true,
	TicketStatusClosed:      true,
	TicketStatusRejected:    true,
}

// statusTransitions is the authoritative transition table. CLOSED and
// REJECTED are terminal.
var statusTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusUnderReview: {TicketStatusInProgress, TicketStatusRejected},
	TicketStatusInProgress:  {TicketStatusResolved, TicketStatusRejected},
	TicketStatusResolved:    {TicketStatusClosed},
	TicketStatusClosed:      {},
	TicketStatusRejected:    {},
}

// IsValid reports whether the status is a known lifecycle state.
func (s TicketStatus) IsValid() bool {
	return validStatuses[s]
}

// CanTransitionTo consults the transition table.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, candidate := range statusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no forward transition exists.
func (s TicketStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// TicketAction is a labelled lifecycle operation exposed to callers.
type TicketAction string

const (
	ActionApprove TicketAction = "Approve"
	ActionReject  TicketAction = "Reject"
	ActionResolve TicketAction = "Resolve"
	ActionClose   TicketAction = "Close"
)

var statusActions = map[TicketStatus][]TicketAction{
	TicketStatusUnderReview: {ActionApprove, ActionReject},
	TicketStatusInProgress:  {ActionResolve, ActionReject},
	TicketStatusResolved:    {ActionClose},
	TicketStatusClosed:      {},
	TicketStatusRejected:    {},
}

// Ticket is the aggregate root of the helpdesk lifecycle. Status is mutated
// exclusively through the guarded operations below; repositories persist
// whatever the operations produced.
type Ticket struct {
	ID               string
	CompanyID        string
	CustomerID       string
	TypeID           string
	CategoryID       string
	CategoryModuleID *string
	CreatedByUserID  string
	AssignedToUserID *string
	TicketNumber     string
	Title            string
	Description      string
	Status           TicketStatus
	FormData         FormData
	Resolution       *string
	Rating           *int
	RatingFeedback   *string
	SubmittedAt      time.Time
	ApprovedAt       *time.Time
	CompletedAt      *time.Time
	ClosedAt         *time.Time
	RejectedAt       *time.Time
	ResolvedAt       *time.Time
	DueDate          *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StatusChange bundles the side-effect records a successful transition
// produced; the caller persists them together with the ticket.
type StatusChange struct {
	History TicketHistory
	Comment *TicketComment
}

// Approve moves an under-review ticket into progress and self-assigns the
// approving actor.
func (t *Ticket) Approve(actorID, comment string) (*StatusChange, error) {
	if t.Status != TicketStatusUnderReview {
		return nil, t.invalidTransition(ActionApprove, "ticket can only be approved while under review")
	}
	now := time.Now()
	old := t.Status
	t.Status = TicketStatusInProgress
	t.ApprovedAt = &now
	t.AssignedToUserID = &actorID

	change := &StatusChange{History: t.statusHistory(actorID, old, t.Status, "ticket approved and moved to in progress", now)}
	if content := strings.TrimSpace(comment); content != "" {
		change.Comment = t.comment(actorID, content, true, now)
	}
	return change, nil
}

// Reject terminates a ticket with a mandatory reason. The reason is stored as
// the resolution text and echoed as a public comment.
func (t *Ticket) Reject(actorID, reason string) (*StatusChange, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewInvalidArgument("rejection reason is required", map[string]any{"field": "reason"})
	}
	if t.Status != TicketStatusUnderReview && t.Status != TicketStatusInProgress {
		return nil, t.invalidTransition(ActionReject, "ticket can only be rejected while under review or in progress")
	}
	now := time.Now()
	old := t.Status
	t.Status = TicketStatusRejected
	t.RejectedAt = &now
	t.ResolvedAt = &now
	t.Resolution = &reason

	change := &StatusChange{
		History: t.statusHistory(actorID, old, t.Status, fmt.Sprintf("ticket rejected: %s", reason), now),
		Comment: t.comment(actorID, reason, false, now),
	}
	return change, nil
}

// Resolve completes work on an in-progress ticket. A non-blank comment becomes
// the resolution text and a public comment.
func (t *Ticket) Resolve(actorID, comment string) (*StatusChange, error) {
	if t.Status != TicketStatusInProgress {
		return nil, t.invalidTransition(ActionResolve, "ticket can only be resolved while in progress")
	}
	now := time.Now()
	old := t.Status
	t.Status = TicketStatusResolved
	t.CompletedAt = &now
	t.ResolvedAt = &now

	change := &StatusChange{History: t.statusHistory(actorID, old, t.Status, "ticket resolved", now)}
	if content := strings.TrimSpace(comment); content != "" {
		t.Resolution = &content
		change.Comment = t.comment(actorID, content, false, now)
	}
	return change, nil
}

// Close finalizes a resolved ticket.
func (t *Ticket) Close(actorID, comment string) (*StatusChange, error) {
	if t.Status != TicketStatusResolved {
		return nil, t.invalidTransition(ActionClose, "ticket can only be closed once resolved")
	}
	now := time.Now()
	old := t.Status
	t.Status = TicketStatusClosed
	t.ClosedAt = &now

	change := &StatusChange{History: t.statusHistory(actorID, old, t.Status, "ticket closed", now)}
	if content := strings.TrimSpace(comment); content != "" {
		change.Comment = t.comment(actorID, content, false, now)
	}
	return change, nil
}

// NewComment appends a thread entry. Legal in every state, including terminal
// ones.
func (t *Ticket) NewComment(actorID, content string, internal bool) (*TicketComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewInvalidArgument("comment content is required", map[string]any{"field": "content"})
	}
	return t.comment(actorID, content, internal, time.Now()), nil
}

// Rate records customer satisfaction on a resolved or closed ticket.
func (t *Ticket) Rate(actorID string, rating int, feedback string) (*TicketHistory, error) {
	if t.Status != TicketStatusResolved && t.Status != TicketStatusClosed {
		return nil, apperrors.NewInvalidTransition("ticket can only be rated once resolved or closed", map[string]any{
			"status": string(t.Status),
		})
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewInvalidArgument("rating must be between 1 and 5", map[string]any{"field": "rating"})
	}
	if t.Rating != nil {
		return nil, apperrors.NewConflict("ticket already rated", nil)
	}
	now := time.Now()
	t.Rating = &rating
	if fb := strings.TrimSpace(feedback); fb != "" {
		t.RatingFeedback = &fb
	}
	value := fmt.Sprintf("%d", rating)
	desc := "satisfaction rating recorded"
	entry := TicketHistory{
		TicketID:    t.ID,
		UserID:      actorID,
		Action:      HistoryActionRatingAdded,
		NewValue:    &value,
		Description: &desc,
		CreatedAt:   now,
	}
	return &entry, nil
}

// IsOpen is false only for terminal tickets.
func (t *Ticket) IsOpen() bool {
	return t.Status != TicketStatusClosed && t.Status != TicketStatusRejected
}

// CanAct reports whether any lifecycle action is currently available.
func (t *Ticket) CanAct() bool {
	return len(statusActions[t.Status]) > 0
}

// AvailableActions lists the labelled actions permitted in the current state.
func (t *Ticket) AvailableActions() []TicketAction {
	actions := statusActions[t.Status]
	out := make([]TicketAction, len(actions))
	copy(out, actions)
	return out
}

// TimeToResolve returns the submit-to-resolve duration; ok is false while the
// ticket is unresolved.
func (t *Ticket) TimeToResolve() (time.Duration, bool) {
	if t.ResolvedAt == nil {
		return 0, false
	}
	return t.ResolvedAt.Sub(t.SubmittedAt), true
}

// IsOverdue reports whether an open ticket has sailed past its due date.
func (t *Ticket) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.IsOpen()
}

func (t *Ticket) invalidTransition(action TicketAction, message string) error {
	return apperrors.NewInvalidTransition(message, map[string]any{
		"action": string(action),
		"status": string(t.Status),
	})
}

func (t *Ticket) statusHistory(actorID string, old, next TicketStatus, description string, at time.Time) TicketHistory {
	oldVal := string(old)
	newVal := string(next)
	return TicketHistory{
		TicketID:    t.ID,
		UserID:      actorID,
		Action:      HistoryActionStatusChanged,
		OldValue:    &oldVal,
		NewValue:    &newVal,
		Description: &description,
		CreatedAt:   at,
	}
}

func (t *Ticket) comment(actorID, content string, internal bool, at time.Time) *TicketComment {
	return &TicketComment{
		TicketID:   t.ID,
		UserID:     actorID,
		Content:    content,
		IsInternal: internal,
		CreatedAt:  at,
	}
}
