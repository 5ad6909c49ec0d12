package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func newTestTicket(status TicketStatus) *Ticket {
	now := time.Now().Add(-time.Hour)
	return &Ticket{
		ID:              "tkt-1",
		CompanyID:       "co-1",
		CustomerID:      "cust-1",
		TypeID:          "type-1",
		CategoryID:      "cat-1",
		CreatedByUserID: "user-1",
		TicketNumber:    "TKT-202609-0001",
		Title:           "VPN access broken",
		Description:     "Cannot connect since this morning",
		Status:          status,
		SubmittedAt:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    TicketStatus
		to      TicketStatus
		allowed bool
	}{
		{"under review to in progress", TicketStatusUnderReview, TicketStatusInProgress, true},
		{"under review to rejected", TicketStatusUnderReview, TicketStatusRejected, true},
		{"under review to resolved", TicketStatusUnderReview, TicketStatusResolved, false},
		{"under review to closed", TicketStatusUnderReview, TicketStatusClosed, false},
		{"in progress to resolved", TicketStatusInProgress, TicketStatusResolved, true},
		{"in progress to rejected", TicketStatusInProgress, TicketStatusRejected, true},
		{"in progress to closed", TicketStatusInProgress, TicketStatusClosed, false},
		{"in progress to under review", TicketStatusInProgress, TicketStatusUnderReview, false},
		{"resolved to closed", TicketStatusResolved, TicketStatusClosed, true},
		{"resolved to in progress", TicketStatusResolved, TicketStatusInProgress, false},
		{"resolved to rejected", TicketStatusResolved, TicketStatusRejected, false},
		{"closed is terminal", TicketStatusClosed, TicketStatusInProgress, false},
		{"rejected is terminal", TicketStatusRejected, TicketStatusInProgress, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestTicketStatus_IsTerminal(t *testing.T) {
	assert.False(t, TicketStatusUnderReview.IsTerminal())
	assert.False(t, TicketStatusInProgress.IsTerminal())
	assert.False(t, TicketStatusResolved.IsTerminal())
	assert.True(t, TicketStatusClosed.IsTerminal())
	assert.True(t, TicketStatusRejected.IsTerminal())
}

func TestTicket_Approve(t *testing.T) {
	t.Run("from under review", func(t *testing.T) {
		ticket := newTestTicket(TicketStatusUnderReview)

		change, err := ticket.Approve("admin-1", "")
		require.NoError(t, err)
		require.NotNil(t, change)

		assert.Equal(t, TicketStatusInProgress, ticket.Status)
		require.NotNil(t, ticket.ApprovedAt)
		require.NotNil(t, ticket.AssignedToUserID)
		assert.Equal(t, "admin-1", *ticket.AssignedToUserID)

		assert.Equal(t, HistoryActionStatusChanged, change.History.Action)
		require.NotNil(t, change.History.OldValue)
		require.NotNil(t, change.History.NewValue)
		assert.Equal(t, string(TicketStatusUnderReview), *change.History.OldValue)
		assert.Equal(t, string(TicketStatusInProgress), *change.History.NewValue)
		assert.Nil(t, change.Comment)
	})

	t.Run("with comment records internal note", func(t *testing.T) {
		ticket := newTestTicket(TicketStatusUnderReview)

		change, err := ticket.Approve("admin-1", "taking this one")
		require.NoError(t, err)
		require.NotNil(t, change.Comment)
		assert.Equal(t, "taking this one", change.Comment.Content)
		assert.True(t, change.Comment.IsInternal)
		assert.Equal(t, "admin-1", change.Comment.UserID)
	})

	t.Run("rejected from any other status", func(t *testing.T) {
		for _, status := range []TicketStatus{TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed, TicketStatusRejected} {
			ticket := newTestTicket(status)
			change, err := ticket.Approve("admin-1", "")
			require.Error(t, err, "status %s", status)
			assert.Nil(t, change)
			assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
			assert.Equal(t, status, ticket.Status, "failed approve must not mutate")
			assert.Nil(t, ticket.ApprovedAt)
			assert.Nil(t, ticket.AssignedToUserID)
		}
	})
}

func TestTicket_Reject(t *testing.T) {
	t.Run("blank reason fails regardless of status", func(t *testing.T) {
		for _, status := range []TicketStatus{TicketStatusUnderReview, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed, TicketStatusRejected} {
			ticket := newTestTicket(status)
			change, err := ticket.Reject("admin-1", "   ")
			require.Error(t, err, "status %s", status)
			assert.Nil(t, change)
			assert.True(t, apperrors.IsCode(err, "INVALID_ARGUMENT"))
			assert.Equal(t, status, ticket.Status)
		}
	})

	t.Run("from under review", func(t *testing.T) {
		ticket := newTestTicket(TicketStatusUnderReview)

		change, err := ticket.Reject("admin-1", "duplicate of TKT-202609-0002")
		require.NoError(t, err)

		assert.Equal(t, TicketStatusRejected, ticket.Status)
		require.NotNil(t, ticket.RejectedAt)
		require.NotNil(t, ticket.ResolvedAt)
		require.NotNil(t, ticket.Resolution)
		assert.Equal(t, "duplicate of TKT-202609-0002", *ticket.Resolution)

		require.NotNil(t, change.Comment)
		assert.False(t, change.Comment.IsInternal, "rejection reason must be visible to the customer")
		assert.Equal(t, "duplicate of TKT-202609-0002", change.Comment.Content)
	})

	t.Run("from in progress", func(t *testing.T) {
		ticket := newTestTicket(TicketStatusInProgress)

		_, err := ticket.Reject("admin-1", "cannot reproduce")
		require.NoError(t, err)
		assert.Equal(t, TicketStatusRejected, ticket.Status)
		assert.NotNil(t, ticket.RejectedAt)
		assert.NotNil(t, ticket.ResolvedAt)
	})

	t.Run("from terminal states", func(t *testing.T) {
		for _, status := range []TicketStatus{TicketStatusResolved, TicketStatusClosed, TicketStatusRejected} {
			ticket := newTestTicket(status)
			_, err := ticket.Reject("admin-1", "late rejection")
			require.Error(t, err, "status %s", status)
			assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
			assert.Equal(t, status, ticket.Status)
		}
	})
}

func TestTicket_Resolve(t *testing.T) {
	t.Run("from in progress without comment", func(t *testing.T) {
		ticket := newTestTicket(TicketStatusInProgress)

		change, err := ticket.Resolve("admin-1", "")
		require.NoError(t, err)

		assert.Equal(t, TicketStatusResolved, ticket.Status)
		assert.NotNil(t, ticket.CompletedAt)
		assert.NotNil(t, ticket.ResolvedAt)
		assert.Nil(t, ticket.Resolution)
		assert.Nil(t, change.Comment)
	})

	t.Run("comment becomes resolution and public comment", func(t *testing.T) {
		ticket := newTestTicket(TicketStatusInProgress)

		change, err := ticket.Resolve("admin-1", "reset the VPN certificate")
		require.NoError(t, err)

		require.NotNil(t, ticket.Resolution)
		assert.Equal(t, "reset the VPN certificate", *ticket.Resolution)
		require.NotNil(t, change.Comment)
		assert.False(t, change.Comment.IsInternal)
	})

	t.Run("only from in progress", func(t *testing.T) {
		for _, status := range []TicketStatus{TicketStatusUnderReview, TicketStatusResolved, TicketStatusClosed, TicketStatusRejected} {
			ticket := newTestTicket(status)
			_, err := ticket.Resolve("admin-1", "")
			require.Error(t, err, "status %s", status)
			assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
		}
	})
}

func TestTicket_Close(t *testing.T) {
	t.Run("from resolved", func(t *testing.T) {
		ticket := newTestTicket(TicketStatusResolved)

		change, err := ticket.Close("admin-1", "")
		require.NoError(t, err)

		assert.Equal(t, TicketStatusClosed, ticket.Status)
		assert.NotNil(t, ticket.ClosedAt)
		assert.Nil(t, change.Comment)
	})

	t.Run("only from resolved", func(t *testing.T) {
		for _, status := range []TicketStatus{TicketStatusUnderReview, TicketStatusInProgress, TicketStatusClosed, TicketStatusRejected} {
			ticket := newTestTicket(status)
			_, err := ticket.Close("admin-1", "")
			require.Error(t, err, "status %s", status)
			assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
			assert.Nil(t, ticket.ClosedAt)
		}
	})
}

func TestTicket_FullLifecycle(t *testing.T) {
	ticket := newTestTicket(TicketStatusUnderReview)

	_, err := ticket.Approve("admin-1", "")
	require.NoError(t, err)
	_, err = ticket.Resolve("admin-1", "done")
	require.NoError(t, err)
	_, err = ticket.Close("admin-1", "")
	require.NoError(t, err)

	assert.Equal(t, TicketStatusClosed, ticket.Status)
	assert.NotNil(t, ticket.ApprovedAt)
	assert.NotNil(t, ticket.CompletedAt)
	assert.NotNil(t, ticket.ClosedAt)
	assert.False(t, ticket.IsOpen())
	assert.False(t, ticket.CanAct())
}

func TestTicket_NewComment(t *testing.T) {
	t.Run("blank content rejected", func(t *testing.T) {
		ticket := newTestTicket(TicketStatusInProgress)
		comment, err := ticket.NewComment("user-1", "  ", false)
		require.Error(t, err)
		assert.Nil(t, comment)
		assert.True(t, apperrors.IsCode(err, "INVALID_ARGUMENT"))
	})

	t.Run("allowed on terminal tickets", func(t *testing.T) {
		for _, status := range []TicketStatus{TicketStatusClosed, TicketStatusRejected} {
			ticket := newTestTicket(status)
			comment, err := ticket.NewComment("user-1", "thanks anyway", false)
			require.NoError(t, err, "status %s", status)
			assert.Equal(t, "thanks anyway", comment.Content)
		}
	})
}

func TestTicket_Rate(t *testing.T) {
	t.Run("only on resolved or closed", func(t *testing.T) {
		for _, status := range []TicketStatus{TicketStatusUnderReview, TicketStatusInProgress, TicketStatusRejected} {
			ticket := newTestTicket(status)
			_, err := ticket.Rate("user-1", 5, "")
			require.Error(t, err, "status %s", status)
			assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
			assert.Nil(t, ticket.Rating)
		}
	})

	t.Run("range enforced", func(t *testing.T) {
		for _, rating := range []int{0, -1, 6} {
			ticket := newTestTicket(TicketStatusResolved)
			_, err := ticket.Rate("user-1", rating, "")
			require.Error(t, err, "rating %d", rating)
			assert.True(t, apperrors.IsCode(err, "INVALID_ARGUMENT"))
		}
	})

	t.Run("records rating with feedback", func(t *testing.T) {
		ticket := newTestTicket(TicketStatusClosed)

		entry, err := ticket.Rate("user-1", 4, "quick turnaround")
		require.NoError(t, err)

		require.NotNil(t, ticket.Rating)
		assert.Equal(t, 4, *ticket.Rating)
		require.NotNil(t, ticket.RatingFeedback)
		assert.Equal(t, "quick turnaround", *ticket.RatingFeedback)
		assert.Equal(t, HistoryActionRatingAdded, entry.Action)
		require.NotNil(t, entry.NewValue)
		assert.Equal(t, "4", *entry.NewValue)
	})

	t.Run("only once", func(t *testing.T) {
		ticket := newTestTicket(TicketStatusResolved)
		_, err := ticket.Rate("user-1", 5, "")
		require.NoError(t, err)

		_, err = ticket.Rate("user-1", 3, "")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "CONFLICT"))
		assert.Equal(t, 5, *ticket.Rating)
	})
}

func TestTicket_IsOpen(t *testing.T) {
	tests := []struct {
		status TicketStatus
		open   bool
	}{
		{TicketStatusUnderReview, true},
		{TicketStatusInProgress, true},
		{TicketStatusResolved, true},
		{TicketStatusClosed, false},
		{TicketStatusRejected, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.open, newTestTicket(tc.status).IsOpen(), "status %s", tc.status)
	}
}

func TestTicket_AvailableActions(t *testing.T) {
	assert.ElementsMatch(t, []TicketAction{ActionApprove, ActionReject}, newTestTicket(TicketStatusUnderReview).AvailableActions())
	assert.ElementsMatch(t, []TicketAction{ActionResolve, ActionReject}, newTestTicket(TicketStatusInProgress).AvailableActions())
	assert.ElementsMatch(t, []TicketAction{ActionClose}, newTestTicket(TicketStatusResolved).AvailableActions())
	assert.Empty(t, newTestTicket(TicketStatusClosed).AvailableActions())
	assert.Empty(t, newTestTicket(TicketStatusRejected).AvailableActions())
}

func TestTicket_TimeToResolve(t *testing.T) {
	ticket := newTestTicket(TicketStatusInProgress)
	_, ok := ticket.TimeToResolve()
	assert.False(t, ok)

	_, err := ticket.Resolve("admin-1", "")
	require.NoError(t, err)

	elapsed, ok := ticket.TimeToResolve()
	require.True(t, ok)
	assert.Greater(t, elapsed, time.Duration(0))
}

func TestTicket_IsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	ticket := newTestTicket(TicketStatusInProgress)
	assert.False(t, ticket.IsOverdue(now), "no due date")

	ticket.DueDate = &future
	assert.False(t, ticket.IsOverdue(now))

	ticket.DueDate = &past
	assert.True(t, ticket.IsOverdue(now))

	closed := newTestTicket(TicketStatusClosed)
	closed.DueDate = &past
	assert.False(t, closed.IsOverdue(now), "terminal tickets are never overdue")
}
