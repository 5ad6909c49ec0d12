package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/pmo"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type stubOutbox struct {
	entries []repository.PMOOutboxEntry

	sent   []string
	failed []struct {
		ID        string
		LastError string
		Exhausted bool
	}
}

func (s *stubOutbox) Enqueue(ctx context.Context, entry *repository.PMOOutboxEntry) error {
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *stubOutbox) ListPending(ctx context.Context, limit int) ([]repository.PMOOutboxEntry, error) {
	if limit < len(s.entries) {
		return s.entries[:limit], nil
	}
	return s.entries, nil
}

func (s *stubOutbox) MarkSent(ctx context.Context, id string) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *stubOutbox) MarkAttemptFailed(ctx context.Context, id string, lastError string, exhausted bool) error {
	s.failed = append(s.failed, struct {
		ID        string
		LastError string
		Exhausted bool
	}{id, lastError, exhausted})
	return nil
}

func workerConfig() config.PMOConfig {
	return config.PMOConfig{
		PollIntervalSeconds:   1,
		RequestTimeoutSeconds: 2,
		MaxAttempts:           3,
		BatchSize:             10,
	}
}

func TestPMOWorker_Drain(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers pending entries and marks them sent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		outbox := &stubOutbox{entries: []repository.PMOOutboxEntry{
			{ID: "out-1", TicketID: "tkt-1", Endpoint: server.URL, Payload: []byte(`{}`)},
			{ID: "out-2", TicketID: "tkt-2", Endpoint: server.URL, Payload: []byte(`{}`)},
		}}
		w := NewPMOWorker(outbox, pmo.NewClient(time.Second), workerConfig(), zap.NewNop())

		w.drain(ctx)

		assert.Equal(t, []string{"out-1", "out-2"}, outbox.sent)
		assert.Empty(t, outbox.failed)
	})

	t.Run("failed push records the attempt", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		outbox := &stubOutbox{entries: []repository.PMOOutboxEntry{
			{ID: "out-1", TicketID: "tkt-1", Endpoint: server.URL, Payload: []byte(`{}`), Attempts: 0},
		}}
		w := NewPMOWorker(outbox, pmo.NewClient(time.Second), workerConfig(), zap.NewNop())

		w.drain(ctx)

		assert.Empty(t, outbox.sent)
		require.Len(t, outbox.failed, 1)
		assert.Equal(t, "out-1", outbox.failed[0].ID)
		assert.NotEmpty(t, outbox.failed[0].LastError)
		assert.False(t, outbox.failed[0].Exhausted, "first failure keeps the entry retryable")
	})

	t.Run("final attempt marks the entry exhausted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		outbox := &stubOutbox{entries: []repository.PMOOutboxEntry{
			{ID: "out-1", TicketID: "tkt-1", Endpoint: server.URL, Payload: []byte(`{}`), Attempts: 2},
		}}
		w := NewPMOWorker(outbox, pmo.NewClient(time.Second), workerConfig(), zap.NewNop())

		w.drain(ctx)

		require.Len(t, outbox.failed, 1)
		assert.True(t, outbox.failed[0].Exhausted)
	})

	t.Run("respects the batch size", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		outbox := &stubOutbox{}
		for i := 0; i < 5; i++ {
			outbox.entries = append(outbox.entries, repository.PMOOutboxEntry{
				ID: string(rune('a' + i)), Endpoint: server.URL, Payload: []byte(`{}`),
			})
		}
		cfg := workerConfig()
		cfg.BatchSize = 2
		w := NewPMOWorker(outbox, pmo.NewClient(time.Second), cfg, zap.NewNop())

		w.drain(ctx)

		assert.Len(t, outbox.sent, 2)
	})
}

func TestPMOWorker_RunStopsOnCancel(t *testing.T) {
	outbox := &stubOutbox{}
	w := NewPMOWorker(outbox, pmo.NewClient(time.Second), workerConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
