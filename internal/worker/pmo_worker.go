package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/pmo"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// PMOWorker drains the forward outbox, retrying failed pushes until the
// attempt budget is exhausted.
type PMOWorker struct {
	outbox repository.PMOOutboxRepository
	client *pmo.Client
	cfg    config.PMOConfig
	logger *zap.Logger
}

// NewPMOWorker constructs the worker.
func NewPMOWorker(outbox repository.PMOOutboxRepository, client *pmo.Client, cfg config.PMOConfig, logger *zap.Logger) *PMOWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PMOWorker{outbox: outbox, client: client, cfg: cfg, logger: logger}
}

// Run polls the outbox until ctx is cancelled.
func (w *PMOWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval())
	defer ticker.Stop()

	w.logger.Info("pmo worker started",
		zap.Duration("poll_interval", w.cfg.PollInterval()),
		zap.Int("max_attempts", w.cfg.MaxAttempts))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("pmo worker stopped")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *PMOWorker) drain(ctx context.Context) {
	entries, err := w.outbox.ListPending(ctx, w.cfg.BatchSize)
	if err != nil {
		w.logger.Warn("pmo outbox poll failed", zap.Error(err))
		return
	}
	for _, entry := range entries {
		w.deliver(ctx, entry)
	}
}

func (w *PMOWorker) deliver(ctx context.Context, entry repository.PMOOutboxEntry) {
	pushCtx, cancel := context.WithTimeout(ctx, w.cfg.RequestTimeout())
	defer cancel()

	if err := w.client.Push(pushCtx, entry.Endpoint, entry.APIKey, entry.Payload); err != nil {
		exhausted := entry.Attempts+1 >= w.cfg.MaxAttempts
		if markErr := w.outbox.MarkAttemptFailed(ctx, entry.ID, err.Error(), exhausted); markErr != nil {
			w.logger.Error("pmo outbox update failed", zap.String("outbox_id", entry.ID), zap.Error(markErr))
			return
		}
		w.logger.Warn("pmo push attempt failed",
			zap.String("outbox_id", entry.ID),
			zap.String("ticket_id", entry.TicketID),
			zap.Int("attempt", entry.Attempts+1),
			zap.Bool("exhausted", exhausted),
			zap.Error(err))
		return
	}

	if err := w.outbox.MarkSent(ctx, entry.ID); err != nil {
		w.logger.Error("pmo outbox update failed", zap.String("outbox_id", entry.ID), zap.Error(err))
		return
	}
	w.logger.Info("pmo push delivered",
		zap.String("outbox_id", entry.ID),
		zap.String("ticket_id", entry.TicketID))
}
