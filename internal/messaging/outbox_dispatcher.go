package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/bookcheckout/internal/db"
	"github.com/nikolayk812/bookcheckout/internal/metrics"
	"github.com/nikolayk812/bookcheckout/internal/port"
	"github.com/samber/lo"
)

const (
	// claimTTL is how long a claimed row stays invisible to other dispatchers.
	claimTTL       = 30 * time.Second
	publishTimeout = 5 * time.Second

	// maxBackoffShift caps retryDelay at 1<<5 seconds.
	maxBackoffShift = 5
)

// OutboxDispatcher publishes rows of order_outbox. Claiming uses SKIP LOCKED so several
// instances can run against one database, delivery is at least once.
type OutboxDispatcher struct {
	pool      *pgxpool.Pool
	q         *db.Queries
	publisher port.Publisher
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewOutboxDispatcher(pool *pgxpool.Pool, publisher port.Publisher, interval time.Duration, batch int, logger *slog.Logger, m *metrics.Metrics) *OutboxDispatcher {
	return &OutboxDispatcher{
		pool:      pool,
		q:         db.New(pool),
		publisher: publisher,
		interval:  interval,
		batchSize: batch,
		logger:    logger,
		metrics:   m,
	}
}

// Run dispatches until ctx is done.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if _, err := d.DispatchOnce(ctx); err != nil && ctx.Err() == nil {
			d.logger.Error("outbox dispatch failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// DispatchOnce claims one batch and publishes it, returning how many rows were sent.
func (d *OutboxDispatcher) DispatchOnce(ctx context.Context) (int, error) {
	rows, err := d.claimRows(ctx)
	if err != nil {
		return 0, fmt.Errorf("claimRows: %w", err)
	}

	sent := 0
	for _, row := range rows {
		if err := d.publishOne(ctx, row); err != nil {
			d.metrics.OutboxResult("failed")
			d.logger.Warn("publish outbox event failed", "row_id", row.ID, "event_type", row.EventType, "attempts", row.Attempts+1, "err", err)
			continue
		}
		d.metrics.OutboxResult("sent")
		sent++
	}

	return sent, nil
}

func (d *OutboxDispatcher) claimRows(ctx context.Context) (_ []db.ClaimOutboxEventsRow, txErr error) {
	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("pool.BeginTx: %w", err)
	}
	defer func() {
		if txErr != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	q := d.q.WithTx(tx)

	rows, err := q.ClaimOutboxEvents(ctx, int32(d.batchSize))
	if err != nil {
		return nil, fmt.Errorf("q.ClaimOutboxEvents: %w", err)
	}

	if len(rows) > 0 {
		if err := q.MarkOutboxProcessing(ctx, db.MarkOutboxProcessingParams{
			NextRetry: time.Now().Add(claimTTL),
			Ids: lo.Map(rows, func(row db.ClaimOutboxEventsRow, _ int) int64 {
				return row.ID
			}),
		}); err != nil {
			return nil, fmt.Errorf("q.MarkOutboxProcessing: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("tx.Commit: %w", err)
	}

	return rows, nil
}

func (d *OutboxDispatcher) publishOne(ctx context.Context, row db.ClaimOutboxEventsRow) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := d.publisher.Publish(pubCtx, row.EventType, row.Payload); err != nil {
		return d.markFailure(ctx, row, err)
	}

	if err := d.q.MarkOutboxSent(ctx, row.ID); err != nil {
		return fmt.Errorf("q.MarkOutboxSent: %w", err)
	}

	return nil
}

func (d *OutboxDispatcher) markFailure(ctx context.Context, row db.ClaimOutboxEventsRow, publishErr error) error {
	if err := d.q.ScheduleOutboxRetry(ctx, db.ScheduleOutboxRetryParams{
		ID:        row.ID,
		NextRetry: time.Now().Add(retryDelay(int(row.Attempts))),
	}); err != nil {
		return errors.Join(publishErr, fmt.Errorf("q.ScheduleOutboxRetry: %w", err))
	}

	return publishErr
}

// retryDelay is 1s before the first retry and doubles per failed attempt up to 32s.
func retryDelay(attempts int) time.Duration {
	attempts = min(max(attempts, 0), maxBackoffShift)
	return time.Duration(1<<attempts) * time.Second
}
