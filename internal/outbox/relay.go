// Package outbox moves events written next to order changes out to the broker.
package outbox

import (
	"context"
	"time"

	"github.com/jayjaytrn/storefront/internal/metrics"
	"github.com/jayjaytrn/storefront/models"
	"go.uber.org/zap"
)

const batchSize = 100

type Store interface {
	FetchPendingEvents(ctx context.Context, limit int) ([]models.OutboxRecord, error)
	MarkEventSent(ctx context.Context, id int64) error
}

type Publisher interface {
	Publish(ctx context.Context, record models.OutboxRecord) error
}

type Relay struct {
	Database  Store
	Publisher Publisher
	Interval  time.Duration
	Metrics   *metrics.ServerMetrics
	Logger    *zap.SugaredLogger
}

func NewRelay(database Store, publisher Publisher, interval time.Duration, m *metrics.ServerMetrics, logger *zap.SugaredLogger) *Relay {
	return &Relay{
		Database:  database,
		Publisher: publisher,
		Interval:  interval,
		Metrics:   m,
		Logger:    logger,
	}
}

// Run polls until ctx is cancelled. Records that fail to publish stay pending
// and are retried on the next tick, so delivery is at least once.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			r.Flush(ctx)
		}
	}
}

// Flush publishes one batch of pending records and reports how many were sent.
func (r *Relay) Flush(ctx context.Context) int {
	records, err := r.Database.FetchPendingEvents(ctx, batchSize)
	if err != nil {
		r.Logger.Errorw("failed to fetch outbox records", "error", err)
		return 0
	}

	sent := 0
	for _, record := range records {
		if err = r.Publisher.Publish(ctx, record); err != nil {
			r.Logger.Warnw("failed to publish outbox record", "id", record.ID, "error", err)
			r.observe("failed")
			// keep order per batch: later records wait for the failed one
			return sent
		}

		if err = r.Database.MarkEventSent(ctx, record.ID); err != nil {
			r.Logger.Errorw("failed to mark outbox record as sent", "id", record.ID, "error", err)
			return sent
		}
		r.observe("sent")
		sent++
	}

	return sent
}

func (r *Relay) observe(result string) {
	if r.Metrics != nil {
		r.Metrics.OutboxPublished.WithLabelValues(result).Inc()
	}
}
