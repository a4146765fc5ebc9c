package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jayjaytrn/storefront/models"
)

func (m *Manager) appendOutbox(ctx context.Context, tx *sql.Tx, event models.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outbox (event_id, topic, event_key, payload)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), m.EventsTopic, strconv.FormatInt(event.OrderID, 10), payload)
	if err != nil {
		return fmt.Errorf("failed to write %s event to outbox: %w", event.Type, err)
	}

	return nil
}

// FetchPendingEvents returns up to limit unsent outbox rows, oldest first.
func (m *Manager) FetchPendingEvents(ctx context.Context, limit int) ([]models.OutboxRecord, error) {
	rows, err := m.Db.QueryContext(ctx, `
		SELECT id, event_id, topic, event_key, payload, created_at
		FROM outbox
		WHERE sent_at IS NULL
		ORDER BY id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer rows.Close()

	var records []models.OutboxRecord
	for rows.Next() {
		var (
			r       models.OutboxRecord
			payload []byte
		)
		if err = rows.Scan(&r.ID, &r.EventID, &r.Topic, &r.Key, &payload, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox record: %w", err)
		}
		r.Payload = payload
		records = append(records, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read outbox: %w", err)
	}

	return records, nil
}

func (m *Manager) MarkEventSent(ctx context.Context, id int64) error {
	_, err := m.Db.ExecContext(ctx, `UPDATE outbox SET sent_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox record %d as sent: %w", id, err)
	}

	return nil
}
