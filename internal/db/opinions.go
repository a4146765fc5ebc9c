package db

import (
	"context"
	"fmt"

	"github.com/jayjaytrn/storefront/models"
)

// InsertOpinion relies on the unique order_id constraint: a second opinion for
// the same order fails with models.ErrDuplicateOpinion even under concurrent inserts.
func (m *Manager) InsertOpinion(ctx context.Context, orderID int64, rating int, content string) (*models.Opinion, error) {
	opinion := &models.Opinion{
		OrderID: orderID,
		Rating:  rating,
		Content: content,
	}

	err := m.Db.QueryRowContext(ctx, `
		INSERT INTO order_opinions (order_id, rating, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, orderID, rating, content).Scan(&opinion.ID, &opinion.CreatedAt)
	if err != nil {
		switch pgErrorCode(err) {
		case uniqueViolation:
			return nil, models.ErrDuplicateOpinion
		case foreignKeyViolation:
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to insert opinion: %w", err)
	}

	return opinion, nil
}

func (m *Manager) orderOpinions(ctx context.Context, orderID int64) ([]models.Opinion, error) {
	rows, err := m.Db.QueryContext(ctx, `
		SELECT id, order_id, rating, content, created_at
		FROM order_opinions
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query opinions: %w", err)
	}
	defer rows.Close()

	opinions := []models.Opinion{}
	for rows.Next() {
		var op models.Opinion
		if err = rows.Scan(&op.ID, &op.OrderID, &op.Rating, &op.Content, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan opinion: %w", err)
		}
		opinions = append(opinions, op)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read opinions: %w", err)
	}

	return opinions, nil
}
