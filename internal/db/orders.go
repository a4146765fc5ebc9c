package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jayjaytrn/storefront/models"
	"github.com/shopspring/decimal"
)

const orderColumns = `o.id, o.approved_at, o.status_id, s.name, o.user_name, o.email, o.phone, o.created_at`

func (m *Manager) ProductPrices(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
	prices := make(map[int64]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows, err := m.Db.QueryContext(ctx,
		`SELECT id, unit_price FROM products WHERE id IN (`+strings.Join(placeholders, ", ")+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query product prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    int64
			price decimal.Decimal
		)
		if err = rows.Scan(&id, &price); err != nil {
			return nil, fmt.Errorf("failed to scan product price: %w", err)
		}
		prices[id] = price
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product prices: %w", err)
	}

	return prices, nil
}

func (m *Manager) CreateOrder(ctx context.Context, order models.NewOrder) (int64, error) {
	tx, err := m.Db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (approved_at, status_id, user_name, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, order.ApprovedAt, int(order.Status), order.Customer.UserName, order.Customer.Email, order.Customer.Phone).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range order.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, vat, discount)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, line.ProductID, line.Quantity, line.UnitPrice, line.VAT, line.Discount)
		if err != nil {
			if pgErrorCode(err) == foreignKeyViolation {
				return 0, fmt.Errorf("%w: product %d does not exist", models.ErrInvalidReference, line.ProductID)
			}
			return 0, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	event := models.OrderEvent{
		Type:       models.EventOrderCreated,
		OrderID:    id,
		Status:     order.Status,
		StatusName: order.Status.String(),
		UserName:   order.Customer.UserName,
		OccurredAt: time.Now().UTC(),
	}
	if err = m.appendOutbox(ctx, tx, event); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}

	return id, nil
}

func (m *Manager) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	header, err := scanHeader(m.Db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`, false
		FROM orders o
		JOIN order_statuses s ON s.id = o.status_id
		WHERE o.id = $1
	`, id))
	if err != nil {
		return nil, err
	}

	order := &models.Order{OrderHeader: *header}

	if order.Items, err = m.orderItems(ctx, id); err != nil {
		return nil, err
	}
	if order.Opinions, err = m.orderOpinions(ctx, id); err != nil {
		return nil, err
	}

	return order, nil
}

func (m *Manager) GetOrderHeader(ctx context.Context, id int64) (*models.OrderHeader, error) {
	return scanHeader(m.Db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`,
		       EXISTS (SELECT 1 FROM order_opinions op WHERE op.order_id = o.id)
		FROM orders o
		JOIN order_statuses s ON s.id = o.status_id
		WHERE o.id = $1
	`, id))
}

func (m *Manager) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.OrderHeader, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.CustomerUserName != "" {
		args = append(args, filter.CustomerUserName)
		conditions = append(conditions, fmt.Sprintf("o.user_name = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, int(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("o.status_id = $%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders o JOIN order_statuses s ON s.id = o.status_id`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY o.id DESC`

	rows, err := m.Db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	headers := []models.OrderHeader{}
	for rows.Next() {
		var h models.OrderHeader
		if err = rows.Scan(&h.ID, &h.ApprovedAt, &h.Status, &h.StatusName,
			&h.UserName, &h.Email, &h.Phone, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		headers = append(headers, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	return headers, nil
}

// UpdateStatus applies from -> to only if the order still has status from.
// approved_at is stamped on the first entry into CONFIRMED and kept afterwards.
func (m *Manager) UpdateStatus(ctx context.Context, id int64, from, to models.OrderStatus) (*models.StatusChange, error) {
	tx, err := m.Db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	change := &models.StatusChange{ID: id, Status: to}
	var userName string
	err = tx.QueryRowContext(ctx, `
		UPDATE orders
		SET status_id = $1,
		    approved_at = CASE WHEN $1 = $4 THEN COALESCE(approved_at, now()) ELSE approved_at END
		WHERE id = $2 AND status_id = $3
		RETURNING approved_at, user_name
	`, int(to), id, int(from), int(models.StatusConfirmed)).Scan(&change.ApprovedAt, &userName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %d is no longer %s", models.ErrConflict, id, from)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	event := models.OrderEvent{
		Type:       models.EventOrderStatusChanged,
		OrderID:    id,
		Status:     to,
		StatusName: to.String(),
		UserName:   userName,
		OccurredAt: time.Now().UTC(),
	}
	if err = m.appendOutbox(ctx, tx, event); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}

	return change, nil
}

func (m *Manager) orderItems(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	rows, err := m.Db.QueryContext(ctx, `
		SELECT oi.id, oi.product_id, p.name, oi.quantity, oi.unit_price, oi.vat, oi.discount
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderLine{}
	for rows.Next() {
		var (
			line          models.OrderLine
			vat, discount decimal.NullDecimal
		)
		if err = rows.Scan(&line.ID, &line.ProductID, &line.ProductName, &line.Quantity,
			&line.UnitPrice, &vat, &discount); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		line.VAT = nullableDecimal(vat)
		line.Discount = nullableDecimal(discount)
		items = append(items, line)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}

	return items, nil
}

func scanHeader(row *sql.Row) (*models.OrderHeader, error) {
	var h models.OrderHeader
	err := row.Scan(&h.ID, &h.ApprovedAt, &h.Status, &h.StatusName,
		&h.UserName, &h.Email, &h.Phone, &h.CreatedAt, &h.HasOpinion)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &h, nil
}

func nullableDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}
