package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jayjaytrn/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()

	mockdb, mock, err := sqlmock.New(sqlmock.ValueConverterOption(plainStatusConverter{}))
	require.NoError(t, err)
	t.Cleanup(func() { mockdb.Close() })

	return &Manager{Db: mockdb, EventsTopic: "order-events"}, mock
}

// plainStatusConverter fails any query that binds a models.OrderStatus
// directly. pgx text-encodes fmt.Stringer values, which would send "PENDING"
// instead of 1 under the simple protocol.
type plainStatusConverter struct{}

func (plainStatusConverter) ConvertValue(v any) (driver.Value, error) {
	if s, ok := v.(models.OrderStatus); ok {
		return nil, fmt.Errorf("status %s bound without int conversion", s)
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

var headerColumns = []string{"id", "approved_at", "status_id", "name", "user_name", "email", "phone", "created_at", "has_opinion"}

func TestProductPrices(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectQuery(`SELECT id, unit_price FROM products WHERE id IN \(\$1, \$2\)`).
		WithArgs(int64(1), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "unit_price"}).AddRow(int64(1), "10.00"))

	prices, err := manager.ProductPrices(context.Background(), []int64{1, 7})
	require.NoError(t, err)
	assert.Len(t, prices, 1)
	assert.Equal(t, "10", prices[1].String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductPrices_Empty(t *testing.T) {
	manager, mock := newMockManager(t)

	prices, err := manager.ProductPrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, prices)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder(t *testing.T) {
	vat := decimal.NewFromInt(23)
	order := models.NewOrder{
		Customer: models.Customer{UserName: "alice", Email: "alice@example.com", Phone: "123"},
		Status:   models.StatusPending,
		Lines: []models.OrderLine{
			{ProductID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("10.00"), VAT: &vat},
			{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
		},
	}

	t.Run("commits header, lines and event", func(t *testing.T) {
		manager, mock := newMockManager(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(nil, int64(1), "alice", "alice@example.com", "123").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
		mock.ExpectExec(`INSERT INTO order_items`).
			WithArgs(int64(10), int64(1), 3, decimal.RequireFromString("10.00"), vat, nil).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO order_items`).
			WithArgs(int64(10), int64(2), 1, decimal.RequireFromString("5.00"), nil, nil).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectExec(`INSERT INTO outbox`).
			WithArgs(sqlmock.AnyArg(), "order-events", "10", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		id, err := manager.CreateOrder(context.Background(), order)
		require.NoError(t, err)
		assert.Equal(t, int64(10), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when a product vanished", func(t *testing.T) {
		manager, mock := newMockManager(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
		mock.ExpectExec(`INSERT INTO order_items`).
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolation})
		mock.ExpectRollback()

		_, err := manager.CreateOrder(context.Background(), order)
		assert.ErrorIs(t, err, models.ErrInvalidReference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when outbox write fails", func(t *testing.T) {
		manager, mock := newMockManager(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))
		mock.ExpectExec(`INSERT INTO order_items`).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO order_items`).WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectExec(`INSERT INTO outbox`).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		_, err := manager.CreateOrder(context.Background(), order)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetOrder(t *testing.T) {
	manager, mock := newMockManager(t)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	approved := created.Add(time.Hour)

	mock.ExpectQuery(`SELECT o.id, o.approved_at, o.status_id, s.name.* FROM orders o`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(headerColumns).
			AddRow(int64(5), approved, int64(4), "FULFILLED", "alice", "alice@example.com", "123", created, false))
	mock.ExpectQuery(`SELECT oi.id, oi.product_id, p.name.* FROM order_items oi`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "quantity", "unit_price", "vat", "discount"}).
			AddRow(int64(1), int64(1), "Notebook", int64(3), "10.00", nil, nil).
			AddRow(int64(2), int64(2), "Pencil", int64(1), "5.00", "23", "10"))
	mock.ExpectQuery(`SELECT id, order_id, rating, content, created_at FROM order_opinions`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "rating", "content", "created_at"}).
			AddRow(int64(1), int64(5), int64(5), "Great", created))

	order, err := manager.GetOrder(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFulfilled, order.Status)
	assert.Equal(t, "FULFILLED", order.StatusName)
	require.NotNil(t, order.ApprovedAt)
	assert.Equal(t, approved, *order.ApprovedAt)
	require.Len(t, order.Items, 2)
	assert.Nil(t, order.Items[0].VAT)
	require.NotNil(t, order.Items[1].Discount)
	assert.Equal(t, "10", order.Items[1].Discount.String())
	require.Len(t, order.Opinions, 1)
	assert.Equal(t, "Great", order.Opinions[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrder_NotFound(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectQuery(`FROM orders o`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := manager.GetOrder(context.Background(), 404)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderHeader(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectQuery(`EXISTS \(SELECT 1 FROM order_opinions`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(headerColumns).
			AddRow(int64(3), nil, int64(3), "CANCELED", "bob", "bob@example.com", "555", time.Now(), true))

	header, err := manager.GetOrderHeader(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceled, header.Status)
	assert.Nil(t, header.ApprovedAt)
	assert.True(t, header.HasOpinion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrders(t *testing.T) {
	listColumns := headerColumns[:len(headerColumns)-1]
	confirmed := models.StatusConfirmed

	tests := []struct {
		name   string
		filter models.OrderFilter
		query  string
		args   []driver.Value
	}{
		{
			name:  "all",
			query: `FROM orders o JOIN order_statuses s ON s.id = o.status_id ORDER BY o.id DESC`,
		},
		{
			name:   "by customer",
			filter: models.OrderFilter{CustomerUserName: "alice"},
			query:  `WHERE o.user_name = \$1 ORDER BY o.id DESC`,
			args:   []driver.Value{"alice"},
		},
		{
			name:   "by status",
			filter: models.OrderFilter{Status: &confirmed},
			query:  `WHERE o.status_id = \$1 ORDER BY o.id DESC`,
			args:   []driver.Value{int64(2)},
		},
		{
			name:   "by customer and status",
			filter: models.OrderFilter{CustomerUserName: "alice", Status: &confirmed},
			query:  `WHERE o.user_name = \$1 AND o.status_id = \$2`,
			args:   []driver.Value{"alice", int64(2)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, mock := newMockManager(t)

			expect := mock.ExpectQuery(tt.query)
			if len(tt.args) > 0 {
				expect = expect.WithArgs(tt.args...)
			}
			expect.WillReturnRows(sqlmock.NewRows(listColumns).
				AddRow(int64(2), time.Now(), int64(2), "CONFIRMED", "alice", "a@example.com", "1", time.Now()).
				AddRow(int64(1), nil, int64(1), "PENDING", "alice", "a@example.com", "1", time.Now()))

			headers, err := manager.ListOrders(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, headers, 2)
			assert.Equal(t, int64(2), headers[0].ID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	t.Run("applies change and writes event", func(t *testing.T) {
		manager, mock := newMockManager(t)
		approved := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE orders SET status_id = \$1, approved_at = CASE WHEN \$1 = \$4 THEN COALESCE\(approved_at, now\(\)\) ELSE approved_at END WHERE id = \$2 AND status_id = \$3`).
			WithArgs(int64(2), int64(7), int64(1), int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"approved_at", "user_name"}).AddRow(approved, "alice"))
		mock.ExpectExec(`INSERT INTO outbox`).
			WithArgs(sqlmock.AnyArg(), "order-events", "7", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		change, err := manager.UpdateStatus(context.Background(), 7, models.StatusPending, models.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, change.Status)
		require.NotNil(t, change.ApprovedAt)
		assert.Equal(t, approved, *change.ApprovedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict when status moved meanwhile", func(t *testing.T) {
		manager, mock := newMockManager(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE orders`).
			WithArgs(int64(2), int64(7), int64(1), int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"approved_at", "user_name"}))
		mock.ExpectRollback()

		_, err := manager.UpdateStatus(context.Background(), 7, models.StatusPending, models.StatusConfirmed)
		assert.ErrorIs(t, err, models.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInsertOpinion(t *testing.T) {
	t.Run("inserted", func(t *testing.T) {
		manager, mock := newMockManager(t)
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO order_opinions \(order_id, rating, content\)`).
			WithArgs(int64(3), 5, "Great").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

		opinion, err := manager.InsertOpinion(context.Background(), 3, 5, "Great")
		require.NoError(t, err)
		assert.Equal(t, int64(1), opinion.ID)
		assert.Equal(t, now, opinion.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate", func(t *testing.T) {
		manager, mock := newMockManager(t)

		mock.ExpectQuery(`INSERT INTO order_opinions`).
			WillReturnError(&pgconn.PgError{Code: uniqueViolation})

		_, err := manager.InsertOpinion(context.Background(), 3, 4, "Again")
		assert.ErrorIs(t, err, models.ErrDuplicateOpinion)
		assert.ErrorIs(t, err, models.ErrConflict)
	})
}
