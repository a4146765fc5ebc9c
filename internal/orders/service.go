// Package orders owns the order lifecycle: creation, the status workflow,
// opinions and who may see or touch which order.
package orders

import (
	"context"

	"github.com/jayjaytrn/storefront/internal/metrics"
	"github.com/jayjaytrn/storefront/internal/validation"
	"github.com/jayjaytrn/storefront/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the relational storage the service runs against.
type Store interface {
	ProductPrices(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error)
	CreateOrder(ctx context.Context, order models.NewOrder) (int64, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	GetOrderHeader(ctx context.Context, id int64) (*models.OrderHeader, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.OrderHeader, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.OrderStatus) (*models.StatusChange, error)
	InsertOpinion(ctx context.Context, orderID int64, rating int, content string) (*models.Opinion, error)
}

type Service struct {
	store    Store
	validate *validation.Validator
	metrics  *metrics.ServerMetrics
	logger   *zap.SugaredLogger
}

// NewService builds the order service. m may be nil.
func NewService(store Store, validate *validation.Validator, m *metrics.ServerMetrics, logger *zap.SugaredLogger) *Service {
	return &Service{
		store:    store,
		validate: validate,
		metrics:  m,
		logger:   logger,
	}
}
