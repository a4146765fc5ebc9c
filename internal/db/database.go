package db

import (
	"context"

	"github.com/jayjaytrn/storefront/models"
	"github.com/shopspring/decimal"
)

type Database interface {
	ProductPrices(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error)
	CreateOrder(ctx context.Context, order models.NewOrder) (int64, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	GetOrderHeader(ctx context.Context, id int64) (*models.OrderHeader, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.OrderHeader, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.OrderStatus) (*models.StatusChange, error)
	InsertOpinion(ctx context.Context, orderID int64, rating int, content string) (*models.Opinion, error)

	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, req models.ProductCreateRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req models.ProductUpdateRequest) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListStatuses(ctx context.Context) ([]models.StatusName, error)

	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	EnsureUser(ctx context.Context, user models.User) error

	FetchPendingEvents(ctx context.Context, limit int) ([]models.OutboxRecord, error)
	MarkEventSent(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
	Close() error
}

var _ Database = (*Manager)(nil)
