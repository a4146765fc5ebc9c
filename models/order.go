package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus int

const (
	StatusPending   OrderStatus = 1
	StatusConfirmed OrderStatus = 2
	StatusCanceled  OrderStatus = 3
	StatusFulfilled OrderStatus = 4
)

func (s OrderStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusConfirmed:
		return "CONFIRMED"
	case StatusCanceled:
		return "CANCELED"
	case StatusFulfilled:
		return "FULFILLED"
	}
	return "UNKNOWN"
}

func (s OrderStatus) Valid() bool {
	return s >= StatusPending && s <= StatusFulfilled
}

// IsTerminal reports whether no further transition can leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCanceled || s == StatusFulfilled
}

type Customer struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// OrderHeader is an order without its lines.
type OrderHeader struct {
	ID         int64       `json:"id"`
	Status     OrderStatus `json:"status_id"`
	StatusName string      `json:"status_name"`
	ApprovedAt *time.Time  `json:"approved_at"`
	Customer
	CreatedAt  time.Time `json:"created_at"`
	HasOpinion bool      `json:"-"`
}

type OrderLine struct {
	ID          int64            `json:"id,omitempty"`
	ProductID   int64            `json:"product_id"`
	ProductName string           `json:"product_name,omitempty"`
	Quantity    int              `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	VAT         *decimal.Decimal `json:"vat"`
	Discount    *decimal.Decimal `json:"discount"`
}

var hundred = decimal.NewFromInt(100)

// Total is quantity × unit price with the discount taken off and VAT added on top.
func (l OrderLine) Total() decimal.Decimal {
	total := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	if l.Discount != nil {
		total = total.Mul(decimal.NewFromInt(1).Sub(l.Discount.Div(hundred)))
	}
	if l.VAT != nil {
		total = total.Mul(decimal.NewFromInt(1).Add(l.VAT.Div(hundred)))
	}
	return total
}

type Order struct {
	OrderHeader
	Items    []OrderLine     `json:"items"`
	Opinions []Opinion       `json:"opinions"`
	Total    decimal.Decimal `json:"total"`
}

func OrderTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total.Round(2)
}

// NewOrder is what the repository persists: prices are already resolved.
type NewOrder struct {
	Customer   Customer
	Status     OrderStatus
	ApprovedAt *time.Time
	Lines      []OrderLine
}

type OrderFilter struct {
	CustomerUserName string
	Status           *OrderStatus
}

type CreateOrderLine struct {
	ProductID int64            `json:"product_id" validate:"required,gt=0"`
	Quantity  int              `json:"quantity" validate:"required,gt=0,max=2147483647"`
	VAT       *decimal.Decimal `json:"vat,omitempty"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

type CreateOrderRequest struct {
	UserName   string            `json:"user_name" validate:"required,max=255"`
	Email      string            `json:"email" validate:"required,email"`
	Phone      string            `json:"phone" validate:"required,phone"`
	ApprovedAt *time.Time        `json:"approved_at,omitempty"`
	Items      []CreateOrderLine `json:"items" validate:"required,min=1,dive"`
}

type OrderCreated struct {
	ID     int64       `json:"id"`
	Status OrderStatus `json:"status_id"`
}

type StatusChange struct {
	ID         int64       `json:"id"`
	Status     OrderStatus `json:"status_id"`
	ApprovedAt *time.Time  `json:"approved_at"`
}

type StatusName struct {
	ID   OrderStatus `json:"id"`
	Name string      `json:"name"`
}
