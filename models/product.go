package models

import "github.com/shopspring/decimal"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitWeight   decimal.Decimal `json:"unit_weight"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
}

type ProductCreateRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitWeight  decimal.Decimal `json:"unit_weight"`
	CategoryID  int64           `json:"category_id" validate:"required,gt=0"`
}

// ProductUpdateRequest carries only the fields to change.
type ProductUpdateRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description,omitempty" validate:"omitempty,min=1"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	UnitWeight  *decimal.Decimal `json:"unit_weight,omitempty"`
	CategoryID  *int64           `json:"category_id,omitempty" validate:"omitempty,gt=0"`
}

func (r ProductUpdateRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.UnitPrice == nil && r.UnitWeight == nil && r.CategoryID == nil
}
