package validation

import (
	"errors"
	"testing"

	"github.com/jayjaytrn/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOrder() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		UserName: "jan_nowak",
		Email:    "jan@example.com",
		Phone:    "+48 600-100-200",
		Items:    []models.CreateOrderLine{{ProductID: 1, Quantity: 2}},
	}
}

func TestStruct_ValidOrder(t *testing.T) {
	assert.NoError(t, New().Struct(validOrder()))
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	req := validOrder()
	req.Email = "not-an-email"
	req.Phone = "call me"
	req.Items[0].Quantity = -1

	err := New().Struct(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "phone")
	assert.Contains(t, verr.Fields, "items[0].quantity")
}

func TestStruct_NoItems(t *testing.T) {
	req := validOrder()
	req.Items = nil

	var verr *Error
	require.True(t, errors.As(New().Struct(req), &verr))
	assert.Equal(t, "is required", verr.Fields["items"])
}

func TestPercent(t *testing.T) {
	ok := decimal.NewFromInt(23)
	tooBig := decimal.NewFromInt(101)
	negative := decimal.NewFromInt(-1)

	assert.NoError(t, Percent("vat", nil))
	assert.NoError(t, Percent("vat", &ok))
	assert.ErrorIs(t, Percent("vat", &tooBig), models.ErrValidation)
	assert.ErrorIs(t, Percent("discount", &negative), models.ErrValidation)
}

func TestPositive(t *testing.T) {
	assert.NoError(t, Positive("unit_price", decimal.RequireFromString("0.01")))
	assert.ErrorIs(t, Positive("unit_price", decimal.Zero), models.ErrValidation)
}
