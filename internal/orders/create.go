package orders

import (
	"context"
	"fmt"

	"github.com/jayjaytrn/storefront/internal/validation"
	"github.com/jayjaytrn/storefront/models"
)

func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.OrderCreated, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	for i, it := range req.Items {
		if err := validation.Percent(fmt.Sprintf("items[%d].vat", i), it.VAT); err != nil {
			return nil, err
		}
		if err := validation.Percent(fmt.Sprintf("items[%d].discount", i), it.Discount); err != nil {
			return nil, err
		}
	}

	ids := uniqueProductIDs(req.Items)
	prices, err := s.store.ProductPrices(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve product prices: %w", err)
	}
	for _, id := range ids {
		if _, ok := prices[id]; !ok {
			return nil, fmt.Errorf("%w: product %d does not exist", models.ErrInvalidReference, id)
		}
	}

	status := models.StatusPending
	if req.ApprovedAt != nil {
		status = models.StatusConfirmed
	}

	lines := make([]models.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, models.OrderLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: prices[it.ProductID],
			VAT:       it.VAT,
			Discount:  it.Discount,
		})
	}

	id, err := s.store.CreateOrder(ctx, models.NewOrder{
		Customer: models.Customer{
			UserName: req.UserName,
			Email:    req.Email,
			Phone:    req.Phone,
		},
		Status:     status,
		ApprovedAt: req.ApprovedAt,
		Lines:      lines,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Infow("order created",
		"order_id", id,
		"status", status.String(),
		"lines", len(lines),
		"total", models.OrderTotal(lines).StringFixed(2),
	)

	return &models.OrderCreated{ID: id, Status: status}, nil
}

func uniqueProductIDs(items []models.CreateOrderLine) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}
