package orders

import (
	"context"
	"fmt"

	"github.com/jayjaytrn/storefront/models"
)

// GetOrder returns the full order to staff or to the customer who placed it.
func (s *Service) GetOrder(ctx context.Context, actor models.Actor, id int64) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	if !actor.IsStaff() && actor.Username != order.UserName {
		return nil, fmt.Errorf("%w: order belongs to another customer", models.ErrForbidden)
	}

	order.Total = models.OrderTotal(order.Items)
	return order, nil
}

// ListOrders lists every order, optionally narrowed to one status. Staff only.
func (s *Service) ListOrders(ctx context.Context, actor models.Actor, status *models.OrderStatus) ([]models.OrderHeader, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can list all orders", models.ErrForbidden)
	}
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %d", models.ErrValidation, *status)
	}

	headers, err := s.store.ListOrders(ctx, models.OrderFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return headers, nil
}

// ListUserOrders lists one customer's orders for staff or for that customer.
func (s *Service) ListUserOrders(ctx context.Context, actor models.Actor, username string) ([]models.OrderHeader, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", models.ErrValidation)
	}
	if !actor.IsStaff() && actor.Username != username {
		return nil, fmt.Errorf("%w: cannot list another customer's orders", models.ErrForbidden)
	}

	headers, err := s.store.ListOrders(ctx, models.OrderFilter{CustomerUserName: username})
	if err != nil {
		return nil, fmt.Errorf("list orders of %s: %w", username, err)
	}
	return headers, nil
}
