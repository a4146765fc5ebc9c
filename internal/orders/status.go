package orders

import (
	"context"
	"fmt"

	"github.com/jayjaytrn/storefront/models"
)

// ChangeStatus moves an order forward through the workflow. Only staff may do it.
// PENDING cannot jump straight to FULFILLED; the order has to be confirmed first.
func (s *Service) ChangeStatus(ctx context.Context, actor models.Actor, orderID int64, requested models.OrderStatus) (*models.StatusChange, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can change order status", models.ErrForbidden)
	}
	if !requested.Valid() {
		return nil, fmt.Errorf("%w: unknown status %d", models.ErrValidation, requested)
	}

	header, err := s.store.GetOrderHeader(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}

	current := header.Status
	switch {
	case current.IsTerminal():
		return nil, withStatus(models.ErrTerminalStatus, current)
	case current == requested:
		return nil, withStatus(models.ErrAlreadyInStatus, current)
	case !CanTransition(current, requested):
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, current, requested)
	}

	change, err := s.store.UpdateStatus(ctx, orderID, current, requested)
	if err != nil {
		return nil, fmt.Errorf("update order %d status: %w", orderID, err)
	}

	if s.metrics != nil {
		s.metrics.OrderTransitions.WithLabelValues(current.String(), requested.String()).Inc()
	}
	s.logger.Infow("order status changed",
		"order_id", orderID,
		"from", current.String(),
		"to", requested.String(),
		"by", actor.Username,
	)

	return change, nil
}

func withStatus(err error, status models.OrderStatus) error {
	return fmt.Errorf("%w (current status %s)", err, status)
}
