package orders

import (
	"context"
	"fmt"

	"github.com/jayjaytrn/storefront/models"
)

// AddOpinion records the customer's single rating of a finished order.
func (s *Service) AddOpinion(ctx context.Context, actor models.Actor, orderID int64, rating int, content string) (*models.Opinion, error) {
	header, err := s.store.GetOrderHeader(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}

	if actor.Username != header.UserName {
		return nil, fmt.Errorf("%w: only the ordering customer can rate this order", models.ErrForbidden)
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", models.ErrValidation, models.MinRating, models.MaxRating)
	}
	if !header.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: opinions are accepted only for canceled or fulfilled orders", models.ErrValidation)
	}
	if header.HasOpinion {
		return nil, models.ErrDuplicateOpinion
	}

	opinion, err := s.store.InsertOpinion(ctx, orderID, rating, content)
	if err != nil {
		return nil, fmt.Errorf("save opinion for order %d: %w", orderID, err)
	}

	s.logger.Infow("opinion added", "order_id", orderID, "rating", rating)

	return opinion, nil
}
