package orders

import "github.com/jayjaytrn/storefront/models"

// transitions lists every allowed edge; terminal statuses have none.
var transitions = [...][]models.OrderStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCanceled},
	models.StatusConfirmed: {models.StatusCanceled, models.StatusFulfilled},
	models.StatusCanceled:  nil,
	models.StatusFulfilled: nil,
}

// CanTransition reports whether an order may move from one status to another.
// Staying in the same status is never a transition.
func CanTransition(from, to models.OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
