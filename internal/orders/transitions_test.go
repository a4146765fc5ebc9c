package orders

import (
	"testing"

	"github.com/jayjaytrn/storefront/models"
	"github.com/stretchr/testify/assert"
)

var allStatuses = []models.OrderStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusCanceled,
	models.StatusFulfilled,
}

func TestCanTransition_Table(t *testing.T) {
	allowed := map[[2]models.OrderStatus]bool{
		{models.StatusPending, models.StatusConfirmed}:   true,
		{models.StatusPending, models.StatusCanceled}:    true,
		{models.StatusConfirmed, models.StatusCanceled}:  true,
		{models.StatusConfirmed, models.StatusFulfilled}: true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[[2]models.OrderStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_TerminalHasNoExit(t *testing.T) {
	for _, from := range allStatuses {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range allStatuses {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_PendingCannotSkipToFulfilled(t *testing.T) {
	assert.False(t, CanTransition(models.StatusPending, models.StatusFulfilled))
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(0, models.StatusConfirmed))
	assert.False(t, CanTransition(models.StatusPending, 7))
}
