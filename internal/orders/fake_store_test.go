package orders

import (
	"context"
	"sync"
	"time"

	"github.com/jayjaytrn/storefront/models"
	"github.com/shopspring/decimal"
)

type fakeStore struct {
	mu       sync.Mutex
	prices   map[int64]decimal.Decimal
	names    map[int64]string
	orders   map[int64]*models.Order
	opinions map[int64]models.Opinion
	nextID   int64

	// readGate, when set, holds every header read until all readers arrive
	readGate *sync.WaitGroup
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		prices: map[int64]decimal.Decimal{
			1: decimal.RequireFromString("10.00"),
			2: decimal.RequireFromString("5.00"),
		},
		names: map[int64]string{
			1: "Notebook",
			2: "Pencil",
		},
		orders:   make(map[int64]*models.Order),
		opinions: make(map[int64]models.Opinion),
	}
}

func (f *fakeStore) ProductPrices(_ context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[int64]decimal.Decimal, len(ids))
	for _, id := range ids {
		if p, ok := f.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeStore) CreateOrder(_ context.Context, o models.NewOrder) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	order := &models.Order{
		OrderHeader: models.OrderHeader{
			ID:         f.nextID,
			Status:     o.Status,
			StatusName: o.Status.String(),
			ApprovedAt: o.ApprovedAt,
			Customer:   o.Customer,
			CreatedAt:  time.Now(),
		},
	}
	for i, l := range o.Lines {
		l.ID = int64(i + 1)
		l.ProductName = f.names[l.ProductID]
		order.Items = append(order.Items, l)
	}
	f.orders[order.ID] = order
	return order.ID, nil
}

func (f *fakeStore) GetOrder(_ context.Context, id int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	cp.Items = append([]models.OrderLine(nil), o.Items...)
	cp.Opinions = []models.Opinion{}
	if op, ok := f.opinions[id]; ok {
		cp.Opinions = append(cp.Opinions, op)
	}
	return &cp, nil
}

func (f *fakeStore) GetOrderHeader(_ context.Context, id int64) (*models.OrderHeader, error) {
	f.mu.Lock()
	o, ok := f.orders[id]
	var h models.OrderHeader
	if ok {
		h = o.OrderHeader
		_, h.HasOpinion = f.opinions[id]
	}
	f.mu.Unlock()

	if f.readGate != nil {
		f.readGate.Done()
		f.readGate.Wait()
	}
	if !ok {
		return nil, models.ErrNotFound
	}
	return &h, nil
}

func (f *fakeStore) ListOrders(_ context.Context, filter models.OrderFilter) ([]models.OrderHeader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.OrderHeader{}
	for id := f.nextID; id > 0; id-- {
		o, ok := f.orders[id]
		if !ok {
			continue
		}
		if filter.CustomerUserName != "" && o.UserName != filter.CustomerUserName {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, o.OrderHeader)
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id int64, from, to models.OrderStatus) (*models.StatusChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok || o.Status != from {
		return nil, models.ErrConflict
	}
	o.Status = to
	o.StatusName = to.String()
	if to == models.StatusConfirmed && o.ApprovedAt == nil {
		now := time.Now()
		o.ApprovedAt = &now
	}
	return &models.StatusChange{ID: id, Status: to, ApprovedAt: o.ApprovedAt}, nil
}

func (f *fakeStore) InsertOpinion(_ context.Context, orderID int64, rating int, content string) (*models.Opinion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.opinions[orderID]; ok {
		return nil, models.ErrDuplicateOpinion
	}
	op := models.Opinion{
		ID:        int64(len(f.opinions) + 1),
		OrderID:   orderID,
		Rating:    rating,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.opinions[orderID] = op
	return &op, nil
}

func (f *fakeStore) setStatus(id int64, s models.OrderStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[id].Status = s
}
