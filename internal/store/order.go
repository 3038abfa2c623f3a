package store

import (
	"context"
	"sync"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/google/btree"
	"github.com/shopspring/decimal"
)

// recentKey positions an order in the listing index.
type recentKey struct {
	Date string
	ID   int64
}

// recentLess orders newest order_date first, then newest id first, so
// Ascend walks the index in listing order.
func recentLess(a, b recentKey) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	return a.ID > b.ID
}

// OrderStore is a thread-safe in-memory store for orders, with a primary
// index by id and a B-tree secondary index in listing order. Orders are
// stored by value; callers always receive copies.
type OrderStore struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]domain.Order
	recent *btree.BTreeG[recentKey]
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	const degree = 32
	return &OrderStore{
		orders: make(map[int64]domain.Order),
		recent: btree.NewG[recentKey](degree, recentLess),
	}
}

// Insert stores o under a newly assigned id and returns that id.
func (s *OrderStore) Insert(_ context.Context, o *domain.Order) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := *o
	stored.ID = s.nextID
	s.orders[stored.ID] = stored
	s.recent.ReplaceOrInsert(recentKey{Date: stored.OrderDate, ID: stored.ID})
	return stored.ID, nil
}

// FindByID retrieves an order by id. It returns
// domain.ErrOrderNotFound if the order does not exist.
func (s *OrderStore) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

// ListRecent returns up to limit orders, newest order_date first and
// newest id first within a date.
func (s *OrderStore) ListRecent(_ context.Context, limit int) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Order, 0, min(limit, len(s.orders)))
	s.recent.Ascend(func(k recentKey) bool {
		if len(result) >= limit {
			return false
		}
		o := s.orders[k.ID]
		result = append(result, &o)
		return true
	})
	return result, nil
}

// Update replaces the stored order with id. CreatedAt is preserved.
// It returns domain.ErrOrderNotFound if the order does not exist.
func (s *OrderStore) Update(_ context.Context, id int64, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}

	stored := *o
	stored.ID = id
	stored.CreatedAt = prev.CreatedAt
	s.orders[id] = stored

	if prev.OrderDate != stored.OrderDate {
		s.recent.Delete(recentKey{Date: prev.OrderDate, ID: id})
		s.recent.ReplaceOrInsert(recentKey{Date: stored.OrderDate, ID: id})
	}
	return nil
}

// Delete removes the order with id from both indexes. It returns
// domain.ErrOrderNotFound if the order does not exist.
func (s *OrderStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.orders, id)
	s.recent.Delete(recentKey{Date: o.OrderDate, ID: id})
	return nil
}

// Aggregate scans the stored orders and reduces those matching q.
func (s *OrderStore) Aggregate(_ context.Context, q domain.AggregateQuery) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	sum := decimal.Zero
	for id := range s.orders {
		o := s.orders[id]
		if !q.Filter.Match(&o) {
			continue
		}
		count++
		if q.Func == domain.AggregateSum {
			sum = sum.Add(q.Field.Of(&o))
		}
	}

	if q.Func == domain.AggregateCount {
		return decimal.NewFromInt(count), nil
	}
	return sum, nil
}
