package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/efreitasn/kipledger/internal/engine"
)

// ListLimits bounds the size of a recent-orders page.
type ListLimits struct {
	Default int
	Max     int
}

// DefaultListLimits are used when NewOrderService gets a zero ListLimits.
var DefaultListLimits = ListLimits{Default: 50, Max: 200}

// OrderService prices and stores orders.
type OrderService struct {
	orders OrderRepository
	rates  engine.RateReader
	loc    *time.Location
	limits ListLimits
	logger *slog.Logger
	now    func() time.Time
}

// NewOrderService creates an OrderService. Order dates default to today
// in loc.
func NewOrderService(orders OrderRepository, rates engine.RateReader, loc *time.Location, limits ListLimits, logger *slog.Logger) *OrderService {
	if loc == nil {
		loc = time.UTC
	}
	if limits.Max < 1 {
		limits.Max = DefaultListLimits.Max
	}
	if limits.Default < 1 || limits.Default > limits.Max {
		limits.Default = min(DefaultListLimits.Default, limits.Max)
	}
	return &OrderService{
		orders: orders,
		rates:  rates,
		loc:    loc,
		limits: limits,
		logger: logger,
		now:    time.Now,
	}
}

// normalize fills in the defaults an order input may omit.
func (s *OrderService) normalize(in domain.OrderInput) domain.OrderInput {
	today := domain.Today(s.now(), s.loc)
	if d, ok := domain.ParseDate(in.OrderDate); ok {
		in.OrderDate = d
	} else {
		if in.OrderDate != "" {
			s.logger.Debug("order_date not parseable, using today",
				slog.String("order_date", in.OrderDate),
				slog.String("today", today),
			)
		}
		in.OrderDate = today
	}
	if !in.PaymentStatus.Valid() {
		in.PaymentStatus = domain.ParsePaymentStatus(string(in.PaymentStatus))
	}
	in.OrderStatus = domain.ParseOrderStatus(string(in.OrderStatus))
	return in
}

// price normalizes in and prices it against the current base rate.
func (s *OrderService) price(ctx context.Context, in domain.OrderInput) (domain.Order, error) {
	st, err := s.rates.CurrentRate(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("read exchange rate: %w", err)
	}
	return engine.Price(s.normalize(in), st.ExchangeRate), nil
}

// Create prices in against the current base rate and stores it.
func (s *OrderService) Create(ctx context.Context, in domain.OrderInput) (*domain.Order, error) {
	o, err := s.price(ctx, in)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	id, err := s.orders.Insert(ctx, &o)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	o.ID = id

	s.logger.Info("order created",
		slog.Int64("id", o.ID),
		slog.String("order_date", o.OrderDate),
		slog.String("total_lak", o.TotalLAK.String()),
		slog.String("rate", o.Rate.String()),
	)
	return &o, nil
}

// Get returns the order with id.
func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// List returns the most recent orders. A zero limit selects the default
// page size; other values are clamped to [1, max].
func (s *OrderService) List(ctx context.Context, limit int) ([]*domain.Order, error) {
	return s.orders.ListRecent(ctx, s.clampLimit(limit))
}

func (s *OrderService) clampLimit(limit int) int {
	switch {
	case limit == 0:
		return s.limits.Default
	case limit < 1:
		return 1
	case limit > s.limits.Max:
		return s.limits.Max
	}
	return limit
}

// Update replaces every input field of the order with id and re-prices it
// against the base rate current now, not the rate it was created at. It
// returns the order as stored.
func (s *OrderService) Update(ctx context.Context, id int64, in domain.OrderInput) (*domain.Order, error) {
	o, err := s.price(ctx, in)
	if err != nil {
		return nil, err
	}
	o.ID = id
	o.UpdatedAt = s.now().UTC()

	if err := s.orders.Update(ctx, id, &o); err != nil {
		return nil, err
	}

	s.logger.Info("order updated",
		slog.Int64("id", id),
		slog.String("total_lak", o.TotalLAK.String()),
		slog.String("rate", o.Rate.String()),
	)
	return s.orders.FindByID(ctx, id)
}

// Delete removes the order with id.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("order deleted", slog.Int64("id", id))
	return nil
}
