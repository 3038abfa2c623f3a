package service

import (
	"context"
	"time"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderRepository persists orders. FindByID, Update and Delete return
// domain.ErrOrderNotFound for an unknown id and a *domain.StorageError
// when the backend fails.
type OrderRepository interface {
	Insert(ctx context.Context, o *domain.Order) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Order, error)
	Update(ctx context.Context, id int64, o *domain.Order) error
	Delete(ctx context.Context, id int64) error
}

// RateStore reads and writes the settings row.
type RateStore interface {
	CurrentRate(ctx context.Context) (domain.Settings, error)
	SetExchangeRate(ctx context.Context, rate decimal.Decimal, at time.Time) (domain.Settings, error)
}
