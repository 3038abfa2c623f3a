package store

import (
	"context"
	"fmt"
	"time"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/shopspring/decimal"
)

// Supported values for Options.Driver.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Backend is the full storage surface used by the ledger: order CRUD,
// order aggregates and the settings row. It is the union of
// service.OrderRepository, service.RateStore and engine.AggregateReader,
// plus Close; it adds no contract of its own.
type Backend interface {
	Insert(ctx context.Context, o *domain.Order) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Order, error)
	Update(ctx context.Context, id int64, o *domain.Order) error
	Delete(ctx context.Context, id int64) error
	Aggregate(ctx context.Context, q domain.AggregateQuery) (decimal.Decimal, error)

	CurrentRate(ctx context.Context) (domain.Settings, error)
	SetExchangeRate(ctx context.Context, rate decimal.Decimal, at time.Time) (domain.Settings, error)

	Close() error
}

// Options selects and configures a Backend.
type Options struct {
	Driver     string
	SQLitePath string
	MySQL      MySQLConfig
}

// Open creates the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLiteStore(ctx, opts.SQLitePath)
	case DriverMySQL:
		return NewMySQLStore(ctx, opts.MySQL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// Memory is a process-local Backend. Data does not survive a restart.
type Memory struct {
	*OrderStore
	*SettingsStore
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		OrderStore:    NewOrderStore(),
		SettingsStore: NewSettingsStore(),
	}
}

// Close is a no-op for the in-memory backend.
func (m *Memory) Close() error {
	return nil
}
