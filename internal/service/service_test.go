package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/efreitasn/kipledger/internal/engine"
	"github.com/efreitasn/kipledger/internal/store"
	"github.com/shopspring/decimal"
)

var (
	vientiane = time.FixedZone("ICT", 7*60*60)
	// 2025-03-15 20:00 UTC is already 2025-03-16 in Vientiane.
	fixedNow = time.Date(2025, 3, 15, 20, 0, 0, 0, time.UTC)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type services struct {
	backend  *store.Memory
	orders   *OrderService
	settings *SettingsService
	summary  *SummaryService
}

func newTestServices(t *testing.T, rate string) *services {
	t.Helper()
	backend := store.NewMemory()
	logger := testLogger()

	svc := &services{
		backend:  backend,
		orders:   NewOrderService(backend, backend, vientiane, ListLimits{}, logger),
		settings: NewSettingsService(backend, logger),
		summary:  NewSummaryService(engine.NewSummarizer(backend, backend), vientiane),
	}
	svc.orders.now = func() time.Time { return fixedNow }
	svc.settings.now = func() time.Time { return fixedNow }
	svc.summary.now = func() time.Time { return fixedNow }

	if rate != "" {
		if _, err := svc.settings.SetRate(context.Background(), dec(rate)); err != nil {
			t.Fatalf("SetRate: %v", err)
		}
	}
	return svc
}

func scenarioInput() domain.OrderInput {
	return domain.OrderInput{
		OrderDate:           "2025-03-15",
		CustomerName:        "Noy",
		PriceTHB:            dec("100"),
		ShippingTHB:         dec("30"),
		ServiceFeeLAK:       dec("10000"),
		THToLAChargeLAK:     dec("5000"),
		ActualTHToLACostLAK: dec("4000"),
		CustomerRate:        dec("1350"),
		PaymentStatus:       "paid",
	}
}

func assertDec(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}

// failingRepo fails every call with a storage error.
type failingRepo struct{}

var errDiskFull = errors.New("disk full")

func (failingRepo) Insert(context.Context, *domain.Order) (int64, error) {
	return 0, &domain.StorageError{Op: "insert order", Err: errDiskFull}
}
func (failingRepo) FindByID(context.Context, int64) (*domain.Order, error) {
	return nil, &domain.StorageError{Op: "find order", Err: errDiskFull}
}
func (failingRepo) ListRecent(context.Context, int) ([]*domain.Order, error) {
	return nil, &domain.StorageError{Op: "list orders", Err: errDiskFull}
}
func (failingRepo) Update(context.Context, int64, *domain.Order) error {
	return &domain.StorageError{Op: "update order", Err: errDiskFull}
}
func (failingRepo) Delete(context.Context, int64) error {
	return &domain.StorageError{Op: "delete order", Err: errDiskFull}
}

type recordingRepo struct {
	failingRepo
	limit int
}

func (r *recordingRepo) ListRecent(_ context.Context, limit int) ([]*domain.Order, error) {
	r.limit = limit
	return nil, nil
}
