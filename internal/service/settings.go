package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/shopspring/decimal"
)

// SettingsService reads and changes the base exchange rate.
type SettingsService struct {
	rates  RateStore
	logger *slog.Logger
	now    func() time.Time
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(rates RateStore, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		rates:  rates,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the current settings. An unset rate reads as zero.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.rates.CurrentRate(ctx)
}

// SetRate stores a new base rate. Existing orders keep the rate they were
// priced at.
func (s *SettingsService) SetRate(ctx context.Context, rate decimal.Decimal) (domain.Settings, error) {
	if !rate.IsPositive() {
		return domain.Settings{}, &domain.ValidationError{
			Message: "exchange_rate must be > 0",
		}
	}

	st, err := s.rates.SetExchangeRate(ctx, rate, s.now().UTC())
	if err != nil {
		return domain.Settings{}, err
	}
	s.logger.Info("exchange rate updated", slog.String("exchange_rate", rate.String()))
	return st, nil
}

// Seed stores rate when no rate has been set yet. A zero rate is a no-op.
// It reports whether the rate was written.
func (s *SettingsService) Seed(ctx context.Context, rate decimal.Decimal) (bool, error) {
	if !rate.IsPositive() {
		return false, nil
	}
	st, err := s.rates.CurrentRate(ctx)
	if err != nil {
		return false, err
	}
	if st.UpdatedAt != nil || !st.ExchangeRate.IsZero() {
		return false, nil
	}
	if _, err := s.SetRate(ctx, rate); err != nil {
		return false, err
	}
	return true, nil
}
