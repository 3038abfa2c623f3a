package store

import (
	"context"
	"sync"
	"time"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/shopspring/decimal"
)

// SettingsStore is a thread-safe in-memory holder for the settings row.
// Until the rate is first set it reads as the zero Settings.
type SettingsStore struct {
	mu       sync.RWMutex
	settings *domain.Settings
}

// NewSettingsStore creates a SettingsStore with no settings row.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

// CurrentRate returns the current settings, or the zero Settings when the
// row has never been written.
func (s *SettingsStore) CurrentRate(_ context.Context) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return domain.Settings{}, nil
	}
	return *s.settings, nil
}

// SetExchangeRate overwrites the base rate and stamps it with at.
func (s *SettingsStore) SetExchangeRate(_ context.Context, rate decimal.Decimal, at time.Time) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = &domain.Settings{ExchangeRate: rate, UpdatedAt: &at}
	return *s.settings, nil
}
