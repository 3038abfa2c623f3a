package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the process-wide ledger configuration held by storage.
// A missing row reads as the zero value: rate 0 and no timestamp.
type Settings struct {
	ExchangeRate decimal.Decimal // THB→LAK base rate
	UpdatedAt    *time.Time
}
