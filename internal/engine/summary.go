package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// AggregateReader answers a single SUM or COUNT over the stored orders.
// An empty result set must yield zero, not an error.
type AggregateReader interface {
	Aggregate(ctx context.Context, q domain.AggregateQuery) (decimal.Decimal, error)
}

// RateReader supplies the current base rate and when it last changed.
type RateReader interface {
	CurrentRate(ctx context.Context) (domain.Settings, error)
}

// TodaySummary aggregates the orders dated on the summary date.
type TodaySummary struct {
	TotalLAK    decimal.Decimal
	ProfitTotal decimal.Decimal
	RateProfit  decimal.Decimal
	OtherProfit decimal.Decimal
	OrdersCount int64
}

// MonthSummary aggregates the orders in the calendar month of the summary
// date. Period is formatted YYYY-MM.
type MonthSummary struct {
	TotalLAK    decimal.Decimal
	ProfitTotal decimal.Decimal
	Period      string
}

// PaymentSummary splits all orders by payment status.
type PaymentSummary struct {
	PaidOrders     int64
	UnpaidOrders   int64
	UnpaidValueLAK decimal.Decimal
}

// Summary is the business overview as of one calendar date.
type Summary struct {
	Date           string
	Rate           decimal.Decimal
	RateUpdated    *time.Time
	Today          TodaySummary
	Month          MonthSummary
	Payments       PaymentSummary
	GrossValueLAK  decimal.Decimal
	AllOrdersCount int64
}

// Summarizer composes a Summary from independent aggregate reads.
type Summarizer struct {
	orders AggregateReader
	rates  RateReader
}

// NewSummarizer creates a Summarizer reading from the given sources.
func NewSummarizer(orders AggregateReader, rates RateReader) *Summarizer {
	return &Summarizer{orders: orders, rates: rates}
}

// Summarize computes the summary for asOf, a normalized YYYY-MM-DD date.
// The eleven aggregates and the rate read run concurrently; the call
// returns only after all of them finish, and fails if any one fails.
func (s *Summarizer) Summarize(ctx context.Context, asOf string) (*Summary, error) {
	period, monthStart, monthEnd := domain.MonthRange(asOf)
	if period == "" {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid summary date %q", asOf)}
	}

	today := domain.AggregateFilter{Date: asOf}
	month := domain.AggregateFilter{DateFrom: monthStart, DateTo: monthEnd}
	paid := domain.AggregateFilter{PaymentStatus: domain.PaymentStatusPaid}
	unpaid := domain.AggregateFilter{PaymentStatus: domain.PaymentStatusUnpaid}
	all := domain.AggregateFilter{}

	var (
		todayTotal, todayProfit, todayRateProfit, todayCount decimal.Decimal
		monthTotal, monthProfit                              decimal.Decimal
		paidCount, unpaidCount, unpaidValue                  decimal.Decimal
		allCount, grossValue                                 decimal.Decimal
		settings                                             domain.Settings
	)

	g, gctx := errgroup.WithContext(ctx)

	// Each read writes to its own variable; nothing is shared until Wait.
	read := func(dst *decimal.Decimal, q domain.AggregateQuery) {
		g.Go(func() error {
			v, err := s.orders.Aggregate(gctx, q)
			if err != nil {
				return fmt.Errorf("aggregate %s: %w", q, err)
			}
			*dst = v
			return nil
		})
	}

	read(&todayTotal, domain.Sum(domain.FieldTotalLAK, today))
	read(&todayProfit, domain.Sum(domain.FieldNetProfitLAK, today))
	read(&todayRateProfit, domain.Sum(domain.FieldRateProfitLAK, today))
	read(&todayCount, domain.Count(today))
	read(&monthTotal, domain.Sum(domain.FieldTotalLAK, month))
	read(&monthProfit, domain.Sum(domain.FieldNetProfitLAK, month))
	read(&paidCount, domain.Count(paid))
	read(&unpaidCount, domain.Count(unpaid))
	read(&unpaidValue, domain.Sum(domain.FieldTotalLAK, unpaid))
	read(&allCount, domain.Count(all))
	read(&grossValue, domain.Sum(domain.FieldTotalLAK, all))

	g.Go(func() error {
		st, err := s.rates.CurrentRate(gctx)
		if err != nil {
			return fmt.Errorf("read exchange rate: %w", err)
		}
		settings = st
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Summary{
		Date:        asOf,
		Rate:        settings.ExchangeRate,
		RateUpdated: settings.UpdatedAt,
		Today: TodaySummary{
			TotalLAK:    todayTotal,
			ProfitTotal: todayProfit,
			RateProfit:  todayRateProfit,
			OtherProfit: todayProfit.Sub(todayRateProfit),
			OrdersCount: todayCount.IntPart(),
		},
		Month: MonthSummary{
			TotalLAK:    monthTotal,
			ProfitTotal: monthProfit,
			Period:      period,
		},
		Payments: PaymentSummary{
			PaidOrders:     paidCount.IntPart(),
			UnpaidOrders:   unpaidCount.IntPart(),
			UnpaidValueLAK: unpaidValue,
		},
		GrossValueLAK:  grossValue,
		AllOrdersCount: allCount.IntPart(),
	}, nil
}
