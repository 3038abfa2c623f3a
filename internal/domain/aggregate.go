package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AggregateFunc is the reduction applied by an AggregateQuery.
type AggregateFunc string

const (
	AggregateSum   AggregateFunc = "sum"
	AggregateCount AggregateFunc = "count"
)

// AggregateField names a summable order column.
type AggregateField string

const (
	FieldTotalLAK      AggregateField = "total_lak"
	FieldNetProfitLAK  AggregateField = "net_profit_lak"
	FieldRateProfitLAK AggregateField = "rate_profit_lak"
)

// Of returns the value of f on o, or zero for an unknown field.
func (f AggregateField) Of(o *Order) decimal.Decimal {
	switch f {
	case FieldTotalLAK:
		return o.TotalLAK
	case FieldNetProfitLAK:
		return o.NetProfitLAK
	case FieldRateProfitLAK:
		return o.RateProfitLAK
	}
	return decimal.Zero
}

// Valid reports whether f is a known column.
func (f AggregateField) Valid() bool {
	switch f {
	case FieldTotalLAK, FieldNetProfitLAK, FieldRateProfitLAK:
		return true
	}
	return false
}

// AggregateFilter restricts the orders an aggregate covers. Zero-valued
// fields do not filter. DateFrom/DateTo form a half-open range
// [DateFrom, DateTo) over order_date.
type AggregateFilter struct {
	Date          string
	DateFrom      string
	DateTo        string
	PaymentStatus PaymentStatus
}

// Match reports whether o satisfies the filter.
func (f AggregateFilter) Match(o *Order) bool {
	if f.Date != "" && o.OrderDate != f.Date {
		return false
	}
	if f.DateFrom != "" && o.OrderDate < f.DateFrom {
		return false
	}
	if f.DateTo != "" && o.OrderDate >= f.DateTo {
		return false
	}
	if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
		return false
	}
	return true
}

// AggregateQuery describes one SUM or COUNT over the orders table.
// Field is ignored for counts.
type AggregateQuery struct {
	Func   AggregateFunc
	Field  AggregateField
	Filter AggregateFilter
}

// Sum builds a SUM(field) query.
func Sum(field AggregateField, filter AggregateFilter) AggregateQuery {
	return AggregateQuery{Func: AggregateSum, Field: field, Filter: filter}
}

// Count builds a COUNT(*) query.
func Count(filter AggregateFilter) AggregateQuery {
	return AggregateQuery{Func: AggregateCount, Filter: filter}
}

func (q AggregateQuery) String() string {
	if q.Func == AggregateCount {
		return fmt.Sprintf("count%+v", q.Filter)
	}
	return fmt.Sprintf("sum(%s)%+v", q.Field, q.Filter)
}
