package store

import (
	"fmt"
	"strings"

	"github.com/efreitasn/kipledger/internal/domain"
)

// aggregateExpr renders the SELECT expression for q. Sums are wrapped in
// COALESCE so an empty set yields 0 rather than NULL.
func aggregateExpr(q domain.AggregateQuery) (string, error) {
	switch q.Func {
	case domain.AggregateCount:
		return "COUNT(*)", nil
	case domain.AggregateSum:
		if !q.Field.Valid() {
			return "", fmt.Errorf("unknown aggregate field %q", q.Field)
		}
		return "COALESCE(SUM(" + string(q.Field) + "), 0)", nil
	default:
		return "", fmt.Errorf("unknown aggregate func %q", q.Func)
	}
}

// whereClause renders f as a parameterized condition. An empty filter
// yields an empty clause.
func whereClause(f domain.AggregateFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Date != "" {
		conds = append(conds, "order_date = ?")
		args = append(args, f.Date)
	}
	if f.DateFrom != "" {
		conds = append(conds, "order_date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		conds = append(conds, "order_date < ?")
		args = append(args, f.DateTo)
	}
	if f.PaymentStatus != "" {
		conds = append(conds, "payment_status = ?")
		args = append(args, string(f.PaymentStatus))
	}
	return strings.Join(conds, " AND "), args
}
