package store

import (
	"testing"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateExpr(t *testing.T) {
	expr, err := aggregateExpr(domain.Count(domain.AggregateFilter{}))
	require.NoError(t, err)
	assert.Equal(t, "COUNT(*)", expr)

	expr, err = aggregateExpr(domain.Sum(domain.FieldNetProfitLAK, domain.AggregateFilter{}))
	require.NoError(t, err)
	assert.Equal(t, "COALESCE(SUM(net_profit_lak), 0)", expr)

	_, err = aggregateExpr(domain.Sum("price_lak; DROP TABLE orders", domain.AggregateFilter{}))
	assert.Error(t, err)

	_, err = aggregateExpr(domain.AggregateQuery{Func: "avg", Field: domain.FieldTotalLAK})
	assert.Error(t, err)
}

func TestWhereClause(t *testing.T) {
	where, args := whereClause(domain.AggregateFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = whereClause(domain.AggregateFilter{Date: "2025-03-15"})
	assert.Equal(t, "order_date = ?", where)
	assert.Equal(t, []any{"2025-03-15"}, args)

	where, args = whereClause(domain.AggregateFilter{DateFrom: "2025-03-01", DateTo: "2025-04-01"})
	assert.Equal(t, "order_date >= ? AND order_date < ?", where)
	assert.Equal(t, []any{"2025-03-01", "2025-04-01"}, args)

	where, args = whereClause(domain.AggregateFilter{PaymentStatus: domain.PaymentStatusUnpaid})
	assert.Equal(t, "payment_status = ?", where)
	assert.Equal(t, []any{"Unpaid"}, args)
}
