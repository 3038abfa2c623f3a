package store

import (
	"context"
	"testing"
	"time"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/efreitasn/kipledger/internal/engine"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends lists every Backend that can run without external services.
func backends(t *testing.T) map[string]Backend {
	t.Helper()

	sqlite, err := NewSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Backend{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fullOrder(date string, status domain.PaymentStatus, total, net, rateProfit string) *domain.Order {
	now := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	return &domain.Order{
		OrderInput: domain.OrderInput{
			OrderDate:           date,
			CustomerName:        "Noy",
			ProductLink:         "https://shop.example/item/1",
			PriceTHB:            d("100"),
			ShippingTHB:         d("20.5"),
			ServiceFeeLAK:       d("5000"),
			THToLAChargeLAK:     d("2000"),
			ActualTHToLACostLAK: d("3000"),
			CustomerRate:        d("1350"),
			PaymentStatus:       status,
			OrderStatus:         "Shipped",
			TrackingNo:          "TH123",
			Carrier:             "Kerry",
			TrackingLink:        "https://track.example/TH123",
		},
		Rate:          d("1300"),
		PriceLAK:      d("135000"),
		ShippingLAK:   d("27675"),
		TotalLAK:      d(total),
		RateProfitLAK: d(rateProfit),
		NetProfitLAK:  d(net),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func assertDecimalEqual(t *testing.T, want, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, want.Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestBackend_RoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := fullOrder("2025-03-15", domain.PaymentStatusPaid, "169675", "10675", "6025")

			id, err := b.Insert(ctx, in)
			require.NoError(t, err)
			assert.Greater(t, id, int64(0))

			got, err := b.FindByID(ctx, id)
			require.NoError(t, err)

			assert.Equal(t, id, got.ID)
			assert.Equal(t, in.OrderDate, got.OrderDate)
			assert.Equal(t, in.CustomerName, got.CustomerName)
			assert.Equal(t, in.ProductLink, got.ProductLink)
			assert.Equal(t, in.PaymentStatus, got.PaymentStatus)
			assert.Equal(t, in.OrderStatus, got.OrderStatus)
			assert.Equal(t, in.TrackingNo, got.TrackingNo)
			assert.Equal(t, in.Carrier, got.Carrier)
			assert.Equal(t, in.TrackingLink, got.TrackingLink)
			assert.True(t, in.CreatedAt.Equal(got.CreatedAt), "CreatedAt")

			assertDecimalEqual(t, in.PriceTHB, got.PriceTHB, "PriceTHB")
			assertDecimalEqual(t, in.ShippingTHB, got.ShippingTHB, "ShippingTHB")
			assertDecimalEqual(t, in.CustomerRate, got.CustomerRate, "CustomerRate")
			assertDecimalEqual(t, in.Rate, got.Rate, "Rate")
			assertDecimalEqual(t, in.PriceLAK, got.PriceLAK, "PriceLAK")
			assertDecimalEqual(t, in.ShippingLAK, got.ShippingLAK, "ShippingLAK")
			assertDecimalEqual(t, in.TotalLAK, got.TotalLAK, "TotalLAK")
			assertDecimalEqual(t, in.RateProfitLAK, got.RateProfitLAK, "RateProfitLAK")
			assertDecimalEqual(t, in.NetProfitLAK, got.NetProfitLAK, "NetProfitLAK")
		})
	}
}

func TestBackend_KeepsPricedPrecision(t *testing.T) {
	in := domain.OrderInput{
		OrderDate:           "2025-03-15",
		PriceTHB:            d("1999.99"),
		ShippingTHB:         d("0.01"),
		ServiceFeeLAK:       d("10000"),
		ActualTHToLACostLAK: d("2500.5"),
		CustomerRate:        d("649.814842"),
		PaymentStatus:       domain.PaymentStatusUnpaid,
	}
	priced := engine.Price(in, d("634.123457"))
	require.True(t, priced.PriceLAK.Equal(d("1299623.18585158")))

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			o := priced

			id, err := b.Insert(ctx, &o)
			require.NoError(t, err)

			got, err := b.FindByID(ctx, id)
			require.NoError(t, err)

			assertDecimalEqual(t, priced.PriceLAK, got.PriceLAK, "PriceLAK")
			assertDecimalEqual(t, priced.ShippingLAK, got.ShippingLAK, "ShippingLAK")
			assertDecimalEqual(t, priced.TotalLAK, got.TotalLAK, "TotalLAK")
			assertDecimalEqual(t, priced.RateProfitLAK, got.RateProfitLAK, "RateProfitLAK")
			assertDecimalEqual(t, priced.NetProfitLAK, got.NetProfitLAK, "NetProfitLAK")
			assertDecimalEqual(t, priced.CustomerRate, got.CustomerRate, "CustomerRate")
			assertDecimalEqual(t, priced.Rate, got.Rate, "Rate")
		})
	}
}

func TestBackend_NotFound(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := b.FindByID(ctx, 404)
			assert.ErrorIs(t, err, domain.ErrOrderNotFound)

			err = b.Update(ctx, 404, fullOrder("2025-03-15", domain.PaymentStatusPaid, "1", "1", "0"))
			assert.ErrorIs(t, err, domain.ErrOrderNotFound)

			err = b.Delete(ctx, 404)
			assert.ErrorIs(t, err, domain.ErrOrderNotFound)
			assert.False(t, domain.IsStorageFailure(err))
		})
	}
}

func TestBackend_UpdatePreservesCreatedAt(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			orig := fullOrder("2025-03-15", domain.PaymentStatusUnpaid, "100", "10", "0")
			id, err := b.Insert(ctx, orig)
			require.NoError(t, err)

			next := fullOrder("2025-03-16", domain.PaymentStatusPaid, "200", "20", "5")
			next.CreatedAt = time.Time{}
			next.UpdatedAt = orig.UpdatedAt.Add(time.Hour)
			require.NoError(t, b.Update(ctx, id, next))

			got, err := b.FindByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "2025-03-16", got.OrderDate)
			assert.Equal(t, domain.PaymentStatusPaid, got.PaymentStatus)
			assertDecimalEqual(t, d("200"), got.TotalLAK, "TotalLAK")
			assert.True(t, orig.CreatedAt.Equal(got.CreatedAt), "CreatedAt changed to %v", got.CreatedAt)
			assert.True(t, next.UpdatedAt.Equal(got.UpdatedAt), "UpdatedAt = %v", got.UpdatedAt)
		})
	}
}

func TestBackend_ListRecent(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var ids []int64
			for _, date := range []string{"2025-03-01", "2025-03-03", "2025-03-02", "2025-03-03"} {
				id, err := b.Insert(ctx, fullOrder(date, domain.PaymentStatusUnpaid, "1", "0", "0"))
				require.NoError(t, err)
				ids = append(ids, id)
			}

			orders, err := b.ListRecent(ctx, 3)
			require.NoError(t, err)
			require.Len(t, orders, 3)
			assert.Equal(t, ids[3], orders[0].ID)
			assert.Equal(t, ids[1], orders[1].ID)
			assert.Equal(t, ids[2], orders[2].ID)
		})
	}
}

func TestBackend_Aggregate(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			// Empty table: every aggregate is zero.
			for _, q := range []domain.AggregateQuery{
				domain.Count(domain.AggregateFilter{}),
				domain.Sum(domain.FieldTotalLAK, domain.AggregateFilter{}),
				domain.Sum(domain.FieldNetProfitLAK, domain.AggregateFilter{Date: "2025-03-15"}),
			} {
				v, err := b.Aggregate(ctx, q)
				require.NoError(t, err)
				assert.True(t, v.IsZero(), "%s = %s", q, v)
			}

			orders := []*domain.Order{
				fullOrder("2025-03-15", domain.PaymentStatusPaid, "1000", "100", "10"),
				fullOrder("2025-03-15", domain.PaymentStatusUnpaid, "2000.5", "200", "20"),
				fullOrder("2025-03-01", domain.PaymentStatusUnpaid, "4000", "400", "40"),
				fullOrder("2025-02-28", domain.PaymentStatusUnpaid, "8000", "800", "80"),
			}
			for _, o := range orders {
				_, err := b.Insert(ctx, o)
				require.NoError(t, err)
			}

			tests := []struct {
				name string
				q    domain.AggregateQuery
				want string
			}{
				{"count all", domain.Count(domain.AggregateFilter{}), "4"},
				{"gross", domain.Sum(domain.FieldTotalLAK, domain.AggregateFilter{}), "15000.5"},
				{"today count", domain.Count(domain.AggregateFilter{Date: "2025-03-15"}), "2"},
				{"today total", domain.Sum(domain.FieldTotalLAK, domain.AggregateFilter{Date: "2025-03-15"}), "3000.5"},
				{"today net", domain.Sum(domain.FieldNetProfitLAK, domain.AggregateFilter{Date: "2025-03-15"}), "300"},
				{"today rate", domain.Sum(domain.FieldRateProfitLAK, domain.AggregateFilter{Date: "2025-03-15"}), "30"},
				{"month total", domain.Sum(domain.FieldTotalLAK, domain.AggregateFilter{DateFrom: "2025-03-01", DateTo: "2025-04-01"}), "7000.5"},
				{"paid count", domain.Count(domain.AggregateFilter{PaymentStatus: domain.PaymentStatusPaid}), "1"},
				{"unpaid count", domain.Count(domain.AggregateFilter{PaymentStatus: domain.PaymentStatusUnpaid}), "3"},
				{"unpaid value", domain.Sum(domain.FieldTotalLAK, domain.AggregateFilter{PaymentStatus: domain.PaymentStatusUnpaid}), "14000.5"},
			}
			for _, tt := range tests {
				v, err := b.Aggregate(ctx, tt.q)
				require.NoError(t, err, tt.name)
				assertDecimalEqual(t, d(tt.want), v, tt.name)
			}
		})
	}
}

func TestBackend_Settings(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			st, err := b.CurrentRate(ctx)
			require.NoError(t, err)
			assert.True(t, st.ExchangeRate.IsZero())
			assert.Nil(t, st.UpdatedAt)

			first := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)
			_, err = b.SetExchangeRate(ctx, d("1300"), first)
			require.NoError(t, err)

			second := first.Add(time.Hour)
			_, err = b.SetExchangeRate(ctx, d("1325.5"), second)
			require.NoError(t, err)

			st, err = b.CurrentRate(ctx)
			require.NoError(t, err)
			assertDecimalEqual(t, d("1325.5"), st.ExchangeRate, "ExchangeRate")
			require.NotNil(t, st.UpdatedAt)
			assert.True(t, second.Equal(*st.UpdatedAt))
		})
	}
}
