package engine

import (
	"reflect"
	"testing"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

// genAmount draws a decimal with up to two fractional digits.
func genAmount(lo, hi int64) *rapid.Generator[decimal.Decimal] {
	return rapid.Custom(func(t *rapid.T) decimal.Decimal {
		return decimal.New(rapid.Int64Range(lo*100, hi*100).Draw(t, "cents"), -2)
	})
}

func genInput() *rapid.Generator[domain.OrderInput] {
	return rapid.Custom(func(t *rapid.T) domain.OrderInput {
		return domain.OrderInput{
			PriceTHB:            genAmount(-1_000, 100_000).Draw(t, "price_thb"),
			ShippingTHB:         genAmount(0, 5_000).Draw(t, "shipping_thb"),
			ServiceFeeLAK:       genAmount(0, 500_000).Draw(t, "service_fee_lak"),
			THToLAChargeLAK:     genAmount(0, 500_000).Draw(t, "th_to_la_charge_lak"),
			ActualTHToLACostLAK: genAmount(0, 500_000).Draw(t, "actual_th_to_la_cost_lak"),
			CustomerRate: rapid.OneOf(
				rapid.Just(decimal.Zero),
				genAmount(1, 2_000),
			).Draw(t, "customer_rate"),
		}
	})
}

func TestProperty_PriceIsPure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := genInput().Draw(t, "input")
		base := genAmount(0, 2_000).Draw(t, "base")

		a := Price(in, base)
		b := Price(in, base)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Price not deterministic:\n%+v\n%+v", a, b)
		}
	})
}

func TestProperty_ZeroCost(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := genInput().Draw(t, "input")
		in.CustomerRate = decimal.Zero

		o := Price(in, decimal.Zero)
		if !o.PriceLAK.IsZero() || !o.ShippingLAK.IsZero() || !o.RateProfitLAK.IsZero() {
			t.Fatalf("zero rate produced THB conversions: %+v", o)
		}
		if want := o.TotalLAK.Sub(in.ActualTHToLACostLAK); !o.NetProfitLAK.Equal(want) {
			t.Fatalf("NetProfitLAK = %s, want %s", o.NetProfitLAK, want)
		}
	})
}

func TestProperty_SpreadIsolation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := genInput().Draw(t, "input")
		base := genAmount(1, 2_000).Draw(t, "base")
		in.CustomerRate = base

		if o := Price(in, base); !o.RateProfitLAK.IsZero() {
			t.Fatalf("RateProfitLAK = %s, want 0 when customer rate equals base", o.RateProfitLAK)
		}
	})
}

func TestProperty_Additivity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := genInput().Draw(t, "input")
		base := genAmount(0, 2_000).Draw(t, "base")

		o := Price(in, base)
		want := o.PriceLAK.Add(o.ShippingLAK).Add(in.ServiceFeeLAK).Add(in.THToLAChargeLAK)
		if !o.TotalLAK.Equal(want) {
			t.Fatalf("TotalLAK = %s, want %s", o.TotalLAK, want)
		}
	})
}

func TestProperty_ProfitDecomposition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := genInput().Draw(t, "input")
		base := genAmount(0, 2_000).Draw(t, "base")

		o := Price(in, base)
		cost := in.PriceTHB.Mul(base).Add(in.ShippingTHB.Mul(base)).Add(in.ActualTHToLACostLAK)
		if want := o.TotalLAK.Sub(cost); !o.NetProfitLAK.Equal(want) {
			t.Fatalf("NetProfitLAK = %s, want %s", o.NetProfitLAK, want)
		}
		// The spread is one component of the net profit.
		if want := o.NetProfitLAK.Sub(o.RateProfitLAK); !o.OtherProfitLAK().Equal(want) {
			t.Fatalf("OtherProfitLAK = %s, want %s", o.OtherProfitLAK(), want)
		}
	})
}
