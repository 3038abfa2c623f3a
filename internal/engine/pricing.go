package engine

import (
	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/shopspring/decimal"
)

// Price computes every derived field of an order from its input and the
// business's base THB→LAK rate. It is pure: the same arguments always
// produce the same order. The returned order has no ID or timestamps.
//
//	customerRate    = input.CustomerRate, or baseRate when zero
//	price_lak       = price_thb × customerRate
//	shipping_lak    = shipping_thb × customerRate
//	total_lak       = price_lak + shipping_lak + service_fee_lak + th_to_la_charge_lak
//	rate_profit_lak = (price_thb + shipping_thb) × (customerRate − baseRate)
//	cost_lak        = price_thb×baseRate + shipping_thb×baseRate + actual_th_to_la_cost_lak
//	net_profit_lak  = total_lak − cost_lak
func Price(in domain.OrderInput, baseRate decimal.Decimal) domain.Order {
	customerRate := in.CustomerRate
	if customerRate.IsZero() {
		customerRate = baseRate
	}

	priceLAK := in.PriceTHB.Mul(customerRate)
	shippingLAK := in.ShippingTHB.Mul(customerRate)
	totalLAK := priceLAK.Add(shippingLAK).Add(in.ServiceFeeLAK).Add(in.THToLAChargeLAK)

	rateProfit := in.PriceTHB.Add(in.ShippingTHB).Mul(customerRate.Sub(baseRate))

	cost := in.PriceTHB.Mul(baseRate).
		Add(in.ShippingTHB.Mul(baseRate)).
		Add(in.ActualTHToLACostLAK)

	out := domain.Order{
		OrderInput:    in,
		Rate:          baseRate,
		PriceLAK:      priceLAK,
		ShippingLAK:   shippingLAK,
		TotalLAK:      totalLAK,
		RateProfitLAK: rateProfit,
		NetProfitLAK:  totalLAK.Sub(cost),
	}
	out.CustomerRate = customerRate
	return out
}
