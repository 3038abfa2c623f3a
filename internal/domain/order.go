package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus records whether the customer has settled an order.
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "Paid"
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
)

// ParsePaymentStatus maps free-form input onto the two payment states.
// Matching is case-insensitive; anything other than "paid" is Unpaid.
func ParsePaymentStatus(s string) PaymentStatus {
	if strings.EqualFold(strings.TrimSpace(s), string(PaymentStatusPaid)) {
		return PaymentStatusPaid
	}
	return PaymentStatusUnpaid
}

// Valid reports whether p is one of the known payment states.
func (p PaymentStatus) Valid() bool {
	return p == PaymentStatusPaid || p == PaymentStatusUnpaid
}

// OrderStatus is the operator's fulfilment note for an order
// ("Pending", "Shipped", ...). Any non-empty text is accepted.
type OrderStatus string

// OrderStatusPending is assigned when no status is supplied.
const OrderStatusPending OrderStatus = "Pending"

// ParseOrderStatus trims s and falls back to Pending when it is blank.
func ParseOrderStatus(s string) OrderStatus {
	s = strings.TrimSpace(s)
	if s == "" {
		return OrderStatusPending
	}
	return OrderStatus(s)
}

// OrderInput holds the caller-supplied fields of an order. THB amounts are
// converted at CustomerRate; LAK amounts are taken as-is. A zero
// CustomerRate means "charge the base rate".
type OrderInput struct {
	OrderDate           string
	CustomerName        string
	ProductLink         string
	PriceTHB            decimal.Decimal
	ShippingTHB         decimal.Decimal
	ServiceFeeLAK       decimal.Decimal
	THToLAChargeLAK     decimal.Decimal
	ActualTHToLACostLAK decimal.Decimal
	CustomerRate        decimal.Decimal
	PaymentStatus       PaymentStatus
	OrderStatus         OrderStatus
	TrackingNo          string
	Carrier             string
	TrackingLink        string
}

// Order is a priced order record. The derived LAK fields are always a
// function of the embedded input and Rate, the base rate in effect when the
// order was last priced. After pricing, CustomerRate holds the effective
// rate charged.
type Order struct {
	ID int64
	OrderInput

	Rate          decimal.Decimal
	PriceLAK      decimal.Decimal
	ShippingLAK   decimal.Decimal
	TotalLAK      decimal.Decimal
	RateProfitLAK decimal.Decimal
	NetProfitLAK  decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OtherProfitLAK is the part of the net profit not explained by the
// currency spread.
func (o *Order) OtherProfitLAK() decimal.Decimal {
	return o.NetProfitLAK.Sub(o.RateProfitLAK)
}
