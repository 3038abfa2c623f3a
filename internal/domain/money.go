package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount coerces a loosely typed value into a decimal amount.
// Anything that is not a finite number or a numeric string becomes zero;
// order entry never fails on a malformed amount.
func ParseAmount(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case int32:
		return decimal.NewFromInt32(x)
	case json.Number:
		return ParseAmountString(x.String())
	case string:
		return ParseAmountString(x)
	default:
		return decimal.Zero
	}
}

// ParseAmountString parses s as a decimal, returning zero when s is empty
// or not numeric.
func ParseAmountString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		// Fall back to float syntax ("1e3", "+5") before giving up.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return decimal.Zero
		}
		return fromFloat(f)
	}
	return d
}

// fromFloat guards decimal.NewFromFloat, which panics on NaN and ±Inf.
func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// ToFloat converts a decimal amount to float64 for JSON responses.
func ToFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
