package handler

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/shopspring/decimal"
)

// flexAmount decodes a JSON number, a numeric string, or anything else
// (as zero) into a decimal. It never fails, so one bad amount does not
// reject the whole order.
type flexAmount decimal.Decimal

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		v = nil
	}
	*a = flexAmount(domain.ParseAmount(v))
	return nil
}

func (a flexAmount) Decimal() decimal.Decimal {
	return decimal.Decimal(a)
}

// flexString decodes any JSON scalar into its text form; null and
// composite values decode to "".
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		*s = ""
		return nil
	}
	switch x := v.(type) {
	case string:
		*s = flexString(x)
	case json.Number:
		*s = flexString(x.String())
	case bool:
		*s = flexString(strconv.FormatBool(x))
	default:
		*s = ""
	}
	return nil
}
