package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, "0"},
		{"float", 100.5, "100.5"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"numeric string", "1350", "1350"},
		{"padded string", "  20.25 ", "20.25"},
		{"exponent string", "1e3", "1000"},
		{"empty string", "", "0"},
		{"garbage string", "abc", "0"},
		{"json number", json.Number("5000"), "5000"},
		{"bool", true, "0"},
		{"object", map[string]any{"a": 1}, "0"},
		{"NaN", math.NaN(), "0"},
		{"Inf", math.Inf(1), "0"},
		{"negative", "-300", "-300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%v) = %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	if got := ToFloat(decimal.RequireFromString("169000")); got != 169000 {
		t.Errorf("ToFloat = %v, want 169000", got)
	}
	if got := ToFloat(decimal.RequireFromString("0.25")); got != 0.25 {
		t.Errorf("ToFloat = %v, want 0.25", got)
	}
}
