package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/openbooks/openbooks-backend/internal/utils/money"
)

func TestDecimalPlaces(t *testing.T) {
	svc := money.Default()

	tests := []struct {
		code string
		want int
	}{
		{"JPY", 0},
		{"KRW", 0},
		{"VND", 0},
		{"BHD", 3},
		{"KWD", 3},
		{"OMR", 3},
		{"USD", 2},
		{"EUR", 2},
		{"XYZ", 2}, // Unknown codes default to 2
		{"", 2},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.DecimalPlaces(tt.code))
		})
	}
}

func TestBaseAmount(t *testing.T) {
	svc := money.Default()

	tests := []struct {
		name string
		fx   string
		rate string
		base string
		want string
	}{
		{"eur to usd", "100", "1.10", "USD", "110"},
		{"rounds to two places", "33.335", "1", "USD", "33.34"},
		{"rounds to zero places for jpy", "100.4", "1", "JPY", "100"},
		{"keeps three places for bhd", "10.1234", "1", "BHD", "10.123"},
		{"fx multiplication then rounding", "99.99", "1.2345", "USD", "123.44"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := decimal.RequireFromString(tt.fx)
			rate := decimal.RequireFromString(tt.rate)
			got := svc.BaseAmount(fx, rate, tt.base)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestEpsilon(t *testing.T) {
	svc := money.Default()

	assert.True(t, svc.Epsilon("USD").Equal(decimal.RequireFromString("0.01")))
	assert.True(t, svc.Epsilon("JPY").Equal(decimal.RequireFromString("1")))
	assert.True(t, svc.Epsilon("BHD").Equal(decimal.RequireFromString("0.001")))
}

func TestEqual(t *testing.T) {
	svc := money.Default()

	tests := []struct {
		name string
		a    string
		b    string
		code string
		want bool
	}{
		{"exact match", "100.00", "100.00", "USD", true},
		{"within usd epsilon", "100.00", "100.01", "USD", true},
		{"beyond usd epsilon", "100.00", "100.02", "USD", false},
		{"jpy tolerates unit difference", "100", "101", "JPY", true},
		{"jpy rejects beyond unit", "100", "102", "JPY", false},
		{"bhd rejects two-decimal slack", "10.000", "10.010", "BHD", false},
		{"bhd within mil", "10.000", "10.001", "BHD", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := decimal.RequireFromString(tt.a)
			b := decimal.RequireFromString(tt.b)
			assert.Equal(t, tt.want, svc.Equal(a, b, tt.code))
		})
	}
}

func TestNewServiceWithAlternateTable(t *testing.T) {
	svc := money.NewService(map[string]int{"ZZZ": 5})

	assert.Equal(t, 5, svc.DecimalPlaces("ZZZ"))
	assert.Equal(t, 2, svc.DecimalPlaces("JPY")) // Custom table replaces the default entirely
	assert.True(t, svc.Epsilon("ZZZ").Equal(decimal.RequireFromString("0.00001")))
}
