// Package money provides the currency precision primitives the rest of the
// application uses whenever it rounds or compares monetary amounts. A fixed
// epsilon of 0.01 would wrongly reject rounded zero-decimal amounts (JPY) and
// silently accept real imbalances in three-decimal currencies (BHD), so every
// comparison goes through the per-currency epsilon here.
package money

import "github.com/shopspring/decimal"

// defaultDecimalPlaces applies to any currency code not present in the table,
// per ISO 4217 convention.
const defaultDecimalPlaces = 2

// iso4217MinorUnits lists the currencies whose minor unit differs from 2.
var iso4217MinorUnits = map[string]int{
	// Zero-decimal currencies
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0,
	"KMF": 0, "KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "UYI": 0,
	"VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
	// Three-decimal currencies
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
	// Four-decimal currencies
	"CLF": 4, "UYW": 4,
}

// Service answers precision questions for currency codes. The table is
// injected so tests can exercise alternate precisions; Default returns a
// service backed by the ISO 4217 minor-units table.
type Service struct {
	places map[string]int
}

// NewService creates a precision service with a custom decimal-places table.
// The table maps currency codes to their number of decimal places; codes not
// present default to 2.
func NewService(places map[string]int) *Service {
	cloned := make(map[string]int, len(places))
	for code, p := range places {
		cloned[code] = p
	}
	return &Service{places: cloned}
}

// Default returns a service backed by the ISO 4217 minor-units table.
func Default() *Service {
	return &Service{places: iso4217MinorUnits}
}

// DecimalPlaces returns the number of decimal places for a currency code.
// Unknown codes default to 2 rather than failing.
func (s *Service) DecimalPlaces(code string) int {
	if p, ok := s.places[code]; ok {
		return p
	}
	return defaultDecimalPlaces
}

// Round rounds an amount to the given number of decimal places (half away
// from zero, the standard monetary rounding).
func (s *Service) Round(amount decimal.Decimal, places int) decimal.Decimal {
	return amount.Round(int32(places))
}

// RoundTo rounds an amount to the currency's decimal places.
func (s *Service) RoundTo(amount decimal.Decimal, code string) decimal.Decimal {
	return s.Round(amount, s.DecimalPlaces(code))
}

// BaseAmount converts a transaction-currency amount into the base currency
// and rounds to the base currency's decimal places.
func (s *Service) BaseAmount(fxAmount, rate decimal.Decimal, baseCurrencyCode string) decimal.Decimal {
	return s.RoundTo(fxAmount.Mul(rate), baseCurrencyCode)
}

// Epsilon returns 10^-decimalPlaces for the currency, the largest difference
// two amounts may show and still be considered equal after rounding.
func (s *Service) Epsilon(code string) decimal.Decimal {
	return decimal.New(1, -int32(s.DecimalPlaces(code)))
}

// Equal reports whether two amounts are equal within the currency's epsilon.
func (s *Service) Equal(a, b decimal.Decimal, code string) bool {
	return a.Sub(b).Abs().LessThanOrEqual(s.Epsilon(code))
}
