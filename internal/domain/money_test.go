package domain

import "testing"

func TestMinorUnits(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		amount   float64
		currency string
		want     int64
	}{
		{"usd whole dollars", 50, "usd", 5000},
		{"usd with cents", 19.99, "usd", 1999},
		{"usd float rounding", 12.34, "usd", 1234},
		{"eur", 120.50, "eur", 12050},
		{"jpy zero-decimal", 1000, "jpy", 1000},
		{"krw zero-decimal", 50000, "krw", 50000},
		{"uppercase currency", 1000, "JPY", 1000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MinorUnits(tc.amount, tc.currency); got != tc.want {
				t.Errorf("MinorUnits(%v, %q) = %d, want %d", tc.amount, tc.currency, got, tc.want)
			}
		})
	}
}
