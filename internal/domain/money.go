package domain

import (
	"math"
	"strings"
)

// zeroDecimalCurrencies are currencies whose smallest unit equals the major
// unit (per ISO 4217 / the payment provider's charge rules), so their
// amounts are never multiplied by 100.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true,
	"kmf": true, "krw": true, "mga": true, "pyg": true, "rwf": true,
	"ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true,
	"xpf": true,
}

// MinorUnits converts a major-unit amount into the provider's minor-unit
// integer representation for the given currency.
//
//	MinorUnits(50, "usd")   == 5000
//	MinorUnits(1000, "jpy") == 1000
func MinorUnits(amount float64, currency string) int64 {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return int64(math.Round(amount))
	}
	return int64(math.Round(amount * 100))
}
