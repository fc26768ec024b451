package domain

import (
	"math"
	"strconv"
)

// DefaultCurrency is the single settlement currency.
const DefaultCurrency = "SGD"

// moneyEpsilon absorbs float drift in balance comparisons.
const moneyEpsilon = 1e-9

// RoundMoney rounds to two decimal places.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatMoney renders an amount with two decimals, e.g. "15.00".
func FormatMoney(v float64) string {
	return strconv.FormatFloat(RoundMoney(v), 'f', 2, 64)
}

// MoneyLess reports a < b with epsilon tolerance.
func MoneyLess(a, b float64) bool {
	return a+moneyEpsilon < b
}
