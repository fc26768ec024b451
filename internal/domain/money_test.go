package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.125, 0.13},
		{9.999, 10.00},
		{3.444, 3.44},
		{7.105, 7.11},
		{-0.125, -0.13},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, RoundMoney(tt.in), 0.0001, "RoundMoney(%v)", tt.in)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0.00", FormatMoney(0))
	assert.Equal(t, "3.50", FormatMoney(3.5))
	assert.Equal(t, "12.34", FormatMoney(12.34))
	assert.Equal(t, "100.00", FormatMoney(100))
}

func TestMoneyLess(t *testing.T) {
	// Float noise within a cent must not flag a covered balance as short.
	assert.False(t, MoneyLess(10.00, 10.00))
	assert.False(t, MoneyLess(0.1+0.2, 0.3))
	assert.True(t, MoneyLess(9.99, 10.00))
	assert.False(t, MoneyLess(10.01, 10.00))
}
