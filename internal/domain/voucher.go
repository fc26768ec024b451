package domain

import (
	"strings"
	"time"
)

type Voucher struct {
	ID              int64      `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discount_percent"`
	MinSpend        float64    `json:"min_spend"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	IsUsed          bool       `json:"is_used"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NormalizeVoucherCode trims and upper-cases a code; codes are case-insensitive.
func NormalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (v Voucher) Expired(now time.Time) bool {
	return v.ExpiresAt != nil && v.ExpiresAt.Before(now)
}
