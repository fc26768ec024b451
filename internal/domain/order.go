package domain

import (
	"strconv"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPaid    OrderStatus = "PAID"
)

type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "CASH"
	PaymentModeCard   PaymentMode = "CARD"
	PaymentModeNets   PaymentMode = "NETS"
	PaymentModeWallet PaymentMode = "WALLET"
)

type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	ReferenceID     string      `json:"reference_id"`
	ProviderOrderID *string     `json:"provider_order_id,omitempty"`
	TransactionID   *string     `json:"transaction_id,omitempty"`
	PaymentMode     PaymentMode `json:"payment_mode"`
	Status          OrderStatus `json:"status"`
	Currency        string      `json:"currency"`
	Subtotal        float64     `json:"subtotal"`
	Tax             float64     `json:"tax"`
	ShippingFee     float64     `json:"shipping_fee"`
	Discount        float64     `json:"discount"`
	Total           float64     `json:"total"`
	VoucherCode     *string     `json:"voucher_code,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	CapturedAt      *time.Time  `json:"captured_at,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

// NewReferenceID returns a human-readable order reference, e.g. REF-MB8F5NK0.
func NewReferenceID(now time.Time) string {
	return "REF-" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
}
