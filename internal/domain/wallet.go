package domain

import (
	"encoding/json"
	"time"
)

type Wallet struct {
	UserID    int64     `json:"user_id"`
	Balance   float64   `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TopupStatus string

const (
	TopupStatusCreated              TopupStatus = "CREATED"
	TopupStatusProviderOrderCreated TopupStatus = "PROVIDER_ORDER_CREATED"
	TopupStatusProviderQrCreated    TopupStatus = "PROVIDER_QR_CREATED"
	TopupStatusCompleted            TopupStatus = "COMPLETED"
	TopupStatusFailed               TopupStatus = "FAILED"
)

const TransactionTypeTopup = "TOPUP"

// WalletTransaction is one top-up attempt against an external provider.
type WalletTransaction struct {
	ID                int64           `json:"id"`
	UserID            int64           `json:"user_id"`
	Type              string          `json:"type"`
	Amount            float64         `json:"amount"`
	Status            TopupStatus     `json:"status"`
	ProviderOrderID   *string         `json:"provider_order_id,omitempty"`
	ProviderCaptureID *string         `json:"provider_capture_id,omitempty"`
	QrTxnRef          *string         `json:"qr_txn_ref,omitempty"`
	RawPayload        json.RawMessage `json:"-"`
	CreatedAt         time.Time       `json:"created_at"`
}
