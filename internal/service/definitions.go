package service

import (
	"context"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
	"github.com/GohLiangHong/SupermarketApp/internal/payment/card"
	"github.com/GohLiangHong/SupermarketApp/internal/payment/netsqr"
	"github.com/GohLiangHong/SupermarketApp/internal/repository"
)

// Repository interfaces the services depend on; satisfied by the postgres
// repositories and by the hand mocks in mocks_test.go.

type ProductRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	DecrementStock(ctx context.Context, id int64, amount int) error
}

type CartRepo interface {
	GetByUser(ctx context.Context, userID int64) ([]domain.CartLine, error)
	GetQuantity(ctx context.Context, userID, productID int64) (int, error)
	Upsert(ctx context.Context, userID, productID int64, delta int) error
	SetQuantity(ctx context.Context, userID, productID int64, qty int) error
	Remove(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
	ClearSelected(ctx context.Context, userID int64, productIDs []int64) error
}

type OrderRepo interface {
	CreateWithItems(ctx context.Context, order *domain.Order) error
	GetWithItems(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	MarkPaid(ctx context.Context, orderID, userID int64, mode domain.PaymentMode, providerOrderID, transactionID *string) (bool, error)
	DistinctProductIDs(ctx context.Context, orderID int64) ([]int64, error)
}

type VoucherRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
	List(ctx context.Context) ([]domain.Voucher, error)
	Create(ctx context.Context, v *domain.Voucher) error
	MarkUsedByCode(ctx context.Context, code string) error
	MarkUsedForOrder(ctx context.Context, orderID int64) error
}

type FeedbackRepo interface {
	UpsertForOrder(ctx context.Context, userID, orderID int64, rating int, comment string) (*domain.Feedback, error)
	CreateGeneral(ctx context.Context, userID int64, rating int, comment string) (*domain.Feedback, error)
	GetForOrderAndUser(ctx context.Context, orderID, userID int64) (*domain.Feedback, error)
	List(ctx context.Context) ([]domain.Feedback, error)
	Delete(ctx context.Context, id int64) error
}

type WalletRepo interface {
	Ensure(ctx context.Context, userID int64) error
	Get(ctx context.Context, userID int64) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, userID int64, limit int) ([]domain.WalletTransaction, error)
	CreateTopup(ctx context.Context, userID int64, amount float64) (int64, error)
	GetTransaction(ctx context.Context, txID int64) (*domain.WalletTransaction, error)
	MarkProviderOrderCreated(ctx context.Context, txID int64, providerOrderID string) error
	MarkQrCreated(ctx context.Context, txID, userID int64, qrTxnRef string, raw []byte) error
	CompleteTopup(ctx context.Context, txID, userID int64, captureID, qrTxnRef *string, raw []byte) (bool, error)
	MarkFailed(ctx context.Context, txID, userID int64, raw []byte) error
	DebitForOrder(ctx context.Context, userID, orderID int64, amount float64) (*repository.DebitResult, error)
}

// Provider client interfaces, satisfied by the payment/card and
// payment/netsqr clients.

type CardClient interface {
	CreateOrder(ctx context.Context, amount, currency, reference string) (string, error)
	CaptureOrder(ctx context.Context, providerOrderID string) (*card.CaptureResult, error)
}

type QrClient interface {
	RequestQr(ctx context.Context, amountInDollars string) (*netsqr.Envelope, error)
	QueryStatus(ctx context.Context, txnRetrievalRef string, frontendTimedOut bool) (*netsqr.Envelope, error)
}
