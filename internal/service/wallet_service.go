package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/GohLiangHong/SupermarketApp/internal/correlation"
	"github.com/GohLiangHong/SupermarketApp/internal/domain"
	"github.com/GohLiangHong/SupermarketApp/internal/events"
)

const (
	topupMin = 1
	topupMax = 1000

	transactionHistoryLimit = 10
)

type WalletService struct {
	wallets    WalletRepo
	orders     *OrderService
	settlement *SettlementService
	card       CardClient
	qr         QrClient
	corr       correlation.Store
	publisher  events.Publisher
}

func NewWalletService(wallets WalletRepo, orders *OrderService, settlement *SettlementService, cardClient CardClient, qrClient QrClient, corr correlation.Store, publisher events.Publisher) *WalletService {
	return &WalletService{
		wallets:    wallets,
		orders:     orders,
		settlement: settlement,
		card:       cardClient,
		qr:         qrClient,
		corr:       corr,
		publisher:  publisher,
	}
}

// Overview is the wallet home: balance plus recent transactions.
type Overview struct {
	Wallet       *domain.Wallet             `json:"wallet"`
	Transactions []domain.WalletTransaction `json:"transactions"`
}

func (s *WalletService) Overview(ctx context.Context, userID int64) (*Overview, error) {
	if err := s.wallets.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	wallet, err := s.wallets.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.wallets.ListTransactions(ctx, userID, transactionHistoryLimit)
	if err != nil {
		return nil, err
	}
	return &Overview{Wallet: wallet, Transactions: txs}, nil
}

// PayResult is the outcome of paying an order from the wallet.
type PayResult struct {
	Success      bool              `json:"success"`
	Insufficient bool              `json:"insufficient,omitempty"`
	Balance      string            `json:"balance"`
	Settlement   *SettlementResult `json:"settlement,omitempty"`
}

// PayOrder debits the wallet for the order total. The debit locks the wallet
// row, re-checks the balance and marks the order PAID atomically; the
// remaining settlement side effects run afterwards.
func (s *WalletService) PayOrder(ctx context.Context, userID, orderID int64, isAdmin bool) (*PayResult, error) {
	order, err := s.orders.Get(ctx, orderID, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	if order.Total <= 0 {
		return nil, ErrInvalidAmount
	}

	debit, err := s.wallets.DebitForOrder(ctx, order.UserID, orderID, order.Total)
	if err != nil {
		return nil, err
	}
	if debit.Insufficient {
		return &PayResult{
			Insufficient: true,
			Balance:      domain.FormatMoney(debit.Balance),
		}, nil
	}

	result := s.settlement.FinalizeAfterDebit(ctx, orderID, order.UserID, debit.AlreadyPaid)
	return &PayResult{
		Success:    true,
		Balance:    domain.FormatMoney(debit.Balance),
		Settlement: result,
	}, nil
}

// StartTopup opens a top-up attempt in status CREATED.
func (s *WalletService) StartTopup(ctx context.Context, userID int64, amount float64) (int64, error) {
	amount = domain.RoundMoney(amount)
	if amount < topupMin || amount > topupMax {
		return 0, ErrInvalidAmount
	}
	if err := s.wallets.Ensure(ctx, userID); err != nil {
		return 0, err
	}
	return s.wallets.CreateTopup(ctx, userID, amount)
}

// CreateCardTopupOrder registers a processor order for the top-up amount.
// The stored transaction amount is the source of truth.
func (s *WalletService) CreateCardTopupOrder(ctx context.Context, userID, txID int64) (string, error) {
	tx, err := s.ownedTransaction(ctx, userID, txID)
	if err != nil {
		return "", err
	}
	if tx.Status == domain.TopupStatusCompleted {
		return "", ErrTopupCompleted
	}
	amount := domain.RoundMoney(tx.Amount)
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	reference := fmt.Sprintf("WALLET-TOPUP-%d-%d", userID, txID)
	providerOrderID, err := s.card.CreateOrder(ctx, domain.FormatMoney(amount), domain.DefaultCurrency, reference)
	if err != nil {
		return "", err
	}

	if err := s.wallets.MarkProviderOrderCreated(ctx, txID, providerOrderID); err != nil {
		return "", err
	}
	return providerOrderID, nil
}

// CaptureCardTopup captures the processor order and credits the wallet.
// Duplicate captures are absorbed by the locked, idempotent CompleteTopup.
func (s *WalletService) CaptureCardTopup(ctx context.Context, userID, txID int64, providerOrderID string) error {
	tx, err := s.ownedTransaction(ctx, userID, txID)
	if err != nil {
		return err
	}

	capture, err := s.card.CaptureOrder(ctx, providerOrderID)
	if err != nil {
		return err
	}
	if !capture.Completed {
		if e2 := s.wallets.MarkFailed(ctx, txID, userID, capture.Raw); e2 != nil {
			log.Printf("failed to mark topup %d failed: %v", txID, e2)
		}
		return ErrPaymentNotCompleted
	}

	alreadyCompleted, err := s.wallets.CompleteTopup(ctx, txID, userID, &capture.CaptureID, nil, capture.Raw)
	if err != nil {
		return err
	}
	if !alreadyCompleted {
		s.publisher.PublishTopupCompleted(ctx, events.TopupCompleted{
			TransactionID: txID,
			UserID:        userID,
			Amount:        tx.Amount,
			CompletedAt:   time.Now(),
		})
	}
	return nil
}

// QrTopup is what the front end needs to render the top-up QR.
type QrTopup struct {
	TransactionID   int64  `json:"transaction_id"`
	Amount          string `json:"amount"`
	QrCodeBase64    string `json:"qr_code"`
	TxnRetrievalRef string `json:"txn_retrieval_ref"`
	TimerSeconds    int    `json:"timer_seconds"`
}

// StartQrTopup opens a top-up and requests a QR for it, recording the
// provider reference for the success callback.
func (s *WalletService) StartQrTopup(ctx context.Context, userID int64, amount float64) (*QrTopup, error) {
	txID, err := s.StartTopup(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	amount = domain.RoundMoney(amount)

	env, err := s.qr.RequestQr(ctx, domain.FormatMoney(amount))
	if err != nil {
		return nil, err
	}
	data := env.Result.Data
	if !data.QrIssued() {
		return nil, ErrQrNotIssued
	}

	entry := correlation.Entry{Kind: correlation.KindTopup, ID: txID, UserID: userID}
	if err := s.corr.Put(ctx, data.TxnRetrievalRef, entry); err != nil {
		return nil, err
	}
	if err := s.wallets.MarkQrCreated(ctx, txID, userID, data.TxnRetrievalRef, env.Raw); err != nil {
		return nil, err
	}

	return &QrTopup{
		TransactionID:   txID,
		Amount:          domain.FormatMoney(amount),
		QrCodeBase64:    data.QrCode,
		TxnRetrievalRef: data.TxnRetrievalRef,
		TimerSeconds:    300,
	}, nil
}

// CompleteQrTopup resolves the provider reference back to the top-up and
// credits the wallet; the correlation entry is consumed.
func (s *WalletService) CompleteQrTopup(ctx context.Context, userID int64, txnRetrievalRef string) (int64, error) {
	entry, err := s.corr.Get(ctx, txnRetrievalRef)
	if err != nil {
		return 0, ErrInvalidProviderRef
	}
	if entry.Kind != correlation.KindTopup || entry.UserID != userID {
		return 0, ErrInvalidProviderRef
	}

	tx, err := s.ownedTransaction(ctx, userID, entry.ID)
	if err != nil {
		return 0, err
	}

	alreadyCompleted, err := s.wallets.CompleteTopup(ctx, entry.ID, userID, nil, &txnRetrievalRef, nil)
	if err != nil {
		return 0, err
	}

	if err := s.corr.Delete(ctx, txnRetrievalRef); err != nil {
		log.Printf("failed to delete correlation entry %s: %v", txnRetrievalRef, err)
	}
	if !alreadyCompleted {
		s.publisher.PublishTopupCompleted(ctx, events.TopupCompleted{
			TransactionID: entry.ID,
			UserID:        userID,
			Amount:        tx.Amount,
			CompletedAt:   time.Now(),
		})
	}
	return entry.ID, nil
}

// FailQrTopup marks the top-up FAILED, best-effort; errors are logged only.
func (s *WalletService) FailQrTopup(ctx context.Context, userID int64, txnRetrievalRef string) {
	entry, err := s.corr.Get(ctx, txnRetrievalRef)
	if err != nil || entry.Kind != correlation.KindTopup || entry.UserID != userID {
		return
	}
	if err := s.wallets.MarkFailed(ctx, entry.ID, userID, nil); err != nil {
		log.Printf("failed to mark topup %d failed: %v", entry.ID, err)
	}
	if err := s.corr.Delete(ctx, txnRetrievalRef); err != nil {
		log.Printf("failed to delete correlation entry %s: %v", txnRetrievalRef, err)
	}
}

func (s *WalletService) ownedTransaction(ctx context.Context, userID, txID int64) (*domain.WalletTransaction, error) {
	tx, err := s.wallets.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, ErrForbidden
	}
	return tx, nil
}
