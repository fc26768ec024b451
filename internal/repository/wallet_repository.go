package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
	"github.com/lib/pq"
)

type WalletRepository struct {
	db *sql.DB
}

func NewWalletRepository(r *Repository) *WalletRepository {
	return &WalletRepository{db: r.db}
}

// DebitResult is the outcome of a wallet payment attempt.
type DebitResult struct {
	Success      bool
	Insufficient bool
	AlreadyPaid  bool
	Balance      float64
}

// Ensure creates the wallet row lazily on first access.
func (r *WalletRepository) Ensure(ctx context.Context, userID int64) error {
	query := `INSERT INTO wallets (user_id, balance, updated_at)
	          VALUES ($1, 0, NOW())
	          ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("ensure wallet: %w", err)
	}
	return nil
}

func (r *WalletRepository) Get(ctx context.Context, userID int64) (*domain.Wallet, error) {
	var w domain.Wallet
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, balance, updated_at FROM wallets WHERE user_id = $1`,
		userID).Scan(&w.UserID, &w.Balance, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query wallet: %w", err)
	}
	return &w, nil
}

func (r *WalletRepository) ListTransactions(ctx context.Context, userID int64, limit int) ([]domain.WalletTransaction, error) {
	query := `SELECT id, user_id, type, amount, status, provider_order_id, provider_capture_id,
	                 qr_txn_ref, created_at
	          FROM wallet_transactions WHERE user_id = $1 ORDER BY id DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query wallet transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.WalletTransaction
	for rows.Next() {
		var t domain.WalletTransaction
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status,
			&t.ProviderOrderID, &t.ProviderCaptureID, &t.QrTxnRef, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return txs, nil
}

func (r *WalletRepository) CreateTopup(ctx context.Context, userID int64, amount float64) (int64, error) {
	query := `INSERT INTO wallet_transactions (user_id, type, amount, status, created_at)
	          VALUES ($1, $2, $3, $4, NOW()) RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		userID, domain.TransactionTypeTopup, amount, domain.TopupStatusCreated).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert topup transaction: %w", err)
	}
	return id, nil
}

func (r *WalletRepository) GetTransaction(ctx context.Context, txID int64) (*domain.WalletTransaction, error) {
	query := `SELECT id, user_id, type, amount, status, provider_order_id, provider_capture_id,
	                 qr_txn_ref, created_at
	          FROM wallet_transactions WHERE id = $1`

	var t domain.WalletTransaction
	err := r.db.QueryRowContext(ctx, query, txID).Scan(
		&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status,
		&t.ProviderOrderID, &t.ProviderCaptureID, &t.QrTxnRef, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query wallet transaction: %w", err)
	}
	return &t, nil
}

func (r *WalletRepository) MarkProviderOrderCreated(ctx context.Context, txID int64, providerOrderID string) error {
	query := `UPDATE wallet_transactions SET status = $2, provider_order_id = $3 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, txID, domain.TopupStatusProviderOrderCreated, providerOrderID); err != nil {
		return fmt.Errorf("mark provider order created: %w", err)
	}
	return nil
}

func (r *WalletRepository) MarkQrCreated(ctx context.Context, txID, userID int64, qrTxnRef string, raw []byte) error {
	query := `UPDATE wallet_transactions SET status = $3, qr_txn_ref = $4, raw_payload = $5
	          WHERE id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query,
		txID, userID, domain.TopupStatusProviderQrCreated, qrTxnRef, nullableJSON(raw)); err != nil {
		return fmt.Errorf("mark qr created: %w", err)
	}
	return nil
}

// CompleteTopup locks the transaction row, no-ops on an already-COMPLETED
// transaction, then credits the wallet and flips the status, all in one
// transaction. Duplicate provider callbacks therefore credit at most once.
func (r *WalletRepository) CompleteTopup(ctx context.Context, txID, userID int64, captureID, qrTxnRef *string, raw []byte) (alreadyCompleted bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin topup tx: %w", err)
	}
	defer tx.Rollback()

	var owner int64
	var status domain.TopupStatus
	var amount float64
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, status, amount FROM wallet_transactions WHERE id = $1 FOR UPDATE`,
		txID).Scan(&owner, &status, &amount)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrTransactionNotFound
	}
	if err != nil {
		return false, fmt.Errorf("lock topup transaction: %w", err)
	}
	if owner != userID {
		return false, ErrTransactionNotFound
	}
	if status == domain.TopupStatusCompleted {
		if e2 := tx.Commit(); e2 != nil {
			return false, fmt.Errorf("commit topup tx: %w", e2)
		}
		return true, nil
	}
	if domain.RoundMoney(amount) <= 0 {
		return false, fmt.Errorf("topup %d has invalid amount %v", txID, amount)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO wallets (user_id, balance, updated_at) VALUES ($1, 0, NOW())
		 ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return false, fmt.Errorf("ensure wallet in topup tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`SELECT balance FROM wallets WHERE user_id = $1 FOR UPDATE`, userID); err != nil {
		return false, fmt.Errorf("lock wallet row: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallet_transactions
		 SET status = $3, provider_capture_id = COALESCE($4, provider_capture_id),
		     qr_txn_ref = COALESCE($5, qr_txn_ref), raw_payload = COALESCE($6, raw_payload)
		 WHERE id = $1 AND user_id = $2`,
		txID, userID, domain.TopupStatusCompleted, captureID, qrTxnRef, nullableJSON(raw)); err != nil {
		return false, fmt.Errorf("complete topup transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = balance + $2, updated_at = NOW() WHERE user_id = $1`,
		userID, amount); err != nil {
		return false, fmt.Errorf("credit wallet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit topup tx: %w", err)
	}
	return false, nil
}

// MarkFailed is best-effort; callers swallow errors on already-terminal rows.
func (r *WalletRepository) MarkFailed(ctx context.Context, txID, userID int64, raw []byte) error {
	query := `UPDATE wallet_transactions SET status = $3, raw_payload = COALESCE($4, raw_payload)
	          WHERE id = $1 AND user_id = $2 AND status <> $5`

	if _, err := r.db.ExecContext(ctx, query,
		txID, userID, domain.TopupStatusFailed, nullableJSON(raw), domain.TopupStatusCompleted); err != nil {
		return fmt.Errorf("mark topup failed: %w", err)
	}
	return nil
}

// DebitForOrder pays the order from the wallet. An optimistic balance read
// fails fast; the deduct itself re-checks under a row lock and marks the order
// PAID in the same transaction.
func (r *WalletRepository) DebitForOrder(ctx context.Context, userID, orderID int64, amount float64) (*DebitResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid debit amount %v", amount)
	}

	if err := r.Ensure(ctx, userID); err != nil {
		return nil, err
	}

	var balance float64
	err := r.db.QueryRowContext(ctx,
		`SELECT balance FROM wallets WHERE user_id = $1`, userID).Scan(&balance)
	if err != nil {
		return nil, fmt.Errorf("read wallet balance: %w", err)
	}
	if domain.MoneyLess(balance, amount) {
		return &DebitResult{Insufficient: true, Balance: balance}, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin debit tx: %w", err)
	}
	defer tx.Rollback()

	var locked float64
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM wallets WHERE user_id = $1 FOR UPDATE`, userID).Scan(&locked)
	if err != nil {
		return nil, fmt.Errorf("lock wallet row: %w", err)
	}
	// Balance may have moved between the optimistic read and the lock.
	if domain.MoneyLess(locked, amount) {
		return &DebitResult{Insufficient: true, Balance: locked}, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = balance - $2, updated_at = NOW() WHERE user_id = $1`,
		userID, amount); err != nil {
		// The balance CHECK is the last line of defence under the row lock.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23514" {
			return nil, ErrInsufficientFunds
		}
		return nil, fmt.Errorf("deduct wallet balance: %w", err)
	}

	txnID := fmt.Sprintf("WALLET-%d-%d", time.Now().UnixMilli(), orderID)
	res, err := tx.ExecContext(ctx,
		`UPDATE orders
		 SET payment_mode = $3, status = $4, transaction_id = $5, captured_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND status = $6`,
		orderID, userID, domain.PaymentModeWallet, domain.OrderStatusPaid, txnID, domain.OrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("mark order paid rows affected: %w", err)
	}
	if n == 0 {
		// Already PAID: roll back the deduct, the money moved earlier.
		var status domain.OrderStatus
		e2 := tx.QueryRowContext(ctx,
			`SELECT status FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID).Scan(&status)
		if errors.Is(e2, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		if e2 != nil {
			return nil, fmt.Errorf("query order status: %w", e2)
		}
		if status == domain.OrderStatusPaid {
			return &DebitResult{Success: true, AlreadyPaid: true, Balance: locked}, nil
		}
		return nil, fmt.Errorf("order %d in unexpected status %q", orderID, status)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit debit tx: %w", err)
	}
	return &DebitResult{Success: true, Balance: domain.RoundMoney(locked - amount)}, nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
