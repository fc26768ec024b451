package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
	"github.com/lib/pq"
)

type VoucherRepository struct {
	db *sql.DB
}

func NewVoucherRepository(r *Repository) *VoucherRepository {
	return &VoucherRepository{db: r.db}
}

func (r *VoucherRepository) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	normalized := domain.NormalizeVoucherCode(code)
	if normalized == "" {
		return nil, ErrVoucherNotFound
	}

	query := `SELECT id, code, discount_percent, min_spend, expires_at, is_used, created_at
	          FROM vouchers WHERE code = $1`

	var v domain.Voucher
	err := r.db.QueryRowContext(ctx, query, normalized).Scan(
		&v.ID, &v.Code, &v.DiscountPercent, &v.MinSpend, &v.ExpiresAt, &v.IsUsed, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVoucherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query voucher by code: %w", err)
	}
	return &v, nil
}

func (r *VoucherRepository) List(ctx context.Context) ([]domain.Voucher, error) {
	query := `SELECT id, code, discount_percent, min_spend, expires_at, is_used, created_at
	          FROM vouchers ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []domain.Voucher
	for rows.Next() {
		var v domain.Voucher
		if err := rows.Scan(&v.ID, &v.Code, &v.DiscountPercent, &v.MinSpend, &v.ExpiresAt, &v.IsUsed, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan voucher row: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return vouchers, nil
}

func (r *VoucherRepository) Create(ctx context.Context, v *domain.Voucher) error {
	v.Code = domain.NormalizeVoucherCode(v.Code)

	query := `INSERT INTO vouchers (code, discount_percent, min_spend, expires_at, is_used, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW())
	          RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		v.Code, v.DiscountPercent, v.MinSpend, v.ExpiresAt, v.IsUsed).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateVoucher
		}
		return fmt.Errorf("insert voucher: %w", err)
	}
	return nil
}

// MarkUsedByCode is idempotent: an already-used voucher is left untouched.
func (r *VoucherRepository) MarkUsedByCode(ctx context.Context, code string) error {
	normalized := domain.NormalizeVoucherCode(code)
	if normalized == "" {
		return nil
	}
	query := `UPDATE vouchers SET is_used = TRUE WHERE code = $1 AND is_used = FALSE`

	if _, err := r.db.ExecContext(ctx, query, normalized); err != nil {
		return fmt.Errorf("mark voucher used: %w", err)
	}
	return nil
}

// MarkUsedForOrder consumes whatever voucher the order referenced, if any.
func (r *VoucherRepository) MarkUsedForOrder(ctx context.Context, orderID int64) error {
	var code sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT voucher_code FROM orders WHERE id = $1`, orderID).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("query order voucher code: %w", err)
	}
	if !code.Valid || code.String == "" {
		return nil
	}
	return r.MarkUsedByCode(ctx, code.String)
}
