package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
	"github.com/lib/pq"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(r *Repository) *CartRepository {
	return &CartRepository{db: r.db}
}

// GetByUser returns the user's cart lines joined with live product price and stock.
func (r *CartRepository) GetByUser(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	query := `SELECT ci.user_id, ci.product_id, p.name, p.price, ci.quantity, p.quantity, p.image,
	                 ci.created_at, ci.updated_at
	          FROM cart_items ci
	          JOIN products p ON ci.product_id = p.id
	          WHERE ci.user_id = $1
	          ORDER BY ci.created_at DESC, ci.product_id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart by user: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(
			&l.UserID,
			&l.ProductID,
			&l.ProductName,
			&l.Price,
			&l.Quantity,
			&l.Stock,
			&l.Image,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lines, nil
}

// GetQuantity returns the current cart quantity for one product, 0 if absent.
func (r *CartRepository) GetQuantity(ctx context.Context, userID, productID int64) (int, error) {
	var qty int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("query cart quantity: %w", err)
	}
	return qty, nil
}

// Upsert adds delta to an existing line or inserts a new one.
func (r *CartRepository) Upsert(ctx context.Context, userID, productID int64, delta int) error {
	query := `INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
	          VALUES ($1, $2, $3, NOW(), NOW())
	          ON CONFLICT (user_id, product_id)
	          DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, userID, productID, delta); err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, userID, productID int64, qty int) error {
	if qty <= 0 {
		return r.Remove(ctx, userID, productID)
	}
	query := `UPDATE cart_items SET quantity = $3, updated_at = NOW()
	          WHERE user_id = $1 AND product_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, productID, qty); err != nil {
		return fmt.Errorf("update cart quantity: %w", err)
	}
	return nil
}

func (r *CartRepository) Remove(ctx context.Context, userID, productID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// ClearSelected removes only the given product ids; missing rows are a no-op.
func (r *CartRepository) ClearSelected(ctx context.Context, userID int64, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = ANY($2)`

	if _, err := r.db.ExecContext(ctx, query, userID, pq.Array(productIDs)); err != nil {
		return fmt.Errorf("clear selected cart items: %w", err)
	}
	return nil
}
