package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(r *Repository) *OrderRepository {
	return &OrderRepository{db: r.db}
}

// CreateWithItems persists the order header, its item snapshots and the stock
// decrements as one transaction. Product rows are locked in ascending id order
// so concurrent checkouts of overlapping products cannot deadlock.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order *domain.Order) error {
	if len(order.Items) == 0 {
		return errors.New("no items supplied")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkout tx: %w", err)
	}
	defer tx.Rollback()

	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	for _, it := range items {
		var stock int
		err := tx.QueryRowContext(ctx,
			`SELECT quantity FROM products WHERE id = $1 FOR UPDATE`,
			it.ProductID).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("lock product %d: %w", it.ProductID, err)
		}
		if stock < it.Quantity {
			return ErrInsufficientStock
		}
	}

	query := `INSERT INTO orders
	            (user_id, reference_id, payment_mode, status, currency,
	             subtotal, tax, shipping_fee, discount, total, voucher_code, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	          RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query,
		order.UserID,
		order.ReferenceID,
		order.PaymentMode,
		order.Status,
		order.Currency,
		order.Subtotal,
		order.Tax,
		order.ShippingFee,
		order.Discount,
		order.Total,
		order.VoucherCode,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	itemQuery := `INSERT INTO order_items
	                (order_id, product_id, product_name, unit_price, quantity, subtotal, created_at)
	              VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	for _, it := range order.Items {
		if _, err := tx.ExecContext(ctx, itemQuery,
			order.ID, it.ProductID, it.ProductName, it.UnitPrice, it.Quantity, it.Subtotal); err != nil {
			return fmt.Errorf("insert order item %d: %w", it.ProductID, err)
		}
	}

	for _, it := range items {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity - $2 WHERE id = $1 AND quantity >= $2`,
			it.ProductID, it.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock for product %d: %w", it.ProductID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrInsufficientStock
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkout tx: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetWithItems(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT id, user_id, reference_id, provider_order_id, transaction_id, payment_mode,
	                 status, currency, subtotal, tax, shipping_fee, discount, total, voucher_code,
	                 created_at, captured_at
	          FROM orders WHERE id = $1`

	var o domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID,
		&o.UserID,
		&o.ReferenceID,
		&o.ProviderOrderID,
		&o.TransactionID,
		&o.PaymentMode,
		&o.Status,
		&o.Currency,
		&o.Subtotal,
		&o.Tax,
		&o.ShippingFee,
		&o.Discount,
		&o.Total,
		&o.VoucherCode,
		&o.CreatedAt,
		&o.CapturedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	itemQuery := `SELECT order_id, product_id, product_name, unit_price, quantity, subtotal
	              FROM order_items WHERE order_id = $1 ORDER BY product_id`

	rows, err := r.db.QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	query := `SELECT id, user_id, reference_id, payment_mode, status, currency, total, created_at
	          FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.ReferenceID, &o.PaymentMode,
			&o.Status, &o.Currency, &o.Total, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

// MarkPaid moves PENDING -> PAID. It reports alreadyPaid=true (and no error)
// when the order reached PAID earlier, so duplicate success callbacks
// short-circuit cleanly.
func (r *OrderRepository) MarkPaid(ctx context.Context, orderID, userID int64, mode domain.PaymentMode, providerOrderID, transactionID *string) (alreadyPaid bool, err error) {
	query := `UPDATE orders
	          SET status = $3, payment_mode = $4, provider_order_id = $5,
	              transaction_id = $6, captured_at = NOW()
	          WHERE id = $1 AND user_id = $2 AND status = $7`

	res, err := r.db.ExecContext(ctx, query,
		orderID, userID, domain.OrderStatusPaid, mode, providerOrderID, transactionID, domain.OrderStatusPending)
	if err != nil {
		return false, fmt.Errorf("mark order paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark order paid rows affected: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	var status domain.OrderStatus
	err = r.db.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 AND user_id = $2`,
		orderID, userID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrOrderNotFound
	}
	if err != nil {
		return false, fmt.Errorf("query order status: %w", err)
	}
	if status == domain.OrderStatusPaid {
		return true, nil
	}
	return false, fmt.Errorf("order %d in unexpected status %q", orderID, status)
}

// DistinctProductIDs lists the product ids referenced by the order's items.
func (r *OrderRepository) DistinctProductIDs(ctx context.Context, orderID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT product_id FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order product ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ids, nil
}
