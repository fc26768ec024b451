package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(r *Repository) *ProductRepository {
	return &ProductRepository{db: r.db}
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT id, name, price, quantity, image FROM products ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Image); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, name, price, quantity, image FROM products WHERE id = $1`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (name, price, quantity, image) VALUES ($1, $2, $3, $4) RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, p.Name, p.Price, p.Quantity, p.Image).Scan(&p.ID); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name = $2, price = $3, quantity = $4, image = $5 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Price, p.Quantity, p.Image)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock is the last line of defense against overselling: the
// conditional update refuses to drive quantity negative.
func (r *ProductRepository) DecrementStock(ctx context.Context, id int64, amount int) error {
	query := `UPDATE products SET quantity = quantity - $2 WHERE id = $1 AND quantity >= $2`

	res, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock rows affected: %w", err)
	}
	if n == 0 {
		return ErrInsufficientStock
	}
	return nil
}
