package service

import (
	"context"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
)

type CartService struct {
	carts    CartRepo
	products ProductRepo
}

func NewCartService(carts CartRepo, products ProductRepo) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) Get(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	return s.carts.GetByUser(ctx, userID)
}

// Add puts delta units of the product into the cart. The resulting quantity
// may not exceed the product's live stock, checked against the current cart
// quantity plus the requested delta.
func (s *CartService) Add(ctx context.Context, userID, productID int64, delta int) error {
	if delta <= 0 {
		return ErrInvalidQuantity
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	current, err := s.carts.GetQuantity(ctx, userID, productID)
	if err != nil {
		return err
	}
	if current+delta > product.Quantity {
		return &InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Quantity,
			Requested:   current + delta,
		}
	}

	return s.carts.Upsert(ctx, userID, productID, delta)
}

// SetQuantity replaces the line's quantity; zero or negative removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID int64, qty int) error {
	if qty <= 0 {
		return s.carts.Remove(ctx, userID, productID)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if qty > product.Quantity {
		return &InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Quantity,
			Requested:   qty,
		}
	}

	return s.carts.SetQuantity(ctx, userID, productID, qty)
}

func (s *CartService) Remove(ctx context.Context, userID, productID int64) error {
	return s.carts.Remove(ctx, userID, productID)
}

func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.carts.Clear(ctx, userID)
}
