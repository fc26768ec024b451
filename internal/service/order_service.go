package service

import (
	"context"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
)

type OrderService struct {
	orders OrderRepo
}

func NewOrderService(orders OrderRepo) *OrderService {
	return &OrderService{orders: orders}
}

// Get loads an order with its items; only the owner (or an admin) may see it.
func (s *OrderService) Get(ctx context.Context, orderID, userID int64, isAdmin bool) (*domain.Order, error) {
	order, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID && !isAdmin {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
