package service

import (
	"context"
	"time"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
)

type CheckoutService struct {
	carts    CartRepo
	orders   OrderRepo
	vouchers *VoucherService
	now      func() time.Time
}

func NewCheckoutService(carts CartRepo, orders OrderRepo, vouchers *VoucherService) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		vouchers: vouchers,
		now:      time.Now,
	}
}

// Checkout turns the selected cart lines into a PENDING order. The order
// header, item snapshots and stock decrements commit atomically; any line
// short on stock aborts the whole checkout.
func (s *CheckoutService) Checkout(ctx context.Context, userID int64, selectedIDs []int64, voucherCode string) (*domain.Order, error) {
	lines, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	selected := filterSelected(lines, selectedIDs)
	if len(selected) == 0 {
		return nil, ErrNoItemsSelected
	}

	for _, line := range selected {
		if line.Quantity > line.Stock {
			return nil, &InsufficientStockError{
				ProductName: line.ProductName,
				Available:   line.Stock,
				Requested:   line.Quantity,
			}
		}
	}

	subtotal := 0.0
	for _, line := range selected {
		subtotal += line.Price * float64(line.Quantity)
	}
	subtotal = domain.RoundMoney(subtotal)

	var discount float64
	var appliedCode *string
	if voucherCode != "" {
		validation, err := s.vouchers.Validate(ctx, voucherCode, subtotal)
		if err != nil {
			return nil, err
		}
		if !validation.OK {
			return nil, &VoucherRejectedError{Message: validation.Message}
		}
		discount = domain.RoundMoney(subtotal * float64(validation.DiscountPercent) / 100)
		code := domain.NormalizeVoucherCode(voucherCode)
		appliedCode = &code
	}

	now := s.now()
	order := &domain.Order{
		UserID:      userID,
		ReferenceID: domain.NewReferenceID(now),
		PaymentMode: domain.PaymentModeCash,
		Status:      domain.OrderStatusPending,
		Currency:    domain.DefaultCurrency,
		Subtotal:    subtotal,
		Tax:         0,
		ShippingFee: 0,
		Discount:    discount,
		Total:       domain.RoundMoney(subtotal - discount),
		VoucherCode: appliedCode,
	}
	for _, line := range selected {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.Price,
			Quantity:    line.Quantity,
			Subtotal:    line.Subtotal(),
		})
	}

	if err := s.orders.CreateWithItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// VoucherQuote prices a code against the selected cart lines without mutating
// anything.
type VoucherQuote struct {
	Code            string  `json:"code"`
	Subtotal        float64 `json:"subtotal"`
	DiscountPercent int     `json:"discount_percent"`
	MinSpend        float64 `json:"min_spend"`
	DiscountValue   float64 `json:"discount_value"`
	FinalTotal      float64 `json:"final_total"`
}

func (s *CheckoutService) VoucherQuote(ctx context.Context, userID int64, selectedIDs []int64, code string) (*VoucherQuote, error) {
	lines, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	selected := filterSelected(lines, selectedIDs)
	if len(selected) == 0 {
		return nil, ErrNoItemsSelected
	}

	subtotal := 0.0
	for _, line := range selected {
		subtotal += line.Price * float64(line.Quantity)
	}
	subtotal = domain.RoundMoney(subtotal)

	validation, err := s.vouchers.Validate(ctx, code, subtotal)
	if err != nil {
		return nil, err
	}
	if !validation.OK {
		return nil, &VoucherRejectedError{Message: validation.Message}
	}

	discount := domain.RoundMoney(subtotal * float64(validation.DiscountPercent) / 100)
	return &VoucherQuote{
		Code:            domain.NormalizeVoucherCode(code),
		Subtotal:        subtotal,
		DiscountPercent: validation.DiscountPercent,
		MinSpend:        validation.MinSpend,
		DiscountValue:   discount,
		FinalTotal:      domain.RoundMoney(subtotal - discount),
	}, nil
}

func filterSelected(lines []domain.CartLine, selectedIDs []int64) []domain.CartLine {
	wanted := make(map[int64]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		wanted[id] = true
	}
	var selected []domain.CartLine
	for _, line := range lines {
		if wanted[line.ProductID] {
			selected = append(selected, line)
		}
	}
	return selected
}
