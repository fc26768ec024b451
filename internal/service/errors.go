package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrNoItemsSelected     = errors.New("selected items were not found in cart")
	ErrForbidden           = errors.New("not the owner")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrQrNotIssued         = errors.New("qr gateway did not issue a code")
	ErrTopupCompleted      = errors.New("transaction already completed")
	ErrInvalidProviderRef  = errors.New("invalid or expired provider reference")
	ErrInvalidProduct      = errors.New("product name is required and price and quantity must not be negative")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

// InsufficientStockError carries what the user needs to fix the line.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// VoucherRejectedError is a user-facing voucher validation failure.
type VoucherRejectedError struct {
	Message string
}

func (e *VoucherRejectedError) Error() string {
	return e.Message
}
