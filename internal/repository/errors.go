package repository

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrVoucherNotFound     = errors.New("voucher not found")
	ErrTransactionNotFound = errors.New("wallet transaction not found")
	ErrFeedbackNotFound    = errors.New("feedback not found")
	ErrDuplicateVoucher    = errors.New("voucher code already exists")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientFunds   = errors.New("insufficient wallet balance")
)
