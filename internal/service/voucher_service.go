package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
	"github.com/GohLiangHong/SupermarketApp/internal/repository"
)

// VoucherValidation is the tagged result of checking a code against an amount.
type VoucherValidation struct {
	OK              bool
	Message         string
	DiscountPercent int
	MinSpend        float64
}

type VoucherService struct {
	vouchers VoucherRepo
	now      func() time.Time
}

func NewVoucherService(vouchers VoucherRepo) *VoucherService {
	return &VoucherService{vouchers: vouchers, now: time.Now}
}

// Validate checks a code against a candidate amount. Rejection reasons are
// reported in priority order: unknown code, already used, expired,
// misconfigured discount, minimum spend not met.
func (s *VoucherService) Validate(ctx context.Context, code string, amount float64) (*VoucherValidation, error) {
	voucher, err := s.vouchers.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrVoucherNotFound) {
		return &VoucherValidation{Message: "Invalid voucher code."}, nil
	}
	if err != nil {
		return nil, err
	}
	return validateForAmount(voucher, amount, s.now()), nil
}

func validateForAmount(v *domain.Voucher, amount float64, now time.Time) *VoucherValidation {
	if v == nil {
		return &VoucherValidation{Message: "Invalid voucher code."}
	}
	if v.IsUsed {
		return &VoucherValidation{Message: "This voucher has already been used."}
	}
	if v.Expired(now) {
		return &VoucherValidation{Message: "This voucher has expired."}
	}
	if v.DiscountPercent <= 0 || v.DiscountPercent > 100 {
		return &VoucherValidation{Message: "This voucher has no discount configured."}
	}
	if amount < v.MinSpend {
		return &VoucherValidation{
			Message: fmt.Sprintf("Minimum spend of $%s is required to use this voucher.",
				domain.FormatMoney(v.MinSpend)),
		}
	}
	return &VoucherValidation{
		OK:              true,
		DiscountPercent: v.DiscountPercent,
		MinSpend:        v.MinSpend,
	}
}

// MarkUsedForOrder consumes the voucher the order referenced; safe to call
// repeatedly.
func (s *VoucherService) MarkUsedForOrder(ctx context.Context, orderID int64) error {
	return s.vouchers.MarkUsedForOrder(ctx, orderID)
}

func (s *VoucherService) List(ctx context.Context) ([]domain.Voucher, error) {
	return s.vouchers.List(ctx)
}

type CreateVoucherParams struct {
	Code            string
	DiscountPercent int
	MinSpend        float64
	ExpiresAt       *time.Time
	IsUsed          bool
}

// Minimum spend is offered as fixed tiers, not a free-form amount.
var voucherMinSpendTiers = []float64{0, 20, 50, 100}

func validMinSpendTier(minSpend float64) bool {
	for _, tier := range voucherMinSpendTiers {
		if minSpend == tier {
			return true
		}
	}
	return false
}

func (s *VoucherService) Create(ctx context.Context, params CreateVoucherParams) (*domain.Voucher, error) {
	code := domain.NormalizeVoucherCode(params.Code)
	if code == "" {
		return nil, &VoucherRejectedError{Message: "Voucher code is required."}
	}
	if params.DiscountPercent <= 0 || params.DiscountPercent > 100 {
		return nil, &VoucherRejectedError{Message: "Discount percent must be between 1 and 100."}
	}
	if !validMinSpendTier(params.MinSpend) {
		return nil, &VoucherRejectedError{Message: "Minimum spend must be 0, 20, 50 or 100."}
	}

	// Vouchers expire at the end of the chosen day, not at its midnight.
	expiresAt := params.ExpiresAt
	if expiresAt != nil {
		eod := endOfDay(*expiresAt)
		expiresAt = &eod
	}

	v := &domain.Voucher{
		Code:            code,
		DiscountPercent: params.DiscountPercent,
		MinSpend:        params.MinSpend,
		ExpiresAt:       expiresAt,
		IsUsed:          params.IsUsed,
	}
	if err := s.vouchers.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
