package service

import (
	"context"
	"log"
	"time"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
	"github.com/GohLiangHong/SupermarketApp/internal/events"
)

// SettlementResult reports how far the finalize side effects got. The order
// reaching PAID is the only financially significant step; the rest is
// best-effort cleanup the caller may surface as a softened success.
type SettlementResult struct {
	AlreadyPaid   bool `json:"already_paid"`
	CartSynced    bool `json:"cart_synced"`
	VoucherMarked bool `json:"voucher_marked"`
}

// SettlementService performs the composite "mark paid + consume voucher +
// clear purchased cart lines" sequence idempotently.
type SettlementService struct {
	orders    OrderRepo
	vouchers  VoucherRepo
	carts     CartRepo
	publisher events.Publisher
}

func NewSettlementService(orders OrderRepo, vouchers VoucherRepo, carts CartRepo, publisher events.Publisher) *SettlementService {
	return &SettlementService{
		orders:    orders,
		vouchers:  vouchers,
		carts:     carts,
		publisher: publisher,
	}
}

// Finalize settles the order on a provider's success signal. Marking the
// order PAID happens first so duplicate callbacks short-circuit; voucher
// consumption and cart clearing are idempotent and independently retryable.
func (s *SettlementService) Finalize(ctx context.Context, orderID, userID int64, mode domain.PaymentMode, providerOrderID, transactionID *string) (*SettlementResult, error) {
	alreadyPaid, err := s.orders.MarkPaid(ctx, orderID, userID, mode, providerOrderID, transactionID)
	if err != nil {
		return nil, err
	}

	result := &SettlementResult{AlreadyPaid: alreadyPaid}
	s.runSideEffects(ctx, orderID, userID, result)

	if !alreadyPaid {
		s.publishSettled(ctx, orderID, userID, mode)
	}
	return result, nil
}

// FinalizeAfterDebit runs the settlement side effects for the wallet path,
// where the PENDING->PAID transition already happened inside the debit
// transaction. alreadyPaid reports that the debit found the order PAID by an
// earlier payment; the side effects still run but no event is published.
func (s *SettlementService) FinalizeAfterDebit(ctx context.Context, orderID, userID int64, alreadyPaid bool) *SettlementResult {
	result := &SettlementResult{AlreadyPaid: alreadyPaid}
	s.runSideEffects(ctx, orderID, userID, result)
	if !alreadyPaid {
		s.publishSettled(ctx, orderID, userID, domain.PaymentModeWallet)
	}
	return result
}

func (s *SettlementService) runSideEffects(ctx context.Context, orderID, userID int64, result *SettlementResult) {
	if err := s.vouchers.MarkUsedForOrder(ctx, orderID); err != nil {
		log.Printf("failed to mark voucher used for order %d: %v", orderID, err)
	} else {
		result.VoucherMarked = true
	}

	productIDs, err := s.orders.DistinctProductIDs(ctx, orderID)
	if err != nil {
		log.Printf("failed to load product ids for order %d: %v", orderID, err)
		return
	}
	if err := s.carts.ClearSelected(ctx, userID, productIDs); err != nil {
		log.Printf("failed to clear cart items for order %d: %v", orderID, err)
		return
	}
	result.CartSynced = true
}

func (s *SettlementService) publishSettled(ctx context.Context, orderID, userID int64, mode domain.PaymentMode) {
	order, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		log.Printf("failed to load order %d for event publish: %v", orderID, err)
		return
	}
	s.publisher.PublishOrderSettled(ctx, events.OrderSettled{
		OrderID:     orderID,
		UserID:      userID,
		PaymentMode: string(mode),
		Total:       order.Total,
		SettledAt:   time.Now(),
	})
}
