package http

import (
	"net/http"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
	"github.com/GohLiangHong/SupermarketApp/internal/service"
)

type OrderHandler struct {
	orders     *service.OrderService
	settlement *service.SettlementService
}

func NewOrderHandler(orders *service.OrderService, settlement *service.SettlementService) *OrderHandler {
	return &OrderHandler{orders: orders, settlement: settlement}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	orderID, ok := parseIDParam(w, r, "order_id")
	if !ok {
		return
	}

	order, err := h.orders.Get(r.Context(), orderID, userID, isAdmin(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// ConfirmCash settles the order as paid over the counter. No provider is
// involved, so it goes straight to settlement.
func (h *OrderHandler) ConfirmCash(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	orderID, ok := parseIDParam(w, r, "order_id")
	if !ok {
		return
	}

	order, err := h.orders.Get(r.Context(), orderID, userID, isAdmin(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result, err := h.settlement.Finalize(r.Context(), order.ID, order.UserID, domain.PaymentModeCash, nil, nil)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"order_id":     order.ID,
		"status":       domain.OrderStatusPaid,
		"already_paid": result.AlreadyPaid,
	})
}
