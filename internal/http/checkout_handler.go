package http

import (
	"encoding/json"
	"net/http"

	"github.com/GohLiangHong/SupermarketApp/internal/service"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type CheckoutRequestDTO struct {
	SelectedProductIDs []int64 `json:"selected_product_ids"`
	VoucherCode        string  `json:"voucher_code"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.SelectedProductIDs) == 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "selected_product_ids must not be empty")
		return
	}

	order, err := h.checkout.Checkout(r.Context(), userID, req.SelectedProductIDs, req.VoucherCode)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

type VoucherQuoteRequestDTO struct {
	SelectedProductIDs []int64 `json:"selected_product_ids"`
	VoucherCode        string  `json:"voucher_code"`
}

// QuoteVoucher prices a voucher against the current selection without
// creating an order.
func (h *CheckoutHandler) QuoteVoucher(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req VoucherQuoteRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.VoucherCode == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "voucher_code is required")
		return
	}

	quote, err := h.checkout.VoucherQuote(r.Context(), userID, req.SelectedProductIDs, req.VoucherCode)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}
