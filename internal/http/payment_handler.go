package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/GohLiangHong/SupermarketApp/internal/service"
)

type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type CreateCardOrderRequestDTO struct {
	OrderID int64  `json:"order_id"`
	Amount  string `json:"amount"`
}

func (h *PaymentHandler) CreateCardOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req CreateCardOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.OrderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be positive")
		return
	}

	providerOrderID, err := h.payments.CreateCardOrder(r.Context(), userID, req.OrderID, req.Amount, isAdmin(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"provider_order_id": providerOrderID})
}

type CaptureCardOrderRequestDTO struct {
	OrderID         int64  `json:"order_id"`
	ProviderOrderID string `json:"provider_order_id"`
}

func (h *PaymentHandler) CaptureCardOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req CaptureCardOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.OrderID <= 0 || req.ProviderOrderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "order_id and provider_order_id are required")
		return
	}

	result, err := h.payments.CaptureCardOrder(r.Context(), userID, req.OrderID, req.ProviderOrderID, isAdmin(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"order_id":     req.OrderID,
		"status":       "PAID",
		"already_paid": result.AlreadyPaid,
	})
}

type StartQrPaymentRequestDTO struct {
	OrderID int64 `json:"order_id"`
}

func (h *PaymentHandler) StartQrPayment(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req StartQrPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.OrderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be positive")
		return
	}

	qr, err := h.payments.StartQrPayment(r.Context(), userID, req.OrderID, isAdmin(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, qr)
}

// QrSuccess is the browser's success callback. Settlement is idempotent, so a
// duplicate of the stream's own completion is harmless.
func (h *PaymentHandler) QrSuccess(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	txnRetrievalRef := r.URL.Query().Get("txn")
	if txnRetrievalRef == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "txn is required")
		return
	}

	orderID, result, err := h.payments.CompleteQrPayment(r.Context(), userID, txnRetrievalRef)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"order_id":     orderID,
		"status":       "PAID",
		"already_paid": result.AlreadyPaid,
	})
}

// QrFail acknowledges an abandoned QR attempt; the order stays PENDING so the
// user can retry with another method. An accompanying txn ref, if the client
// still has it, lets the pending provider reference be discarded early.
func (h *PaymentHandler) QrFail(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	orderID, err := strconv.ParseInt(r.URL.Query().Get("orderId"), 10, 64)
	if err != nil || orderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "orderId is required")
		return
	}

	if txnRetrievalRef := r.URL.Query().Get("txn"); txnRetrievalRef != "" {
		h.payments.FailQrPayment(r.Context(), userID, txnRetrievalRef)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"order_id": orderID,
		"status":   "PENDING",
	})
}
