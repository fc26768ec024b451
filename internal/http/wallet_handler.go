package http

import (
	"encoding/json"
	"net/http"

	"github.com/GohLiangHong/SupermarketApp/internal/service"
)

type WalletHandler struct {
	wallet *service.WalletService
}

func NewWalletHandler(wallet *service.WalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

func (h *WalletHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	overview, err := h.wallet.Overview(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

type PayOrderRequestDTO struct {
	OrderID int64 `json:"order_id"`
}

// PayOrder debits the wallet for the order total. An insufficient balance is
// not an error: the client gets the balance back so it can offer a top-up.
func (h *WalletHandler) PayOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req PayOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.OrderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be positive")
		return
	}

	result, err := h.wallet.PayOrder(r.Context(), userID, req.OrderID, isAdmin(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type StartTopupRequestDTO struct {
	Amount float64 `json:"amount"`
}

func (h *WalletHandler) StartTopup(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req StartTopupRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	txID, err := h.wallet.StartTopup(r.Context(), userID, req.Amount)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"transaction_id": txID})
}

type CreateCardTopupOrderRequestDTO struct {
	TransactionID int64 `json:"transaction_id"`
}

func (h *WalletHandler) CreateCardTopupOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req CreateCardTopupOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.TransactionID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "transaction_id must be positive")
		return
	}

	providerOrderID, err := h.wallet.CreateCardTopupOrder(r.Context(), userID, req.TransactionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"provider_order_id": providerOrderID})
}

type CaptureCardTopupRequestDTO struct {
	TransactionID   int64  `json:"transaction_id"`
	ProviderOrderID string `json:"provider_order_id"`
}

func (h *WalletHandler) CaptureCardTopup(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req CaptureCardTopupRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.TransactionID <= 0 || req.ProviderOrderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "transaction_id and provider_order_id are required")
		return
	}

	if err := h.wallet.CaptureCardTopup(r.Context(), userID, req.TransactionID, req.ProviderOrderID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

type StartQrTopupRequestDTO struct {
	Amount float64 `json:"amount"`
}

func (h *WalletHandler) StartQrTopup(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req StartQrTopupRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	qr, err := h.wallet.StartQrTopup(r.Context(), userID, req.Amount)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, qr)
}

// QrSuccess credits the top-up named by the correlation ref. Completion is
// idempotent, so a duplicate of the stream's own settlement is harmless.
func (h *WalletHandler) QrSuccess(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	txnRetrievalRef := r.URL.Query().Get("txn")
	if txnRetrievalRef == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "txn is required")
		return
	}

	txID, err := h.wallet.CompleteQrTopup(r.Context(), userID, txnRetrievalRef)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"transaction_id": txID,
		"status":         "completed",
	})
}

func (h *WalletHandler) QrFail(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	txnRetrievalRef := r.URL.Query().Get("txn")
	if txnRetrievalRef == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "txn is required")
		return
	}

	h.wallet.FailQrTopup(r.Context(), userID, txnRetrievalRef)
	respondJSON(w, http.StatusOK, map[string]string{"status": "failed"})
}
