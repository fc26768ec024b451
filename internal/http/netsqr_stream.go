package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GohLiangHong/SupermarketApp/internal/correlation"
	"github.com/GohLiangHong/SupermarketApp/internal/payment"
	"github.com/GohLiangHong/SupermarketApp/internal/service"
)

const (
	qrPollInterval = 5 * time.Second
	qrMaxPolls     = 60
)

// QrStreamHandler streams QR transaction status to the browser over SSE.
// The server owns the poll loop: it queries the gateway every five seconds
// and, once the transaction settles, completes the order or top-up itself
// before telling the client. The final poll carries the timeout flag so the
// gateway can close out an abandoned transaction.
type QrStreamHandler struct {
	qr       service.QrClient
	payments *service.PaymentService
	wallet   *service.WalletService
	corr     correlation.Store

	pollInterval time.Duration
	maxPolls     int
}

func NewQrStreamHandler(qr service.QrClient, payments *service.PaymentService, wallet *service.WalletService, corr correlation.Store) *QrStreamHandler {
	return &QrStreamHandler{
		qr:           qr,
		payments:     payments,
		wallet:       wallet,
		corr:         corr,
		pollInterval: qrPollInterval,
		maxPolls:     qrMaxPolls,
	}
}

type qrStreamEvent struct {
	Status  string `json:"status"`
	OrderID int64  `json:"order_id,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *QrStreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	txnRetrievalRef := chi.URLParam(r, "txn_retrieval_ref")
	if txnRetrievalRef == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "txn_retrieval_ref is required")
		return
	}

	entry, err := h.corr.Get(r.Context(), txnRetrievalRef)
	if err != nil || entry.UserID != userID {
		respondError(w, http.StatusNotFound, "not_found", "invalid or expired provider reference")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal_error", "streaming not supported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for poll := 1; poll <= h.maxPolls; poll++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frontendTimedOut := poll == h.maxPolls
		env, err := h.qr.QueryStatus(ctx, txnRetrievalRef, frontendTimedOut)
		if err != nil {
			log.Printf("request %s: qr status query failed for %s: %v", getRequestID(ctx), txnRetrievalRef, err)
			sendEvent(w, flusher, "pending", qrStreamEvent{Status: "pending", Message: "gateway unreachable, retrying"})
			continue
		}

		outcome := env.Result.Data.Outcome(frontendTimedOut)
		switch outcome.State {
		case payment.StateSettled:
			h.settle(ctx, w, flusher, entry, txnRetrievalRef, userID)
			return
		case payment.StateFailed:
			h.fail(ctx, entry, txnRetrievalRef, userID)
			sendEvent(w, flusher, "fail", qrStreamEvent{Status: "fail", Message: "payment failed"})
			return
		default:
			sendEvent(w, flusher, "pending", qrStreamEvent{Status: "pending"})
		}
	}

	sendEvent(w, flusher, "timeout", qrStreamEvent{Status: "timeout", Message: "payment window expired"})
}

func (h *QrStreamHandler) settle(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, entry *correlation.Entry, txnRetrievalRef string, userID int64) {
	switch entry.Kind {
	case correlation.KindOrder:
		orderID, _, err := h.payments.CompleteQrPayment(ctx, userID, txnRetrievalRef)
		if err != nil {
			log.Printf("request %s: failed to settle qr payment %s: %v", getRequestID(ctx), txnRetrievalRef, err)
			sendEvent(w, flusher, "error", qrStreamEvent{Status: "error", Message: "settlement failed"})
			return
		}
		sendEvent(w, flusher, "success", qrStreamEvent{Status: "success", OrderID: orderID})
	case correlation.KindTopup:
		if _, err := h.wallet.CompleteQrTopup(ctx, userID, txnRetrievalRef); err != nil {
			log.Printf("request %s: failed to settle qr topup %s: %v", getRequestID(ctx), txnRetrievalRef, err)
			sendEvent(w, flusher, "error", qrStreamEvent{Status: "error", Message: "settlement failed"})
			return
		}
		sendEvent(w, flusher, "success", qrStreamEvent{Status: "success"})
	}
}

func (h *QrStreamHandler) fail(ctx context.Context, entry *correlation.Entry, txnRetrievalRef string, userID int64) {
	// A failed order payment leaves the order PENDING for another attempt;
	// a failed top-up is closed out.
	if entry.Kind == correlation.KindTopup {
		h.wallet.FailQrTopup(ctx, userID, txnRetrievalRef)
	}
}

func sendEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload qrStreamEvent) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal sse payload: %v", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
