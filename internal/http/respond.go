package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/GohLiangHong/SupermarketApp/internal/repository"
	"github.com/GohLiangHong/SupermarketApp/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps service and repository errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error) {
	var stockErr *service.InsufficientStockError
	var voucherErr *service.VoucherRejectedError

	switch {
	case errors.As(err, &stockErr):
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error:   stockErr.Error(),
			Code:    "insufficient_stock",
			Details: stockErr.ProductName,
		})
	case errors.As(err, &voucherErr):
		respondError(w, http.StatusBadRequest, "voucher_rejected", voucherErr.Message)
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrNoItemsSelected),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidRating):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden", "you do not have access to this resource")
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrVoucherNotFound),
		errors.Is(err, repository.ErrTransactionNotFound),
		errors.Is(err, repository.ErrFeedbackNotFound),
		errors.Is(err, service.ErrInvalidProviderRef):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrDuplicateVoucher),
		errors.Is(err, service.ErrTopupCompleted):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, repository.ErrInsufficientFunds):
		respondError(w, http.StatusUnprocessableEntity, "insufficient_funds", err.Error())
	case errors.Is(err, service.ErrPaymentNotCompleted),
		errors.Is(err, service.ErrQrNotIssued):
		respondError(w, http.StatusBadGateway, "provider_error", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
