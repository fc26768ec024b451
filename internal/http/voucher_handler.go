package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/GohLiangHong/SupermarketApp/internal/service"
)

type VoucherHandler struct {
	vouchers *service.VoucherService
}

func NewVoucherHandler(vouchers *service.VoucherService) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers}
}

func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	vouchers, err := h.vouchers.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vouchers)
}

type CreateVoucherRequestDTO struct {
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discount_percent"`
	MinSpend        float64    `json:"min_spend"`
	ExpiresAt       *time.Time `json:"expires_at"`
}

func (h *VoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateVoucherRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	voucher, err := h.vouchers.Create(r.Context(), service.CreateVoucherParams{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		MinSpend:        req.MinSpend,
		ExpiresAt:       req.ExpiresAt,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, voucher)
}
