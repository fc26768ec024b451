package http

import (
	"encoding/json"
	"net/http"

	"github.com/GohLiangHong/SupermarketApp/internal/service"
)

type CartHandler struct {
	cart *service.CartService
}

func NewCartHandler(cart *service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	lines, err := h.cart.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lines)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	if err := h.cart.Add(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	lines, err := h.cart.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, lines)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	productID, ok := parseIDParam(w, r, "product_id")
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.cart.SetQuantity(r.Context(), userID, productID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	lines, err := h.cart.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lines)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	productID, ok := parseIDParam(w, r, "product_id")
	if !ok {
		return
	}

	if err := h.cart.Remove(r.Context(), userID, productID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	if err := h.cart.Clear(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
