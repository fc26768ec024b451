package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GohLiangHong/SupermarketApp/internal/repository"
	"github.com/GohLiangHong/SupermarketApp/internal/service"
)

type FeedbackHandler struct {
	feedback *service.FeedbackService
}

func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

type SubmitFeedbackRequestDTO struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *FeedbackHandler) SubmitForOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	orderID, ok := parseIDParam(w, r, "order_id")
	if !ok {
		return
	}
	var req SubmitFeedbackRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	feedback, err := h.feedback.SubmitForOrder(r.Context(), userID, orderID, req.Rating, req.Comment, isAdmin(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, feedback)
}

// GetForOrder pre-fills the feedback form; no feedback yet is a null body,
// not an error.
func (h *FeedbackHandler) GetForOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	orderID, ok := parseIDParam(w, r, "order_id")
	if !ok {
		return
	}

	feedback, err := h.feedback.GetForOrder(r.Context(), userID, orderID, isAdmin(r.Context()))
	if errors.Is(err, repository.ErrFeedbackNotFound) {
		respondJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, feedback)
}

func (h *FeedbackHandler) SubmitGeneral(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req SubmitFeedbackRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	feedback, err := h.feedback.SubmitGeneral(r.Context(), userID, req.Rating, req.Comment)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, feedback)
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.feedback.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, feedback)
}

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "feedback_id")
	if !ok {
		return
	}

	if err := h.feedback.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
