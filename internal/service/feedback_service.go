package service

import (
	"context"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
)

type FeedbackService struct {
	feedback FeedbackRepo
	orders   *OrderService
}

func NewFeedbackService(feedback FeedbackRepo, orders *OrderService) *FeedbackService {
	return &FeedbackService{feedback: feedback, orders: orders}
}

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// SubmitForOrder saves the user's rating for one of their orders; a repeat
// submission replaces the earlier one.
func (s *FeedbackService) SubmitForOrder(ctx context.Context, userID, orderID int64, rating int, comment string, isAdmin bool) (*domain.Feedback, error) {
	if !validRating(rating) {
		return nil, ErrInvalidRating
	}
	if _, err := s.orders.Get(ctx, orderID, userID, isAdmin); err != nil {
		return nil, err
	}
	return s.feedback.UpsertForOrder(ctx, userID, orderID, rating, comment)
}

// SubmitGeneral saves feedback not tied to any order.
func (s *FeedbackService) SubmitGeneral(ctx context.Context, userID int64, rating int, comment string) (*domain.Feedback, error) {
	if !validRating(rating) {
		return nil, ErrInvalidRating
	}
	return s.feedback.CreateGeneral(ctx, userID, rating, comment)
}

// GetForOrder returns the user's existing feedback for the order, if any.
func (s *FeedbackService) GetForOrder(ctx context.Context, userID, orderID int64, isAdmin bool) (*domain.Feedback, error) {
	if _, err := s.orders.Get(ctx, orderID, userID, isAdmin); err != nil {
		return nil, err
	}
	return s.feedback.GetForOrderAndUser(ctx, orderID, userID)
}

// List returns all feedback; visible to every signed-in user.
func (s *FeedbackService) List(ctx context.Context) ([]domain.Feedback, error) {
	return s.feedback.List(ctx)
}

// Delete removes a feedback entry; reachable only through the admin surface.
func (s *FeedbackService) Delete(ctx context.Context, id int64) error {
	return s.feedback.Delete(ctx, id)
}
