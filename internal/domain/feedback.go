package domain

import "time"

type FeedbackStatus string

const (
	FeedbackStatusSubmitted FeedbackStatus = "submitted"
	FeedbackStatusUpdated   FeedbackStatus = "updated"
)

// Feedback is a 1 to 5 rating with an optional comment, tied to an order the
// user placed or standalone. A user gets one feedback per order; resubmitting
// replaces it.
type Feedback struct {
	ID             int64          `json:"id"`
	UserID         int64          `json:"user_id"`
	OrderID        *int64         `json:"order_id,omitempty"`
	OrderReference *string        `json:"order_reference,omitempty"`
	Rating         int            `json:"rating"`
	Comment        string         `json:"comment"`
	Status         FeedbackStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
}
