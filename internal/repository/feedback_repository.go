package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
)

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(r *Repository) *FeedbackRepository {
	return &FeedbackRepository{db: r.db}
}

// UpsertForOrder inserts the user's feedback for an order or replaces the
// existing row, flipping its status to updated.
func (r *FeedbackRepository) UpsertForOrder(ctx context.Context, userID, orderID int64, rating int, comment string) (*domain.Feedback, error) {
	query := `INSERT INTO feedback (user_id, order_id, rating, comment, status)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (user_id, order_id) WHERE order_id IS NOT NULL
	          DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, status = $6
	          RETURNING id, status, created_at`

	f := &domain.Feedback{UserID: userID, OrderID: &orderID, Rating: rating, Comment: comment}
	err := r.db.QueryRowContext(ctx, query,
		userID, orderID, rating, comment,
		domain.FeedbackStatusSubmitted, domain.FeedbackStatusUpdated).Scan(&f.ID, &f.Status, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert order feedback: %w", err)
	}
	return f, nil
}

func (r *FeedbackRepository) CreateGeneral(ctx context.Context, userID int64, rating int, comment string) (*domain.Feedback, error) {
	query := `INSERT INTO feedback (user_id, order_id, rating, comment, status)
	          VALUES ($1, NULL, $2, $3, $4)
	          RETURNING id, status, created_at`

	f := &domain.Feedback{UserID: userID, Rating: rating, Comment: comment}
	err := r.db.QueryRowContext(ctx, query,
		userID, rating, comment, domain.FeedbackStatusSubmitted).Scan(&f.ID, &f.Status, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert general feedback: %w", err)
	}
	return f, nil
}

func (r *FeedbackRepository) GetForOrderAndUser(ctx context.Context, orderID, userID int64) (*domain.Feedback, error) {
	query := `SELECT id, user_id, order_id, rating, comment, status, created_at
	          FROM feedback WHERE order_id = $1 AND user_id = $2`

	var f domain.Feedback
	err := r.db.QueryRowContext(ctx, query, orderID, userID).Scan(
		&f.ID, &f.UserID, &f.OrderID, &f.Rating, &f.Comment, &f.Status, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order feedback: %w", err)
	}
	return &f, nil
}

// List returns all feedback, newest first, with the order reference joined in
// where the feedback is order-scoped.
func (r *FeedbackRepository) List(ctx context.Context) ([]domain.Feedback, error) {
	query := `SELECT f.id, f.user_id, f.order_id, o.reference_id, f.rating, f.comment, f.status, f.created_at
	          FROM feedback f
	          LEFT JOIN orders o ON o.id = f.order_id
	          ORDER BY f.created_at DESC, f.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var out []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.OrderID, &f.OrderReference,
			&f.Rating, &f.Comment, &f.Status, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback row: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete feedback rows affected: %w", err)
	}
	if n == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}
