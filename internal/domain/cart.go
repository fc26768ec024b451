package domain

import "time"

// CartLine is one cart row joined with the product's live price and stock.
type CartLine struct {
	UserID      int64     `json:"user_id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (l CartLine) Subtotal() float64 {
	return RoundMoney(l.Price * float64(l.Quantity))
}
