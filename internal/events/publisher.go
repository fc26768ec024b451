// Package events publishes settlement facts for downstream consumers.
// Publishing is best-effort: a broker outage never blocks a settlement.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TopicOrderSettled   = "orders.settled"
	TopicTopupCompleted = "wallet.topup-completed"
)

type OrderSettled struct {
	EventID     string    `json:"event_id"`
	OrderID     int64     `json:"order_id"`
	UserID      int64     `json:"user_id"`
	PaymentMode string    `json:"payment_mode"`
	Total       float64   `json:"total"`
	SettledAt   time.Time `json:"settled_at"`
}

type TopupCompleted struct {
	EventID       string    `json:"event_id"`
	TransactionID int64     `json:"transaction_id"`
	UserID        int64     `json:"user_id"`
	Amount        float64   `json:"amount"`
	CompletedAt   time.Time `json:"completed_at"`
}

type Publisher interface {
	PublishOrderSettled(ctx context.Context, ev OrderSettled)
	PublishTopupCompleted(ctx context.Context, ev TopupCompleted)
}

type KafkaPublisher struct {
	orders *kafka.Writer
	topups *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	return &KafkaPublisher{
		orders: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    TopicOrderSettled,
			Balancer: &kafka.LeastBytes{},
		},
		topups: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    TopicTopupCompleted,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) PublishOrderSettled(ctx context.Context, ev OrderSettled) {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	p.publish(ctx, p.orders, fmt.Sprintf("order-%d", ev.OrderID), ev)
}

func (p *KafkaPublisher) PublishTopupCompleted(ctx context.Context, ev TopupCompleted) {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	p.publish(ctx, p.topups, fmt.Sprintf("topup-%d", ev.TransactionID), ev)
}

func (p *KafkaPublisher) publish(ctx context.Context, w *kafka.Writer, key string, payload any) {
	value, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event %s: %v", key, err)
		return
	}
	if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		log.Printf("failed to publish event %s: %v", key, err)
	}
}

func (p *KafkaPublisher) Close() {
	if err := p.orders.Close(); err != nil {
		log.Printf("error closing orders writer: %v", err)
	}
	if err := p.topups.Close(); err != nil {
		log.Printf("error closing topups writer: %v", err)
	}
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderSettled(context.Context, OrderSettled)     {}
func (NopPublisher) PublishTopupCompleted(context.Context, TopupCompleted) {}
