package service

import (
	"context"
	"log"

	"github.com/GohLiangHong/SupermarketApp/internal/correlation"
	"github.com/GohLiangHong/SupermarketApp/internal/domain"
)

// PaymentService drives the card-processor and QR-bank protocols for order
// payments and hands their success signals to the settlement coordinator.
type PaymentService struct {
	orders     *OrderService
	settlement *SettlementService
	card       CardClient
	qr         QrClient
	corr       correlation.Store
}

func NewPaymentService(orders *OrderService, settlement *SettlementService, cardClient CardClient, qrClient QrClient, corr correlation.Store) *PaymentService {
	return &PaymentService{
		orders:     orders,
		settlement: settlement,
		card:       cardClient,
		qr:         qrClient,
		corr:       corr,
	}
}

// CreateCardOrder registers a processor order for the local order's total.
// The server-side total always wins: a client-supplied amount is only ever
// compared and logged, never trusted.
func (p *PaymentService) CreateCardOrder(ctx context.Context, userID, orderID int64, clientAmount string, isAdmin bool) (string, error) {
	order, err := p.orders.Get(ctx, orderID, userID, isAdmin)
	if err != nil {
		return "", err
	}
	if order.Total <= 0 {
		return "", ErrInvalidAmount
	}

	dbAmount := domain.FormatMoney(order.Total)
	if clientAmount != "" && clientAmount != dbAmount {
		log.Printf("card amount mismatch for order %d: client=%s db=%s, using db amount",
			orderID, clientAmount, dbAmount)
	}

	return p.card.CreateOrder(ctx, dbAmount, order.Currency, order.ReferenceID)
}

// CaptureCardOrder captures the processor order and, if the capture completed,
// settles the local order.
func (p *PaymentService) CaptureCardOrder(ctx context.Context, userID, orderID int64, providerOrderID string, isAdmin bool) (*SettlementResult, error) {
	if _, err := p.orders.Get(ctx, orderID, userID, isAdmin); err != nil {
		return nil, err
	}

	capture, err := p.card.CaptureOrder(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}
	if !capture.Completed {
		return nil, ErrPaymentNotCompleted
	}

	transactionID := capture.CaptureID
	return p.settlement.Finalize(ctx, orderID, userID, domain.PaymentModeCard, &providerOrderID, &transactionID)
}

// QrPayment is what the front end needs to render the QR and start polling.
type QrPayment struct {
	OrderID         int64  `json:"order_id"`
	Total           string `json:"total"`
	QrCodeBase64    string `json:"qr_code"`
	TxnRetrievalRef string `json:"txn_retrieval_ref"`
	TimerSeconds    int    `json:"timer_seconds"`
}

// StartQrPayment requests a QR for the order total and records the provider
// reference so the success callback can find its way back to the order.
func (p *PaymentService) StartQrPayment(ctx context.Context, userID, orderID int64, isAdmin bool) (*QrPayment, error) {
	order, err := p.orders.Get(ctx, orderID, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	if order.Total <= 0 {
		return nil, ErrInvalidAmount
	}

	env, err := p.qr.RequestQr(ctx, domain.FormatMoney(order.Total))
	if err != nil {
		return nil, err
	}
	data := env.Result.Data
	if !data.QrIssued() {
		return nil, ErrQrNotIssued
	}

	entry := correlation.Entry{Kind: correlation.KindOrder, ID: orderID, UserID: userID}
	if err := p.corr.Put(ctx, data.TxnRetrievalRef, entry); err != nil {
		return nil, err
	}

	return &QrPayment{
		OrderID:         orderID,
		Total:           domain.FormatMoney(order.Total),
		QrCodeBase64:    data.QrCode,
		TxnRetrievalRef: data.TxnRetrievalRef,
		TimerSeconds:    300,
	}, nil
}

// CompleteQrPayment resolves the provider reference back to the order and
// settles it. The correlation entry is consumed on success.
func (p *PaymentService) CompleteQrPayment(ctx context.Context, userID int64, txnRetrievalRef string) (int64, *SettlementResult, error) {
	entry, err := p.corr.Get(ctx, txnRetrievalRef)
	if err != nil {
		return 0, nil, ErrInvalidProviderRef
	}
	if entry.Kind != correlation.KindOrder || entry.UserID != userID {
		return 0, nil, ErrInvalidProviderRef
	}

	result, err := p.settlement.Finalize(ctx, entry.ID, userID, domain.PaymentModeNets, nil, &txnRetrievalRef)
	if err != nil {
		return 0, nil, err
	}

	if err := p.corr.Delete(ctx, txnRetrievalRef); err != nil {
		log.Printf("failed to delete correlation entry %s: %v", txnRetrievalRef, err)
	}
	return entry.ID, result, nil
}

// FailQrPayment discards the correlation entry for an abandoned QR attempt.
// The order stays PENDING so the user can retry with another method.
func (p *PaymentService) FailQrPayment(ctx context.Context, userID int64, txnRetrievalRef string) {
	entry, err := p.corr.Get(ctx, txnRetrievalRef)
	if err != nil || entry.Kind != correlation.KindOrder || entry.UserID != userID {
		return
	}
	if err := p.corr.Delete(ctx, txnRetrievalRef); err != nil {
		log.Printf("failed to delete correlation entry %s: %v", txnRetrievalRef, err)
	}
}
