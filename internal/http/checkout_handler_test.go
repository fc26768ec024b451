package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GohLiangHong/SupermarketApp/internal/domain"
	"github.com/GohLiangHong/SupermarketApp/internal/service"
)

func newCheckoutHandler(carts *fakeCartRepo, orders *fakeOrderRepo, vouchers *fakeVoucherRepo) *CheckoutHandler {
	svc := service.NewCheckoutService(carts, orders, service.NewVoucherService(vouchers))
	return NewCheckoutHandler(svc)
}

func asUser(request *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(request.Context(), "user_id", userID)
	return request.WithContext(ctx)
}

func TestCheckout_Success(t *testing.T) {
	carts := &fakeCartRepo{lines: []domain.CartLine{
		{ProductID: 1, ProductName: "Milk", Price: 3.50, Quantity: 2, Stock: 10},
	}}
	orders := &fakeOrderRepo{}
	handler := newCheckoutHandler(carts, orders, &fakeVoucherRepo{vouchers: map[string]*domain.Voucher{}})

	body, _ := json.Marshal(CheckoutRequestDTO{SelectedProductIDs: []int64{1}})
	recorder := httptest.NewRecorder()
	request := asUser(httptest.NewRequest("POST", "/api/v1/checkout", bytes.NewReader(body)), 7)

	handler.Checkout(recorder, request)

	assert.Equal(t, http.StatusCreated, recorder.Code)

	var order domain.Order
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&order))
	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.InDelta(t, 7.00, order.Total, 0.001)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	carts := &fakeCartRepo{lines: []domain.CartLine{
		{ProductID: 1, ProductName: "Milk", Price: 3.50, Quantity: 5, Stock: 2},
	}}
	handler := newCheckoutHandler(carts, &fakeOrderRepo{}, &fakeVoucherRepo{vouchers: map[string]*domain.Voucher{}})

	body, _ := json.Marshal(CheckoutRequestDTO{SelectedProductIDs: []int64{1}})
	recorder := httptest.NewRecorder()
	request := asUser(httptest.NewRequest("POST", "/api/v1/checkout", bytes.NewReader(body)), 7)

	handler.Checkout(recorder, request)

	assert.Equal(t, http.StatusConflict, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "insufficient_stock", resp.Code)
	assert.Equal(t, "Milk", resp.Details)
}

func TestCheckout_RejectedVoucherMessagePassedThrough(t *testing.T) {
	carts := &fakeCartRepo{lines: []domain.CartLine{
		{ProductID: 1, ProductName: "Milk", Price: 3.50, Quantity: 1, Stock: 10},
	}}
	vouchers := &fakeVoucherRepo{vouchers: map[string]*domain.Voucher{
		"USED": {Code: "USED", DiscountPercent: 10, IsUsed: true},
	}}
	handler := newCheckoutHandler(carts, &fakeOrderRepo{}, vouchers)

	body, _ := json.Marshal(CheckoutRequestDTO{SelectedProductIDs: []int64{1}, VoucherCode: "USED"})
	recorder := httptest.NewRecorder()
	request := asUser(httptest.NewRequest("POST", "/api/v1/checkout", bytes.NewReader(body)), 7)

	handler.Checkout(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "This voucher has already been used.", resp.Error)
}

func TestCheckout_EmptySelection(t *testing.T) {
	handler := newCheckoutHandler(&fakeCartRepo{}, &fakeOrderRepo{}, &fakeVoucherRepo{vouchers: map[string]*domain.Voucher{}})

	body, _ := json.Marshal(CheckoutRequestDTO{})
	recorder := httptest.NewRecorder()
	request := asUser(httptest.NewRequest("POST", "/api/v1/checkout", bytes.NewReader(body)), 7)

	handler.Checkout(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCheckout_InvalidBody(t *testing.T) {
	handler := newCheckoutHandler(&fakeCartRepo{}, &fakeOrderRepo{}, &fakeVoucherRepo{vouchers: map[string]*domain.Voucher{}})

	recorder := httptest.NewRecorder()
	request := asUser(httptest.NewRequest("POST", "/api/v1/checkout", bytes.NewReader([]byte("{"))), 7)

	handler.Checkout(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
