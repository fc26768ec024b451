package http

import (
	"context"

	"github.com/GohLiangHong/SupermarketApp/internal/correlation"
	"github.com/GohLiangHong/SupermarketApp/internal/domain"
	"github.com/GohLiangHong/SupermarketApp/internal/payment/netsqr"
	"github.com/GohLiangHong/SupermarketApp/internal/repository"
)

// fakeCartRepo implements service.CartRepo for handler tests
type fakeCartRepo struct {
	lines []domain.CartLine
	err   error
}

func (f *fakeCartRepo) GetByUser(_ context.Context, _ int64) ([]domain.CartLine, error) {
	return f.lines, f.err
}

func (f *fakeCartRepo) GetQuantity(_ context.Context, _, productID int64) (int, error) {
	for _, line := range f.lines {
		if line.ProductID == productID {
			return line.Quantity, f.err
		}
	}
	return 0, f.err
}

func (f *fakeCartRepo) Upsert(_ context.Context, _, _ int64, _ int) error      { return f.err }
func (f *fakeCartRepo) SetQuantity(_ context.Context, _, _ int64, _ int) error { return f.err }
func (f *fakeCartRepo) Remove(_ context.Context, _, _ int64) error             { return f.err }
func (f *fakeCartRepo) Clear(_ context.Context, _ int64) error                 { return f.err }
func (f *fakeCartRepo) ClearSelected(_ context.Context, _ int64, _ []int64) error {
	return f.err
}

// fakeOrderRepo implements service.OrderRepo for handler tests
type fakeOrderRepo struct {
	order         *domain.Order
	err           error
	markPaidCalls int
	markPaidMode  domain.PaymentMode
}

func (f *fakeOrderRepo) CreateWithItems(_ context.Context, order *domain.Order) error {
	if f.err != nil {
		return f.err
	}
	order.ID = 42
	f.order = order
	return nil
}

func (f *fakeOrderRepo) GetWithItems(_ context.Context, _ int64) (*domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.order == nil {
		return nil, repository.ErrOrderNotFound
	}
	return f.order, nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, _ int64) ([]domain.Order, error) {
	if f.order == nil {
		return nil, f.err
	}
	return []domain.Order{*f.order}, f.err
}

func (f *fakeOrderRepo) MarkPaid(_ context.Context, _, _ int64, mode domain.PaymentMode, _, _ *string) (bool, error) {
	f.markPaidCalls++
	f.markPaidMode = mode
	return false, f.err
}

func (f *fakeOrderRepo) DistinctProductIDs(_ context.Context, _ int64) ([]int64, error) {
	return nil, f.err
}

// fakeVoucherRepo implements service.VoucherRepo for handler tests
type fakeVoucherRepo struct {
	vouchers map[string]*domain.Voucher
	err      error
}

func (f *fakeVoucherRepo) GetByCode(_ context.Context, code string) (*domain.Voucher, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.vouchers[domain.NormalizeVoucherCode(code)]
	if !ok {
		return nil, repository.ErrVoucherNotFound
	}
	return v, nil
}

func (f *fakeVoucherRepo) List(_ context.Context) ([]domain.Voucher, error) {
	var out []domain.Voucher
	for _, v := range f.vouchers {
		out = append(out, *v)
	}
	return out, f.err
}

func (f *fakeVoucherRepo) Create(_ context.Context, v *domain.Voucher) error {
	if f.err != nil {
		return f.err
	}
	f.vouchers[v.Code] = v
	return nil
}

func (f *fakeVoucherRepo) MarkUsedByCode(_ context.Context, _ string) error  { return f.err }
func (f *fakeVoucherRepo) MarkUsedForOrder(_ context.Context, _ int64) error { return f.err }

// fakeWalletRepo implements service.WalletRepo for handler tests
type fakeWalletRepo struct {
	transactions   map[int64]*domain.WalletTransaction
	completedTxIDs []int64
	failedTxIDs    []int64
	err            error
}

func (f *fakeWalletRepo) Ensure(_ context.Context, _ int64) error { return f.err }

func (f *fakeWalletRepo) Get(_ context.Context, userID int64) (*domain.Wallet, error) {
	return &domain.Wallet{UserID: userID}, f.err
}

func (f *fakeWalletRepo) ListTransactions(_ context.Context, _ int64, _ int) ([]domain.WalletTransaction, error) {
	return nil, f.err
}

func (f *fakeWalletRepo) CreateTopup(_ context.Context, _ int64, _ float64) (int64, error) {
	return 1, f.err
}

func (f *fakeWalletRepo) GetTransaction(_ context.Context, txID int64) (*domain.WalletTransaction, error) {
	tx, ok := f.transactions[txID]
	if !ok {
		return nil, repository.ErrTransactionNotFound
	}
	return tx, f.err
}

func (f *fakeWalletRepo) MarkProviderOrderCreated(_ context.Context, _ int64, _ string) error {
	return f.err
}

func (f *fakeWalletRepo) MarkQrCreated(_ context.Context, _, _ int64, _ string, _ []byte) error {
	return f.err
}

func (f *fakeWalletRepo) CompleteTopup(_ context.Context, txID, _ int64, _, _ *string, _ []byte) (bool, error) {
	f.completedTxIDs = append(f.completedTxIDs, txID)
	return false, f.err
}

func (f *fakeWalletRepo) MarkFailed(_ context.Context, txID, _ int64, _ []byte) error {
	f.failedTxIDs = append(f.failedTxIDs, txID)
	return f.err
}

func (f *fakeWalletRepo) DebitForOrder(_ context.Context, _, _ int64, _ float64) (*repository.DebitResult, error) {
	return &repository.DebitResult{Success: true}, f.err
}

// fakeCorrStore implements correlation.Store for handler tests
type fakeCorrStore struct {
	entries map[string]correlation.Entry
}

func (f *fakeCorrStore) Put(_ context.Context, ref string, e correlation.Entry) error {
	f.entries[ref] = e
	return nil
}

func (f *fakeCorrStore) Get(_ context.Context, ref string) (*correlation.Entry, error) {
	e, ok := f.entries[ref]
	if !ok {
		return nil, correlation.ErrNotFound
	}
	return &e, nil
}

func (f *fakeCorrStore) Delete(_ context.Context, ref string) error {
	delete(f.entries, ref)
	return nil
}

// fakeQrClient implements service.QrClient; QueryStatus walks the scripted
// envelopes and keeps returning the last one.
type fakeQrClient struct {
	envelopes     []*netsqr.Envelope
	calls         int
	timedOutFlags []bool
}

func (f *fakeQrClient) RequestQr(_ context.Context, _ string) (*netsqr.Envelope, error) {
	return f.envelopes[0], nil
}

func (f *fakeQrClient) QueryStatus(_ context.Context, _ string, frontendTimedOut bool) (*netsqr.Envelope, error) {
	f.timedOutFlags = append(f.timedOutFlags, frontendTimedOut)
	env := f.envelopes[f.calls]
	if f.calls < len(f.envelopes)-1 {
		f.calls++
	}
	return env, nil
}
