package service

import (
	"context"
	"sort"

	"github.com/GohLiangHong/SupermarketApp/internal/correlation"
	"github.com/GohLiangHong/SupermarketApp/internal/domain"
	"github.com/GohLiangHong/SupermarketApp/internal/events"
	"github.com/GohLiangHong/SupermarketApp/internal/payment/card"
	"github.com/GohLiangHong/SupermarketApp/internal/payment/netsqr"
	"github.com/GohLiangHong/SupermarketApp/internal/repository"
)

// MockProductRepo implements ProductRepo for testing
type MockProductRepo struct {
	Products map[int64]*domain.Product
	Err      error
}

func (m *MockProductRepo) List(_ context.Context) ([]domain.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var ids []int64
	for id := range m.Products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []domain.Product
	for _, id := range ids {
		out = append(out, *m.Products[id])
	}
	return out, nil
}

func (m *MockProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *MockProductRepo) Create(_ context.Context, p *domain.Product) error {
	if m.Err != nil {
		return m.Err
	}
	p.ID = int64(len(m.Products) + 1)
	m.Products[p.ID] = p
	return nil
}

func (m *MockProductRepo) Update(_ context.Context, p *domain.Product) error {
	if m.Err != nil {
		return m.Err
	}
	m.Products[p.ID] = p
	return nil
}

func (m *MockProductRepo) Delete(_ context.Context, id int64) error {
	delete(m.Products, id)
	return m.Err
}

func (m *MockProductRepo) DecrementStock(_ context.Context, id int64, amount int) error {
	if m.Err != nil {
		return m.Err
	}
	p, ok := m.Products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	if p.Quantity < amount {
		return repository.ErrInsufficientStock
	}
	p.Quantity -= amount
	return nil
}

// MockCartRepo implements CartRepo for testing
type MockCartRepo struct {
	Lines      []domain.CartLine
	Quantities map[int64]int

	UpsertedProductID int64
	UpsertedDelta     int
	SetProductID      int64
	SetQty            int
	RemovedProductID  int64
	ClearedUser       int64
	ClearedIDs        []int64

	Err error
}

func (m *MockCartRepo) GetByUser(_ context.Context, _ int64) ([]domain.CartLine, error) {
	return m.Lines, m.Err
}

func (m *MockCartRepo) GetQuantity(_ context.Context, _, productID int64) (int, error) {
	return m.Quantities[productID], m.Err
}

func (m *MockCartRepo) Upsert(_ context.Context, _, productID int64, delta int) error {
	m.UpsertedProductID = productID
	m.UpsertedDelta = delta
	return m.Err
}

func (m *MockCartRepo) SetQuantity(_ context.Context, _, productID int64, qty int) error {
	m.SetProductID = productID
	m.SetQty = qty
	return m.Err
}

func (m *MockCartRepo) Remove(_ context.Context, _, productID int64) error {
	m.RemovedProductID = productID
	return m.Err
}

func (m *MockCartRepo) Clear(_ context.Context, userID int64) error {
	m.ClearedUser = userID
	return m.Err
}

func (m *MockCartRepo) ClearSelected(_ context.Context, userID int64, productIDs []int64) error {
	m.ClearedUser = userID
	m.ClearedIDs = productIDs
	return m.Err
}

// MockOrderRepo implements OrderRepo for testing
type MockOrderRepo struct {
	Order        *domain.Order
	CreatedOrder *domain.Order
	ProductIDs   []int64

	MarkPaidCalls int
	MarkPaidMode  domain.PaymentMode
	AlreadyPaid   bool

	CreateErr   error
	GetErr      error
	MarkPaidErr error
	ListErr     error
}

func (m *MockOrderRepo) CreateWithItems(_ context.Context, order *domain.Order) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	order.ID = 42
	m.CreatedOrder = order
	return nil
}

func (m *MockOrderRepo) GetWithItems(_ context.Context, _ int64) (*domain.Order, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Order == nil {
		return nil, repository.ErrOrderNotFound
	}
	return m.Order, nil
}

func (m *MockOrderRepo) ListByUser(_ context.Context, _ int64) ([]domain.Order, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if m.Order == nil {
		return nil, nil
	}
	return []domain.Order{*m.Order}, nil
}

func (m *MockOrderRepo) MarkPaid(_ context.Context, _, _ int64, mode domain.PaymentMode, _, _ *string) (bool, error) {
	m.MarkPaidCalls++
	m.MarkPaidMode = mode
	if m.MarkPaidErr != nil {
		return false, m.MarkPaidErr
	}
	alreadyPaid := m.AlreadyPaid
	m.AlreadyPaid = true
	return alreadyPaid, nil
}

func (m *MockOrderRepo) DistinctProductIDs(_ context.Context, _ int64) ([]int64, error) {
	return m.ProductIDs, nil
}

// MockVoucherRepo implements VoucherRepo for testing
type MockVoucherRepo struct {
	Vouchers map[string]*domain.Voucher

	MarkedCodes    []string
	MarkedOrderIDs []int64

	Err     error
	MarkErr error
}

func (m *MockVoucherRepo) GetByCode(_ context.Context, code string) (*domain.Voucher, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	v, ok := m.Vouchers[domain.NormalizeVoucherCode(code)]
	if !ok {
		return nil, repository.ErrVoucherNotFound
	}
	return v, nil
}

func (m *MockVoucherRepo) List(_ context.Context) ([]domain.Voucher, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []domain.Voucher
	for _, v := range m.Vouchers {
		out = append(out, *v)
	}
	return out, nil
}

func (m *MockVoucherRepo) Create(_ context.Context, v *domain.Voucher) error {
	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.Vouchers[v.Code]; exists {
		return repository.ErrDuplicateVoucher
	}
	m.Vouchers[v.Code] = v
	return nil
}

func (m *MockVoucherRepo) MarkUsedByCode(_ context.Context, code string) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.MarkedCodes = append(m.MarkedCodes, code)
	return nil
}

func (m *MockVoucherRepo) MarkUsedForOrder(_ context.Context, orderID int64) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.MarkedOrderIDs = append(m.MarkedOrderIDs, orderID)
	return nil
}

// MockWalletRepo implements WalletRepo for testing
type MockWalletRepo struct {
	Wallet       *domain.Wallet
	Transactions map[int64]*domain.WalletTransaction
	DebitResult  *repository.DebitResult

	NextTxID         int64
	CompletedTxIDs   []int64
	FailedTxIDs      []int64
	AlreadyCompleted bool
	DebitCalls       int

	Err         error
	CompleteErr error
	DebitErr    error
}

func (m *MockWalletRepo) Ensure(_ context.Context, _ int64) error {
	return m.Err
}

func (m *MockWalletRepo) Get(_ context.Context, _ int64) (*domain.Wallet, error) {
	return m.Wallet, m.Err
}

func (m *MockWalletRepo) ListTransactions(_ context.Context, _ int64, _ int) ([]domain.WalletTransaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []domain.WalletTransaction
	for _, tx := range m.Transactions {
		out = append(out, *tx)
	}
	return out, nil
}

func (m *MockWalletRepo) CreateTopup(_ context.Context, userID int64, amount float64) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.NextTxID++
	m.Transactions[m.NextTxID] = &domain.WalletTransaction{
		ID:     m.NextTxID,
		UserID: userID,
		Type:   domain.TransactionTypeTopup,
		Amount: amount,
		Status: domain.TopupStatusCreated,
	}
	return m.NextTxID, nil
}

func (m *MockWalletRepo) GetTransaction(_ context.Context, txID int64) (*domain.WalletTransaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	tx, ok := m.Transactions[txID]
	if !ok {
		return nil, repository.ErrTransactionNotFound
	}
	return tx, nil
}

func (m *MockWalletRepo) MarkProviderOrderCreated(_ context.Context, txID int64, providerOrderID string) error {
	if tx, ok := m.Transactions[txID]; ok {
		tx.ProviderOrderID = &providerOrderID
		tx.Status = domain.TopupStatusProviderOrderCreated
	}
	return m.Err
}

func (m *MockWalletRepo) MarkQrCreated(_ context.Context, txID, _ int64, qrTxnRef string, _ []byte) error {
	if tx, ok := m.Transactions[txID]; ok {
		tx.QrTxnRef = &qrTxnRef
		tx.Status = domain.TopupStatusProviderQrCreated
	}
	return m.Err
}

func (m *MockWalletRepo) CompleteTopup(_ context.Context, txID, _ int64, _, _ *string, _ []byte) (bool, error) {
	if m.CompleteErr != nil {
		return false, m.CompleteErr
	}
	m.CompletedTxIDs = append(m.CompletedTxIDs, txID)
	if tx, ok := m.Transactions[txID]; ok {
		tx.Status = domain.TopupStatusCompleted
	}
	return m.AlreadyCompleted, nil
}

func (m *MockWalletRepo) MarkFailed(_ context.Context, txID, _ int64, _ []byte) error {
	m.FailedTxIDs = append(m.FailedTxIDs, txID)
	if tx, ok := m.Transactions[txID]; ok {
		tx.Status = domain.TopupStatusFailed
	}
	return nil
}

func (m *MockWalletRepo) DebitForOrder(_ context.Context, _, _ int64, _ float64) (*repository.DebitResult, error) {
	m.DebitCalls++
	if m.DebitErr != nil {
		return nil, m.DebitErr
	}
	return m.DebitResult, nil
}

// MockCardClient implements CardClient for testing
type MockCardClient struct {
	ProviderOrderID string
	CaptureResult   *card.CaptureResult

	CreatedAmount    string
	CreatedReference string

	CreateErr  error
	CaptureErr error
}

func (m *MockCardClient) CreateOrder(_ context.Context, amount, _, reference string) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.CreatedAmount = amount
	m.CreatedReference = reference
	return m.ProviderOrderID, nil
}

func (m *MockCardClient) CaptureOrder(_ context.Context, _ string) (*card.CaptureResult, error) {
	if m.CaptureErr != nil {
		return nil, m.CaptureErr
	}
	return m.CaptureResult, nil
}

// MockQrClient implements QrClient for testing
type MockQrClient struct {
	RequestEnvelope *netsqr.Envelope
	QueryEnvelope   *netsqr.Envelope

	RequestedAmount string

	RequestErr error
	QueryErr   error
}

func (m *MockQrClient) RequestQr(_ context.Context, amountInDollars string) (*netsqr.Envelope, error) {
	if m.RequestErr != nil {
		return nil, m.RequestErr
	}
	m.RequestedAmount = amountInDollars
	return m.RequestEnvelope, nil
}

func (m *MockQrClient) QueryStatus(_ context.Context, _ string, _ bool) (*netsqr.Envelope, error) {
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return m.QueryEnvelope, nil
}

// MockCorrelationStore implements correlation.Store for testing
type MockCorrelationStore struct {
	Entries map[string]correlation.Entry
	Err     error
}

func (m *MockCorrelationStore) Put(_ context.Context, providerRef string, entry correlation.Entry) error {
	if m.Err != nil {
		return m.Err
	}
	m.Entries[providerRef] = entry
	return nil
}

func (m *MockCorrelationStore) Get(_ context.Context, providerRef string) (*correlation.Entry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	entry, ok := m.Entries[providerRef]
	if !ok {
		return nil, correlation.ErrNotFound
	}
	return &entry, nil
}

func (m *MockCorrelationStore) Delete(_ context.Context, providerRef string) error {
	delete(m.Entries, providerRef)
	return nil
}

// MockPublisher implements events.Publisher for testing
type MockPublisher struct {
	Settled []events.OrderSettled
	Topups  []events.TopupCompleted
}

func (m *MockPublisher) PublishOrderSettled(_ context.Context, ev events.OrderSettled) {
	m.Settled = append(m.Settled, ev)
}

func (m *MockPublisher) PublishTopupCompleted(_ context.Context, ev events.TopupCompleted) {
	m.Topups = append(m.Topups, ev)
}

// MockFeedbackRepo implements FeedbackRepo for testing
type MockFeedbackRepo struct {
	Entries []domain.Feedback
	NextID  int64
	Deleted []int64

	Err error
}

func (m *MockFeedbackRepo) UpsertForOrder(_ context.Context, userID, orderID int64, rating int, comment string) (*domain.Feedback, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Entries {
		e := &m.Entries[i]
		if e.UserID == userID && e.OrderID != nil && *e.OrderID == orderID {
			e.Rating = rating
			e.Comment = comment
			e.Status = domain.FeedbackStatusUpdated
			return e, nil
		}
	}
	m.NextID++
	f := domain.Feedback{
		ID: m.NextID, UserID: userID, OrderID: &orderID,
		Rating: rating, Comment: comment, Status: domain.FeedbackStatusSubmitted,
	}
	m.Entries = append(m.Entries, f)
	return &f, nil
}

func (m *MockFeedbackRepo) CreateGeneral(_ context.Context, userID int64, rating int, comment string) (*domain.Feedback, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.NextID++
	f := domain.Feedback{
		ID: m.NextID, UserID: userID,
		Rating: rating, Comment: comment, Status: domain.FeedbackStatusSubmitted,
	}
	m.Entries = append(m.Entries, f)
	return &f, nil
}

func (m *MockFeedbackRepo) GetForOrderAndUser(_ context.Context, orderID, userID int64) (*domain.Feedback, error) {
	for i := range m.Entries {
		e := &m.Entries[i]
		if e.UserID == userID && e.OrderID != nil && *e.OrderID == orderID {
			return e, nil
		}
	}
	return nil, repository.ErrFeedbackNotFound
}

func (m *MockFeedbackRepo) List(_ context.Context) ([]domain.Feedback, error) {
	return m.Entries, m.Err
}

func (m *MockFeedbackRepo) Delete(_ context.Context, id int64) error {
	m.Deleted = append(m.Deleted, id)
	return m.Err
}

func qrSuccessEnvelope(ref string) *netsqr.Envelope {
	env := &netsqr.Envelope{}
	env.Result.Data = netsqr.Data{
		ResponseCode:    "00",
		TxnStatus:       1,
		QrCode:          "aGVsbG8=",
		TxnRetrievalRef: ref,
	}
	return env
}
