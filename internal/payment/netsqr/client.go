// Package netsqr talks to the QR bank's request/query API.
package netsqr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/GohLiangHong/SupermarketApp/internal/payment"
)

const requestTimeout = 10 * time.Second

// The sandbox gateway keys every request to a fixed merchant transaction id.
const defaultMerchantTxnID = "sandbox_nets|m|8ff8e5b6-d43e-4786-8ac5-7accf8c5bd9b"

const (
	responseCodeSuccess = "00"
	txnStatusSuccess    = 1
	txnStatusFailed     = 2
)

type Config struct {
	BaseURL       string
	APIKey        string
	ProjectID     string
	MerchantTxnID string
}

type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(cfg Config) *Client {
	if cfg.MerchantTxnID == "" {
		cfg.MerchantTxnID = defaultMerchantTxnID
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "netsqr",
			Timeout: 30 * time.Second,
		}),
	}
}

// Envelope mirrors the gateway's result.data nesting.
type Envelope struct {
	Result struct {
		Data Data `json:"data"`
	} `json:"result"`
	Raw json.RawMessage `json:"-"`
}

type Data struct {
	ResponseCode    string `json:"response_code"`
	TxnStatus       int    `json:"txn_status"`
	QrCode          string `json:"qr_code"`
	TxnRetrievalRef string `json:"txn_retrieval_ref"`
}

// QrIssued reports whether the gateway handed back a usable QR code.
func (d Data) QrIssued() bool {
	return d.ResponseCode == responseCodeSuccess &&
		d.TxnStatus == txnStatusSuccess &&
		d.QrCode != "" &&
		d.TxnRetrievalRef != ""
}

// Outcome translates a query response into the internal payment outcome.
// A failure is only terminal once the front end has reported its timeout.
func (d Data) Outcome(frontendTimedOut bool) payment.Outcome {
	switch {
	case d.ResponseCode == responseCodeSuccess && d.TxnStatus == txnStatusSuccess:
		return payment.Outcome{State: payment.StateSettled, ProviderRef: d.TxnRetrievalRef}
	case frontendTimedOut && (d.ResponseCode != responseCodeSuccess || d.TxnStatus == txnStatusFailed):
		return payment.Outcome{State: payment.StateFailed, ProviderRef: d.TxnRetrievalRef}
	default:
		return payment.Outcome{State: payment.StatePending, ProviderRef: d.TxnRetrievalRef}
	}
}

type requestQrPayload struct {
	TxnID        string `json:"txn_id"`
	AmtInDollars string `json:"amt_in_dollars"`
	NotifyMobile int    `json:"notify_mobile"`
}

// RequestQr asks the gateway for a QR code tied to the given dollar amount.
func (c *Client) RequestQr(ctx context.Context, amountInDollars string) (*Envelope, error) {
	payload := requestQrPayload{
		TxnID:        c.cfg.MerchantTxnID,
		AmtInDollars: amountInDollars,
		NotifyMobile: 0,
	}
	return c.post(ctx, c.cfg.BaseURL+"/request", payload)
}

type queryPayload struct {
	TxnRetrievalRef       string `json:"txn_retrieval_ref"`
	FrontendTimeoutStatus int    `json:"frontend_timeout_status"`
}

// QueryStatus polls the gateway for the transaction tied to the retrieval ref.
func (c *Client) QueryStatus(ctx context.Context, txnRetrievalRef string, frontendTimedOut bool) (*Envelope, error) {
	payload := queryPayload{TxnRetrievalRef: txnRetrievalRef}
	if frontendTimedOut {
		payload.FrontendTimeoutStatus = 1
	}
	return c.post(ctx, c.cfg.BaseURL+"/query", payload)
}

func (c *Client) post(ctx context.Context, url string, payload any) (*Envelope, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("api-key", c.cfg.APIKey)
	req.Header.Set("project-id", c.cfg.ProjectID)
	req.Header.Set("Content-Type", "application/json")

	body, err := c.breaker.Execute(func() ([]byte, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("qr gateway returned %d: %s", resp.StatusCode, b)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	env.Raw = body
	return &env, nil
}
