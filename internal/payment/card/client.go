// Package card talks to the card processor's order/capture API.
package card

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const requestTimeout = 10 * time.Second

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// CaptureResult is the tagged translation of the processor's capture response.
type CaptureResult struct {
	Completed bool
	CaptureID string
	Raw       json.RawMessage
}

func NewClient(cfg Config) *Client {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "card-processor",
		Timeout: 30 * time.Second,
	})
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/oauth2/token",
		strings.NewReader(url.Values{"grant_type": {"client_credentials"}}.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return tok.AccessToken, nil
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type purchaseUnit struct {
	ReferenceID string      `json:"reference_id,omitempty"`
	Amount      orderAmount `json:"amount"`
}

type orderAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder registers a capture-intent order for the given amount and
// returns the processor's order id. The payload carries only the final
// amount; itemised breakdowns make the processor reject on any rounding
// mismatch.
func (c *Client) CreateOrder(ctx context.Context, amount, currency, reference string) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	payload := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			ReferenceID: reference,
			Amount:      orderAmount{CurrencyCode: currency, Value: amount},
		}},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal create order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v2/checkout/orders", bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("build create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}

	var resp createOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode create order response: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create order response missing id")
	}
	return resp.ID, nil
}

type captureResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CaptureOrder captures a previously created processor order and reports
// whether the capture completed. The completed flag is probed from either the
// top-level status or the first capture's status, whichever the processor
// populated.
func (c *Client) CaptureOrder(ctx context.Context, providerOrderID string) (*CaptureResult, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v2/checkout/orders/"+url.PathEscape(providerOrderID)+"/capture", nil)
	if err != nil {
		return nil, fmt.Errorf("build capture request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("capture order: %w", err)
	}

	var resp captureResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode capture response: %w", err)
	}

	result := &CaptureResult{Raw: body}
	if resp.Status == "COMPLETED" {
		result.Completed = true
	}
	if len(resp.PurchaseUnits) > 0 && len(resp.PurchaseUnits[0].Payments.Captures) > 0 {
		capture := resp.PurchaseUnits[0].Payments.Captures[0]
		if capture.Status == "COMPLETED" {
			result.Completed = true
		}
		result.CaptureID = capture.ID
	}
	if result.CaptureID == "" {
		result.CaptureID = resp.ID
	}
	return result, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("card processor returned %d: %s", resp.StatusCode, body)
		}
		return body, nil
	})
}
