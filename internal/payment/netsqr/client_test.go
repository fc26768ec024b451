package netsqr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GohLiangHong/SupermarketApp/internal/payment"
)

func TestRequestQr(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/request", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		assert.Equal(t, "test-project", r.Header.Get("project-id"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, defaultMerchantTxnID, payload["txn_id"])
		assert.Equal(t, "12.34", payload["amt_in_dollars"])
		assert.Equal(t, float64(0), payload["notify_mobile"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"data":{"response_code":"00","txn_status":1,"qr_code":"aGVsbG8=","txn_retrieval_ref":"RETR-1"}}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", ProjectID: "test-project"})
	env, err := client.RequestQr(context.Background(), "12.34")

	require.NoError(t, err)
	data := env.Result.Data
	assert.True(t, data.QrIssued())
	assert.Equal(t, "RETR-1", data.TxnRetrievalRef)
	assert.NotEmpty(t, env.Raw)
}

func TestQueryStatus_TimeoutFlag(t *testing.T) {
	var gotTimeoutFlags []float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "RETR-1", payload["txn_retrieval_ref"])
		gotTimeoutFlags = append(gotTimeoutFlags, payload["frontend_timeout_status"].(float64))
		w.Write([]byte(`{"result":{"data":{"response_code":"09","txn_status":0}}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.QueryStatus(context.Background(), "RETR-1", false)
	require.NoError(t, err)
	_, err = client.QueryStatus(context.Background(), "RETR-1", true)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1}, gotTimeoutFlags)
}

func TestDataOutcome(t *testing.T) {
	tests := []struct {
		name             string
		data             Data
		frontendTimedOut bool
		want             payment.State
	}{
		{
			name: "settled",
			data: Data{ResponseCode: "00", TxnStatus: 1, TxnRetrievalRef: "R"},
			want: payment.StateSettled,
		},
		{
			name:             "settled even after timeout",
			data:             Data{ResponseCode: "00", TxnStatus: 1, TxnRetrievalRef: "R"},
			frontendTimedOut: true,
			want:             payment.StateSettled,
		},
		{
			name: "pending before timeout",
			data: Data{ResponseCode: "09", TxnStatus: 0},
			want: payment.StatePending,
		},
		{
			name: "explicit failure before timeout stays pending",
			data: Data{ResponseCode: "00", TxnStatus: 2},
			want: payment.StatePending,
		},
		{
			name:             "failure after timeout is terminal",
			data:             Data{ResponseCode: "00", TxnStatus: 2},
			frontendTimedOut: true,
			want:             payment.StateFailed,
		},
		{
			name:             "non-success code after timeout is terminal",
			data:             Data{ResponseCode: "09", TxnStatus: 0},
			frontendTimedOut: true,
			want:             payment.StateFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := tt.data.Outcome(tt.frontendTimedOut)
			assert.Equal(t, tt.want, outcome.State)
		})
	}
}

func TestQrIssued(t *testing.T) {
	ok := Data{ResponseCode: "00", TxnStatus: 1, QrCode: "aGVsbG8=", TxnRetrievalRef: "R"}
	assert.True(t, ok.QrIssued())

	missingQr := Data{ResponseCode: "00", TxnStatus: 1, TxnRetrievalRef: "R"}
	assert.False(t, missingQr.QrIssued())

	badCode := Data{ResponseCode: "66", TxnStatus: 1, QrCode: "aGVsbG8=", TxnRetrievalRef: "R"}
	assert.False(t, badCode.QrIssued())
}

func TestPost_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.RequestQr(context.Background(), "1.00")

	assert.Error(t, err)
}
