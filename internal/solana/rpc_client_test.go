package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(endpoint string) *HTTPClient {
	return NewHTTPClient(endpoint,
		WithMaxRetries(2),
		WithRetryDelay(time.Millisecond),
	)
}

func TestHTTPClient_GetAccountInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Method != "getAccountInfo" {
			t.Errorf("expected getAccountInfo, got %s", req.Method)
		}
		if len(req.Params) < 1 || req.Params[0] != "TestPubkey111" {
			t.Errorf("expected pubkey param, got %v", req.Params)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"jsonrpc": "2.0", "id": 1,
			"result": {
				"value": {
					"lamports": 5000,
					"owner": "OwnerProgram111",
					"data": ["aGVsbG8=", "base64"],
					"executable": false,
					"rentEpoch": 300
				}
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	info, err := client.GetAccountInfo(context.Background(), "TestPubkey111")
	if err != nil {
		t.Fatalf("GetAccountInfo: %v", err)
	}
	if info == nil {
		t.Fatal("expected account info, got nil")
	}
	if info.Lamports != 5000 {
		t.Errorf("expected 5000 lamports, got %d", info.Lamports)
	}
	if info.Owner != "OwnerProgram111" {
		t.Errorf("expected owner OwnerProgram111, got %s", info.Owner)
	}
	if info.Data != "aGVsbG8=" {
		t.Errorf("expected base64 data, got %q", info.Data)
	}
}

func TestHTTPClient_GetAccountInfo_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc": "2.0", "id": 1, "result": {"value": null}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	info, err := client.GetAccountInfo(context.Background(), "Missing111")
	if err != nil {
		t.Fatalf("GetAccountInfo: %v", err)
	}
	if info != nil {
		t.Errorf("expected nil for missing account, got %+v", info)
	}
}

func TestHTTPClient_RPCErrorNotRetried(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc": "2.0", "id": 1, "error": {"code": -32602, "message": "Invalid params"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetAccountInfo(context.Background(), "Bad")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid params") {
		t.Errorf("expected RPC error message, got %v", err)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("RPC error must not be retried, got %d requests", n)
	}
}

func TestHTTPClient_RateLimitedThenSuccess(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc": "2.0", "id": 1, "result": {"value": null}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetAccountInfo(context.Background(), "Throttled")
	if err != nil {
		t.Fatalf("expected retry to succeed after 429: %v", err)
	}
	if n := requests.Load(); n != 2 {
		t.Errorf("expected 2 requests, got %d", n)
	}
}

func TestHTTPClient_RetriesExhausted(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetAccountInfo(context.Background(), "Down")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "max retries exceeded") {
		t.Errorf("expected retry exhaustion error, got %v", err)
	}
	if n := requests.Load(); n != 3 {
		t.Errorf("expected initial attempt plus 2 retries, got %d requests", n)
	}
}
