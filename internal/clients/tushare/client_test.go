package tushare

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient("test-token",
		WithBaseURL(srv.URL),
		WithRateLimit(1000),
	)
	return client, srv
}

func TestGetLatestQuote(t *testing.T) {
	var gotReq apiRequest
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": 0,
			"msg": "",
			"data": {
				"fields": ["ts_code", "trade_date", "open", "high", "low", "close", "vol"],
				"items": [["600519.SH", "20260828", 1700.0, 1730.5, 1695.0, 1725.50, 28941.07]]
			}
		}`))
	})
	defer srv.Close()

	quote, err := client.GetLatestQuote(context.Background(), "600519")
	if err != nil {
		t.Fatalf("GetLatestQuote: %v", err)
	}

	if gotReq.APIName != "daily" {
		t.Errorf("api_name = %q, want daily", gotReq.APIName)
	}
	if gotReq.Token != "test-token" {
		t.Errorf("token = %q, want test-token", gotReq.Token)
	}
	if gotReq.Params["ts_code"] != "600519.SH" {
		t.Errorf("ts_code = %q, want normalized 600519.SH", gotReq.Params["ts_code"])
	}

	if quote.Symbol != "600519.SH" {
		t.Errorf("symbol = %q, want 600519.SH", quote.Symbol)
	}
	if !quote.Close.Equal(decimal.RequireFromString("1725.50")) {
		t.Errorf("close = %s, want 1725.50", quote.Close)
	}
	want := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	if !quote.TradeDate.Equal(want) {
		t.Errorf("trade date = %v, want %v", quote.TradeDate, want)
	}
	if quote.Volume != 28941 {
		t.Errorf("volume = %d, want 28941", quote.Volume)
	}
}

func TestGetLatestQuote_EmptyItems(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code": 0, "msg": "", "data": {"fields": [], "items": []}}`))
	})
	defer srv.Close()

	if _, err := client.GetLatestQuote(context.Background(), "600519.SH"); err == nil {
		t.Error("expected error for empty result")
	}
}

func TestGetStockInfo(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"code": 0,
			"msg": "",
			"data": {
				"fields": ["ts_code", "name", "market", "industry", "list_date"],
				"items": [["600519.SH", "贵州茅台", "主板", "白酒", "20010827"]]
			}
		}`))
	})
	defer srv.Close()

	info, err := client.GetStockInfo(context.Background(), "600519.SH")
	if err != nil {
		t.Fatalf("GetStockInfo: %v", err)
	}
	if info.Name != "贵州茅台" {
		t.Errorf("name = %q", info.Name)
	}
	if info.ListDate.Year() != 2001 {
		t.Errorf("list date = %v, want year 2001", info.ListDate)
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code": 40001, "msg": "token invalid", "data": null}`))
	})
	defer srv.Close()

	_, err := client.GetLatestQuote(context.Background(), "600519.SH")
	if err == nil {
		t.Fatal("expected API error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Code != 40001 {
		t.Errorf("code = %d, want 40001", apiErr.Code)
	}
}

func TestHTTPErrorSurfaced(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	if _, err := client.GetLatestQuote(context.Background(), "600519.SH"); err == nil {
		t.Error("expected error for HTTP 502")
	}
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"600519", "600519.SH"},
		{"000001", "000001.SZ"},
		{"300750", "300750.SZ"},
		{"430047", "430047.BJ"},
		{"830799", "830799.BJ"},
		{"600519.SH", "600519.SH"},
		{"600519.sh", "600519.SH"},
		{"AAPL", "AAPL"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeSymbol(tt.in); got != tt.want {
				t.Errorf("NormalizeSymbol(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string cell", `"abc"`, "abc"},
		{"number cell keeps exact text", `1725.50`, "1725.50"},
		{"null cell", `null`, ""},
		{"empty cell", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellString(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("cellString(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
