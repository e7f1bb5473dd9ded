// Package tushare provides a client for the Tushare Pro market-data API
package tushare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://api.tushare.pro"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the MarketDataClient interface against Tushare Pro.
// All endpoints share one POST entrypoint with an api_name discriminator.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Tushare client
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a Tushare API error
type APIError struct {
	Code    int
	Message string
	APIName string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tushare %s failed: code %d: %s", e.APIName, e.Code, e.Message)
}

// apiRequest is the uniform Tushare request envelope.
type apiRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields,omitempty"`
}

// apiResponse is the uniform Tushare response envelope: a column-name list
// plus row tuples.
type apiResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Fields []string            `json:"fields"`
		Items  [][]json.RawMessage `json:"items"`
	} `json:"data"`
}

// cellString renders one response cell as text. String cells are unquoted;
// number cells keep their exact textual form for decimal parsing; nulls
// become empty.
func cellString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// call posts one API request and returns the decoded rows keyed by field name.
func (c *Client) call(ctx context.Context, apiName string, params map[string]string, fields string) ([]map[string]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(apiRequest{
		APIName: apiName,
		Token:   c.token,
		Params:  params,
		Fields:  fields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", apiName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", apiName, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", apiName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", apiName, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode), APIName: apiName}
	}

	var decoded apiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", apiName, err)
	}
	if decoded.Code != 0 {
		return nil, &APIError{Code: decoded.Code, Message: decoded.Msg, APIName: apiName}
	}

	rows := make([]map[string]string, 0, len(decoded.Data.Items))
	for _, item := range decoded.Data.Items {
		row := make(map[string]string, len(decoded.Data.Fields))
		for i, field := range decoded.Data.Fields {
			if i < len(item) {
				row[field] = cellString(item[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetLatestQuote returns the most recent daily bar for symbol.
func (c *Client) GetLatestQuote(ctx context.Context, symbol string) (*models.DailyQuote, error) {
	tsCode := NormalizeSymbol(symbol)

	rows, err := c.call(ctx, "daily", map[string]string{
		"ts_code": tsCode,
		"limit":   "1",
	}, "ts_code,trade_date,open,high,low,close,vol")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no daily quote for '%s'", symbol)
	}

	row := rows[0]
	tradeDate, err := parseCompactDate(row["trade_date"])
	if err != nil {
		return nil, fmt.Errorf("bad trade_date for '%s': %w", symbol, err)
	}

	quote := &models.DailyQuote{
		Symbol:    tsCode,
		TradeDate: tradeDate,
		Open:      parseDecimal(row["open"]),
		High:      parseDecimal(row["high"]),
		Low:       parseDecimal(row["low"]),
		Close:     parseDecimal(row["close"]),
		SyncedAt:  time.Now().UTC(),
	}
	if vol, err := decimal.NewFromString(row["vol"]); err == nil {
		quote.Volume = vol.IntPart()
	}

	c.logger.Debug().
		Str("symbol", tsCode).
		Str("close", quote.Close.String()).
		Msg("Fetched daily quote")

	return quote, nil
}

// GetStockInfo returns listing metadata for symbol.
func (c *Client) GetStockInfo(ctx context.Context, symbol string) (*models.StockInfo, error) {
	tsCode := NormalizeSymbol(symbol)

	rows, err := c.call(ctx, "stock_basic", map[string]string{
		"ts_code": tsCode,
	}, "ts_code,name,market,industry,list_date")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no stock info for '%s'", symbol)
	}

	row := rows[0]
	info := &models.StockInfo{
		Symbol:   tsCode,
		Name:     row["name"],
		Market:   row["market"],
		Industry: row["industry"],
		SyncedAt: time.Now().UTC(),
	}
	if listDate, err := parseCompactDate(row["list_date"]); err == nil {
		info.ListDate = listDate
	}

	return info, nil
}

// NormalizeSymbol appends the exchange suffix Tushare expects when the caller
// passes a bare A-share code: 6xxxxx → .SH, 0xxxxx/3xxxxx → .SZ,
// 4xxxxx/8xxxxx → .BJ. Codes that already carry a suffix pass through.
func NormalizeSymbol(symbol string) string {
	if strings.Contains(symbol, ".") {
		return strings.ToUpper(symbol)
	}
	switch {
	case strings.HasPrefix(symbol, "6"):
		return symbol + ".SH"
	case strings.HasPrefix(symbol, "0"), strings.HasPrefix(symbol, "3"):
		return symbol + ".SZ"
	case strings.HasPrefix(symbol, "4"), strings.HasPrefix(symbol, "8"):
		return symbol + ".BJ"
	}
	return symbol
}

// parseCompactDate parses Tushare's YYYYMMDD date format.
func parseCompactDate(s string) (time.Time, error) {
	return time.Parse("20060102", s)
}

// parseDecimal parses a decimal field, treating blanks and garbage as zero;
// provider rows occasionally carry empty cells.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
