package server

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/models"
)

// tradeRequest is the payload for buy/sell and raw transaction posts.
type tradeRequest struct {
	Symbol    string          `json:"symbol"`
	Side      string          `json:"side,omitempty"` // only for POST /transactions
	Shares    int64           `json:"shares"`
	Price     decimal.Decimal `json:"price"`
	Fee       decimal.Decimal `json:"fee"`
	TradeDate string          `json:"trade_date,omitempty"` // YYYY-MM-DD, defaults to today
	Note      string          `json:"note,omitempty"`
}

// parseTradeDate parses the optional trade date; zero means today.
func parseTradeDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// handleTrade handles POST /api/accounts/{id}/buy and /sell.
func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request, accountID string, buy bool) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req tradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	tradeDate, ok := parseTradeDate(req.TradeDate)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid trade_date, expected YYYY-MM-DD")
		return
	}

	var tx *models.Transaction
	var err error
	if buy {
		tx, err = s.app.TradeService.BuyStock(r.Context(), accountID, req.Symbol, req.Shares, req.Price, req.Fee, tradeDate)
	} else {
		tx, err = s.app.TradeService.SellStock(r.Context(), accountID, req.Symbol, req.Shares, req.Price, req.Fee, tradeDate)
	}
	if err != nil {
		writeTradeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, tx)
}

// handleTransactions handles GET (ordered ledger) and POST (raw transaction)
// on /api/accounts/{id}/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request, accountID string) {
	switch r.Method {
	case http.MethodGet:
		symbol := r.URL.Query().Get("symbol")
		txs, err := s.app.TradeService.GetTransactions(r.Context(), accountID, symbol)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"transactions": txs,
			"count":        len(txs),
		})

	case http.MethodPost:
		var req tradeRequest
		if !DecodeJSON(w, r, &req) {
			return
		}

		side, err := models.ParseTradeSide(req.Side)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		tradeDate, ok := parseTradeDate(req.TradeDate)
		if !ok {
			WriteError(w, http.StatusBadRequest, "Invalid trade_date, expected YYYY-MM-DD")
			return
		}

		tx := &models.Transaction{
			AccountID: accountID,
			Symbol:    req.Symbol,
			Side:      side,
			Shares:    req.Shares,
			Price:     req.Price,
			Amount:    req.Price.Mul(decimal.NewFromInt(req.Shares)),
			Fee:       req.Fee,
			TradeDate: tradeDate,
			Note:      req.Note,
		}

		recorded, err := s.app.TradeService.RecordTransaction(r.Context(), tx)
		if err != nil {
			writeTradeError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, recorded)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// writeTradeError distinguishes a missing account (404) from a rejected
// trade (400).
func writeTradeError(w http.ResponseWriter, err error) {
	if errorIsNotFound(err) {
		WriteServiceError(w, err)
		return
	}
	WriteError(w, http.StatusBadRequest, err.Error())
}
