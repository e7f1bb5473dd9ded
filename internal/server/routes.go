package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/folio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Accounts and their ledgers
	mux.HandleFunc("/api/accounts/", s.routeAccounts)
	mux.HandleFunc("/api/accounts", s.handleAccounts)
}

// routeAccounts dispatches /api/accounts/{id}/* to the appropriate handler.
func (s *Server) routeAccounts(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
	if path == "" {
		s.handleAccounts(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	accountID := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "":
		s.handleAccount(w, r, accountID)
	case "positions":
		s.handlePositions(w, r, accountID)
	case "summary":
		s.handleSummary(w, r, accountID)
	case "cash":
		s.handleCash(w, r, accountID)
	case "transactions":
		s.handleTransactions(w, r, accountID)
	case "buy":
		s.handleTrade(w, r, accountID, true)
	case "sell":
		s.handleTrade(w, r, accountID, false)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":           s.app.Config.Environment,
		"storage_ledger_path":   s.app.Config.Storage.Ledger.Path,
		"storage_market_path":   s.app.Config.Storage.Market.Path,
		"logging_level":         s.app.Config.Logging.Level,
		"tushare_configured":    s.app.MarketClient != nil,
		"enforce_affordability": s.app.Config.Trading.EnforceAffordability,
	})
}
