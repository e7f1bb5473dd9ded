package server

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/models"
)

// createAccountRequest is the POST /api/accounts payload.
type createAccountRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	InitialCapital decimal.Decimal `json:"initial_capital"`
}

// handleAccounts handles GET (list) and POST (create) on /api/accounts.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts, err := s.app.AccountService.ListAccounts(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"accounts": accounts,
			"count":    len(accounts),
		})

	case http.MethodPost:
		var req createAccountRequest
		if !DecodeJSON(w, r, &req) {
			return
		}

		accountType, err := models.ParseAccountType(req.Type)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		account, err := s.app.AccountService.CreateAccount(r.Context(), req.Name, accountType, req.InitialCapital)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, account)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// cashRequest is the POST /api/accounts/{id}/cash payload. A positive delta
// deposits, a negative one withdraws.
type cashRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

// handleCash handles POST /api/accounts/{id}/cash.
func (s *Server) handleCash(w http.ResponseWriter, r *http.Request, accountID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req cashRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	account, err := s.app.AccountService.AdjustCash(r.Context(), accountID, req.Delta)
	if err != nil {
		if errorIsNotFound(err) {
			WriteServiceError(w, err)
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, account)
}

// handleAccount handles GET and DELETE on /api/accounts/{id}.
func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request, accountID string) {
	switch r.Method {
	case http.MethodGet:
		account, err := s.app.AccountService.GetAccount(r.Context(), accountID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, account)

	case http.MethodDelete:
		if err := s.app.AccountService.DeleteAccount(r.Context(), accountID); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": accountID})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}
