package server

import (
	"net/http"
)

// handlePositions handles GET /api/accounts/{id}/positions.
// Positions are replayed from the full ledger on every call.
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request, accountID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	positions, err := s.app.PositionService.GetPositions(r.Context(), accountID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"account_id": accountID,
		"positions":  positions,
		"count":      len(positions),
	})
}

// handleSummary handles GET /api/accounts/{id}/summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, accountID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.PositionService.GetAccountSummary(r.Context(), accountID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}
