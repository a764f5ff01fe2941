package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finsight/finsight/internal/service/banking"
)

func (s *Server) plaidRoutes(r chi.Router) {
	r.Post("/link/token/create", s.handleCreateLinkToken)
	r.Post("/link/token/exchange", s.handleExchangeToken)
	r.Post("/accounts", s.handleAccounts)
	r.Post("/transactions", s.handleTransactions)
	r.Post("/investments/holdings", s.handleHoldings)
	r.Post("/identity", s.handleIdentity)
	r.Post("/item", s.handleItem)
	r.Post("/insights/spending", s.handleSpendingInsights)
	r.Get("/info/products", s.handleProducts)
	r.Get("/health", s.handlePlaidHealth)
}

// CreateLinkTokenRequest is the body for POST /api/plaid/link/token/create.
type CreateLinkTokenRequest struct {
	UserID     string `json:"userId"`
	ClientName string `json:"clientName,omitempty"`
}

func (s *Server) handleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkTokenRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}
	if req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "userId is required", "", nil)
		return
	}

	token, err := s.banking.CreateLinkToken(r.Context(), req.UserID, req.ClientName)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, token)
}

// ExchangeTokenRequest is the body for POST /api/plaid/link/token/exchange.
type ExchangeTokenRequest struct {
	PublicToken string `json:"publicToken"`
	UserID      string `json:"userId"`
}

func (s *Server) handleExchangeToken(w http.ResponseWriter, r *http.Request) {
	var req ExchangeTokenRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}
	if req.PublicToken == "" || req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "publicToken and userId are required", "", nil)
		return
	}

	exchange, err := s.banking.ExchangePublicToken(r.Context(), req.PublicToken, req.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, exchange)
}

// AccessTokenRequest is the body for the token-scoped plaid endpoints.
type AccessTokenRequest struct {
	AccessToken string `json:"accessToken"`
}

func (s *Server) accessToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req AccessTokenRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return "", false
	}
	if req.AccessToken == "" {
		s.writeError(w, http.StatusBadRequest, "accessToken is required", "", nil)
		return "", false
	}
	return req.AccessToken, true
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	token, ok := s.accessToken(w, r)
	if !ok {
		return
	}

	accounts, err := s.banking.GetAccounts(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, accounts)
}

// TransactionsRequest is the body for POST /api/plaid/transactions.
type TransactionsRequest struct {
	AccessToken string   `json:"accessToken"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	AccountIDs  []string `json:"accountIds,omitempty"`
	Count       int      `json:"count,omitempty"`
	Offset      int      `json:"offset,omitempty"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	var req TransactionsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}
	if req.AccessToken == "" || req.StartDate == "" || req.EndDate == "" {
		s.writeError(w, http.StatusBadRequest, "accessToken, startDate, and endDate are required", "", nil)
		return
	}

	transactions, err := s.banking.GetTransactions(r.Context(), req.AccessToken, req.StartDate, req.EndDate, req.AccountIDs, req.Count, req.Offset)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid transactions request", err.Error(), nil)
		return
	}
	s.writeData(w, http.StatusOK, transactions)
}

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	token, ok := s.accessToken(w, r)
	if !ok {
		return
	}

	holdings, err := s.banking.GetInvestmentHoldings(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, holdings)
}

func (s *Server) handleIdentity(w http.ResponseWriter, r *http.Request) {
	token, ok := s.accessToken(w, r)
	if !ok {
		return
	}

	identity, err := s.banking.GetIdentity(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, identity)
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	token, ok := s.accessToken(w, r)
	if !ok {
		return
	}

	item, err := s.banking.GetItem(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, item)
}

// SpendingInsightsRequest is the body for POST /api/plaid/insights/spending.
type SpendingInsightsRequest struct {
	AccessToken string   `json:"accessToken"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	AccountIDs  []string `json:"accountIds,omitempty"`
}

func (s *Server) handleSpendingInsights(w http.ResponseWriter, r *http.Request) {
	var req SpendingInsightsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}
	if req.AccessToken == "" || req.StartDate == "" || req.EndDate == "" {
		s.writeError(w, http.StatusBadRequest, "accessToken, startDate, and endDate are required", "", nil)
		return
	}

	transactions, err := s.banking.GetTransactions(r.Context(), req.AccessToken, req.StartDate, req.EndDate, req.AccountIDs, 0, 0)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid insights request", err.Error(), nil)
		return
	}
	s.writeData(w, http.StatusOK, s.banking.GenerateSpendingInsights(transactions))
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, banking.Products)
}

func (s *Server) handlePlaidHealth(w http.ResponseWriter, r *http.Request) {
	status := s.banking.Health(r.Context())
	s.writeHealthStatus(w, status.Healthy, status)
}
