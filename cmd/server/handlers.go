package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/observability"
	"solana-token-forge/internal/registry"
	"solana-token-forge/internal/storage"
)

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 500
)

// Server serves the token registry.
type Server struct {
	stores  *registry.Stores
	logger  *log.Logger
	started time.Time
}

// NewServer creates a Server.
func NewServer(stores *registry.Stores, logger *log.Logger) *Server {
	return &Server{stores: stores, logger: logger, started: time.Now()}
}

// StatusResponse is the /status payload.
type StatusResponse struct {
	Status    string    `json:"status"`
	Uptime    string    `json:"uptime"`
	Started   time.Time `json:"started"`
	Analytics bool      `json:"analytics"`
}

// TokenResponse is the JSON form of a registry token.
type TokenResponse struct {
	MintAddress       string  `json:"mint_address"`
	CreatorWallet     string  `json:"creator_wallet"`
	Name              string  `json:"name"`
	Symbol            string  `json:"symbol"`
	Decimals          int     `json:"decimals"`
	InitialSupply     string  `json:"initial_supply"`
	Plan              string  `json:"plan"`
	MetadataURI       string  `json:"metadata_uri"`
	Description       *string `json:"description"`
	IsMetadataMutable bool    `json:"is_metadata_mutable"`
	Network           string  `json:"network"`
	FeeLamports       uint64  `json:"fee_lamports"`
	CreationSignature string  `json:"creation_signature"`
	CreatedAt         int64   `json:"created_at"`
	ExplorerURL       string  `json:"explorer_url"`
}

// TransactionResponse is the JSON form of a registry transaction.
type TransactionResponse struct {
	Signature   string            `json:"signature"`
	TokenMint   string            `json:"token_mint"`
	UserWallet  string            `json:"user_wallet"`
	Type        string            `json:"transaction_type"`
	Network     string            `json:"network"`
	Details     map[string]string `json:"details"`
	CreatedAt   int64             `json:"created_at"`
	ExplorerURL string            `json:"explorer_url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", observability.Handler())

	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /tokens", s.handleListTokens)
	mux.HandleFunc("GET /tokens/{mint}", s.handleGetToken)
	mux.HandleFunc("GET /tokens/{mint}/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /stats", s.handleStats)

	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    "running",
		Uptime:    time.Since(s.started).Truncate(time.Second).String(),
		Started:   s.started,
		Analytics: s.stores.Events != nil,
	})
}

// handleListTokens serves GET /tokens?creator=<wallet>[&network=devnet].
func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	creator := r.URL.Query().Get("creator")
	if creator == "" {
		writeError(w, http.StatusBadRequest, "creator is required")
		return
	}
	network, ok := parseNetworkParam(w, r)
	if !ok {
		return
	}

	tokens, err := s.stores.Tokens.ListByCreator(r.Context(), creator, network)
	if err != nil {
		s.internalError(w, "list tokens", err)
		return
	}

	resp := make([]TokenResponse, 0, len(tokens))
	for _, t := range tokens {
		resp = append(resp, tokenResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.stores.Tokens.GetByMint(r.Context(), r.PathValue("mint"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "token not found")
		return
	}
	if err != nil {
		s.internalError(w, "get token", err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse(token))
}

// handleListTransactions serves GET /tokens/{mint}/transactions[?limit=n].
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := defaultTransactionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxTransactionLimit)
	}

	txs, err := s.stores.Transactions.ListByMint(r.Context(), r.PathValue("mint"), limit)
	if err != nil {
		s.internalError(w, "list transactions", err)
		return
	}

	resp := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		resp = append(resp, TransactionResponse{
			Signature:   t.Signature,
			TokenMint:   t.TokenMint,
			UserWallet:  t.UserWallet,
			Type:        string(t.Type),
			Network:     string(t.Network),
			Details:     t.Details,
			CreatedAt:   t.CreatedAt,
			ExplorerURL: t.Network.ExplorerURL("tx", t.Signature),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStats serves GET /stats[?network=devnet]: transaction counts per type.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stores.Events == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics store is not configured")
		return
	}
	network, ok := parseNetworkParam(w, r)
	if !ok {
		return
	}

	counts, err := s.stores.Events.CountByType(r.Context(), network)
	if err != nil {
		s.internalError(w, "count transactions", err)
		return
	}

	resp := make(map[string]uint64, len(counts))
	for kind, n := range counts {
		resp[string(kind)] = n
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Printf("%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// parseNetworkParam reads the optional network query parameter.
func parseNetworkParam(w http.ResponseWriter, r *http.Request) (domain.Network, bool) {
	v := r.URL.Query().Get("network")
	if v == "" {
		return "", true
	}
	network, err := domain.ParseNetwork(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return network, true
}

func tokenResponse(t *domain.TokenRecord) TokenResponse {
	return TokenResponse{
		MintAddress:       t.MintAddress,
		CreatorWallet:     t.CreatorWallet,
		Name:              t.Name,
		Symbol:            t.Symbol,
		Decimals:          t.Decimals,
		InitialSupply:     t.InitialSupply,
		Plan:              string(t.Plan),
		MetadataURI:       t.MetadataURI,
		Description:       t.Description,
		IsMetadataMutable: t.IsMetadataMutable,
		Network:           string(t.Network),
		FeeLamports:       t.FeeLamports,
		CreationSignature: t.CreationSignature,
		CreatedAt:         t.CreatedAt,
		ExplorerURL:       t.Network.ExplorerURL("token", t.MintAddress),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
