package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/solsmart/solsmart-backend/internal/external"
	"github.com/solsmart/solsmart-backend/internal/models"
	"github.com/solsmart/solsmart-backend/internal/solana"
)

// Read-only analytics pass-through. Each route is a thin reshape of Cielo
// data with a mock substitute when no provider credential is configured,
// so the frontend keeps working in local development.

type walletStatsJSON struct {
	Wallet             string   `json:"wallet"`
	TotalPnl           float64  `json:"totalPnl"`
	WinRate            float64  `json:"winRate"`
	TotalTrades        int      `json:"totalTrades"`
	ProfitableTrades   int      `json:"profitableTrades"`
	UnprofitableTrades int      `json:"unprofitableTrades"`
	RealizedPnl        float64  `json:"realizedPnl"`
	UnrealizedPnl      float64  `json:"unrealizedPnl"`
	FavoriteTokens     []string `json:"favoriteTokens"`
	LastActivity       string   `json:"lastActivity"`
	Chains             []string `json:"chains"`
	IsMock             bool     `json:"isMock,omitempty"`
}

func (s *Server) handleWalletStats(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if !solana.ValidAddress(address) {
		writeError(w, http.StatusBadRequest, "Invalid Solana wallet address")
		return
	}

	if s.cielo == nil || !s.cielo.Enabled() {
		writeJSON(w, http.StatusOK, s.mockWalletStats(address))
		return
	}

	tokens, err := s.cielo.GetTokenPnlWithRetry(r.Context(), address)
	if err != nil {
		if errors.Is(err, external.ErrWalletNotFound) {
			writeError(w, http.StatusNotFound, "Wallet not found")
			return
		}
		fmt.Printf("[CIELO] Error fetching stats for %s: %v\n", address, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch wallet stats")
		return
	}

	// Per-token reduction: win rate here is profitable tokens over total
	// trades, which is a different figure than the submission pipeline
	// reports.
	stats := walletStatsJSON{
		Wallet:         address,
		FavoriteTokens: []string{},
		LastActivity:   time.Now().UTC().Format(time.RFC3339),
		Chains:         []string{"solana"},
	}
	for _, t := range tokens {
		stats.TotalTrades += t.NumSwaps
		stats.RealizedPnl += t.RealizedPnlUSD
		stats.UnrealizedPnl += t.UnrealizedPnlUSD
		if t.RealizedPnlUSD > 0 {
			stats.ProfitableTrades++
		}
		if t.TokenSymbol != "" && len(stats.FavoriteTokens) < 5 {
			stats.FavoriteTokens = append(stats.FavoriteTokens, t.TokenSymbol)
		}
	}
	stats.TotalPnl = stats.RealizedPnl + stats.UnrealizedPnl
	stats.UnprofitableTrades = stats.TotalTrades - stats.ProfitableTrades
	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.ProfitableTrades) / float64(stats.TotalTrades) * 100
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) mockWalletStats(address string) walletStatsJSON {
	stats := walletStatsJSON{
		Wallet:         address,
		TotalPnl:       rand.Float64() * 1000000,
		WinRate:        60 + rand.Float64()*30,
		TotalTrades:    rand.Intn(500),
		FavoriteTokens: []string{"SOL", "BONK", "JUP"},
		LastActivity:   time.Now().UTC().Format(time.RFC3339),
		Chains:         []string{"solana"},
		IsMock:         true,
	}

	// Known directory wallets keep their curated figures.
	if known := s.dir.FindByAddress(address); known != nil {
		stats.TotalPnl = known.TotalPnl
		stats.WinRate = known.WinRate
		stats.TotalTrades = known.TotalTrades
		stats.FavoriteTokens = known.FavoriteTokens
	}

	stats.ProfitableTrades = int(float64(stats.TotalTrades) * stats.WinRate / 100)
	stats.UnprofitableTrades = stats.TotalTrades - stats.ProfitableTrades
	stats.RealizedPnl = stats.TotalPnl * 0.8
	stats.UnrealizedPnl = stats.TotalPnl * 0.2
	return stats
}

type walletPnlJSON struct {
	Wallet string `json:"wallet"`
	Tokens any    `json:"tokens"`
	Count  int    `json:"count"`
	IsMock bool   `json:"isMock,omitempty"`
}

func (s *Server) handleWalletPnl(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if !solana.ValidAddress(address) {
		writeError(w, http.StatusBadRequest, "Invalid Solana wallet address")
		return
	}

	if s.cielo == nil || !s.cielo.Enabled() {
		writeJSON(w, http.StatusOK, walletPnlJSON{Wallet: address, Tokens: []any{}, IsMock: true})
		return
	}

	tokens, err := s.cielo.GetTokenPnlWithRetry(r.Context(), address)
	if err != nil {
		if errors.Is(err, external.ErrWalletNotFound) {
			writeError(w, http.StatusNotFound, "Wallet not found")
			return
		}
		fmt.Printf("[CIELO] Error fetching pnl for %s: %v\n", address, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch wallet PnL")
		return
	}

	writeJSON(w, http.StatusOK, walletPnlJSON{Wallet: address, Tokens: tokens, Count: len(tokens)})
}

type transactionsPageJSON struct {
	Data []models.Transaction `json:"data"`
	Meta transactionsMeta     `json:"meta"`
}

type transactionsMeta struct {
	HasMore bool `json:"hasMore"`
}

func (s *Server) handleWalletTransactions(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if !solana.ValidAddress(address) {
		writeError(w, http.StatusBadRequest, "Invalid Solana wallet address")
		return
	}
	limit := parseLimit(r, 10)

	if s.cielo == nil || !s.cielo.Enabled() {
		writeJSON(w, http.StatusOK, transactionsPageJSON{
			Data: mockTransactions(address, limit),
			Meta: transactionsMeta{HasMore: true},
		})
		return
	}

	cursor := r.URL.Query().Get("cursor")
	txs, err := s.cielo.GetTransactions(r.Context(), address, limit, cursor)
	if err != nil {
		if errors.Is(err, external.ErrWalletNotFound) {
			writeError(w, http.StatusNotFound, "Wallet not found")
			return
		}
		fmt.Printf("[CIELO] Error fetching transactions for %s: %v\n", address, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	writeJSON(w, http.StatusOK, transactionsPageJSON{
		Data: txs,
		Meta: transactionsMeta{HasMore: len(txs) == limit},
	})
}

func mockTransactions(address string, limit int) []models.Transaction {
	memecoins := []string{"BONK", "JUP", "WIF"}
	out := make([]models.Transaction, limit)
	for i := range out {
		txType := "transfer"
		if rand.Float64() > 0.5 {
			txType = "swap"
		}
		token := memecoins[rand.Intn(len(memecoins))]
		out[i] = models.Transaction{
			ID:             fmt.Sprintf("tx_%d", i),
			Wallet:         address,
			Type:           txType,
			TokenIn:        "SOL",
			TokenOut:       token,
			TokenInSymbol:  "SOL",
			TokenOutSymbol: token,
			AmountIn:       rand.Float64() * 100,
			AmountOut:      rand.Float64() * 1000000,
			ValueUSD:       rand.Float64() * 10000,
			Pnl:            (rand.Float64() - 0.3) * 5000,
			Timestamp:      time.Now().UTC().Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
			Chain:          "solana",
			TxHash:         strconv.FormatUint(rand.Uint64(), 36) + "...",
			IsMock:         true,
		}
	}
	return out
}

type relatedWalletsJSON struct {
	RelatedWallets []json.RawMessage `json:"relatedWallets"`
	Count          int               `json:"count,omitempty"`
	Message        string            `json:"message,omitempty"`
	IsMock         bool              `json:"isMock,omitempty"`
}

func (s *Server) handleRelatedWallets(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if !solana.ValidAddress(address) {
		writeError(w, http.StatusBadRequest, "Invalid Solana wallet address")
		return
	}

	if s.cielo == nil || !s.cielo.Enabled() {
		writeJSON(w, http.StatusOK, relatedWalletsJSON{RelatedWallets: []json.RawMessage{}, IsMock: true})
		return
	}

	wallets, count, err := s.cielo.GetRelatedWallets(r.Context(), address)
	if err != nil {
		// An unknown wallet simply has no relations; not an error to the
		// caller.
		if errors.Is(err, external.ErrWalletNotFound) {
			writeJSON(w, http.StatusOK, relatedWalletsJSON{
				RelatedWallets: []json.RawMessage{},
				Message:        "No related wallets found",
			})
			return
		}
		var statusErr *external.StatusError
		if errors.As(err, &statusErr) {
			writeError(w, statusErr.Status, fmt.Sprintf("Cielo API error: %d", statusErr.Status))
			return
		}
		fmt.Printf("[CIELO] Error fetching related wallets for %s: %v\n", address, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch related wallets")
		return
	}
	if wallets == nil {
		wallets = []json.RawMessage{}
	}

	writeJSON(w, http.StatusOK, relatedWalletsJSON{RelatedWallets: wallets, Count: count})
}

type trendingWalletJSON struct {
	Wallet      string   `json:"wallet"`
	Label       string   `json:"label"`
	Pnl24h      float64  `json:"pnl24h"`
	Pnl7d       float64  `json:"pnl7d"`
	Pnl30d      float64  `json:"pnl30d"`
	WinRate     float64  `json:"winRate"`
	TotalTrades int      `json:"totalTrades"`
	Followers   int      `json:"followers"`
	Tags        []string `json:"tags"`
	IsMock      bool     `json:"isMock"`
}

// handleTrendingWallets has no live upstream (Cielo exposes no trending
// endpoint); with a credential configured it returns an empty list, and a
// generated sample otherwise.
func (s *Server) handleTrendingWallets(w http.ResponseWriter, r *http.Request) {
	if s.cielo != nil && s.cielo.Enabled() {
		writeJSON(w, http.StatusOK, []trendingWalletJSON{})
		return
	}

	limit := parseLimit(r, 25)
	out := make([]trendingWalletJSON, limit)
	for i := range out {
		out[i] = trendingWalletJSON{
			Wallet:      fmt.Sprintf("wallet_%d", i),
			Label:       fmt.Sprintf("Trader %d", i+1),
			Pnl24h:      (rand.Float64() - 0.3) * 100000,
			Pnl7d:       (rand.Float64() - 0.3) * 500000,
			Pnl30d:      (rand.Float64() - 0.3) * 2000000,
			WinRate:     50 + rand.Float64()*40,
			TotalTrades: rand.Intn(1000),
			Followers:   rand.Intn(10000),
			Tags:        []string{"whale", "trader"}[:1+rand.Intn(2)],
			IsMock:      true,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
