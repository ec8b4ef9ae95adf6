package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/solsmart/solsmart-backend/internal/directory"
	"github.com/solsmart/solsmart-backend/internal/eligibility"
	"github.com/solsmart/solsmart-backend/internal/external"
	"github.com/solsmart/solsmart-backend/internal/models"
	"github.com/solsmart/solsmart-backend/internal/repository"
	"github.com/solsmart/solsmart-backend/internal/solana"
)

type submitRequest struct {
	WalletAddress string `json:"walletAddress"`
	Label         string `json:"label"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Twitter       string `json:"twitter"`
	Telegram      string `json:"telegram"`
}

type criteriaJSON struct {
	MinPortfolio    float64 `json:"minPortfolio"`
	MinTrades       int     `json:"minTrades"`
	ActualPortfolio float64 `json:"actualPortfolio"`
	ActualTrades    int     `json:"actualTrades"`
	WinRate         float64 `json:"winRate"`
}

type rejectionJSON struct {
	Error    string       `json:"error"`
	Reason   string       `json:"reason"`
	Criteria criteriaJSON `json:"criteria"`
}

type submitStatsJSON struct {
	PortfolioValue float64 `json:"portfolioValue"`
	TotalTrades    int     `json:"totalTrades"`
	WinRate        float64 `json:"winRate"`
	WinRateNote    string  `json:"winRateNote"`
}

type submitResponseJSON struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Wallet  models.Wallet   `json:"wallet"`
	Stats   submitStatsJSON `json:"stats"`
}

// validationResult is the outcome of checking a wallet against Cielo.
// An invalid result always carries a reason; metrics are whatever was
// obtainable (zeroed when the provider had nothing to say).
type validationResult struct {
	Valid          bool
	Reason         string
	PortfolioValue float64
	TotalTrades    int
	WinRate        float64
}

// handleSubmitWallet runs one submission through the pipeline:
// input shape -> address syntax -> duplicate gates -> Cielo validation ->
// threshold evaluation -> ledger append. The first failing gate is
// terminal.
func (s *Server) handleSubmitWallet(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.WalletAddress == "" || req.Label == "" || req.Category == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if !directory.ValidCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "Invalid category")
		return
	}

	if !solana.ValidAddress(req.WalletAddress) {
		writeError(w, http.StatusBadRequest, "Invalid Solana wallet address")
		return
	}

	ctx := r.Context()

	if s.dir.FindByAddress(req.WalletAddress) != nil {
		writeError(w, http.StatusConflict, "Wallet already in directory")
		return
	}

	exists, err := s.store.Exists(ctx, req.WalletAddress)
	if err != nil {
		fmt.Printf("[SUBMIT] Ledger lookup failed for %s: %v\n", req.WalletAddress, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "Wallet already submitted for review")
		return
	}

	v := s.validateWallet(ctx, req.WalletAddress)
	if !v.Valid {
		writeJSON(w, http.StatusForbidden, rejectionJSON{
			Error:  "Wallet does not meet smart money criteria",
			Reason: v.Reason,
			Criteria: criteriaJSON{
				MinPortfolio:    eligibility.MinPortfolioUSD,
				MinTrades:       eligibility.MinTrades,
				ActualPortfolio: v.PortfolioValue,
				ActualTrades:    v.TotalTrades,
				WinRate:         v.WinRate,
			},
		})
		return
	}

	sub := &models.Submission{
		Address:        req.WalletAddress,
		Label:          req.Label,
		Category:       req.Category,
		Description:    req.Description,
		Twitter:        req.Twitter,
		Telegram:       req.Telegram,
		Status:         models.StatusApproved,
		PortfolioValue: v.PortfolioValue,
		TotalTrades:    v.TotalTrades,
		WinRate:        v.WinRate,
		SubmittedAt:    time.Now().UTC(),
	}

	saved, err := s.store.Insert(ctx, sub)
	if err != nil {
		// A concurrent submission can win the race between the Exists
		// check and this insert; the unique index decides.
		if errors.Is(err, repository.ErrAlreadySubmitted) {
			writeError(w, http.StatusConflict, "Wallet already submitted for review")
			return
		}
		fmt.Printf("[SUBMIT] Failed to save submission for %s: %v\n", req.WalletAddress, err)
		writeError(w, http.StatusInternalServerError, "Failed to save submission")
		return
	}

	fmt.Printf("[SUBMIT] Auto-approved %s (%s): portfolio $%.0f, %d trades, %.1f%% win rate\n",
		req.Label, req.WalletAddress, v.PortfolioValue, v.TotalTrades, v.WinRate)

	if s.notify != nil && s.notify.Enabled() {
		go s.notify.Send(fmt.Sprintf("Auto-approved %s (%s): portfolio $%.0f, %d trades, %.1f%% win rate",
			req.Label, req.WalletAddress, v.PortfolioValue, v.TotalTrades, v.WinRate))
	}

	var socials *models.Socials
	if req.Twitter != "" || req.Telegram != "" {
		socials = &models.Socials{Twitter: req.Twitter, Telegram: req.Telegram}
	}

	writeJSON(w, http.StatusOK, submitResponseJSON{
		Success: true,
		Message: "Wallet approved and added to directory",
		Wallet: models.Wallet{
			ID:             strconv.FormatInt(saved.ID, 10),
			Address:        req.WalletAddress,
			Label:          req.Label,
			Category:       req.Category,
			WinRate:        v.WinRate,
			TotalTrades:    v.TotalTrades,
			FavoriteTokens: []string{},
			Description:    req.Description,
			Socials:        socials,
			AutoApproved:   true,
			ApprovedAt:     saved.SubmittedAt.UTC().Format(time.RFC3339),
			PortfolioValue: v.PortfolioValue,
		},
		Stats: submitStatsJSON{
			PortfolioValue: v.PortfolioValue,
			TotalTrades:    v.TotalTrades,
			WinRate:        v.WinRate,
			WinRateNote:    "Based on tracked tokens (50 most recent)",
		},
	})
}

// validateWallet fetches portfolio value and token PnL from Cielo and
// evaluates the auto-approval thresholds. With no credential configured it
// short-circuits to a fixed rejection without touching the network.
func (s *Server) validateWallet(ctx context.Context, address string) validationResult {
	if s.cielo == nil || !s.cielo.Enabled() {
		return validationResult{Reason: "API not configured"}
	}

	// The two provider queries are independent; issue them concurrently
	// and join before evaluating. Errors are handled per leg, so no
	// cross-cancellation.
	var (
		portfolio    *models.Portfolio
		tokens       []models.TokenPnl
		portfolioErr error
		pnlErr       error
	)
	var g errgroup.Group
	g.Go(func() error {
		portfolio, portfolioErr = s.cielo.GetPortfolio(ctx, address)
		return nil
	})
	g.Go(func() error {
		tokens, pnlErr = s.cielo.GetTokenPnl(ctx, address)
		return nil
	})
	g.Wait()

	if portfolioErr != nil && pnlErr != nil {
		if errors.Is(portfolioErr, external.ErrWalletNotFound) || errors.Is(pnlErr, external.ErrWalletNotFound) {
			return validationResult{Reason: "Wallet not found in Cielo database. Wallet needs trading history."}
		}
		var statusErr *external.StatusError
		if errors.As(portfolioErr, &statusErr) || errors.As(pnlErr, &statusErr) {
			return validationResult{Reason: fmt.Sprintf("Cielo API error: %d", statusErr.Status)}
		}
		fmt.Printf("[SUBMIT] Validation failed for %s: portfolio=%v pnl=%v\n", address, portfolioErr, pnlErr)
		return validationResult{Reason: "Failed to validate wallet"}
	}

	// One failed leg degrades that leg to zero values.
	var portfolioValue float64
	if portfolioErr == nil && portfolio != nil {
		portfolioValue = portfolio.TotalUSD
	} else if portfolioErr != nil {
		fmt.Printf("[SUBMIT] Portfolio fetch failed for %s, defaulting to 0: %v\n", address, portfolioErr)
	}
	if pnlErr != nil {
		fmt.Printf("[SUBMIT] Token PnL fetch failed for %s, defaulting to none: %v\n", address, pnlErr)
		tokens = nil
	}

	m := eligibility.Aggregate(tokens)
	d := eligibility.Evaluate(portfolioValue, m)

	return validationResult{
		Valid:          d.Accepted,
		Reason:         d.Reason,
		PortfolioValue: d.PortfolioValue,
		TotalTrades:    d.TotalTrades,
		WinRate:        d.WinRate,
	}
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 100)

	subs, err := s.store.List(r.Context(), limit)
	if err != nil {
		fmt.Printf("[SUBMIT] Error listing submissions: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch submissions")
		return
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}
