// Package eligibility computes wallet trading metrics and applies the
// auto-approval thresholds for wallet submissions.
package eligibility

import "github.com/solsmart/solsmart-backend/internal/models"

// Metrics summarizes a wallet's per-token trading records.
type Metrics struct {
	TotalTrades      int
	TokenCount       int
	ProfitableTokens int
	WinRate          float64 // percent, 0-100
}

// Aggregate reduces per-token PnL records into summary metrics.
// Win rate is the share of tokens with a strictly positive cumulative PnL,
// not a per-trade figure: a token with one big win and nine losing swaps
// still counts as one profitable token. An empty input yields a zero win
// rate rather than a division by zero.
func Aggregate(tokens []models.TokenPnl) Metrics {
	m := Metrics{TokenCount: len(tokens)}
	for _, t := range tokens {
		m.TotalTrades += t.NumSwaps
		if t.TotalPnlUSD > 0 {
			m.ProfitableTokens++
		}
	}
	if m.TokenCount > 0 {
		m.WinRate = float64(m.ProfitableTokens) / float64(m.TokenCount) * 100
	}
	return m
}
