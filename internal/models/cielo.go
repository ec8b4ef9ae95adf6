package models

// Shapes returned by the Cielo feed API. Every field is optional on the
// wire; decoding into plain value types applies the zero-default rule once
// at the boundary so downstream code never deals with missing fields.

// TokenPnl is one per-token trading record from /pnl/tokens.
type TokenPnl struct {
	TokenAddress     string  `json:"token_address"`
	TokenSymbol      string  `json:"token_symbol"`
	TokenName        string  `json:"token_name"`
	NumSwaps         int     `json:"num_swaps"`
	TotalPnlUSD      float64 `json:"total_pnl_usd"`
	RealizedPnlUSD   float64 `json:"realized_pnl_usd"`
	UnrealizedPnlUSD float64 `json:"unrealized_pnl_usd"`
	LastTrade        int64   `json:"last_trade"` // epoch seconds
}

// Portfolio is the point-in-time valuation from /portfolio.
type Portfolio struct {
	TotalUSD float64 `json:"total_usd"`
}

// Transaction is one wallet activity record from the /transactions feed.
// Unlike the other Cielo endpoints this one is camelCase on the wire, and
// the frontend consumes the records as-is.
type Transaction struct {
	ID             string  `json:"id"`
	Wallet         string  `json:"wallet"`
	Type           string  `json:"type"` // swap | transfer | mint | burn | stake | unstake
	TokenIn        string  `json:"tokenIn,omitempty"`
	TokenOut       string  `json:"tokenOut,omitempty"`
	TokenInSymbol  string  `json:"tokenInSymbol,omitempty"`
	TokenOutSymbol string  `json:"tokenOutSymbol,omitempty"`
	AmountIn       float64 `json:"amountIn,omitempty"`
	AmountOut      float64 `json:"amountOut,omitempty"`
	ValueUSD       float64 `json:"valueUsd"`
	Pnl            float64 `json:"pnl,omitempty"`
	Timestamp      string  `json:"timestamp"`
	Chain          string  `json:"chain"`
	TxHash         string  `json:"txHash"`
	IsMock         bool    `json:"isMock,omitempty"`
}
