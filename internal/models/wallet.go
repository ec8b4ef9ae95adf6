package models

type Socials struct {
	Twitter  string `json:"twitter,omitempty"`
	Telegram string `json:"telegram,omitempty"`
}

// Wallet is the public directory projection of a tracked wallet. Curated
// entries come from the seed directory; auto-approved submissions are
// synthesized into the same shape.
type Wallet struct {
	ID             string   `json:"id"`
	Address        string   `json:"address"`
	Label          string   `json:"label"`
	Category       string   `json:"category"` // whale | dev | influencer | institution | trader
	TotalPnl       float64  `json:"totalPnl"`
	WinRate        float64  `json:"winRate"`
	TotalTrades    int      `json:"totalTrades"`
	FavoriteTokens []string `json:"favoriteTokens"`
	Verified       bool     `json:"verified"`
	Description    string   `json:"description,omitempty"`
	Socials        *Socials `json:"socials,omitempty"`
	AutoApproved   bool     `json:"autoApproved,omitempty"`
	ApprovedAt     string   `json:"approvedAt,omitempty"`
	PortfolioValue float64  `json:"portfolioValue,omitempty"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}
