// Package directory holds the curated seed wallets and categories that
// ship with the service. The directory is a read-only fixture: submissions
// never mutate it, they only consult it for duplicate detection.
package directory

import (
	"strings"

	"github.com/solsmart/solsmart-backend/internal/models"
)

type Directory struct {
	wallets []models.Wallet
}

func Default() *Directory {
	return &Directory{wallets: seedWallets}
}

// Wallets returns every curated wallet.
func (d *Directory) Wallets() []models.Wallet {
	out := make([]models.Wallet, len(d.wallets))
	copy(out, d.wallets)
	return out
}

// ByCategory returns curated wallets in the given category.
func (d *Directory) ByCategory(category string) []models.Wallet {
	var out []models.Wallet
	for _, w := range d.wallets {
		if w.Category == category {
			out = append(out, w)
		}
	}
	return out
}

// FindByAddress looks up a curated wallet by address, case-insensitively.
// Returns nil when the address is not in the directory.
func (d *Directory) FindByAddress(address string) *models.Wallet {
	for i := range d.wallets {
		if strings.EqualFold(d.wallets[i].Address, address) {
			w := d.wallets[i]
			return &w
		}
	}
	return nil
}

var categories = []models.Category{
	{ID: "whale", Name: "Whales", Description: "High volume traders with $1M+ portfolios", Color: "bg-purple-500", Icon: "🐋"},
	{ID: "dev", Name: "Developers", Description: "Project founders and protocol developers", Color: "bg-blue-500", Icon: "💻"},
	{ID: "influencer", Name: "Influencers", Description: "CT personalities and alpha callers", Color: "bg-pink-500", Icon: "📢"},
	{ID: "institution", Name: "Institutions", Description: "VCs, funds, and market makers", Color: "bg-amber-500", Icon: "🏦"},
	{ID: "trader", Name: "Pro Traders", Description: "Consistently profitable day traders", Color: "bg-green-500", Icon: "📈"},
}

func Categories() []models.Category {
	out := make([]models.Category, len(categories))
	copy(out, categories)
	return out
}

// ValidCategory reports whether id is one of the fixed category ids.
func ValidCategory(id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

var seedWallets = []models.Wallet{
	{
		ID: "1", Address: "C21R6y1fqFUNCEzNj6VcEnjTE2y6Cq7GWLfZzkbBm7a",
		Label: "SmartMoneyWhale", Category: "whale",
		TotalPnl: 2847500, WinRate: 78.5, TotalTrades: 342,
		FavoriteTokens: []string{"SOL", "BONK", "JUP", "WIF"},
		Verified:       true,
		Description:    "Legendary whale known for early entries on memecoins",
		Socials:        &models.Socials{Twitter: "@smartmoneywhale"},
	},
	{
		ID: "2", Address: "H8sMJSCgF6R3C3sKgn8F3sFnRKL5hKHNrVJg7fJ8QmE",
		Label: "SolanaDev_pro", Category: "dev",
		TotalPnl: 1250000, WinRate: 82.3, TotalTrades: 156,
		FavoriteTokens: []string{"SOL", "JUP", "RNDR", "PYTH"},
		Verified:       true,
		Description:    "Former Solana core dev turned full-time trader",
	},
	{
		ID: "3", Address: "A1b2C3d4E5f6G7h8I9j0K1l2M3n4O5p6Q7r8S9t0",
		Label: "CryptoAlphaKing", Category: "influencer",
		TotalPnl: 890000, WinRate: 71.2, TotalTrades: 523,
		FavoriteTokens: []string{"BONK", "WIF", "MYRO", "HODL"},
		Verified:       true,
		Description:    "Twitter alpha caller with 200K+ followers",
		Socials:        &models.Socials{Twitter: "@cryptoalphaking"},
	},
	{
		ID: "4", Address: "9xK2P8N4jQ3mL8R2X7wY5vT1N6Z9pL2jH6W4M8kR7nY3",
		Label: "JumpTrading_MM", Category: "institution",
		TotalPnl: 5200000, WinRate: 68.9, TotalTrades: 1204,
		FavoriteTokens: []string{"SOL", "USDC", "JUP", "W"},
		Verified:       true,
		Description:    "Suspected Jump Trading wallet",
	},
	{
		ID: "5", Address: "5pX9M4K2hT8qP4M1K7nT6nY3K9L2mQ9pL3N7M8jR4wE3",
		Label: "DayTradeDegen", Category: "trader",
		TotalPnl: 456000, WinRate: 75.8, TotalTrades: 892,
		FavoriteTokens: []string{"BONK", "WIF", "GIGA", "POPCAT"},
		Description:    "Day trader specializing in memecoin volatility",
	},
}
