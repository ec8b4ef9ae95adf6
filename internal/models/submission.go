package models

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission is a ledger record of a user-submitted wallet together with
// the metrics captured at decision time. Records are append-only; the
// address is unique case-insensitively across the whole table.
type Submission struct {
	ID             int64     `json:"id"`
	Address        string    `json:"address"`
	Label          string    `json:"label"`
	Category       string    `json:"category"`
	Description    string    `json:"description,omitempty"`
	Twitter        string    `json:"twitter,omitempty"`
	Telegram       string    `json:"telegram,omitempty"`
	Status         string    `json:"status"`
	PortfolioValue float64   `json:"portfolioValue"`
	TotalTrades    int       `json:"totalTrades"`
	WinRate        float64   `json:"winRate"`
	SubmittedAt    time.Time `json:"submittedAt"`
	CreatedAt      time.Time `json:"createdAt"`
}
