package eligibility

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Auto-approval thresholds. Boundary values pass (>= comparison).
const (
	MinPortfolioUSD = 10000
	MinTrades       = 10
)

// Decision is the outcome of evaluating a wallet against the thresholds,
// carrying the metrics that produced it for caller feedback.
type Decision struct {
	Accepted       bool
	Reason         string
	PortfolioValue float64
	TotalTrades    int
	WinRate        float64
}

// Evaluate applies the thresholds in a fixed order: portfolio value first,
// trade count second. Only the first failing rule is reported, so a wallet
// missing both thresholds gets the portfolio reason.
func Evaluate(portfolioValue float64, m Metrics) Decision {
	d := Decision{
		PortfolioValue: portfolioValue,
		TotalTrades:    m.TotalTrades,
		WinRate:        m.WinRate,
	}

	if portfolioValue < MinPortfolioUSD {
		d.Reason = fmt.Sprintf("Portfolio value $%s below $10k minimum",
			groupThousands(int64(math.Round(portfolioValue))))
		return d
	}

	if m.TotalTrades < MinTrades {
		d.Reason = fmt.Sprintf("Only %d trades. Minimum %d trades required.",
			m.TotalTrades, MinTrades)
		return d
	}

	d.Accepted = true
	return d
}

// groupThousands renders n with comma separators ("5000" -> "5,000"),
// matching the wording users see in rejection reasons.
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
