package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

const (
	Buy  Side = "Buy"
	Sell Side = "Sell"
)

// Outcome is the resolution of a trade. A Buy starts Pending and resolves
// when matched by a Sell, or to Loss when the session closes on it.
type Outcome string

const (
	Pending Outcome = "Pending"
	Profit  Outcome = "Profit"
	Loss    Outcome = "Loss"
)

// Trade is one executed buy or sell at the quote of the moment.
type Trade struct {
	ID      string          `json:"id"`
	Side    Side            `json:"side"`
	Price   decimal.Decimal `json:"price"`
	Outcome Outcome         `json:"outcome"`
	Time    time.Time       `json:"time"`
}
