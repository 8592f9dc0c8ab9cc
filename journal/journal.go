// Package journal records resolved round trips for later analysis. The
// in-memory ledger is the source of truth; the journal is a write-only log
// of positions that reached an outcome.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one closed position: the buy that opened it and how it
// resolved. Positions expired by a session close carry the close reason and
// no exit fill.
type TradeRecord struct {
	TradeID    string
	EntryPrice decimal.Decimal
	ExitPrice  decimal.Decimal
	Outcome    string
	RealizedPL decimal.Decimal
	ClosedAt   time.Time
	Reason     string
}

// Close reasons.
const (
	ReasonSell         = "Sell"
	ReasonSessionClose = "SessionClose"
)

type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}

// Nop discards records; the engine uses it when no journal is configured.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error { return nil }
func (Nop) Close() error                  { return nil }
