// Package store persists the simulator state as a flat string-keyed snapshot,
// so a restart resumes from the last durable write. Implementations only move
// key/value pairs; the field-level encoding lives in this package and treats
// malformed values as absent.
package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papertrade/ledger"
	"github.com/rustyeddy/papertrade/market"
)

// Snapshot is the full durable state of the simulator.
type Snapshot struct {
	Balance       decimal.Decimal
	Trades        []ledger.Trade
	CurrentPrice  decimal.Decimal
	PreviousPrice decimal.Decimal
	LastGenerated time.Time
	UserName      string
	SessionTrades int
	RefundGiven   bool
	BuyCount      int
	SellCount     int
}

// Defaults is the first-run state: empty balance, the default start quote,
// no history.
func Defaults() Snapshot {
	return Snapshot{
		Balance:       decimal.Zero,
		CurrentPrice:  market.DefaultStartPrice,
		PreviousPrice: market.DefaultStartPrice,
	}
}

// Store is the durable key-value medium behind snapshots. Load reports
// whether prior state existed; when it did not, the zero-value semantics of
// Defaults apply.
type Store interface {
	Load() (Snapshot, bool, error)
	Save(Snapshot) error
	Clear() error
	Close() error
}
