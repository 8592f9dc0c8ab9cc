// Package ledger holds the append-only trade history. Trades are never
// reordered or removed; the only mutation after append is resolving a Buy's
// outcome.
package ledger

// Ledger is the chronological sequence of trades. It is not safe for
// concurrent use; the engine serializes access.
type Ledger struct {
	trades []Trade
}

func New() *Ledger {
	return &Ledger{}
}

// Restore replaces the sequence from a persisted snapshot.
func (l *Ledger) Restore(trades []Trade) {
	l.trades = append(l.trades[:0], trades...)
}

// Append adds a trade to the end of the sequence.
func (l *Ledger) Append(t Trade) {
	l.trades = append(l.trades, t)
}

// Last returns the most recent trade, if any.
func (l *Ledger) Last() (Trade, bool) {
	if len(l.trades) == 0 {
		return Trade{}, false
	}
	return l.trades[len(l.trades)-1], true
}

// ResolveLast sets the outcome of the most recent trade. It reports false
// when the ledger is empty.
func (l *Ledger) ResolveLast(o Outcome) bool {
	if len(l.trades) == 0 {
		return false
	}
	l.trades[len(l.trades)-1].Outcome = o
	return true
}

// ResolvePendingBuys marks every still-pending Buy as a Loss and returns the
// trades it changed. Calling it again whilst nothing is pending changes
// nothing, so repeated closed-session evaluations are idempotent.
func (l *Ledger) ResolvePendingBuys() []Trade {
	var resolved []Trade
	for i := range l.trades {
		if l.trades[i].Side == Buy && l.trades[i].Outcome == Pending {
			l.trades[i].Outcome = Loss
			resolved = append(resolved, l.trades[i])
		}
	}
	return resolved
}

// All returns a copy of the full sequence, oldest first.
func (l *Ledger) All() []Trade {
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

func (l *Ledger) Len() int { return len(l.trades) }
