package market

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Trend compares the current price against the previous one.
type Trend int

const (
	TrendFlat Trend = iota
	TrendUp
	TrendDown
)

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "Upward"
	case TrendDown:
		return "Downward"
	default:
		return "Stable"
	}
}

// DefaultStartPrice is the quote assigned on a fresh install.
var DefaultStartPrice = decimal.RequireFromString("20.00")

// priceFloor: the quote never drops below 1.00 regardless of the walk.
var priceFloor = decimal.NewFromInt(1)

// Generator maintains the synthetic quote as a bounded random walk: at a
// fixed cadence the price moves by a uniform delta in [-1.00, 1.00], rounded
// to cents and clamped at the floor. The walk runs regardless of whether the
// trading session is open.
type Generator struct {
	interval time.Duration
	rng      *rand.Rand

	current       decimal.Decimal
	previous      decimal.Decimal
	lastGenerated time.Time
}

// NewGenerator starts a walk at start. A nil rng gets a time-seeded source;
// tests pass their own for determinism.
func NewGenerator(start decimal.Decimal, interval time.Duration, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Generator{
		interval: interval,
		rng:      rng,
		current:  start,
		previous: start,
	}
}

// Restore overwrites the walk state from a persisted snapshot.
func (g *Generator) Restore(current, previous decimal.Decimal, lastGenerated time.Time) {
	g.current = current
	g.previous = previous
	g.lastGenerated = lastGenerated
}

// Tick regenerates the price when the cadence has elapsed (or the walk has
// never run) and reports whether the price changed.
func (g *Generator) Tick(now time.Time) bool {
	if !g.lastGenerated.IsZero() && now.Sub(g.lastGenerated) < g.interval {
		return false
	}

	g.lastGenerated = now
	g.previous = g.current

	delta := decimal.NewFromFloat(g.rng.Float64()*2 - 1).Round(2)
	next := g.current.Add(delta).Round(2)
	if next.LessThan(priceFloor) {
		next = priceFloor
	}
	g.current = next
	return true
}

func (g *Generator) Current() decimal.Decimal  { return g.current }
func (g *Generator) Previous() decimal.Decimal { return g.previous }
func (g *Generator) LastGenerated() time.Time  { return g.lastGenerated }

func (g *Generator) Trend() Trend {
	switch {
	case g.current.GreaterThan(g.previous):
		return TrendUp
	case g.current.LessThan(g.previous):
		return TrendDown
	default:
		return TrendFlat
	}
}
