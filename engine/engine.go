// Package engine owns all mutable simulator state and enforces the trading
// rules: market-hours gating, buy/sell sequencing, balance accounting and
// session limits. Every mutation goes through an engine method under one
// mutex, and every successful mutation is followed by a snapshot write so a
// restart resumes exactly where the last one left off.
package engine

import (
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/ledger"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/notify"
	"github.com/rustyeddy/papertrade/pkg/id"
	"github.com/rustyeddy/papertrade/store"
)

// Engine is the trading state machine. At most one position is open at any
// time; a position is the single most recent Buy still Pending.
type Engine struct {
	mu sync.Mutex

	clock    market.Clock
	session  *market.Session
	gen      *market.Generator
	ledger   *ledger.Ledger
	st       store.Store
	jrnl     journal.Journal
	notifier notify.Notifier
	sounds   notify.SoundCue
	log      *slog.Logger

	maxTrades     int
	fundAmount    decimal.Decimal
	fundThreshold decimal.Decimal
	withdrawMin   decimal.Decimal
	withdrawMax   decimal.Decimal
	tokenPrice    decimal.Decimal

	balance       decimal.Decimal
	buyCount      int
	sellCount     int
	sessionTrades int
	refundGiven   bool
	userName      string
	marketOpen    bool
}

// Options wires the engine's collaborators. Zero values get working
// defaults: in-memory store, nop journal and notifiers, system clock.
type Options struct {
	Config   *config.Config
	Store    store.Store
	Journal  journal.Journal
	Notifier notify.Notifier
	Sounds   notify.SoundCue
	Clock    market.Clock
	Rand     *rand.Rand
	Logger   *slog.Logger
}

// New restores state from the store (or starts fresh) and runs one market
// evaluation so the open/closed flag is correct before any user action.
func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.Journal == nil {
		opts.Journal = journal.Nop{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NopNotifier{}
	}
	if opts.Sounds == nil {
		opts.Sounds = notify.NopSound{}
	}
	if opts.Clock == nil {
		opts.Clock = market.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	interval, err := cfg.Market.ParsePriceInterval()
	if err != nil {
		return nil, err
	}

	snap, existed, err := opts.Store.Load()
	if err != nil {
		return nil, err
	}
	if !existed {
		start := decimal.NewFromFloat(cfg.Market.StartPrice).Round(2)
		snap.CurrentPrice = start
		snap.PreviousPrice = start
	}

	e := &Engine{
		clock:    opts.Clock,
		session:  market.NewSession(cfg.Market.Windows),
		gen:      market.NewGenerator(snap.CurrentPrice, interval, opts.Rand),
		ledger:   ledger.New(),
		st:       opts.Store,
		jrnl:     opts.Journal,
		notifier: opts.Notifier,
		sounds:   opts.Sounds,
		log:      opts.Logger,

		maxTrades:     cfg.Limits.MaxTradesPerSession,
		fundAmount:    decimal.NewFromFloat(cfg.Limits.FundAmount).Round(2),
		fundThreshold: decimal.NewFromFloat(cfg.Limits.FundThreshold).Round(2),
		withdrawMin:   decimal.NewFromFloat(cfg.Limits.WithdrawMin).Round(2),
		withdrawMax:   decimal.NewFromFloat(cfg.Limits.WithdrawMax).Round(2),
		tokenPrice:    decimal.NewFromFloat(cfg.Trader.TokenPrice).Round(2),

		balance:       snap.Balance,
		buyCount:      snap.BuyCount,
		sellCount:     snap.SellCount,
		sessionTrades: snap.SessionTrades,
		refundGiven:   snap.RefundGiven,
		userName:      snap.UserName,
	}
	e.gen.Restore(snap.CurrentPrice, snap.PreviousPrice, snap.LastGenerated)
	e.ledger.Restore(snap.Trades)

	e.mu.Lock()
	e.evaluateMarketLocked(e.clock.Now())
	e.mu.Unlock()

	return e, nil
}

// SetIdentity records the trader's name. Trading is rejected until a name is
// set.
func (e *Engine) SetIdentity(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrIdentityRequired
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.userName = name
	e.persistLocked()
	return nil
}

// Buy opens a position at the current quote. Preconditions are checked in a
// fixed order; the first failure decides the rejection reason.
func (e *Engine) Buy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	price := e.gen.Current()

	if e.userName == "" {
		return ErrIdentityRequired
	}
	if !e.session.Open(now) {
		return ErrMarketClosed
	}
	if e.balance.LessThan(price) {
		// Distinct signal: the only rejection with its own sound cue. The
		// reason string itself is rendered by the caller like any other.
		e.sounds.Play(notify.CueInsufficient)
		return ErrInsufficientFunds
	}
	if e.sessionTrades >= e.maxTrades {
		return ErrSessionLimit
	}
	if e.buyCount > e.sellCount {
		return ErrPositionOpen
	}

	e.balance = e.balance.Sub(price)
	e.ledger.Append(ledger.Trade{
		ID:      id.New(),
		Side:    ledger.Buy,
		Price:   price,
		Outcome: ledger.Pending,
		Time:    now,
	})
	e.buyCount++
	e.sessionTrades++
	e.persistLocked()

	e.sounds.Play(notify.CueBuySell)
	e.notifier.Notify("Buy trade placed!", notify.Success)
	return nil
}

// Sell closes the open position at the current quote. Only the last ledger
// entry is considered; an older unmatched Buy cannot exist because at most
// one position is ever open.
func (e *Engine) Sell() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	price := e.gen.Current()

	if e.userName == "" {
		return ErrIdentityRequired
	}
	if !e.session.Open(now) {
		return ErrMarketClosed
	}

	last, ok := e.ledger.Last()
	if !ok || last.Side != ledger.Buy || last.Outcome != ledger.Pending {
		return ErrNoOpenPosition
	}

	entry := last.Price
	diff := price.Sub(entry).Abs()
	profit := price.GreaterThan(entry)

	outcome := ledger.Loss
	credit := entry.Sub(diff)
	pl := diff.Neg()
	if profit {
		outcome = ledger.Profit
		credit = entry.Add(diff)
		pl = diff
	}

	e.balance = e.balance.Add(credit)
	e.ledger.ResolveLast(outcome)
	e.ledger.Append(ledger.Trade{
		ID:      id.New(),
		Side:    ledger.Sell,
		Price:   price,
		Outcome: outcome,
		Time:    now,
	})
	e.sellCount++
	e.sessionTrades++
	e.recordLocked(journal.TradeRecord{
		TradeID:    last.ID,
		EntryPrice: entry,
		ExitPrice:  price,
		Outcome:    string(outcome),
		RealizedPL: pl,
		ClosedAt:   now,
		Reason:     journal.ReasonSell,
	})
	e.persistLocked()

	e.sounds.Play(notify.CueBuySell)
	e.notifier.Notify("Sell trade completed!", notify.Success)
	if profit {
		e.sounds.Play(notify.CueProfit)
		e.notifier.Notify("Profit made!", notify.Success)
	} else {
		e.sounds.Play(notify.CueLoss)
		e.notifier.Notify("You made a loss.", notify.Failure)
	}
	return nil
}

// Fund grants the one-time assistance amount. It is available only while the
// balance sits below the threshold, and only once per stored lifetime.
func (e *Engine) Fund() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.balance.GreaterThanOrEqual(e.fundThreshold) {
		return ErrNotEligible
	}
	if e.refundGiven {
		return ErrAlreadyFunded
	}

	e.balance = e.balance.Add(e.fundAmount)
	e.refundGiven = true
	e.persistLocked()

	e.notifier.Notify("You've received "+e.fundAmount.StringFixed(2)+".", notify.Info)
	return nil
}

// Withdraw deducts amount from the balance. The exchange only processes
// withdrawals within a fixed band.
func (e *Engine) Withdraw(amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount.LessThan(e.withdrawMin) || amount.GreaterThan(e.withdrawMax) {
		return ErrWithdrawRange
	}
	if e.balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	e.balance = e.balance.Sub(amount)
	e.persistLocked()

	e.notifier.Notify("Withdrawal of "+amount.StringFixed(2)+" processed.", notify.Info)
	return nil
}

// ResetSession zeroes the session trade counter. Nothing triggers this
// automatically; the session boundary is the operator's call.
func (e *Engine) ResetSession() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessionTrades = 0
	e.persistLocked()
}

// MarketStatus is the outcome of a market evaluation.
type MarketStatus struct {
	Open         bool
	NextBoundary time.Time
	Expired      int // positions forced to Loss by this evaluation
}

// EvaluateMarket recomputes the open/closed flag. When the session is
// closed, any still-pending Buy expires worthless; re-evaluating while
// closed changes nothing further.
func (e *Engine) EvaluateMarket() MarketStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evaluateMarketLocked(e.clock.Now())
}

func (e *Engine) evaluateMarketLocked(now time.Time) MarketStatus {
	open := e.session.Open(now)
	e.marketOpen = open

	st := MarketStatus{Open: open, NextBoundary: e.session.NextBoundary(now)}
	if open {
		return st
	}

	expired := e.ledger.ResolvePendingBuys()
	if len(expired) == 0 {
		return st
	}

	for _, t := range expired {
		e.recordLocked(journal.TradeRecord{
			TradeID:    t.ID,
			EntryPrice: t.Price,
			Outcome:    string(ledger.Loss),
			RealizedPL: t.Price.Neg(),
			ClosedAt:   now,
			Reason:     journal.ReasonSessionClose,
		})
	}
	e.persistLocked()
	e.notifier.Notify("Open position expired with the session.", notify.Failure)

	st.Expired = len(expired)
	return st
}

// TickPrice advances the price walk and reports whether the quote changed.
func (e *Engine) TickPrice() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.gen.Tick(e.clock.Now()) {
		return false
	}
	e.persistLocked()

	e.sounds.Play(notify.CuePriceChange)
	e.notifier.Notify("Price has been updated!", notify.Update)
	return true
}

// View is a read-only snapshot for presentation.
type View struct {
	UserName        string
	Balance         decimal.Decimal
	EstimatedTokens decimal.Decimal
	CurrentPrice    decimal.Decimal
	PreviousPrice   decimal.Decimal
	Trend           market.Trend
	MarketOpen      bool
	NextBoundary    time.Time
	BuyCount        int
	SellCount       int
	SessionTrades   int
	MaxTrades       int
	RefundGiven     bool
	Trades          []ledger.Trade
}

func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	return View{
		UserName:        e.userName,
		Balance:         e.balance,
		EstimatedTokens: e.balance.DivRound(e.tokenPrice, 2),
		CurrentPrice:    e.gen.Current(),
		PreviousPrice:   e.gen.Previous(),
		Trend:           e.gen.Trend(),
		MarketOpen:      e.marketOpen,
		NextBoundary:    e.session.NextBoundary(now),
		BuyCount:        e.buyCount,
		SellCount:       e.sellCount,
		SessionTrades:   e.sessionTrades,
		MaxTrades:       e.maxTrades,
		RefundGiven:     e.refundGiven,
		Trades:          e.ledger.All(),
	}
}

// persistLocked writes the full snapshot after a mutation. Persistence is
// fire-and-forget: a failed write is logged, never surfaced to the trader.
func (e *Engine) persistLocked() {
	err := e.st.Save(store.Snapshot{
		Balance:       e.balance,
		Trades:        e.ledger.All(),
		CurrentPrice:  e.gen.Current(),
		PreviousPrice: e.gen.Previous(),
		LastGenerated: e.gen.LastGenerated(),
		UserName:      e.userName,
		SessionTrades: e.sessionTrades,
		RefundGiven:   e.refundGiven,
		BuyCount:      e.buyCount,
		SellCount:     e.sellCount,
	})
	if err != nil {
		e.log.Warn("persist snapshot", "err", err)
	}
}

func (e *Engine) recordLocked(rec journal.TradeRecord) {
	if err := e.jrnl.RecordTrade(rec); err != nil {
		e.log.Warn("journal trade", "trade_id", rec.TradeID, "err", err)
	}
}
