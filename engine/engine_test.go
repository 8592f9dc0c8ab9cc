package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/ledger"
	"github.com/rustyeddy/papertrade/store"
)

var (
	openTime   = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC) // Monday, morning window
	closedTime = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time  { return c.t }
func (c *fakeClock) Set(t time.Time) { c.t = t }

// countJournal records entries in memory so tests can assert how often and
// why trades were journaled.
type countJournal struct {
	records []journal.TradeRecord
}

func (j *countJournal) RecordTrade(r journal.TradeRecord) error {
	j.records = append(j.records, r)
	return nil
}

func (j *countJournal) Close() error { return nil }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestEngine(t *testing.T, snap *store.Snapshot) (*Engine, *fakeClock, *store.Memory, *countJournal) {
	t.Helper()

	st := store.NewMemory()
	if snap != nil {
		require.NoError(t, st.Save(*snap))
	}

	clk := &fakeClock{t: openTime}
	jrnl := &countJournal{}

	eng, err := New(Options{
		Store:   st,
		Journal: jrnl,
		Clock:   clk,
	})
	require.NoError(t, err)

	return eng, clk, st, jrnl
}

func TestBuyRequiresIdentityFirst(t *testing.T) {
	t.Parallel()

	eng, clk, _, _ := newTestEngine(t, nil)

	// Identity precedes every other check, even a closed market.
	clk.Set(closedTime)
	assert.ErrorIs(t, eng.Buy(), ErrIdentityRequired)
	assert.ErrorIs(t, eng.Sell(), ErrIdentityRequired)
}

func TestBuyRejectedWhenMarketClosed(t *testing.T) {
	t.Parallel()

	eng, clk, _, _ := newTestEngine(t, nil)
	require.NoError(t, eng.SetIdentity("ada"))

	clk.Set(closedTime)
	// Market gating precedes the funds check: balance is zero here too.
	assert.ErrorIs(t, eng.Buy(), ErrMarketClosed)
	assert.ErrorIs(t, eng.Sell(), ErrMarketClosed)
}

func TestBuyInsufficientFunds(t *testing.T) {
	t.Parallel()

	eng, _, _, _ := newTestEngine(t, nil)
	require.NoError(t, eng.SetIdentity("ada"))

	// balance 0.00, price 20.00, market open.
	err := eng.Buy()
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	v := eng.View()
	assert.True(t, v.Balance.IsZero())
	assert.Empty(t, v.Trades)
	assert.Zero(t, v.BuyCount)
	assert.Zero(t, v.SessionTrades)
}

func TestInsufficientFundsPrecedesSessionLimit(t *testing.T) {
	t.Parallel()

	snap := store.Defaults()
	snap.UserName = "ada"
	snap.SessionTrades = 8

	eng, _, _, _ := newTestEngine(t, &snap)
	assert.ErrorIs(t, eng.Buy(), ErrInsufficientFunds)
}

func TestBuySuccess(t *testing.T) {
	t.Parallel()

	snap := store.Defaults()
	snap.UserName = "ada"
	snap.Balance = dec("25.00")

	eng, _, _, _ := newTestEngine(t, &snap)

	require.NoError(t, eng.Buy())

	v := eng.View()
	assert.True(t, v.Balance.Equal(dec("5.00")), "balance = %s", v.Balance)
	require.Len(t, v.Trades, 1)
	assert.Equal(t, ledger.Buy, v.Trades[0].Side)
	assert.True(t, v.Trades[0].Price.Equal(dec("20.00")))
	assert.Equal(t, ledger.Pending, v.Trades[0].Outcome)
	assert.NotEmpty(t, v.Trades[0].ID)
	assert.Equal(t, 1, v.BuyCount)
	assert.Equal(t, 1, v.SessionTrades)
}

func TestBuyRejectedWhilePositionOpen(t *testing.T) {
	t.Parallel()

	snap := store.Defaults()
	snap.UserName = "ada"
	snap.Balance = dec("100.00")

	eng, _, _, _ := newTestEngine(t, &snap)

	require.NoError(t, eng.Buy())
	assert.ErrorIs(t, eng.Buy(), ErrPositionOpen)

	v := eng.View()
	assert.Equal(t, 1, v.BuyCount)
	assert.Len(t, v.Trades, 1)
}

func TestSellProfit(t *testing.T) {
	t.Parallel()

	snap := store.Defaults()
	snap.UserName = "ada"
	snap.Balance = dec("5.00")
	snap.Trades = []ledger.Trade{
		{ID: "B1", Side: ledger.Buy, Price: dec("20.00"), Outcome: ledger.Pending, Time: openTime},
	}
	snap.BuyCount = 1
	snap.SessionTrades = 1
	snap.CurrentPrice = dec("22.00")
	snap.PreviousPrice = dec("20.00")

	eng, _, _, jrnl := newTestEngine(t, &snap)

	require.NoError(t, eng.Sell())

	v := eng.View()
	// Profit path credits entry + diff: 5.00 + 20.00 + 2.00 = 27.00.
	assert.True(t, v.Balance.Equal(dec("27.00")), "balance = %s", v.Balance)
	require.Len(t, v.Trades, 2)
	assert.Equal(t, ledger.Profit, v.Trades[0].Outcome, "matched buy resolves to the same outcome")
	assert.Equal(t, ledger.Sell, v.Trades[1].Side)
	assert.True(t, v.Trades[1].Price.Equal(dec("22.00")))
	assert.Equal(t, ledger.Profit, v.Trades[1].Outcome)
	assert.Equal(t, 1, v.SellCount)
	assert.Equal(t, 2, v.SessionTrades)

	require.Len(t, jrnl.records, 1)
	rec := jrnl.records[0]
	assert.Equal(t, "B1", rec.TradeID)
	assert.True(t, rec.RealizedPL.Equal(dec("2.00")))
	assert.Equal(t, journal.ReasonSell, rec.Reason)
}

func TestSellLoss(t *testing.T) {
	t.Parallel()

	snap := store.Defaults()
	snap.UserName = "ada"
	snap.Balance = dec("5.00")
	snap.Trades = []ledger.Trade{
		{ID: "B1", Side: ledger.Buy, Price: dec("20.00"), Outcome: ledger.Pending, Time: openTime},
	}
	snap.BuyCount = 1
	snap.CurrentPrice = dec("18.00")
	snap.PreviousPrice = dec("20.00")

	eng, _, _, jrnl := newTestEngine(t, &snap)

	require.NoError(t, eng.Sell())

	v := eng.View()
	// Loss path credits entry - diff: 5.00 + 20.00 - 2.00 = 23.00.
	assert.True(t, v.Balance.Equal(dec("23.00")), "balance = %s", v.Balance)
	assert.Equal(t, ledger.Loss, v.Trades[0].Outcome)
	assert.Equal(t, ledger.Loss, v.Trades[1].Outcome)

	require.Len(t, jrnl.records, 1)
	assert.True(t, jrnl.records[0].RealizedPL.Equal(dec("-2.00")))
}

func TestSellAtEntryPriceIsLoss(t *testing.T) {
	t.Parallel()

	snap := store.Defaults()
	snap.UserName = "ada"
	snap.Trades = []ledger.Trade{
		{ID: "B1", Side: ledger.Buy, Price: dec("20.00"), Outcome: ledger.Pending, Time: openTime},
	}
	snap.BuyCount = 1

	eng, _, _, _ := newTestEngine(t, &snap)

	require.NoError(t, eng.Sell())

	v := eng.View()
	// An unchanged price is not a profit; the entry comes back in full.
	assert.True(t, v.Balance.Equal(dec("20.00")), "balance = %s", v.Balance)
	assert.Equal(t, ledger.Loss, v.Trades[1].Outcome)
}

func TestSellWithoutOpenPosition(t *testing.T) {
	t.Parallel()

	eng, _, _, _ := newTestEngine(t, nil)
	require.NoError(t, eng.SetIdentity("ada"))

	assert.ErrorIs(t, eng.Sell(), ErrNoOpenPosition)
}

func TestSellChecksOnlyLastEntry(t *testing.T) {
	t.Parallel()

	// A resolved sell as the last entry means no open position, even though
	// the ledger still contains buys.
	snap := store.Defaults()
	snap.UserName = "ada"
	snap.Trades = []ledger.Trade{
		{ID: "B1", Side: ledger.Buy, Price: dec("20.00"), Outcome: ledger.Profit, Time: openTime},
		{ID: "S1", Side: ledger.Sell, Price: dec("22.00"), Outcome: ledger.Profit, Time: openTime},
	}
	snap.BuyCount = 1
	snap.SellCount = 1

	eng, _, _, _ := newTestEngine(t, &snap)
	assert.ErrorIs(t, eng.Sell(), ErrNoOpenPosition)
}

func TestSessionLimit(t *testing.T) {
	t.Parallel()

	eng, _, _, _ := newTestEngine(t, nil)
	require.NoError(t, eng.SetIdentity("ada"))
	require.NoError(t, eng.Fund())

	// The price never regenerates here, so each round trip sells at the
	// entry price and the balance returns to the funded amount.
	for i := 0; i < 4; i++ {
		require.NoError(t, eng.Buy(), "round %d", i)
		require.NoError(t, eng.Sell(), "round %d", i)
	}

	v := eng.View()
	assert.Equal(t, 8, v.SessionTrades)
	assert.Len(t, v.Trades, 8)

	// The 9th trade of the session is rejected regardless of funds.
	assert.ErrorIs(t, eng.Buy(), ErrSessionLimit)

	eng.ResetSession()
	assert.Zero(t, eng.View().SessionTrades)
	require.NoError(t, eng.Buy())
}

func TestPositionInvariant(t *testing.T) {
	t.Parallel()

	eng, _, _, _ := newTestEngine(t, nil)
	require.NoError(t, eng.SetIdentity("ada"))
	require.NoError(t, eng.Fund())

	check := func() {
		v := eng.View()
		open := v.BuyCount - v.SellCount
		if open != 0 && open != 1 {
			t.Fatalf("buyCount-sellCount = %d, expected 0 or 1", open)
		}
	}

	_ = eng.Sell()
	check()
	_ = eng.Buy()
	check()
	_ = eng.Buy()
	check()
	_ = eng.Sell()
	check()
	_ = eng.Sell()
	check()
	_ = eng.Buy()
	check()
}

func TestSessionCloseExpiresOpenPositionOnce(t *testing.T) {
	t.Parallel()

	eng, clk, _, jrnl := newTestEngine(t, nil)
	require.NoError(t, eng.SetIdentity("ada"))
	require.NoError(t, eng.Fund())
	require.NoError(t, eng.Buy())

	clk.Set(closedTime)

	st := eng.EvaluateMarket()
	assert.False(t, st.Open)
	assert.Equal(t, 1, st.Expired)

	v := eng.View()
	assert.Equal(t, ledger.Loss, v.Trades[0].Outcome)
	require.Len(t, jrnl.records, 1)
	assert.Equal(t, journal.ReasonSessionClose, jrnl.records[0].Reason)
	assert.True(t, jrnl.records[0].RealizedPL.Equal(dec("-20.00")))

	// Re-evaluating while still closed must not re-mutate or re-journal.
	for i := 0; i < 3; i++ {
		st = eng.EvaluateMarket()
		assert.Zero(t, st.Expired)
	}
	assert.Len(t, jrnl.records, 1)
}

func TestFundGrantsExactlyOnce(t *testing.T) {
	t.Parallel()

	eng, clk, _, _ := newTestEngine(t, nil)
	require.NoError(t, eng.SetIdentity("ada"))

	require.NoError(t, eng.Fund())
	v := eng.View()
	assert.True(t, v.Balance.Equal(dec("25.00")))
	assert.True(t, v.RefundGiven)

	// At the threshold: not eligible.
	assert.ErrorIs(t, eng.Fund(), ErrNotEligible)

	// Spend the balance down below the threshold again: the lifetime latch
	// still blocks a second grant.
	require.NoError(t, eng.Buy())
	clk.Set(closedTime)
	eng.EvaluateMarket()

	v = eng.View()
	require.True(t, v.Balance.LessThan(dec("25.00")))
	assert.ErrorIs(t, eng.Fund(), ErrAlreadyFunded)
}

func TestWithdraw(t *testing.T) {
	t.Parallel()

	snap := store.Defaults()
	snap.UserName = "ada"
	snap.Balance = dec("200.00")

	eng, _, _, _ := newTestEngine(t, &snap)

	assert.ErrorIs(t, eng.Withdraw(dec("100.00")), ErrWithdrawRange)
	assert.ErrorIs(t, eng.Withdraw(dec("250.01")), ErrWithdrawRange)

	require.NoError(t, eng.Withdraw(dec("150.00")))
	assert.True(t, eng.View().Balance.Equal(dec("50.00")))

	// In range but more than the balance.
	assert.ErrorIs(t, eng.Withdraw(dec("150.00")), ErrInsufficientFunds)
}

func TestStateSurvivesRestart(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	clk := &fakeClock{t: openTime}

	eng, err := New(Options{Store: st, Clock: clk})
	require.NoError(t, err)

	require.NoError(t, eng.SetIdentity("ada"))
	require.NoError(t, eng.Fund())
	require.NoError(t, eng.Buy())

	// A new engine over the same store replays the last snapshot exactly.
	eng2, err := New(Options{Store: st, Clock: clk})
	require.NoError(t, err)

	v := eng2.View()
	assert.Equal(t, "ada", v.UserName)
	assert.True(t, v.Balance.Equal(dec("5.00")), "balance = %s", v.Balance)
	assert.True(t, v.RefundGiven)
	assert.Equal(t, 1, v.BuyCount)
	assert.Equal(t, 1, v.SessionTrades)
	require.Len(t, v.Trades, 1)
	assert.Equal(t, ledger.Pending, v.Trades[0].Outcome)
}

func TestRestartWhileClosedExpiresPosition(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	eng, err := New(Options{Store: st, Clock: &fakeClock{t: openTime}})
	require.NoError(t, err)

	require.NoError(t, eng.SetIdentity("ada"))
	require.NoError(t, eng.Fund())
	require.NoError(t, eng.Buy())

	// Restarting after the session closed resolves the stale position
	// during startup evaluation.
	eng2, err := New(Options{Store: st, Clock: &fakeClock{t: closedTime}})
	require.NoError(t, err)

	v := eng2.View()
	assert.False(t, v.MarketOpen)
	assert.Equal(t, ledger.Loss, v.Trades[0].Outcome)
}

func TestTickPricePersists(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	clk := &fakeClock{t: openTime}
	eng, err := New(Options{Store: st, Clock: clk})
	require.NoError(t, err)

	require.True(t, eng.TickPrice(), "first tick always regenerates")
	assert.False(t, eng.TickPrice(), "cadence not yet elapsed")

	clk.Set(openTime.Add(10 * time.Minute))
	require.True(t, eng.TickPrice())

	price := eng.View().CurrentPrice

	snap, existed, err := st.Load()
	require.NoError(t, err)
	require.True(t, existed)
	assert.True(t, snap.CurrentPrice.Equal(price))
	assert.True(t, snap.LastGenerated.Equal(clk.t))
}

func TestViewEstimatedTokens(t *testing.T) {
	t.Parallel()

	snap := store.Defaults()
	snap.UserName = "ada"
	snap.Balance = dec("50.00")

	eng, _, _, _ := newTestEngine(t, &snap)

	v := eng.View()
	assert.True(t, v.EstimatedTokens.Equal(dec("2.50")), "tokens = %s", v.EstimatedTokens)
}
