package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() TradeRecord {
	return TradeRecord{
		TradeID:    "01HZX5J8N0",
		EntryPrice: decimal.RequireFromString("20.00"),
		ExitPrice:  decimal.RequireFromString("22.00"),
		Outcome:    "Profit",
		RealizedPL: decimal.RequireFromString("2.00"),
		ClosedAt:   time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC),
		Reason:     ReasonSell,
	}
}

func TestCSVRecordTrade(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")

	j, err := NewCSV(path)
	require.NoError(t, err)

	require.NoError(t, j.RecordTrade(sampleRecord()))
	require.NoError(t, j.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"trade_id", "entry_price", "exit_price", "outcome", "realized_pl", "closed_at", "reason"}, rows[0])
	assert.Equal(t, "01HZX5J8N0", rows[1][0])
	assert.Equal(t, "20.00", rows[1][1])
	assert.Equal(t, "22.00", rows[1][2])
	assert.Equal(t, "Profit", rows[1][3])
	assert.Equal(t, "2.00", rows[1][4])
	assert.Equal(t, ReasonSell, rows[1][6])
}

func TestSQLiteRecordAndGet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	rec := sampleRecord()
	require.NoError(t, j.RecordTrade(rec))

	got, err := j.GetTrade(rec.TradeID)
	require.NoError(t, err)

	assert.Equal(t, rec.TradeID, got.TradeID)
	assert.True(t, got.EntryPrice.Equal(rec.EntryPrice))
	assert.True(t, got.ExitPrice.Equal(rec.ExitPrice))
	assert.Equal(t, rec.Outcome, got.Outcome)
	assert.True(t, got.RealizedPL.Equal(rec.RealizedPL))
	assert.Equal(t, rec.Reason, got.Reason)

	_, err = j.GetTrade("missing")
	assert.Error(t, err)
}

func TestSQLiteListTradesClosedBetween(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"A", "B", "C"} {
		rec := sampleRecord()
		rec.TradeID = id
		rec.ClosedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, j.RecordTrade(rec))
	}

	got, err := j.ListTradesClosedBetween(base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].TradeID)
	assert.Equal(t, "B", got[1].TradeID)
}
