package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	entry_price TEXT NOT NULL,
	exit_price TEXT NOT NULL,
	outcome TEXT NOT NULL,
	realized_pl TEXT NOT NULL,
	closed_at DATETIME NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_closed_at ON trades(closed_at);
`

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, entry_price, exit_price, outcome, realized_pl, closed_at, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID,
		t.EntryPrice.StringFixed(2),
		t.ExitPrice.StringFixed(2),
		t.Outcome,
		t.RealizedPL.StringFixed(2),
		t.ClosedAt.UTC(),
		t.Reason,
	)
	return err
}

// ListTradesClosedBetween returns records whose close time is within
// [start, end), oldest first.
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, entry_price, exit_price, outcome, realized_pl, closed_at, reason
		FROM trades
		WHERE closed_at >= ? AND closed_at < ?
		ORDER BY closed_at ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetTrade returns a single record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT trade_id, entry_price, exit_price, outcome, realized_pl, closed_at, reason
		FROM trades
		WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (TradeRecord, error) {
	var (
		rec               TradeRecord
		entry, exit, repl string
	)
	err := row.Scan(&rec.TradeID, &entry, &exit, &rec.Outcome, &repl, &rec.ClosedAt, &rec.Reason)
	if err != nil {
		return TradeRecord{}, err
	}
	if rec.EntryPrice, err = decimal.NewFromString(entry); err != nil {
		return TradeRecord{}, fmt.Errorf("trade %s: bad entry price %q", rec.TradeID, entry)
	}
	if rec.ExitPrice, err = decimal.NewFromString(exit); err != nil {
		return TradeRecord{}, fmt.Errorf("trade %s: bad exit price %q", rec.TradeID, exit)
	}
	if rec.RealizedPL, err = decimal.NewFromString(repl); err != nil {
		return TradeRecord{}, fmt.Errorf("trade %s: bad realized pl %q", rec.TradeID, repl)
	}
	return rec, nil
}
