package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLite keeps the snapshot in a single key/value table, one row per field.
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

func (s *SQLite) Load() (Snapshot, bool, error) {
	rows, err := s.db.Query(`SELECT key, value FROM state`)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load state: %w", err)
	}
	defer rows.Close()

	kv := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Snapshot{}, false, fmt.Errorf("load state: %w", err)
		}
		kv[k] = v
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, false, fmt.Errorf("load state: %w", err)
	}

	if len(kv) == 0 {
		return Defaults(), false, nil
	}
	return decode(kv), true, nil
}

func (s *SQLite) Save(snap Snapshot) error {
	kv, err := encode(snap)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	for k, v := range kv {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO state (key, value) VALUES (?, ?)`, k, v); err != nil {
			tx.Rollback()
			return fmt.Errorf("save state: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Clear() error {
	_, err := s.db.Exec(`DELETE FROM state`)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
