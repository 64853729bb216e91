package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	corehistory "github.com/kilianp07/powerplan/core/history"
)

// SQLiteStore persists plan records to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := []string{
		`CREATE TABLE IF NOT EXISTS plans (
        id TEXT PRIMARY KEY,
        ts INTEGER,
        total_cost REAL,
        record TEXT
    );`,
		`CREATE INDEX IF NOT EXISTS plans_ts ON plans (ts);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			if cerr := db.Close(); cerr != nil {
				return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
			}
			return nil, err
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes the record to the database. A record with a known ID
// replaces the stored one.
func (s *SQLiteStore) Append(ctx context.Context, rec corehistory.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO plans (id, ts, total_cost, record) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Time.UnixNano(), rec.TotalCost, string(b))
	return err
}

// Get returns the record with the given plan ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (corehistory.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM plans WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return corehistory.Record{}, corehistory.ErrNotFound
	}
	if err != nil {
		return corehistory.Record{}, err
	}
	return decode(data)
}

// Query returns records matching q, newest first.
func (s *SQLiteStore) Query(ctx context.Context, q corehistory.Query) ([]corehistory.Record, error) {
	var args []any
	query := `SELECT record FROM plans WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	query += ` ORDER BY ts DESC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []corehistory.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		r, err := decode(data)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func decode(data string) (corehistory.Record, error) {
	var r corehistory.Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return corehistory.Record{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return r, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
