package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/classgrid/core/model"
)

// SQLiteStore persists responses to a SQLite database so they survive restarts.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now clock
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS generate_responses (
        request_key TEXT PRIMARY KEY,
        expires_at INTEGER NOT NULL,
        response TEXT NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

// Get returns the stored response unless it expired. expires_at of 0 never expires.
func (s *SQLiteStore) Get(ctx context.Context, key string) (model.GenerateResponse, bool, error) {
	var (
		data    string
		expires int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT response, expires_at FROM generate_responses WHERE request_key = ?`, key).Scan(&data, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return model.GenerateResponse{}, false, nil
	}
	if err != nil {
		return model.GenerateResponse{}, false, err
	}
	if expires != 0 && s.now().Unix() >= expires {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM generate_responses WHERE request_key = ?`, key); err != nil {
			return model.GenerateResponse{}, false, err
		}
		return model.GenerateResponse{}, false, nil
	}
	var resp model.GenerateResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return model.GenerateResponse{}, false, fmt.Errorf("unmarshal response: %w", err)
	}
	return resp, true, nil
}

// Put upserts the response.
func (s *SQLiteStore) Put(ctx context.Context, key string, resp model.GenerateResponse) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	var expires int64
	if s.ttl > 0 {
		expires = s.now().Add(s.ttl).Unix()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO generate_responses (request_key, expires_at, response) VALUES (?, ?, ?)
         ON CONFLICT(request_key) DO UPDATE SET expires_at = excluded.expires_at, response = excluded.response`,
		key, expires, string(b))
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
