package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/wricardo/mcp-training/gridworld/game/engine"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps game rows in a sqlite database through the pure-Go
// modernc driver. The path may be ":memory:".
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore creates a store for the database at path. Nothing is opened
// until Init.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the games table if needed
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	// One connection: ":memory:" databases are per connection, and sqlite
	// serializes writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, data FROM games ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id   int64
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		game, err := DecodeGame([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", id, err)
		}
		entries = append(entries, Entry{ID: id, Game: game})
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*engine.Game, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var data string
	err = db.QueryRowContext(ctx, `SELECT data FROM games WHERE id = ? LIMIT 1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	game, err := DecodeGame([]byte(data))
	if err != nil {
		return nil, false, fmt.Errorf("game %d: %w", id, err)
	}
	return game, true, nil
}

func (s *SQLiteStore) Create(ctx context.Context, game *engine.Game) (int64, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}

	data, err := EncodeGame(game)
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, `INSERT INTO games (data) VALUES (?)`, string(data))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, game *engine.Game) (bool, error) {
	db, err := s.getDB()
	if err != nil {
		return false, err
	}

	data, err := EncodeGame(game)
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, `UPDATE games SET data = ? WHERE id = ?`, string(data), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) (bool, error) {
	db, err := s.getDB()
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Close releases the connection. The store can be initialized again.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

// createTables creates the games table if needed
func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY,
			data TEXT NOT NULL
		)
	`)
	return err
}
