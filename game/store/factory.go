package store

import "fmt"

// NewStore builds a backend by kind. dsn is a directory for "file", a
// database path for "sqlite" and a connection string for "postgres".
func NewStore(kind, dsn string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		if dsn == "" {
			dsn = "games"
		}
		return NewFileStore(dsn), nil
	case "sqlite":
		if dsn == "" {
			dsn = "gridworld.sqlite3"
		}
		return NewSQLiteStore(dsn), nil
	case "postgres":
		return NewPostgresStore(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}
