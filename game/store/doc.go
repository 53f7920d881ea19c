// Package store persists game snapshots in rows keyed by a numeric id.
//
// Each row holds the JSON snapshot of one game (grid, agent, costs, start
// and goal). Writes replace the whole row, so concurrent writers to the same
// id are last-writer-wins; the session package serializes them per id.
//
// Backends:
//   - memory: process-local map, the default
//   - file: one <id>.json file per game in a directory
//   - sqlite: a games(id INTEGER PRIMARY KEY, data TEXT) table via modernc.org/sqlite
//   - postgres: the same table via gorm and gorm.io/driver/postgres
//
// Usage:
//
//	s, err := store.NewStore("sqlite", "games.sqlite3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := s.Init(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
//
//	id, err := s.Create(ctx, game)
package store
