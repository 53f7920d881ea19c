// Package session is the registry of live games.
//
// Manager caches games loaded from a store.Store and records when each was
// last touched. Reads return copies. Writes go through Update, which takes a
// per-game lock, applies a function to a copy of the game and writes the copy
// back to the store before replacing the cached value:
//
//	manager := session.NewManager(s)
//
//	id, err := manager.Create(ctx, game)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game, err = manager.Update(ctx, id, func(g *engine.Game) error {
//		_, err := g.Move(engine.Right)
//		return err
//	})
//
// CleanupExpired evicts idle cache entries. Their rows stay in the store and
// are read back on the next access.
package session
