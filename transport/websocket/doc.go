// Package websocket pushes game snapshots to browsers and other watchers.
//
// A single Hub goroutine owns the client map. Clients subscribe to one game
// id with /ws?game=<id>; after every mutation the API calls BroadcastGame and
// each watcher of that id receives one JSON frame:
//
//	{"game_id": 3, "event": "state_update", "status": "ongoing", "game": {...}}
//
// Incoming frames are read only to keep the connection alive. Clients that
// fall behind are dropped.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, gameID)
//	hub.BroadcastGame(gameID, websocket.EventState, game)
package websocket
