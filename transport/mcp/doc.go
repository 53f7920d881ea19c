// Package mcp exposes the game REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one or two HTTP
// requests against the REST server and the answer is rendered as text with
// the play package's board renderer.
//
// MCP Tools:
//   - create_game: random grid (rows, cols, seed) or scenario (config_id)
//   - list_games, get_game, game_status
//   - move, bulk_move, reset_game
//   - solve_game: best path from the start, drawn on the board
//   - list_configs, game_instructions
//
// Transport Modes:
//
// The same MCP server can be served over stdio for local clients or mounted
// on the HTTP router at /mcp.
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
