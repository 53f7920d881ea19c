// Package api serves the gridworld REST API over gorilla/mux.
//
// Endpoints:
//   - GET    /health                      {"status":"ok"}
//   - GET    /api/games                   {"games": {"<id>": <game>}}
//   - POST   /api/games                   {"dimensions":[m,n]} or {"config_id":...}, optional "seed"; 201 {"game_id": id}
//   - GET    /api/games/{id}              game JSON
//   - DELETE /api/games/{id}
//   - GET    /api/games/{id}/status       {"status":"win"|"loss"|"ongoing"}
//   - PUT    /api/games/{id}/direction    {"direction":"R"}; game JSON, or {"message": ...} when the move had no effect
//   - POST   /api/games/{id}/moves        {"directions":[...]}; bulk move result
//   - POST   /api/games/{id}/reset
//   - GET    /api/games/{id}/solution     solver result, 404 when the goal is unreachable
//   - GET    /api/configs, POST /api/configs, GET /api/configs/{name}
//   - GET    /ws?game=<id>                websocket feed of game snapshots
//
// Errors are {"error": message}. Unknown games are 404, malformed or invalid
// requests are 422.
package api
