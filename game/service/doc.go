// Package service provides the use cases shared by the HTTP API, the MCP
// tools and the command line.
//
// GameService creates games from random grids or scenario files, applies
// single and bulk moves, resets games, reports status and runs the wellness
// solver. It depends on two narrow interfaces:
//
//   - GameRegistry stores games and serializes updates per game id
//     (implemented by session.Manager).
//   - ConfigManager loads scenario files (implemented by config.Manager).
//
// Usage:
//
//	games := session.NewManager(s)
//	configs, _ := config.NewManager("configs")
//	svc := service.NewGameService(games, configs, service.WithSeed(1))
//
//	info, err := svc.CreateGame(ctx, service.CreateGameRequest{ConfigID: "lava_moat"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := svc.Move(ctx, info.ID, "R")
//
// A move that would leave the grid returns Success false with the message
// "direction had no effect: R". Moves on a won or lost game are rejected the
// same way. Errors wrap ErrGameNotFound, ErrConfigNotFound or
// ErrInvalidRequest so transports can map them to status codes.
package service
