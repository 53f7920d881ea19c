package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
	"github.com/wricardo/mcp-training/gridworld/game/play"
	"github.com/wricardo/mcp-training/gridworld/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Grid World",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Grid World - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Walk the agent (@) from the start cell to the goal cell without running out
of health or moves. Every cell you enter charges its terrain's cost.

AVAILABLE TOOLS:
- create_game: New random grid (rows/cols, optional seed) or a named config
- list_games: All stored games and their status
- get_game: Board, vitals and status of one game
- move: Single move (up/down/left/right)
- bulk_move: Up to 100 moves in one call; stops at the first boundary or game end
- reset_game: Back to the start with full vitals
- game_status: win, loss or ongoing
- solve_game: Best path from the start computed by the server
- list_configs: Scenario files available to create_game
- game_instructions: Rules, terrain costs and the board legend`),
	)

	c.registerTools()
}

func gameIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Game ID returned by create_game",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game: a random grid of rows x cols, or a scenario by config_id",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"rows": map[string]interface{}{
					"type":        "integer",
					"description": "Number of rows (1-100) for a random grid",
				},
				"cols": map[string]interface{}{
					"type":        "integer",
					"description": "Number of columns (1-100) for a random grid",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Seed for a reproducible random grid (optional)",
				},
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Scenario to load instead of a random grid (see list_configs)",
				},
			},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all stored games",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_game",
		Description: "Get the board, vitals and status of a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
			},
			Required: []string{"game_id"},
		},
	}, c.handleGetGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the agent one cell in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
			},
			Required: []string{"game_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Execute multiple moves in sequence",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
			},
			Required: []string{"game_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the agent to the start with full vitals",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
			},
			Required: []string{"game_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_status",
		Description: "Get the status of a game: win, loss or ongoing",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
			},
			Required: []string{"game_id"},
		},
	}, c.handleGameStatus)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_game",
		Description: "Compute the best path from the start to the goal",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
			},
			Required: []string{"game_id"},
		},
	}, c.handleSolveGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

// gameIDArg reads an integer game id. JSON numbers arrive as float64.
func gameIDArg(args map[string]interface{}) (int64, error) {
	switch v := args["game_id"].(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		var id int64
		if _, err := fmt.Sscanf(v, "%d", &id); err == nil {
			return id, nil
		}
	}
	return 0, fmt.Errorf("game_id is required")
}

func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)
	rows, hasRows := intArg(args, "rows")
	cols, hasCols := intArg(args, "cols")

	var req service.CreateGameRequest
	switch {
	case configID != "":
		req.ConfigID = configID
	case hasRows && hasCols:
		req.Dimensions = &engine.Dimensions{Rows: rows, Cols: cols}
		if seed, ok := intArg(args, "seed"); ok {
			s := int64(seed)
			req.Seed = &s
		}
	default:
		return mcp.NewToolResultError("either rows and cols or config_id is required"), nil
	}

	var created struct {
		GameID int64 `json:"game_id"`
	}
	if err := c.apiCall(ctx, "POST", "/api/games", req, &created); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var game engine.Game
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/games/%d", created.GameID), nil, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game: %d\n\n%s", created.GameID, play.Render(&game))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Games map[string]*engine.Game `json:"games"`
	}

	if err := c.apiCall(ctx, "GET", "/api/games", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Games (%d):\n\n", len(response.Games))
	for _, id := range sortedIDs(response.Games) {
		g := response.Games[id]
		result += fmt.Sprintf("- %s: %v grid, agent at %v, %s\n", id, g.Grid.Dims(), g.Agent.Position, g.Status())
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := gameIDArg(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var game engine.Game
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/games/%d", id), nil, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(play.Render(&game)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	id, err := gameIDArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, _ := args["direction"].(string)

	// The endpoint answers with the game, or with a message when nothing moved.
	var raw json.RawMessage
	body := map[string]string{"direction": direction}
	if err := c.apiCall(ctx, "PUT", fmt.Sprintf("/api/games/%d/direction", id), body, &raw); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var noEffect struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &noEffect) == nil && noEffect.Message != "" {
		return mcp.NewToolResultText("✗ " + noEffect.Message), nil
	}

	var game engine.Game
	if err := json.Unmarshal(raw, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMove(&game)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	id, err := gameIDArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	movesRaw, _ := args["moves"].([]interface{})

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	var result service.BulkMoveResult
	body := map[string]interface{}{"directions": moves}
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/games/%d/moves", id), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(id, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := gameIDArg(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var game engine.Game
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/games/%d/reset", id), nil, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Game reset\n\n" + play.Render(&game)), nil
}

func (c *Client) handleGameStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := gameIDArg(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Status string `json:"status"`
	}
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/games/%d/status", id), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Game %d: %s", id, response.Status)), nil
}

func (c *Client) handleSolveGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := gameIDArg(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var solution service.SolveResult
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/games/%d/solution", id), nil, &solution); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var game engine.Game
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/games/%d", id), nil, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSolution(&game, &solution)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Grid: %v, Start: %v, Goal: %v, Health: %d, Moves: %d\n\n",
			config.ConfigID, config.Name, config.Description, config.Dimensions,
			config.Start, config.Goal, config.MaxHealth, config.MaxMoves)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	costs := engine.StandardCosts()

	var legend strings.Builder
	for _, t := range engine.Terrains() {
		health, _ := costs.HealthCostOf(t)
		moves, _ := costs.MoveCostOf(t)
		fmt.Fprintf(&legend, "• %c - %-8s health %+d, moves %+d\n", t.Code(), t.Name(), health, moves)
	}

	instructions := fmt.Sprintf(`Grid World - Instructions

GAME OBJECTIVE:
Bring the agent from the start cell to the goal cell alive.

GAME MECHANICS:
• The agent moves one cell up, down, left or right per move.
• Entering a cell adds its terrain's health and move costs to the agent.
• Moves off the grid have no effect and cost nothing.
• The start cell is never charged.

GRID LEGEND (standard costs; scenarios may override them):
%s• %c - the agent

VICTORY CONDITIONS:
- The agent stands on the goal with health > 0 and moves > 0.

GAME OVER CONDITIONS:
- Health or moves reach 0 anywhere on the grid, goal included.

API USAGE:
- bulk_move accepts up to %d moves and stops at the first move that has no
  effect or ends the game.
- solve_game returns the path that keeps the agent healthiest at the goal.
- reset_game restores full vitals at the start.

Coordinates are (row, column), rows growing downward.`,
		legend.String(), play.AgentMark, engine.MaxBulkMoves)

	return mcp.NewToolResultText(instructions), nil
}
