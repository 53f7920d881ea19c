package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
	"github.com/wricardo/mcp-training/gridworld/game/service"
	"github.com/wricardo/mcp-training/gridworld/game/solver"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Game Management
	CreateGameFunc func(ctx context.Context, req service.CreateGameRequest) (*service.GameInfo, error)
	GetGameFunc    func(ctx context.Context, id int64) (*service.GameInfo, error)
	ListGamesFunc  func(ctx context.Context) ([]*service.GameInfo, error)
	DeleteGameFunc func(ctx context.Context, id int64) error

	// Game Operations
	MoveFunc     func(ctx context.Context, id int64, direction string) (*service.MoveResult, error)
	BulkMoveFunc func(ctx context.Context, id int64, directions []string) (*service.BulkMoveResult, error)
	ResetFunc    func(ctx context.Context, id int64) (*service.GameInfo, error)

	// Game State
	GetStatusFunc func(ctx context.Context, id int64) (string, error)
	SolveFunc     func(ctx context.Context, id int64) (*service.SolveResult, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configID string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configID string, config *engine.GameConfig) error
}

func testGame() *engine.Game {
	game, err := engine.DefaultGameConfig().NewGame()
	if err != nil {
		panic(err)
	}
	return game
}

func (m *MockGameService) CreateGame(ctx context.Context, req service.CreateGameRequest) (*service.GameInfo, error) {
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(ctx, req)
	}
	return &service.GameInfo{ID: 1, Status: engine.StatusOngoing, Game: testGame()}, nil
}

func (m *MockGameService) GetGame(ctx context.Context, id int64) (*service.GameInfo, error) {
	if m.GetGameFunc != nil {
		return m.GetGameFunc(ctx, id)
	}
	return &service.GameInfo{ID: id, Status: engine.StatusOngoing, Game: testGame()}, nil
}

func (m *MockGameService) ListGames(ctx context.Context) ([]*service.GameInfo, error) {
	if m.ListGamesFunc != nil {
		return m.ListGamesFunc(ctx)
	}
	return []*service.GameInfo{}, nil
}

func (m *MockGameService) DeleteGame(ctx context.Context, id int64) error {
	if m.DeleteGameFunc != nil {
		return m.DeleteGameFunc(ctx, id)
	}
	return nil
}

func (m *MockGameService) Move(ctx context.Context, id int64, direction string) (*service.MoveResult, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, id, direction)
	}
	return &service.MoveResult{Success: true, Game: testGame(), Status: engine.StatusOngoing}, nil
}

func (m *MockGameService) BulkMove(ctx context.Context, id int64, directions []string) (*service.BulkMoveResult, error) {
	if m.BulkMoveFunc != nil {
		return m.BulkMoveFunc(ctx, id, directions)
	}
	return &service.BulkMoveResult{Success: true, Game: testGame()}, nil
}

func (m *MockGameService) Reset(ctx context.Context, id int64) (*service.GameInfo, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, id)
	}
	return &service.GameInfo{ID: id, Status: engine.StatusOngoing, Game: testGame()}, nil
}

func (m *MockGameService) GetStatus(ctx context.Context, id int64) (string, error) {
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc(ctx, id)
	}
	return engine.StatusOngoing, nil
}

func (m *MockGameService) Solve(ctx context.Context, id int64) (*service.SolveResult, error) {
	if m.SolveFunc != nil {
		return m.SolveFunc(ctx, id)
	}
	return &service.SolveResult{}, nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configID string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configID)
	}
	return engine.DefaultGameConfig(), nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configID string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configID, config)
	}
	return nil
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestHealth(t *testing.T) {
	s := NewServer(&MockGameService{}, nil)
	rr := doRequest(t, s, "GET", "/health", "")

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if body := decodeBody(t, rr); body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
}

func TestCreateGame(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
		wantReq    service.CreateGameRequest
	}{
		{
			name:       "dimensions",
			body:       `{"dimensions":[3,4]}`,
			wantStatus: http.StatusCreated,
			wantReq:    service.CreateGameRequest{Dimensions: &engine.Dimensions{Rows: 3, Cols: 4}},
		},
		{
			name:       "config",
			body:       `{"config_id":"lava_moat"}`,
			wantStatus: http.StatusCreated,
			wantReq:    service.CreateGameRequest{ConfigID: "lava_moat"},
		},
		{
			name:       "service rejects request",
			body:       `{}`,
			createErr:  fmt.Errorf("%w: dimensions or config_id is required", service.ErrInvalidRequest),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "malformed dimensions",
			body:       `{"dimensions":[3]}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown config",
			body:       `{"config_id":"nope"}`,
			createErr:  fmt.Errorf("%w: nope", service.ErrConfigNotFound),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.CreateGameRequest
			mock := &MockGameService{
				CreateGameFunc: func(ctx context.Context, req service.CreateGameRequest) (*service.GameInfo, error) {
					got = req
					if tt.createErr != nil {
						return nil, tt.createErr
					}
					return &service.GameInfo{ID: 42, Game: testGame()}, nil
				},
			}

			rr := doRequest(t, NewServer(mock, nil), "POST", "/api/games", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			body := decodeBody(t, rr)
			if tt.wantStatus != http.StatusCreated {
				if _, ok := body["error"]; !ok {
					t.Errorf("Expected error body, got %v", body)
				}
				return
			}
			if body["game_id"] != float64(42) {
				t.Errorf("Expected game_id 42, got %v", body["game_id"])
			}
			if diff := cmp.Diff(tt.wantReq, got); diff != "" {
				t.Errorf("Request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListGames(t *testing.T) {
	mock := &MockGameService{
		ListGamesFunc: func(ctx context.Context) ([]*service.GameInfo, error) {
			return []*service.GameInfo{
				{ID: 1, Game: testGame()},
				{ID: 3, Game: testGame()},
			}, nil
		},
	}

	rr := doRequest(t, NewServer(mock, nil), "GET", "/api/games", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var body struct {
		Games map[string]json.RawMessage `json:"games"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body.Games) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(body.Games))
	}
	game, err := engine.ParseGame(body.Games["3"])
	if err != nil {
		t.Fatalf("Failed to parse game 3: %v", err)
	}
	if !game.Grid.Equal(testGame().Grid) {
		t.Error("Expected game 3 to round-trip")
	}
}

func TestGetGame(t *testing.T) {
	mock := &MockGameService{
		GetGameFunc: func(ctx context.Context, id int64) (*service.GameInfo, error) {
			if id != 7 {
				return nil, service.ErrGameNotFound
			}
			return &service.GameInfo{ID: 7, Game: testGame()}, nil
		},
	}
	s := NewServer(mock, nil)

	t.Run("found", func(t *testing.T) {
		rr := doRequest(t, s, "GET", "/api/games/7", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}
		if _, err := engine.ParseGame(rr.Body.Bytes()); err != nil {
			t.Errorf("Expected game JSON, got %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		rr := doRequest(t, s, "GET", "/api/games/8", "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("Expected status 404, got %d", rr.Code)
		}
		if body := decodeBody(t, rr); body["error"] != "game not found" {
			t.Errorf("Expected 'game not found', got %v", body["error"])
		}
	})

	t.Run("bad id", func(t *testing.T) {
		rr := doRequest(t, s, "GET", "/api/games/abc", "")
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422, got %d", rr.Code)
		}
	})
}

func TestDeleteGame(t *testing.T) {
	deleted := int64(0)
	mock := &MockGameService{
		DeleteGameFunc: func(ctx context.Context, id int64) error {
			if id == 9 {
				return service.ErrGameNotFound
			}
			deleted = id
			return nil
		},
	}
	s := NewServer(mock, nil)

	if rr := doRequest(t, s, "DELETE", "/api/games/4", ""); rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if deleted != 4 {
		t.Errorf("Expected game 4 deleted, got %d", deleted)
	}
	if rr := doRequest(t, s, "DELETE", "/api/games/9", ""); rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestGetStatus(t *testing.T) {
	mock := &MockGameService{
		GetStatusFunc: func(ctx context.Context, id int64) (string, error) {
			return engine.StatusWin, nil
		},
	}

	rr := doRequest(t, NewServer(mock, nil), "GET", "/api/games/1/status", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if body := decodeBody(t, rr); body["status"] != "win" {
		t.Errorf("Expected status win, got %v", body["status"])
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		result      *service.MoveResult
		moveErr     error
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "moved",
			body:       `{"direction":"D"}`,
			result:     &service.MoveResult{Success: true, Game: testGame()},
			wantStatus: http.StatusOK,
		},
		{
			name:        "no effect",
			body:        `{"direction":"U"}`,
			result:      &service.MoveResult{Message: "direction had no effect: U", Game: testGame()},
			wantStatus:  http.StatusOK,
			wantMessage: "direction had no effect: U",
		},
		{
			name:       "missing direction",
			body:       `{}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "bad direction",
			body:       `{"direction":"x"}`,
			moveErr:    fmt.Errorf("%w: %w", service.ErrInvalidRequest, engine.ErrInvalidDirection),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown game",
			body:       `{"direction":"U"}`,
			moveErr:    service.ErrGameNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockGameService{
				MoveFunc: func(ctx context.Context, id int64, direction string) (*service.MoveResult, error) {
					if tt.moveErr != nil {
						return nil, tt.moveErr
					}
					return tt.result, nil
				},
			}

			rr := doRequest(t, NewServer(mock, nil), "PUT", "/api/games/1/direction", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			body := decodeBody(t, rr)
			if tt.wantMessage != "" && body["message"] != tt.wantMessage {
				t.Errorf("Expected message %q, got %v", tt.wantMessage, body["message"])
			}
			if tt.wantStatus == http.StatusOK && tt.wantMessage == "" {
				if _, ok := body["grid"]; !ok {
					t.Errorf("Expected game JSON, got %v", body)
				}
			}
		})
	}
}

func TestBulkMove(t *testing.T) {
	var got []string
	mock := &MockGameService{
		BulkMoveFunc: func(ctx context.Context, id int64, directions []string) (*service.BulkMoveResult, error) {
			got = directions
			return &service.BulkMoveResult{MovesExecuted: 2, RequestedMoves: 2, Success: true, Game: testGame()}, nil
		},
	}

	rr := doRequest(t, NewServer(mock, nil), "POST", "/api/games/1/moves", `{"directions":["D","R"]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if diff := cmp.Diff([]string{"D", "R"}, got); diff != "" {
		t.Errorf("Directions mismatch (-want +got):\n%s", diff)
	}
	if body := decodeBody(t, rr); body["moves_executed"] != float64(2) {
		t.Errorf("Expected moves_executed 2, got %v", body["moves_executed"])
	}
}

func TestReset(t *testing.T) {
	called := false
	mock := &MockGameService{
		ResetFunc: func(ctx context.Context, id int64) (*service.GameInfo, error) {
			called = true
			return &service.GameInfo{ID: id, Game: testGame()}, nil
		},
	}

	rr := doRequest(t, NewServer(mock, nil), "POST", "/api/games/2/reset", "")
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if !called {
		t.Error("Expected Reset to be called")
	}
}

func TestSolution(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock := &MockGameService{
			SolveFunc: func(ctx context.Context, id int64) (*service.SolveResult, error) {
				return &service.SolveResult{
					Found:      true,
					Path:       []engine.Position{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 1, Col: 1}},
					Directions: []string{"D", "R"},
					Wellness:   0.5,
					Stats:      solver.Stats{Popped: 4},
				}, nil
			},
		}

		rr := doRequest(t, NewServer(mock, nil), "GET", "/api/games/1/solution", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}
		var result service.SolveResult
		if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
			t.Fatalf("Failed to decode result: %v", err)
		}
		if len(result.Path) != 3 || result.Path[2] != (engine.Position{Row: 1, Col: 1}) {
			t.Errorf("Expected path ending at (1,1), got %v", result.Path)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		mock := &MockGameService{
			SolveFunc: func(ctx context.Context, id int64) (*service.SolveResult, error) {
				return &service.SolveResult{Found: false}, nil
			},
		}

		rr := doRequest(t, NewServer(mock, nil), "GET", "/api/games/1/solution", "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("Expected status 404, got %d", rr.Code)
		}
		if body := decodeBody(t, rr); body["error"] != "goal unreachable" {
			t.Errorf("Expected 'goal unreachable', got %v", body["error"])
		}
	})
}

func TestConfigs(t *testing.T) {
	mock := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{{ConfigID: "default", Name: "default"}}, nil
		},
		LoadConfigFunc: func(ctx context.Context, configID string) (*engine.GameConfig, error) {
			if configID != "default" {
				return nil, service.ErrConfigNotFound
			}
			return engine.DefaultGameConfig(), nil
		},
		SaveConfigFunc: func(ctx context.Context, configID string, config *engine.GameConfig) error {
			if config.Name == "broken" {
				return fmt.Errorf("%w: bad grid", service.ErrInvalidConfig)
			}
			return nil
		},
	}
	s := NewServer(mock, nil)

	t.Run("list", func(t *testing.T) {
		rr := doRequest(t, s, "GET", "/api/configs", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}
		var configs []service.ConfigInfo
		if err := json.Unmarshal(rr.Body.Bytes(), &configs); err != nil {
			t.Fatalf("Failed to decode configs: %v", err)
		}
		if len(configs) != 1 || configs[0].ConfigID != "default" {
			t.Errorf("Expected [default], got %v", configs)
		}
	})

	t.Run("get strips extension", func(t *testing.T) {
		if rr := doRequest(t, s, "GET", "/api/configs/default.json", ""); rr.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rr.Code)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		if rr := doRequest(t, s, "GET", "/api/configs/nope", ""); rr.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", rr.Code)
		}
	})

	t.Run("create", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/configs", `{"name":"corridor","grid":["..."],"start_position":[0,0],"goal_position":[0,2]}`)
		if rr.Code != http.StatusCreated {
			t.Errorf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("create invalid", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/configs", `{"name":"broken","grid":["."]}`)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422, got %d", rr.Code)
		}
	})

	t.Run("create without name", func(t *testing.T) {
		rr := doRequest(t, s, "POST", "/api/configs", `{"grid":["."]}`)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422, got %d", rr.Code)
		}
	})
}

func TestWebSocketRequiresHub(t *testing.T) {
	rr := doRequest(t, NewServer(&MockGameService{}, nil), "GET", "/ws?game=1", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rr.Code)
	}
}

func TestInternalError(t *testing.T) {
	mock := &MockGameService{
		ListGamesFunc: func(ctx context.Context) ([]*service.GameInfo, error) {
			return nil, errors.New("disk on fire")
		},
	}

	rr := doRequest(t, NewServer(mock, nil), "GET", "/api/games", "")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rr.Code)
	}
}
