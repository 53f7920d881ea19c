package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
	"github.com/wricardo/mcp-training/gridworld/game/service"
	"github.com/wricardo/mcp-training/gridworld/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil, which disables /ws.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Games
	api.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleDeleteGame).Methods("DELETE")

	// Game operations
	api.HandleFunc("/games/{id}/status", s.handleGetStatus).Methods("GET")
	api.HandleFunc("/games/{id}/direction", s.handleDirection).Methods("PUT")
	api.HandleFunc("/games/{id}/moves", s.handleBulkMove).Methods("POST")
	api.HandleFunc("/games/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/games/{id}/solution", s.handleSolution).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the router so callers can mount extra endpoints.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to status codes
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		respondError(w, http.StatusNotFound, service.ErrGameNotFound.Error())
	case errors.Is(err, service.ErrConfigNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrInvalidConfig):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func gameID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (s *Server) broadcast(id int64, event string, game *engine.Game) {
	if s.hub != nil && game != nil {
		s.hub.BroadcastGame(id, event, game)
	}
}

// Game Handlers

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	info, err := s.service.CreateGame(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"game_id": info.ID})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListGames(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	byID := make(map[string]*engine.Game, len(games))
	for _, info := range games {
		byID[strconv.FormatInt(info.ID, 10)] = info.Game
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"games": byID})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid game id")
		return
	}

	info, err := s.service.GetGame(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info.Game)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid game id")
		return
	}

	if err := s.service.DeleteGame(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Game %d deleted", id),
	})
}

// Game Operation Handlers

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid game id")
		return
	}

	status, err := s.service.GetStatus(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) handleDirection(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid game id")
		return
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Direction == "" {
		respondError(w, http.StatusUnprocessableEntity, "direction is required")
		return
	}

	result, err := s.service.Move(r.Context(), id, req.Direction)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if !result.Success {
		respondJSON(w, http.StatusOK, map[string]string{"message": result.Message})
		return
	}

	s.broadcast(id, websocket.EventState, result.Game)
	respondJSON(w, http.StatusOK, result.Game)
}

func (s *Server) handleBulkMove(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid game id")
		return
	}

	var req struct {
		Directions []string `json:"directions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	result, err := s.service.BulkMove(r.Context(), id, req.Directions)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if result.MovesExecuted > 0 {
		s.broadcast(id, websocket.EventState, result.Game)
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid game id")
		return
	}

	info, err := s.service.Reset(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(id, websocket.EventReset, info.Game)
	respondJSON(w, http.StatusOK, info.Game)
}

func (s *Server) handleSolution(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid game id")
		return
	}

	result, err := s.service.Solve(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if !result.Found {
		respondError(w, http.StatusNotFound, "goal unreachable")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	config, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var gameConfig engine.GameConfig
	if err := json.NewDecoder(r.Body).Decode(&gameConfig); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if gameConfig.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, "Config name is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), gameConfig.Name, &gameConfig); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": gameConfig.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket disabled", http.StatusServiceUnavailable)
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("game"), 10, 64)
	if err != nil {
		http.Error(w, "game parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetGame(r.Context(), id); err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, id)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
