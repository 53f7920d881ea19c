package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
)

func newTestGame(t *testing.T) *engine.Game {
	t.Helper()
	game, err := engine.DefaultGameConfig().NewGame()
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	return game
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{hub: hub, gameID: 7, send: make(chan []byte, 256)}
	hub.registerClient(client)

	if !hub.games[7][client] {
		t.Error("Client was not registered for the game")
	}
	if len(hub.games[7]) != 1 {
		t.Errorf("Expected 1 client for game 7, got %d", len(hub.games[7]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{hub: hub, gameID: 7, send: make(chan []byte, 256)}
	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.games[7]; exists {
		t.Error("Game should have been removed once its last client left")
	}
	if _, ok := <-client.send; ok {
		t.Error("Expected send channel to be closed")
	}

	// Unregistering twice is a no-op.
	hub.unregisterClient(client)
}

func TestHubBroadcastOnlyToWatchers(t *testing.T) {
	hub := NewHub()

	watcher := &Client{hub: hub, gameID: 1, send: make(chan []byte, 256)}
	other := &Client{hub: hub, gameID: 2, send: make(chan []byte, 256)}
	hub.registerClient(watcher)
	hub.registerClient(other)

	game := newTestGame(t)
	hub.broadcastMessage(&Message{GameID: 1, Event: EventState, Status: game.Status(), Game: game})

	select {
	case data := <-watcher.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if msg.GameID != 1 || msg.Event != EventState {
			t.Errorf("Expected game 1 state_update, got %d %s", msg.GameID, msg.Event)
		}
		if msg.Game.Agent.Position != game.Agent.Position {
			t.Errorf("Expected agent at %v, got %v", game.Agent.Position, msg.Game.Agent.Position)
		}
	default:
		t.Error("Expected watcher to receive the snapshot")
	}

	select {
	case <-other.send:
		t.Error("Client of another game received the snapshot")
	default:
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()

	slow := &Client{hub: hub, gameID: 1, send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{GameID: 1, Event: EventState})

	if len(hub.games[1]) != 0 {
		t.Error("Expected slow client to be dropped")
	}
}

func waitForClients(t *testing.T, hub *Hub, gameID int64, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(gameID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients for game %d, got %d", want, gameID, hub.ClientCount(gameID))
}

func startTestServer(t *testing.T, hub *Hub) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.URL.Query().Get("game"), 10, 64)
		hub.ServeWS(w, r, id)
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWebSocketLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	wsURL := startTestServer(t, hub) + "?game=3"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	waitForClients(t, hub, 3, 1)

	conn.Close()
	waitForClients(t, hub, 3, 0)
}

func TestWebSocketReceivesSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	wsURL := startTestServer(t, hub) + "?game=5"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	var hello Message
	conn.SetReadDeadline(time.Now().Add(time.Second))
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("Failed to read greeting: %v", err)
	}
	if hello.Event != EventConnected || hello.GameID != 5 {
		t.Errorf("Expected connected greeting for game 5, got %s for %d", hello.Event, hello.GameID)
	}
	if _, err := uuid.Parse(hello.ClientID); err != nil {
		t.Errorf("Expected a uuid client id, got %q: %v", hello.ClientID, err)
	}

	waitForClients(t, hub, 5, 1)

	game := newTestGame(t)
	if _, err := game.Move(engine.Down); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	hub.BroadcastGame(5, EventState, game)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if msg.GameID != 5 {
		t.Errorf("Expected game 5, got %d", msg.GameID)
	}
	if msg.Status != engine.StatusOngoing {
		t.Errorf("Expected ongoing, got %s", msg.Status)
	}
	want := engine.Position{Row: 1, Col: 0}
	if msg.Game.Agent.Position != want {
		t.Errorf("Expected agent at %v, got %v", want, msg.Game.Agent.Position)
	}
}

func TestHubStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// Calls after shutdown must not block.
	hub.BroadcastGame(1, EventState, newTestGame(t))
	if n := hub.ClientCount(1); n != 0 {
		t.Errorf("Expected 0 clients after shutdown, got %d", n)
	}
}
