package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/rulegrid/game/engine"
)

func testState() *engine.GameState {
	return &engine.GameState{
		ConfigName: "level_1",
		Width:      15,
		Height:     11,
		Movers:     []engine.Position{{X: 4, Y: 5}},
		Outcome:    engine.Ongoing,
		Message:    "Moved right.",
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients in session %s, got %d", want, sessionID, hub.ClientCount(sessionID))
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}

	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}

	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}

	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}

	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:       hub,
		sessionID: "test-session",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}

	if hub.ClientCount("test-session") != 1 {
		t.Errorf("Expected 1 client in session, got %d", hub.ClientCount("test-session"))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:       hub,
		sessionID: "test-session",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}

	if _, ok := <-client.send; ok {
		t.Error("Send channel should be closed")
	}

	// A second unregister is a no-op
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "multi-client-session"

	client1 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if hub.ClientCount(sessionID) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", hub.ClientCount(sessionID))
	}

	hub.unregisterClient(client1)

	if hub.ClientCount(sessionID) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", hub.ClientCount(sessionID))
	}

	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := NewHub()
	sessionID := "broadcast-test"

	client := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	other := &Client{hub: hub, sessionID: "other", send: make(chan []byte, 256)}
	hub.registerClient(client)
	hub.registerClient(other)

	hub.BroadcastToSession(sessionID, testState())
	hub.broadcastMessage(<-hub.broadcast)

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}

		if message.SessionID != sessionID {
			t.Errorf("Expected sessionID %s, got %s", sessionID, message.SessionID)
		}

		if message.Event != EventStateUpdate {
			t.Errorf("Expected event %q, got %s", EventStateUpdate, message.Event)
		}

		if message.GameState.Movers[0] != (engine.Position{X: 4, Y: 5}) {
			t.Error("GameState not correctly transmitted")
		}

	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}

	select {
	case <-other.send:
		t.Error("Client in another session should not receive the update")
	default:
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()

	hub.BroadcastEvent("event-test", EventVictory, "test-data")

	select {
	case message := <-hub.broadcast:
		if message.SessionID != "event-test" {
			t.Errorf("Expected sessionID 'event-test', got %s", message.SessionID)
		}
		if message.Event != EventVictory {
			t.Errorf("Expected event %q, got %s", EventVictory, message.Event)
		}
		if message.Data != "test-data" {
			t.Errorf("Expected data 'test-data', got %v", message.Data)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No broadcast message received within timeout")
	}
}

func TestHubBroadcastQueueFull(t *testing.T) {
	hub := NewHub()

	// Nothing drains the queue; the overflow must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.BroadcastEvent("full", "tick", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastEvent blocked on a full queue")
	}
	if len(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected %d queued messages, got %d", broadcastBuffer, len(hub.broadcast))
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := startHub(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ws-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	waitForClients(t, hub, "ws-test", 1)

	conn.Close()

	waitForClients(t, hub, "ws-test", 0)
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := startHub(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=msg-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, "msg-test", 1)

	state := testState()
	state.Outcome = engine.Win
	state.Victory = true
	hub.BroadcastToSession("msg-test", state)
	hub.BroadcastEvent("msg-test", EventVictory, map[string]int{"move": 8})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var message Message
	if err := conn.ReadJSON(&message); err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	if message.SessionID != "msg-test" {
		t.Errorf("Expected sessionID 'msg-test', got %s", message.SessionID)
	}

	if message.GameState == nil || message.GameState.Outcome != engine.Win || !message.GameState.Victory {
		t.Errorf("GameState not correctly received: %+v", message.GameState)
	}

	var event Message
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	if event.Event != EventVictory {
		t.Errorf("Expected victory event, got %q", event.Event)
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, "shutdown")
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, "shutdown", 1)

	cancel()
	<-stopped

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the connection to be closed after shutdown")
	}
	if hub.ClientCount("shutdown") != 0 {
		t.Error("Expected no clients after shutdown")
	}
}
