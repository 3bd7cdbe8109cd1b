package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/rulegrid/api"
	"github.com/wricardo/mcp-training/rulegrid/game/engine"
	"github.com/wricardo/mcp-training/rulegrid/game/session"
	"github.com/wricardo/mcp-training/rulegrid/transport/mcp"
	"github.com/wricardo/mcp-training/rulegrid/transport/websocket"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "Rule Grid Server" {
		t.Errorf("Unexpected app name %s", AppName)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("RULEGRID_PORT", "9090")
	t.Setenv("RULEGRID_HOST", "0.0.0.0")
	t.Setenv("CONFIG_DIR", "levels")
	t.Setenv("RULEGRID_SESSION_TTL", "2h")
	t.Setenv("NGROK_AUTHTOKEN", "")
	t.Setenv("NGROK_AUTH_TOKEN", "alt-token")

	cfg, err := loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Port != 9090 || cfg.Host != "0.0.0.0" || cfg.ConfigDir != "levels" {
		t.Errorf("Environment not applied: %+v", cfg)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("Expected session TTL 2h, got %v", cfg.SessionTTL)
	}
	if cfg.NgrokAuthToken != "alt-token" {
		t.Errorf("Expected fallback ngrok token, got %q", cfg.NgrokAuthToken)
	}
	if cfg.Mode != "server" {
		t.Errorf("Expected default mode 'server', got %s", cfg.Mode)
	}
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("RULEGRID_PORT", "9090")
	t.Setenv("CONFIG_DIR", "levels")

	cfg, err := loadConfig([]string{"-port", "7070", "-config-dir", "other", "-debug", "stdio-mcp"})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Port != 7070 || cfg.ConfigDir != "other" || !cfg.Debug {
		t.Errorf("Flags not applied: %+v", cfg)
	}
	if cfg.Mode != "stdio-mcp" {
		t.Errorf("Expected mode stdio-mcp, got %s", cfg.Mode)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("RULEGRID_PORT", "not-a-number")
	if _, err := loadConfig(nil); err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Errorf("Expected env parse error, got %v", err)
	}

	t.Setenv("RULEGRID_PORT", "8080")
	if _, err := loadConfig([]string{"-port", "70000"}); err == nil {
		t.Error("Expected error for out of range port")
	}
}

func TestInitializeServices(t *testing.T) {
	gameService, sessions, err := initializeServices(&serverConfig{ConfigDir: "configs"})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	info, err := gameService.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if info.ConfigName != engine.DefaultLevelName {
		t.Errorf("Expected default level, got %s", info.ConfigName)
	}
	if sessions.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", sessions.Count())
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	if _, _, err := initializeServices(&serverConfig{ConfigDir: "/non/existent/path"}); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestSessionCleanupRoutine(t *testing.T) {
	manager := session.NewManager()
	if _, err := manager.Create("old1", engine.DefaultLevelConfig()); err != nil {
		t.Fatalf("create session: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, manager, 5*time.Millisecond, time.Nanosecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for manager.Count() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if manager.Count() != 0 {
		t.Error("Expected expired session to be removed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup routine did not stop on cancel")
	}
}

func TestRouter(t *testing.T) {
	gameService, _, err := initializeServices(&serverConfig{ConfigDir: "configs"})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	router := newRouter(api.NewServer(gameService, websocket.NewHub()), mcp.NewClient("http://127.0.0.1:1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected health 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET /mcp, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/mcp",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"result"`) {
		t.Errorf("Expected ping result, got %d %s", w.Code, w.Body.String())
	}
}
