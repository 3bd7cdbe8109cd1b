package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/rulegrid/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	Solve(ctx context.Context, sessionID string, opts SolveOptions) (*SolveResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	DescribeCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.LevelConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.LevelConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.LevelConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.LevelConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles level configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.LevelConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.LevelConfig
	SaveConfig(name string, config *engine.LevelConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.LevelConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
