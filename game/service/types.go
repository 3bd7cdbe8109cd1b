package service

import (
	"time"

	"github.com/wricardo/mcp-training/rulegrid/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.GameState   `json:"game_state"`
	GameConfig     *engine.LevelConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation. Success means at
// least one marker changed cell.
type MoveResult struct {
	Success   bool               `json:"success"`
	Outcome   engine.Outcome     `json:"outcome"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message"`
	Events    []GameEvent        `json:"events,omitempty"`
	Report    *engine.MoveReport `json:"report,omitempty"`
}

// BulkMoveResult contains the result of multiple moves. Every requested
// move is applied; nothing stops the sequence early.
type BulkMoveResult struct {
	// Summary
	RequestedMoves int               `json:"requested_moves"`
	MovesExecuted  int               `json:"moves_executed"`
	BlockedMoves   int               `json:"blocked_moves"`
	Success        bool              `json:"success"`
	Outcome        engine.Outcome    `json:"outcome"`
	WonOnMove      int               `json:"won_on_move,omitempty"` // 1-based index of the first winning move
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartMovers []engine.Position `json:"start_movers"`
	EndMovers   []engine.Position `json:"end_movers"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver      bool     `json:"game_over"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move in the bulk call
type StepInfo struct {
	Idx     int            `json:"idx"`
	Dir     string         `json:"dir"`
	Moved   bool           `json:"moved"`
	Pushes  int            `json:"pushes,omitempty"`
	Outcome engine.Outcome `json:"outcome"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "push", "blocked", "victory", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// SolveOptions bounds a solver run
type SolveOptions struct {
	MaxDepth  int `json:"max_depth"`
	MaxStates int `json:"max_states"`
}

// SolveResult is the shortest winning sequence from the current state
type SolveResult struct {
	Moves    []string `json:"moves"`
	Length   int      `json:"length"`
	Explored int      `json:"explored"`
}

// CellInfo lists what stands on one cell and which properties apply
type CellInfo struct {
	X       int                 `json:"x"`
	Y       int                 `json:"y"`
	Markers map[string][]string `json:"markers"`
}

// ConfigInfo provides information about a level configuration
type ConfigInfo struct {
	Filename    string   `json:"filename"`
	ConfigID    string   `json:"config_id"` // The identifier to use for session creation
	Name        string   `json:"name"`      // Display name
	Description string   `json:"description"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Rules       []string `json:"rules"`
}
