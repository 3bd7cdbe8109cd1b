package engine

import (
	"fmt"
	"strings"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsGameOver() bool
	IsVictory() bool
	GetOutcome() Outcome
	GetMovers() []Position

	// Movement operations
	Move(direction string) (*MoveReport, error)
	BulkMove(moves []string) ([]*MoveReport, Outcome, error)
	CanMove(direction string) bool
	GetPossibleMoves() []string

	// Configuration
	GetConfig() *LevelConfig
	SetConfig(config *LevelConfig) error
	GetLevel() *Level

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Local view
	GetLocalView() []SurroundingCell
}

// GameEngine implements the Engine interface on top of a Level built from
// a LevelConfig
type GameEngine struct {
	config  *LevelConfig
	level   *Level
	outcome Outcome
	message string

	history      []MoveHistoryEntry
	totalMoves   int
	currentMoves []MoveHistoryEntry
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *LevelConfig) (*GameEngine, error) {
	if err := ValidateLevelConfig(config); err != nil {
		return nil, err
	}

	level, err := BuildLevel(config)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		config:       config,
		level:        level,
		message:      config.Messages.Welcome,
		history:      []MoveHistoryEntry{},
		currentMoves: []MoveHistoryEntry{},
	}, nil
}

// NewEngineWithDefaults creates a new game engine on the built-in level
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(DefaultLevelConfig())
	if err != nil {
		panic(fmt.Sprintf("engine: built-in level is invalid: %v", err))
	}
	return engine
}

// GetState returns a serializable snapshot of the game
func (e *GameEngine) GetState() *GameState {
	grid := e.level.Grid()
	state := &GameState{
		ConfigName:        e.config.Name,
		Width:             grid.Width(),
		Height:            grid.Height(),
		Rows:              renderRows(grid),
		Cells:             occupiedCells(grid),
		Rules:             []string{},
		Movers:            e.GetMovers(),
		Outcome:           e.outcome,
		GameOver:          e.IsGameOver(),
		Victory:           e.IsVictory(),
		Message:           e.message,
		MoveHistory:       e.history,
		TotalMoves:        e.totalMoves,
		CurrentMoves:      e.currentMoves,
		CurrentMovesCount: len(e.currentMoves),
		LocalView:         e.GetLocalView(),
	}
	for _, rule := range e.level.Rules().Rules() {
		state.Rules = append(state.Rules, rule.String())
	}
	return state
}

// Reset rebuilds the level from its configuration. Cumulative history is
// kept; only the current segment is cleared.
func (e *GameEngine) Reset() *GameState {
	level, err := BuildLevel(e.config)
	if err != nil {
		// The config was validated when it was set, so it always builds.
		panic(fmt.Sprintf("engine: rebuild %s: %v", e.config.Name, err))
	}
	e.level = level
	e.outcome = Ongoing
	e.message = e.config.Messages.Welcome
	e.currentMoves = []MoveHistoryEntry{}
	return e.GetState()
}

// IsGameOver returns whether a terminal outcome has been reached
func (e *GameEngine) IsGameOver() bool {
	return e.outcome.Terminal()
}

// IsVictory returns whether the player has won
func (e *GameEngine) IsVictory() bool {
	return e.outcome == Win
}

// GetOutcome returns the folded outcome of every move since the last reset
func (e *GameEngine) GetOutcome() Outcome {
	return e.outcome
}

// GetMovers returns the positions of every piece that currently is You
func (e *GameEngine) GetMovers() []Position {
	movers := []Position{}
	for _, kind := range e.level.Rules().EntitiesWith(PropertyYou) {
		m := EntityMarker(kind)
		if m.Valid() {
			movers = append(movers, e.level.Positions(m)...)
		}
	}
	return movers
}

// Move applies a single move. Moves keep being applied after a win; the
// outcome stays Win until Reset.
func (e *GameEngine) Move(direction string) (*MoveReport, error) {
	dir, err := ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	report := e.level.ResolveMove(dir)
	e.outcome = Combine(e.outcome, report.Outcome)
	e.message = e.describe(report)
	e.addMoveToHistory(report)

	return report, nil
}

// BulkMove parses every move first, then applies them all in order. It
// does not stop at a terminal outcome.
func (e *GameEngine) BulkMove(moves []string) ([]*MoveReport, Outcome, error) {
	if len(moves) > MaxBulkMoves {
		return nil, e.outcome, fmt.Errorf("too many moves: %d (max %d)", len(moves), MaxBulkMoves)
	}
	dirs, err := ParseDirections(moves)
	if err != nil {
		return nil, e.outcome, err
	}

	reports := make([]*MoveReport, 0, len(dirs))
	folded := Ongoing
	for _, dir := range dirs {
		report, err := e.Move(dir.String())
		if err != nil {
			return reports, folded, err
		}
		folded = Combine(folded, report.Outcome)
		reports = append(reports, report)
	}
	return reports, folded, nil
}

// CanMove reports whether the move would relocate anything, using a
// throwaway copy of the level
func (e *GameEngine) CanMove(direction string) bool {
	dir, err := ParseDirection(direction)
	if err != nil {
		return false
	}
	return e.level.Clone().ResolveMove(dir).Moved()
}

// GetPossibleMoves returns all directions that would relocate something
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range Directions {
		if e.CanMove(dir.String()) {
			possible = append(possible, dir.String())
		}
	}
	return possible
}

// GetConfig returns the current level configuration
func (e *GameEngine) GetConfig() *LevelConfig {
	return e.config
}

// SetConfig switches to a new level and clears the current segment
func (e *GameEngine) SetConfig(config *LevelConfig) error {
	if err := ValidateLevelConfig(config); err != nil {
		return err
	}
	e.config = config
	e.Reset()
	return nil
}

// GetLevel exposes the live level
func (e *GameEngine) GetLevel() *Level {
	return e.level
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

func (e *GameEngine) describe(report *MoveReport) string {
	msgs := e.config.Messages
	switch {
	case e.outcome == Win:
		return msgs.Victory
	case e.outcome == Defeat && msgs.Defeat != "":
		return msgs.Defeat
	case !report.Moved():
		if msgs.Blocked != "" {
			return msgs.Blocked
		}
		return fmt.Sprintf("Can't move %s", report.Direction)
	case msgs.Moved != "" && strings.Contains(msgs.Moved, "%s"):
		return fmt.Sprintf(msgs.Moved, report.Direction)
	case msgs.Moved != "":
		return msgs.Moved
	}
	return fmt.Sprintf("Moved %s", report.Direction)
}
