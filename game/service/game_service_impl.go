package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/rulegrid/game/engine"
	"github.com/wricardo/mcp-training/rulegrid/game/solver"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	// ErrInvalidConfig and ErrInvalidConfigName are caller mistakes when
	// saving a level
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidConfigName = errors.New("invalid configuration name")
	// ErrInvalidMove marks moves that could not be parsed
	ErrInvalidMove = errors.New("invalid move")
)

// gameServiceImpl implements the GameService interface. Every path that
// writes session state, including the access time, holds mu exclusively.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return engine.DefaultLevelName
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.LevelConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information. Touching the access time is a
// write, so it takes the exclusive lock.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// getSession looks a session up; the only failure a manager reports is a
// missing ID.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return sess, nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if _, err := engine.ParseDirection(direction); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	report, err := sess.Engine.Move(direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	state := sess.Engine.GetState()

	return &MoveResult{
		Success:   report.Moved(),
		Outcome:   report.Outcome,
		GameState: state,
		Message:   state.Message,
		Events:    append(events, extractMoveEvents(report)...),
		Report:    report,
	}, nil
}

// BulkMove executes multiple moves in sequence
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
	}

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	// Reject the whole batch before touching the session
	if _, err := engine.ParseDirections(moves); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}
	result.StartMovers = sess.Engine.GetMovers()

	reports, outcome, err := sess.Engine.BulkMove(moves)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	for i, report := range reports {
		result.MovesExecuted++
		if !report.Moved() {
			result.BlockedMoves++
		} else {
			result.Success = true
		}
		if report.Outcome == engine.Win && result.WonOnMove == 0 {
			result.WonOnMove = i + 1
		}

		pushes := 0
		for _, mover := range report.Movers {
			pushes += len(mover.Pushed)
		}
		result.Steps = append(result.Steps, StepInfo{
			Idx:     i + 1,
			Dir:     report.Direction.String(),
			Moved:   report.Moved(),
			Pushes:  pushes,
			Outcome: report.Outcome,
		})
		result.Events = append(result.Events, extractMoveEvents(report)...)
	}

	endState := sess.Engine.GetState()
	result.Outcome = outcome
	result.GameState = endState
	result.EndMovers = endState.Movers
	result.GameOver = endState.GameOver
	result.Message = endState.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	return result, nil
}

// Reset rebuilds a session's level from its configuration
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Reset(), nil
}

// Solve searches for the shortest winning sequence from the session's
// current state. The search runs on a copy, outside the service lock.
func (s *gameServiceImpl) Solve(ctx context.Context, sessionID string, opts SolveOptions) (*SolveResult, error) {
	s.mu.Lock()
	sess, err := s.getSession(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)
	level := sess.Engine.GetLevel().Clone()
	s.mu.Unlock()

	found, err := solver.Solve(ctx, level, solver.Options{
		MaxDepth:  opts.MaxDepth,
		MaxStates: opts.MaxStates,
	})
	if err != nil {
		return nil, err
	}

	return &SolveResult{
		Moves:    found.MoveNames(),
		Length:   len(found.Moves),
		Explored: found.Explored,
	}, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// DescribeCell reports the markers on a cell and their properties
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	markers, err := engine.DescribeCell(sess.Engine.GetLevel(), x, y)
	if err != nil {
		return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
	}
	return &CellInfo{X: x, Y: y, Markers: markers}, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available level configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific level configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.LevelConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a level configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.LevelConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}
}

// extractMoveEvents generates events from a resolved move
func extractMoveEvents(report *engine.MoveReport) []GameEvent {
	now := time.Now()
	events := []GameEvent{}

	if !report.Moved() {
		return append(events, GameEvent{
			Type:      "blocked",
			Message:   fmt.Sprintf("Nothing could move %s", report.Direction),
			Timestamp: now,
		})
	}

	for _, mover := range report.Movers {
		if !mover.Moved {
			continue
		}
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("%s moved %s to (%d,%d)", mover.Marker, report.Direction, mover.To.X, mover.To.Y),
			Timestamp: now,
			Position:  mover.To,
		})
		for _, pushed := range mover.Pushed {
			events = append(events, GameEvent{
				Type:      "push",
				Message:   fmt.Sprintf("Pushed %s to (%d,%d)", pushed.Marker, pushed.To.X, pushed.To.Y),
				Timestamp: now,
				Position:  pushed.To,
			})
		}
	}

	if report.Outcome == engine.Win {
		events = append(events, GameEvent{
			Type:      "victory",
			Message:   "Victory! A piece that is YOU reached a WIN cell",
			Timestamp: now,
		})
	}

	return events
}
