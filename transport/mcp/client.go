package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/rulegrid/game/engine"
	"github.com/wricardo/mcp-training/rulegrid/game/service"
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
			// The solver may run for up to ten seconds server-side
			Timeout: 15 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Rule Grid",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Rule Grid - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Move whatever IS YOU onto something that IS WIN. The rules are written on
the board as three-word sentences such as BABA IS YOU or WALL IS STOP.

AVAILABLE TOOLS:
- create_session: Create new game session
- list_sessions: List all active sessions
- get_session: Session details with the board
- game_state: Current board, rules and outcome
- move: Single move (up/down/left/right) - requires intent explanation
- bulk_move: Multiple moves at once - requires intent explanation
- reset_game: Restore the initial board
- move_history: View past moves
- list_configs: List available levels
- game_instructions: Full rules of the game
- describe_cell: Markers on one cell and the properties they carry
- solve_level: Shortest winning sequence from the current board

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional level selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": map[string]any{
					"type":        "string",
					"description": "Level to load, as listed by list_configs (optional, defaults to level_1)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, active rules and outcome",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move everything that IS YOU one cell in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"direction": map[string]any{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]any{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Execute multiple moves in sequence. Every move is applied, even after a win.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"moves": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
				"path": map[string]any{
					"type":        "string",
					"description": "Compact alternative to moves, e.g. \"RRRUL\"",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]any{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the level to its initial board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"page": map[string]any{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "List the markers on one cell and the properties each carries under the current rules",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"x": map[string]any{
					"type":        "integer",
					"description": "X coordinate (column) of the cell, 0-based",
				},
				"y": map[string]any{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell, 0-based",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_level",
		Description: "Search for the shortest winning move sequence from the current board. Does not change the game.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"max_depth": map[string]any{
					"type":        "integer",
					"description": "Longest sequence to consider (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSolve)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
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
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil {
			if msg, ok := errResp["error"]; ok {
				return fmt.Errorf("%s", msg)
			}
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads a JSON number argument
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		outcome := "ongoing"
		if s.GameState != nil {
			outcome = s.GameState.Outcome.String()
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Outcome: %s, Created: %s)\n",
			s.ID, s.ConfigName, outcome, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	reset, _ := args["reset"].(bool)
	// intent is rubber duck debugging for the caller; nothing reads it

	body := map[string]any{
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]any)
	path, _ := args["path"].(string)
	reset, _ := args["reset"].(bool)

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}
	if len(moves) == 0 && path == "" {
		return mcp.NewToolResultError("either moves or path is required"), nil
	}

	body := map[string]any{
		"moves": moves,
		"path":  path,
		"reset": reset,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)

	// Also fetch the current segment from live state
	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err == nil {
		result += "\n" + formatCurrentSegment(&state)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Levels:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Grid: %dx%d\n  Rules: %s\n\n",
			config.Name, config.ConfigID, config.Description,
			config.Width, config.Height, strings.Join(config.Rules, "; "))
	}

	return mcp.NewToolResultText(b.String()), nil
}

const instructions = `Rule Grid - Complete Instructions

GAME OBJECTIVE:
Move a piece that IS YOU onto a cell holding something that IS WIN.

RULES:
Rules are three-word sentences written with text tiles on the board:
a noun (BABA, FLAG, WALL, ROCK), the word IS, then a property.
Sentences read left to right or top to bottom. The rules in force are
listed with every game state.

PROPERTIES:
• YOU  - moves when you move. Several kinds can be YOU at once.
• WIN  - touching it while YOU wins the level.
• STOP - blocks movement into its cell.
• PUSH - gets shoved one cell ahead when something moves into it.
  Pushes chain: a line of pushable pieces moves together, unless the
  piece at the far end would be blocked.
Text tiles are always pushable.

GRID LEGEND:
• B - Baba
• F - Flag
• # - Wall
• o - Rock
• T - Text tile
• . - Empty

MOVEMENT:
- up, down, left, right - every YOU piece steps one cell
- Moves into the board edge or a STOP cell do nothing
- A winning move does not end the session: later moves still apply,
  but the win is kept until you reset

TOOLS:
- describe_cell tells you exactly what stands on a cell and which
  properties it has
- bulk_move accepts a compact path such as "RRRRUL"
- solve_level returns the shortest winning sequence from the current board

VICTORY:
- The outcome switches to "win" and the board shows "VICTORY!"

Good luck!`

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}
	if x < 0 || y < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds", x, y)), nil
	}

	var cell service.CellInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, fmt.Sprintf("/cells/%d/%d", x, y)), nil, &cell); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCell(&cell)), nil
}

func (c *Client) handleSolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)

	var opts service.SolveOptions
	if depth, ok := intArg(args, "max_depth"); ok {
		opts.MaxDepth = depth
	}

	var result service.SolveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/solve"), opts, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSolveResult(&result)), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatPositions(ps []engine.Position) string {
	if len(ps) == 0 {
		return "none"
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Level: %s | Grid: %dx%d | You: %s | Outcome: %s | Moves: %d\n",
		state.ConfigName, state.Width, state.Height,
		formatPositions(state.Movers), state.Outcome, state.TotalMoves)

	if len(state.Rules) > 0 {
		b.WriteString("Rules: ")
		b.WriteString(strings.Join(state.Rules, "; "))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, row := range state.Rows {
		b.WriteString(row)
		b.WriteString("\n")
	}

	if state.GameOver {
		if state.Victory {
			b.WriteString("\n🎉 VICTORY!")
		} else {
			b.WriteString("\n💀 GAME OVER")
		}
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Nothing moved\n")
	}

	if r := result.Report; r != nil {
		for _, m := range r.Movers {
			status := "✗"
			if m.Moved {
				status = "✓"
			}
			fmt.Fprintf(&b, "%s %s (%d,%d)→(%d,%d)", status, m.Marker, m.From.X, m.From.Y, m.To.X, m.To.Y)
			if len(m.Pushed) > 0 {
				fmt.Fprintf(&b, " pushed %d", len(m.Pushed))
			}
			b.WriteString("\n")
		}
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s\n", sessionID, configName)

	fmt.Fprintf(&b, "Executed %d/%d moves, %d blocked\n",
		result.MovesExecuted, result.RequestedMoves, result.BlockedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to %d moves\n", result.Limit)
	}
	if result.WonOnMove > 0 {
		fmt.Fprintf(&b, "Won on move %d\n", result.WonOnMove)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for _, s := range result.Steps {
			b.WriteString(formatStepLine(s))
		}
	}

	fmt.Fprintf(&b, "\nStart: %s → End: %s\n", formatPositions(result.StartMovers), formatPositions(result.EndMovers))
	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(result.PossibleMoves, ","))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

// formatStepLine renders a single compact step line
func formatStepLine(s service.StepInfo) string {
	status := "✗"
	if s.Moved {
		status = "✓"
	}
	line := fmt.Sprintf("%d. %s %s", s.Idx, s.Dir, status)
	if s.Pushes > 0 {
		line += fmt.Sprintf(" pushes=%d", s.Pushes)
	}
	if s.Outcome != engine.Ongoing {
		line += " " + s.Outcome.String()
	}
	return line + "\n"
}

func formatCell(cell *service.CellInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell at position (%d, %d):\n━━━━━━━━━━━━━━━━━━━━━━━━\n", cell.X, cell.Y)
	if len(cell.Markers) == 0 {
		b.WriteString("Empty\n")
		return b.String()
	}

	names := make([]string, 0, len(cell.Markers))
	for name := range cell.Markers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		props := cell.Markers[name]
		if len(props) == 0 {
			fmt.Fprintf(&b, "%s: no properties\n", name)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", name, strings.ToUpper(strings.Join(props, ", ")))
	}
	return b.String()
}

func formatSolveResult(result *service.SolveResult) string {
	if result.Length == 0 {
		return fmt.Sprintf("Already won. Explored %d states.", result.Explored)
	}
	compact := make([]string, len(result.Moves))
	for i, m := range result.Moves {
		compact[i] = strings.ToUpper(m[:1])
	}
	return fmt.Sprintf("Solution (%d moves, %d states explored):\n%s\nPath: %s",
		result.Length, result.Explored, strings.Join(result.Moves, ", "), strings.Join(compact, ""))
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d), total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		b.WriteString(formatHistoryEntry(move.MoveNumber, move))
	}

	return b.String()
}

func formatHistoryEntry(num int, move engine.MoveHistoryEntry) string {
	status := "✓"
	if !move.Moved {
		status = "✗"
	}
	line := fmt.Sprintf("%d. %s %s", num, move.Action, status)
	if move.Pushes > 0 {
		line += fmt.Sprintf(" [pushes: %d]", move.Pushes)
	}
	if move.Outcome != engine.Ongoing {
		line += " [" + move.Outcome.String() + "]"
	}
	return line + "\n"
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return "Current Segment: unavailable"
	}
	header := fmt.Sprintf("Current Move Segment, moves: %d\n\n", state.CurrentMovesCount)
	if len(state.CurrentMoves) == 0 {
		return header + "(no moves in current segment)"
	}
	var b strings.Builder
	b.WriteString(header)
	for i, move := range state.CurrentMoves {
		b.WriteString(formatHistoryEntry(i+1, move))
	}
	return b.String()
}
