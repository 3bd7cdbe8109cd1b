// Package mcp exposes the rule-grid puzzle to AI agents over the Model
// Context Protocol.
//
// The Client registers one MCP tool per game operation and proxies every
// call to the REST API, so agents and browsers share the same sessions and
// WebSocket updates.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: board rows, active rules, You positions and outcome
//   - move, bulk_move: one step or a sequence (moves array or compact path)
//   - reset_game: restore the initial board
//   - move_history: paginated cumulative history plus the current segment
//   - list_configs: available levels with their rules
//   - game_instructions: rules of the game
//   - describe_cell: markers on a cell and the properties they carry
//   - solve_level: shortest winning sequence from the current board
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
