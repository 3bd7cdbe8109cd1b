// Package api provides the HTTP REST handlers for the rule-grid puzzle server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "level_2"}, empty body for the default level)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - {"direction": "up", "reset": false}
//   - POST /api/sessions/{id}/bulk-move - {"moves": ["up","right"]} or {"path": "URRD"}
//   - POST /api/sessions/{id}/reset - Restore the initial level
//   - GET /api/sessions/{id}/history - Paginated move history (?page=1&limit=20&order=desc)
//   - POST /api/sessions/{id}/solve - Shortest winning sequence ({"max_depth": 64, "max_states": 200000})
//   - GET /api/sessions/{id}/cells/{x}/{y} - Markers on a cell and their properties
//
// Configuration:
//   - GET /api/configs - List levels
//   - GET /api/configs/{name} - Full level definition
//   - POST /api/configs - Validate and store a level
//
// WebSocket:
//   - GET /ws?session={id} - Live state updates for one session
//
// Errors are returned as {"error": "..."}. Unknown sessions and levels map
// to 404, bad directions and out-of-grid cells to 400, unsolvable levels to
// 422 and solver timeouts to 504.
package api
