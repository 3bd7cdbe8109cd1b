// Package service provides the business logic layer for the rule-grid puzzle server.
//
// The service package implements:
//   - Multi-session level management
//   - Level configuration loading and saving
//   - Move processing and validation
//   - Shortest-solution search through the solver
//   - Move history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages level configuration loading and validation.
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the engine. Each session owns its own engine instance with independent
// level state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "level_1")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, sessionInfo.ID, "right", false)
//
// Sessions are identified by short lowercase IDs. A session keeps the
// cumulative move history across resets.
package service
