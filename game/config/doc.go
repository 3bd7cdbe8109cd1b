// Package config loads rule-grid level configurations from a directory of
// JSON files.
//
// A level file names its grid size, an optional character layout with a
// legend, extra marker placements and lines, the rule sentences to spell
// on the grid, and the messages shown to players. Every file is checked
// with engine.ValidateLevelConfig, which builds the level once, before it
// is cached.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.LoadConfig("level_2")
//	configs, err := manager.ListConfigs()
//
// The default configuration is level_1.json when present, otherwise the
// first valid file, otherwise the built-in level from
// engine.DefaultLevelConfig.
package config
