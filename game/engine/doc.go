// Package engine provides the core game logic for rule grid puzzles.
//
// A level is a rectangular grid whose cells hold stacks of markers. A marker
// is either an entity piece (baba, flag, wall, rock) or a word block (BABA,
// IS, YOU, ...). The rule table attaches properties to entity kinds:
//   - You: pieces of that kind move with the player's input
//   - Win: a You piece stepping onto it wins the level
//   - Stop: blocks movement
//   - Push: gets shoved ahead of a mover, possibly in a chain
//
// Word blocks are always pushable. Rules are declared while authoring a
// level and never re-derived from the words lying on the grid.
//
// Core Types:
//
// Grid stores one SquareSet bitset per cell plus a reverse index from each
// marker to the cells holding it. Level pairs a Grid with a RuleManager and
// offers the authoring calls (PlaceMarker, PlaceLine, DeclareRule) and the
// move interpreter (ApplyMove, ApplyMoveSequence, ResolveMove). LevelConfig
// is the JSON description of a level and GameEngine wraps a Level with
// history and messages for the outer layers.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultLevelConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	report, err := gameEngine.Move("right")
//	state := gameEngine.GetState()
//
// Move resolution:
//
// Every move is resolved against a snapshot taken before the move, so all
// You pieces move simultaneously. Relocations are collected in a plan and
// written to the live grid once every mover has been resolved.
package engine
