// Package solver searches for the shortest move sequence that wins a level.
//
// The search is breadth-first over whole-level states: every node is a
// clone of the level, every edge one ApplyMove. States are deduplicated by
// the grid's canonical key, which is enough because rules never change
// during play.
package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/rulegrid/game/engine"
)

const (
	DefaultMaxDepth  = 64
	DefaultMaxStates = 200000
)

var (
	ErrNoSolution = errors.New("no winning sequence within depth limit")
	ErrStateLimit = errors.New("state limit reached before a solution was found")
)

// Options bounds the search
type Options struct {
	MaxDepth  int
	MaxStates int
}

// Result is a winning sequence plus search statistics
type Result struct {
	Moves    []engine.Direction `json:"moves"`
	Explored int                `json:"explored"`
}

// MoveNames returns the moves as direction names
func (r *Result) MoveNames() []string {
	names := make([]string, len(r.Moves))
	for i, m := range r.Moves {
		names[i] = m.String()
	}
	return names
}

type node struct {
	level *engine.Level
	path  []engine.Direction
}

// Solve runs the search from the given level, which is left untouched.
func Solve(ctx context.Context, start *engine.Level, opts Options) (*Result, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxStates <= 0 {
		opts.MaxStates = DefaultMaxStates
	}

	root := start.Clone()
	if len(root.Rules().EntitiesWith(engine.PropertyYou)) == 0 {
		return nil, fmt.Errorf("%w: nothing is you", ErrNoSolution)
	}

	queue := []node{{level: root, path: []engine.Direction{}}}
	visited := make(map[string]bool)
	visited[root.Grid().Key()] = true
	explored := 0

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]
		explored++

		if len(current.path) >= opts.MaxDepth {
			continue
		}

		for _, dir := range engine.Directions {
			next := current.level.Clone()
			report := next.ResolveMove(dir)
			if !report.Moved() {
				continue
			}

			newPath := append([]engine.Direction{}, current.path...)
			newPath = append(newPath, dir)

			if report.Outcome == engine.Win {
				return &Result{Moves: newPath, Explored: explored}, nil
			}

			key := next.Grid().Key()
			if visited[key] {
				continue
			}
			if len(visited) >= opts.MaxStates {
				return nil, fmt.Errorf("%w (%d states)", ErrStateLimit, len(visited))
			}
			visited[key] = true
			queue = append(queue, node{level: next, path: newPath})
		}
	}

	return nil, ErrNoSolution
}
