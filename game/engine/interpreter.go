package engine

import (
	"cmp"
	"fmt"
	"slices"
)

// Relocation records one marker moving one cell
type Relocation struct {
	Marker Marker   `json:"marker"`
	From   Position `json:"from"`
	To     Position `json:"to"`
}

// MoverResult is the resolution of one You-tagged piece for one move
type MoverResult struct {
	Marker  Marker       `json:"marker"`
	From    Position     `json:"from"`
	To      Position     `json:"to"`
	Moved   bool         `json:"moved"`
	Outcome Outcome      `json:"outcome"`
	Pushed  []Relocation `json:"pushed,omitempty"`
}

// MoveReport describes everything a single move did
type MoveReport struct {
	Direction   Direction     `json:"direction"`
	Outcome     Outcome       `json:"outcome"`
	Movers      []MoverResult `json:"movers"`
	Relocations []Relocation  `json:"relocations"`
}

// Moved reports whether any marker changed cell
func (r *MoveReport) Moved() bool {
	return len(r.Relocations) > 0
}

// ApplyMove resolves one move against the level and returns its outcome
func (l *Level) ApplyMove(dir Direction) Outcome {
	return l.ResolveMove(dir).Outcome
}

// ApplyMoveSequence applies every move in order and folds the outcomes with
// Combine. It does not stop once a terminal outcome is reached.
func (l *Level) ApplyMoveSequence(moves []Direction) Outcome {
	outcome := Ongoing
	for _, dir := range moves {
		outcome = Combine(outcome, l.ApplyMove(dir))
	}
	return outcome
}

// ResolveMove applies one move and reports the per-mover detail.
//
// Every decision reads a snapshot taken before the move; only the live
// level is written, once all movers are resolved. Movers therefore move
// simultaneously even though they are resolved one after another.
func (l *Level) ResolveMove(dir Direction) *MoveReport {
	r := &resolver{
		dir:      dir,
		snapshot: l.Clone(),
		planned:  make(map[planKey]bool),
	}
	report := &MoveReport{Direction: dir, Outcome: Ongoing}

	for _, kind := range r.snapshot.rules.EntitiesWith(PropertyYou) {
		mover := EntityMarker(kind)
		if !mover.Valid() {
			continue
		}
		for _, offset := range r.snapshot.grid.TrackedOffsets(mover) {
			before := len(r.plan)
			outcome, moved := r.moveEntity(offset, mover)

			result := MoverResult{
				Marker:  mover,
				From:    r.position(offset),
				To:      r.position(offset),
				Moved:   moved,
				Outcome: outcome,
			}
			if moved {
				dest, _ := r.snapshot.grid.Neighbor(offset, dir)
				result.To = r.position(dest)
			}
			for _, step := range r.plan[before:] {
				if step.marker == mover && step.from == offset {
					continue
				}
				result.Pushed = append(result.Pushed, r.relocation(step))
			}
			report.Movers = append(report.Movers, result)
			report.Outcome = Combine(report.Outcome, outcome)
		}
	}

	for _, step := range r.plan {
		report.Relocations = append(report.Relocations, r.relocation(step))
	}
	l.apply(dir, r.plan)
	return report
}

type planKey struct {
	marker Marker
	from   int
}

type planStep struct {
	marker Marker
	from   int
	to     int
}

type resolver struct {
	dir      Direction
	snapshot *Level
	plan     []planStep
	planned  map[planKey]bool
}

// moveEntity resolves one marker stepping out of offset. Pushable markers in
// the way are pushed recursively; the recursion follows a single direction
// so its depth is bounded by the grid size.
func (r *resolver) moveEntity(offset int, m Marker) (Outcome, bool) {
	grid, rules := r.snapshot.grid, &r.snapshot.rules

	dest, ok := grid.Neighbor(offset, r.dir)
	if !ok {
		return Ongoing, false
	}
	// The origin cell is checked, not the destination: a marker standing on
	// a Stop cell cannot leave it.
	if rules.SquareHasProperty(grid.Cell(offset), PropertyStop) {
		return Ongoing, false
	}

	target := grid.Cell(dest)
	// A Stop marker that is not also Push blocks the destination; this is
	// what keeps a pushed chain from entering a wall.
	for other := range target.Markers() {
		kind := other.Entity()
		if rules.HasRule(kind, PropertyStop) && !rules.HasRule(kind, PropertyPush) {
			return Ongoing, false
		}
	}

	outcome := Ongoing
	needsPush, pushed := false, false
	for other := range target.Markers() {
		if !rules.HasRule(other.Entity(), PropertyPush) {
			continue
		}
		needsPush = true
		if result, moved := r.moveEntity(dest, other); moved {
			outcome = result
			pushed = true
			break
		}
	}
	if needsPush && !pushed {
		return Ongoing, false
	}

	r.relocate(m, offset, dest)
	if rules.HasRule(m.Entity(), PropertyYou) && rules.SquareHasProperty(target, PropertyWin) {
		outcome = Combine(outcome, Win)
	}
	return outcome, true
}

// relocate records the move in the plan. A marker leaves a given cell at
// most once per move.
func (r *resolver) relocate(m Marker, from, to int) {
	key := planKey{marker: m, from: from}
	if r.planned[key] {
		return
	}
	r.planned[key] = true
	r.plan = append(r.plan, planStep{marker: m, from: from, to: to})
}

func (r *resolver) position(offset int) Position {
	x, y := r.snapshot.grid.Coordinates(offset)
	return Position{X: x, Y: y}
}

func (r *resolver) relocation(step planStep) Relocation {
	return Relocation{Marker: step.marker, From: r.position(step.from), To: r.position(step.to)}
}

// apply writes the plan to the live grid. All steps share one direction, so
// applying them front to back means a marker's destination has already been
// vacated by anything planned to leave it, which keeps the moves
// simultaneous.
func (l *Level) apply(dir Direction, plan []planStep) {
	dx, dy := dir.Delta()
	lead := func(offset int) int {
		x, y := l.grid.Coordinates(offset)
		return x*dx + y*dy
	}
	ordered := slices.Clone(plan)
	slices.SortStableFunc(ordered, func(a, b planStep) int {
		return cmp.Compare(lead(b.from), lead(a.from))
	})
	for _, step := range ordered {
		if err := l.grid.MoveMarker(step.marker, step.from, step.to); err != nil {
			panic(fmt.Sprintf("engine: live grid diverged from snapshot: %v", err))
		}
	}
}
