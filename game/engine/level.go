package engine

import (
	"fmt"
)

// Level owns one grid and one rule table. Authoring calls populate both
// before play; the interpreter mutates them during play.
type Level struct {
	grid  *Grid
	rules RuleManager
}

// NewLevel creates an empty level with the base rules
func NewLevel(width, height int) (*Level, error) {
	grid, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	return &Level{
		grid:  grid,
		rules: DefaultRuleManager(),
	}, nil
}

// Grid exposes the level grid
func (l *Level) Grid() *Grid { return l.grid }

// Rules exposes the level rule table
func (l *Level) Rules() *RuleManager { return &l.rules }

// Clone returns an independent deep copy of the level
func (l *Level) Clone() *Level {
	return &Level{
		grid:  l.grid.Clone(),
		rules: l.rules,
	}
}

// PlaceMarker adds one marker at one cell
func (l *Level) PlaceMarker(m Marker, pos Position) error {
	if !l.grid.InBounds(pos.X, pos.Y) {
		return fmt.Errorf("place %s: %w: (%d,%d)", m, ErrOutOfBounds, pos.X, pos.Y)
	}
	if err := l.grid.AddMarker(m, l.grid.LinearIndex(pos.X, pos.Y)); err != nil {
		return fmt.Errorf("place %s at (%d,%d): %w", m, pos.X, pos.Y, err)
	}
	return nil
}

// PlaceLine repeats PlaceMarker length times, stepping along the orientation
func (l *Level) PlaceLine(m Marker, start Position, length int, o Orientation) error {
	if length < 0 {
		return fmt.Errorf("place line of %s: negative length %d", m, length)
	}
	markers := make([]Marker, length)
	for i := range markers {
		markers[i] = m
	}
	return l.placeRun(markers, start, o)
}

// DeclareRule writes a three-word sentence such as BABA IS YOU along a line
// and activates the rule it states. The sentence must be noun, Is, property.
func (l *Level) DeclareRule(sentence [3]Word, start Position, o Orientation) error {
	noun, is, prop := sentence[0], sentence[1], sentence[2]
	if noun.Kind != WordNoun || !noun.Entity.Placeable() {
		return fmt.Errorf("%w: %q does not name an entity", ErrInvalidRuleSentence, noun)
	}
	if is.Kind != WordIs {
		return fmt.Errorf("%w: expected \"is\", got %q", ErrInvalidRuleSentence, is)
	}
	if prop.Kind != WordProperty || !prop.Property.valid() {
		return fmt.Errorf("%w: %q does not name a property", ErrInvalidRuleSentence, prop)
	}

	words := []Marker{WordMarker(noun), WordMarker(is), WordMarker(prop)}
	if err := l.placeRun(words, start, o); err != nil {
		return err
	}
	return l.rules.AddRule(noun.Entity, prop.Property)
}

// placeRun checks every placement before touching the grid, so a rejected
// run leaves the level unchanged.
func (l *Level) placeRun(markers []Marker, start Position, o Orientation) error {
	dx, dy, err := o.Delta()
	if err != nil {
		return err
	}

	offsets := make([]int, len(markers))
	for i, m := range markers {
		x, y := start.X+i*dx, start.Y+i*dy
		if !m.Valid() {
			return fmt.Errorf("place %s: %w", m, ErrUnknownMarker)
		}
		if !l.grid.InBounds(x, y) {
			return fmt.Errorf("place %s: %w: (%d,%d)", m, ErrOutOfBounds, x, y)
		}
		offset := l.grid.LinearIndex(x, y)
		if l.grid.Cell(offset).Contains(m) {
			return fmt.Errorf("place %s at (%d,%d): %w", m, x, y, ErrMarkerPresent)
		}
		for j := range i {
			if offsets[j] == offset && markers[j] == m {
				return fmt.Errorf("place %s at (%d,%d): %w", m, x, y, ErrMarkerPresent)
			}
		}
		offsets[i] = offset
	}

	for i, m := range markers {
		if err := l.grid.AddMarker(m, offsets[i]); err != nil {
			return err
		}
	}
	return nil
}

// Positions returns the coordinates of every instance of the marker
func (l *Level) Positions(m Marker) []Position {
	offsets := l.grid.TrackedOffsets(m)
	positions := make([]Position, len(offsets))
	for i, offset := range offsets {
		x, y := l.grid.Coordinates(offset)
		positions[i] = Position{X: x, Y: y}
	}
	return positions
}
