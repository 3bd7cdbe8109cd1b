package engine

import (
	"fmt"
	"slices"
	"strings"
)

// Grid is a fixed-size board of SquareSet cells plus a reverse index from
// each marker kind to the offsets currently holding it. An offset o is in
// tracked[m] exactly when m is in cells[o].
type Grid struct {
	width   int
	height  int
	cells   []SquareSet
	tracked [MarkerCount][]int
}

// NewGrid creates an empty width x height grid
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGridSize, width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]SquareSet, width*height),
	}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Len returns the number of cells
func (g *Grid) Len() int { return len(g.cells) }

// LinearIndex converts coordinates into an offset
func (g *Grid) LinearIndex(x, y int) int {
	return x + y*g.width
}

// Coordinates converts an offset back into coordinates
func (g *Grid) Coordinates(offset int) (int, int) {
	return offset % g.width, offset / g.width
}

// InBounds reports whether (x, y) lies on the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) validOffset(offset int) bool {
	return offset >= 0 && offset < len(g.cells)
}

// Neighbor returns the offset one step away in the given direction. The
// second result is false at the grid edge; there is no wraparound.
func (g *Grid) Neighbor(offset int, dir Direction) (int, bool) {
	if !g.validOffset(offset) {
		return 0, false
	}
	x, y := g.Coordinates(offset)
	dx, dy := dir.Delta()
	nx, ny := x+dx, y+dy
	if !g.InBounds(nx, ny) {
		return 0, false
	}
	return g.LinearIndex(nx, ny), true
}

// Cell returns a copy of the cell contents at offset
func (g *Grid) Cell(offset int) SquareSet {
	if !g.validOffset(offset) {
		return 0
	}
	return g.cells[offset]
}

// CellAt returns a copy of the cell contents at (x, y)
func (g *Grid) CellAt(x, y int) SquareSet {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.cells[g.LinearIndex(x, y)]
}

// TrackedOffsets returns, in tracking order, every offset holding the marker
func (g *Grid) TrackedOffsets(m Marker) []int {
	i := m.Index()
	if i < 0 {
		return nil
	}
	return slices.Clone(g.tracked[i])
}

// AddMarker places the marker on the cell and records the offset in the
// reverse index. Nothing changes when an error is returned.
func (g *Grid) AddMarker(m Marker, offset int) error {
	i := m.Index()
	if i < 0 {
		return &ConversionError{Kind: "marker", Value: i}
	}
	if !g.validOffset(offset) {
		return fmt.Errorf("%w: offset %d", ErrOutOfBounds, offset)
	}
	if g.cells[offset].Contains(m) {
		return fmt.Errorf("%w: %s at offset %d", ErrMarkerPresent, m, offset)
	}
	g.cells[offset].Add(m)
	g.tracked[i] = append(g.tracked[i], offset)
	return nil
}

// RemoveMarker takes the marker off the cell and drops exactly one
// occurrence of the offset from the reverse index.
func (g *Grid) RemoveMarker(m Marker, offset int) error {
	i := m.Index()
	if i < 0 {
		return &ConversionError{Kind: "marker", Value: i}
	}
	if !g.validOffset(offset) {
		return fmt.Errorf("%w: offset %d", ErrOutOfBounds, offset)
	}
	if !g.cells[offset].Contains(m) {
		return fmt.Errorf("%w: %s at offset %d", ErrMarkerAbsent, m, offset)
	}
	g.cells[offset].Remove(m)
	if at := slices.Index(g.tracked[i], offset); at >= 0 {
		g.tracked[i] = slices.Delete(g.tracked[i], at, at+1)
	}
	return nil
}

// MoveMarker relocates the marker from one cell to another. If the
// destination already holds the same marker kind the two merge, since a
// cell holds each marker kind at most once.
func (g *Grid) MoveMarker(m Marker, from, to int) error {
	if !g.validOffset(to) {
		return fmt.Errorf("%w: offset %d", ErrOutOfBounds, to)
	}
	if err := g.RemoveMarker(m, from); err != nil {
		return err
	}
	if g.cells[to].Contains(m) {
		return nil
	}
	return g.AddMarker(m, to)
}

// Clone returns an independent deep copy
func (g *Grid) Clone() *Grid {
	clone := &Grid{
		width:  g.width,
		height: g.height,
		cells:  slices.Clone(g.cells),
	}
	for i := range g.tracked {
		clone.tracked[i] = slices.Clone(g.tracked[i])
	}
	return clone
}

// Key returns a canonical encoding of the cell contents, independent of
// tracking order. Two grids with equal keys hold the same markers in the
// same places.
func (g *Grid) Key() string {
	var b strings.Builder
	b.Grow(len(g.cells) * 2)
	for _, cell := range g.cells {
		b.WriteByte(byte(cell))
		b.WriteByte(byte(cell >> 8))
	}
	return b.String()
}
