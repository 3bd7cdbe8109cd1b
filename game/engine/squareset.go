package engine

import (
	"iter"
	"math/bits"
	"strings"
)

// SquareSet is the set of markers stacked on one cell, packed as one bit per
// marker index. It is a value type: copying a SquareSet copies its contents.
type SquareSet uint16

// Add puts the marker in the set. Adding a present marker is a no-op.
func (s *SquareSet) Add(m Marker) {
	if i := m.Index(); i >= 0 {
		*s |= 1 << i
	}
}

// Remove takes the marker out of the set
func (s *SquareSet) Remove(m Marker) {
	if i := m.Index(); i >= 0 {
		*s &^= 1 << i
	}
}

// Contains reports whether the marker is in the set
func (s SquareSet) Contains(m Marker) bool {
	i := m.Index()
	return i >= 0 && s&(1<<i) != 0
}

// Len returns the number of markers in the set
func (s SquareSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

// IsEmpty reports whether nothing stands on the cell
func (s SquareSet) IsEmpty() bool {
	return s == 0
}

// Markers yields the contained markers in ascending index order
func (s SquareSet) Markers() iter.Seq[Marker] {
	return func(yield func(Marker) bool) {
		rest := uint16(s)
		for rest != 0 {
			i := bits.TrailingZeros16(rest)
			rest &= rest - 1
			if i >= MarkerCount {
				return
			}
			if !yield(markerIndex[i]) {
				return
			}
		}
	}
}

// String lists the markers joined by "+", or "." for an empty cell
func (s SquareSet) String() string {
	if s.IsEmpty() {
		return "."
	}
	names := make([]string, 0, s.Len())
	for m := range s.Markers() {
		names = append(names, m.String())
	}
	return strings.Join(names, "+")
}
