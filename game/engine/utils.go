package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// CountMarkers returns how many instances of each marker the level holds,
// keyed by marker name. Absent markers are left out.
func CountMarkers(level *Level) map[string]int {
	counts := make(map[string]int)
	for i := range MarkerCount {
		m, _ := MarkerFromIndex(i)
		if n := len(level.Grid().TrackedOffsets(m)); n > 0 {
			counts[m.String()] = n
		}
	}
	return counts
}

// CellsWithProperty returns every position whose cell has the property
// under the level's current rules
func CellsWithProperty(level *Level, p Property) []Position {
	var positions []Position
	grid, rules := level.Grid(), level.Rules()
	for offset := range grid.Len() {
		if rules.SquareHasProperty(grid.Cell(offset), p) {
			x, y := grid.Coordinates(offset)
			positions = append(positions, Position{X: x, Y: y})
		}
	}
	return positions
}

// FindNearestWin finds the Win cell closest to the given position and
// returns its position and distance
func FindNearestWin(level *Level, from Position) (Position, int, bool) {
	minDistance := -1
	var nearestPos Position
	found := false

	for _, pos := range CellsWithProperty(level, PropertyWin) {
		distance := ManhattanDistance(from, pos)
		if minDistance == -1 || distance < minDistance {
			minDistance = distance
			nearestPos = pos
			found = true
		}
	}

	return nearestPos, minDistance, found
}

// DescribeCell lists the markers on (x, y) together with the properties
// each one carries under the level's rules
func DescribeCell(level *Level, x, y int) (map[string][]string, error) {
	grid := level.Grid()
	if !grid.InBounds(x, y) {
		return nil, ErrOutOfBounds
	}
	rules := level.Rules()
	desc := make(map[string][]string)
	for m := range grid.CellAt(x, y).Markers() {
		props := []string{}
		for p := range PropertyCount {
			if rules.HasRule(m.Entity(), Property(p)) {
				props = append(props, Property(p).String())
			}
		}
		desc[m.String()] = props
	}
	return desc, nil
}
