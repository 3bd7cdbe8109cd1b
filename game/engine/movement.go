package engine

import (
	"strings"
	"time"
)

// GetLocalView lists the 8 cells around the first piece that is You,
// clockwise from north. It is empty when nothing is You.
func (e *GameEngine) GetLocalView() []SurroundingCell {
	movers := e.GetMovers()
	if len(movers) == 0 {
		return nil
	}
	return localView(e.level.Grid(), movers[0])
}

func localView(grid *Grid, center Position) []SurroundingCell {
	directions := []struct{ dx, dy int }{
		{0, -1},  // North
		{1, -1},  // North-East
		{1, 0},   // East
		{1, 1},   // South-East
		{0, 1},   // South
		{-1, 1},  // South-West
		{-1, 0},  // West
		{-1, -1}, // North-West
	}

	surroundings := make([]SurroundingCell, len(directions))
	for i, dir := range directions {
		x, y := center.X+dir.dx, center.Y+dir.dy
		surroundings[i] = SurroundingCell{
			X:      x,
			Y:      y,
			InGrid: grid.InBounds(x, y),
		}
		if surroundings[i].InGrid {
			surroundings[i].Markers = markerNames(grid.CellAt(x, y))
		}
	}
	return surroundings
}

// addMoveToHistory appends to both the cumulative history and the current
// segment
func (e *GameEngine) addMoveToHistory(report *MoveReport) {
	pushes := 0
	for _, mover := range report.Movers {
		pushes += len(mover.Pushed)
	}

	entry := MoveHistoryEntry{
		Action:     report.Direction.String(),
		Outcome:    report.Outcome,
		Moved:      report.Moved(),
		Pushes:     pushes,
		Timestamp:  time.Now().Unix(),
		MoveNumber: e.totalMoves + 1,
	}
	e.history = append(e.history, entry)
	e.totalMoves++
	e.currentMoves = append(e.currentMoves, entry)
}

func markerNames(cell SquareSet) []string {
	names := []string{}
	for m := range cell.Markers() {
		names = append(names, m.String())
	}
	return names
}

// renderRows draws one string per row: one glyph per cell, picking the
// entity piece over text when a cell is shared
func renderRows(grid *Grid) []string {
	rows := make([]string, grid.Height())
	for y := range grid.Height() {
		var b strings.Builder
		for x := range grid.Width() {
			b.WriteByte(glyph(grid.CellAt(x, y)))
		}
		rows[y] = b.String()
	}
	return rows
}

func occupiedCells(grid *Grid) []Cell {
	cells := []Cell{}
	for y := range grid.Height() {
		for x := range grid.Width() {
			cell := grid.CellAt(x, y)
			if cell.IsEmpty() {
				continue
			}
			cells = append(cells, Cell{X: x, Y: y, Markers: markerNames(cell)})
		}
	}
	return cells
}

var entityGlyphs = [...]byte{
	EntityBaba: 'B',
	EntityFlag: 'F',
	EntityWall: '#',
	EntityRock: 'o',
}

func glyph(cell SquareSet) byte {
	if cell.IsEmpty() {
		return '.'
	}
	var text bool
	for m := range cell.Markers() {
		if !m.IsText {
			return entityGlyphs[m.Piece]
		}
		text = true
	}
	if text {
		return 'T'
	}
	return '?'
}
