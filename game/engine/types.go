package engine

import (
	"fmt"
	"strings"
)

const (
	// Validation constants
	MinGridSize  = 1
	MaxGridSize  = 64
	MaxBulkMoves = 200
)

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is one of the four moves a player can make
type Direction uint8

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Directions lists every move in declaration order
var Directions = []Direction{Left, Right, Up, Down}

var directionNames = [...]string{"left", "right", "up", "down"}

// Delta returns the unit step of the direction; y grows downwards
func (d Direction) Delta() (int, int) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	}
	return 0, 0
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// ParseDirection accepts "left", "right", "up", "down" and their first letters
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// ParseDirections parses every entry, failing on the first bad one
func ParseDirections(moves []string) ([]Direction, error) {
	dirs := make([]Direction, 0, len(moves))
	for i, m := range moves {
		d, err := ParseDirection(m)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

// ParseMoveString reads compact sequences such as "RRUL" or "r r u l".
// Commas and whitespace are ignored.
func ParseMoveString(s string) ([]Direction, error) {
	var moves []string
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', ',':
			continue
		}
		moves = append(moves, string(r))
	}
	return ParseDirections(moves)
}

// Orientation is the axis along which authoring lines are laid out
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Delta returns the unit step of the orientation
func (o Orientation) Delta() (int, int, error) {
	switch o {
	case Horizontal:
		return 1, 0, nil
	case Vertical:
		return 0, 1, nil
	}
	return 0, 0, fmt.Errorf("%w: %d", ErrUnknownOrientation, uint8(o))
}

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseOrientation accepts "horizontal"/"h" and "vertical"/"v". An empty
// string means horizontal.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOrientation, s)
}

// Outcome is the end state reached by a move or sequence of moves
type Outcome uint8

const (
	Ongoing Outcome = iota
	Win
	Defeat
)

// Combine folds two outcomes: Win beats Defeat, Defeat beats Ongoing
func Combine(a, b Outcome) Outcome {
	switch {
	case a == Win || b == Win:
		return Win
	case a == Defeat || b == Defeat:
		return Defeat
	}
	return Ongoing
}

// Terminal reports whether the outcome ends the game
func (o Outcome) Terminal() bool {
	return o == Win || o == Defeat
}

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Defeat:
		return "defeat"
	}
	return "ongoing"
}

// Cell is the JSON view of one grid cell
type Cell struct {
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Markers []string `json:"markers"`
}

// SurroundingCell represents a cell with its absolute position
type SurroundingCell struct {
	X       int      `json:"x"`
	Y       int      `json:"y"`
	InGrid  bool     `json:"in_grid"`
	Markers []string `json:"markers,omitempty"`
}

// GameState is the serializable view of a running level
type GameState struct {
	ConfigName  string             `json:"config_name"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Rows        []string           `json:"rows"`
	Cells       []Cell             `json:"cells"`
	Rules       []string           `json:"rules"`
	Movers      []Position         `json:"movers"`
	Outcome     Outcome            `json:"outcome"`
	GameOver    bool               `json:"game_over"`
	Victory     bool               `json:"victory"`
	Message     string             `json:"message"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	LocalView []SurroundingCell `json:"local_view,omitempty"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action     string  `json:"action"`
	Outcome    Outcome `json:"outcome"`
	Moved      bool    `json:"moved"`
	Pushes     int     `json:"pushes"`
	Timestamp  int64   `json:"timestamp"`
	MoveNumber int     `json:"move_number"`
}
