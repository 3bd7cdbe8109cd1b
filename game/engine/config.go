package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MarkerPlacement puts a single marker on one cell
type MarkerPlacement struct {
	Marker string `json:"marker"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// LinePlacement repeats a marker along a row or column
type LinePlacement struct {
	Marker      string `json:"marker"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Length      int    `json:"length"`
	Orientation string `json:"orientation,omitempty"`
}

// RuleSentence is a three-word rule such as ["baba", "is", "you"], written
// on the grid from (X, Y) and activated in the rule table
type RuleSentence struct {
	Words       []string `json:"words"`
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Orientation string   `json:"orientation,omitempty"`
}

// LevelMessages holds the texts shown to the player
type LevelMessages struct {
	Welcome string `json:"welcome"`
	Victory string `json:"victory"`
	Defeat  string `json:"defeat,omitempty"`
	Blocked string `json:"blocked,omitempty"`
	Moved   string `json:"moved,omitempty"`
}

// LevelConfig is the declarative description of a level, loaded from JSON.
// Layout rows use Legend to map characters to marker names; '.' and ' ' are
// empty cells. Lines, Markers and Rules are applied after the layout.
type LevelConfig struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Layout      []string          `json:"layout,omitempty"`
	Legend      map[string]string `json:"legend,omitempty"`
	Lines       []LinePlacement   `json:"lines,omitempty"`
	Markers     []MarkerPlacement `json:"markers,omitempty"`
	Rules       []RuleSentence    `json:"rules,omitempty"`
	Messages    LevelMessages     `json:"messages"`
}

// ValidateLevelConfig validates a level configuration for correctness
func ValidateLevelConfig(config *LevelConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Width < MinGridSize || config.Width > MaxGridSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Width)
	}
	if config.Height < MinGridSize || config.Height > MaxGridSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Height)
	}

	if len(config.Layout) > 0 {
		if len(config.Layout) != config.Height {
			return fmt.Errorf("config validation: layout must have %d rows to match height, got %d",
				config.Height, len(config.Layout))
		}
		for i, row := range config.Layout {
			if len(row) != config.Width {
				return fmt.Errorf("config validation: row %d must have %d characters to match width, got %d",
					i+1, config.Width, len(row))
			}
		}
	}
	for key, name := range config.Legend {
		if len(key) != 1 || key == "." || key == " " {
			return fmt.Errorf("config validation: legend key %q must be a single non-blank character", key)
		}
		if _, err := ParseMarker(name); err != nil {
			return fmt.Errorf("config validation: legend[%q]: %v", key, err)
		}
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}

	// Authoring errors (bad names, collisions, bad sentences) only show up
	// when the level is actually built.
	if _, err := BuildLevel(config); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

// BuildLevel creates a Level and populates it through the authoring API:
// layout first, then lines, single markers and rule sentences.
func BuildLevel(config *LevelConfig) (*Level, error) {
	level, err := NewLevel(config.Width, config.Height)
	if err != nil {
		return nil, err
	}

	for y, row := range config.Layout {
		for x, char := range row {
			if char == '.' || char == ' ' {
				continue
			}
			name, ok := config.Legend[string(char)]
			if !ok {
				return nil, fmt.Errorf("layout (%d,%d): character '%c' is not in the legend", x, y, char)
			}
			m, err := ParseMarker(name)
			if err != nil {
				return nil, fmt.Errorf("layout (%d,%d): %w", x, y, err)
			}
			if err := level.PlaceMarker(m, Position{X: x, Y: y}); err != nil {
				return nil, err
			}
		}
	}

	for i, line := range config.Lines {
		m, err := ParseMarker(line.Marker)
		if err != nil {
			return nil, fmt.Errorf("lines[%d]: %w", i, err)
		}
		o, err := ParseOrientation(line.Orientation)
		if err != nil {
			return nil, fmt.Errorf("lines[%d]: %w", i, err)
		}
		if err := level.PlaceLine(m, Position{X: line.X, Y: line.Y}, line.Length, o); err != nil {
			return nil, fmt.Errorf("lines[%d]: %w", i, err)
		}
	}

	for i, p := range config.Markers {
		m, err := ParseMarker(p.Marker)
		if err != nil {
			return nil, fmt.Errorf("markers[%d]: %w", i, err)
		}
		if err := level.PlaceMarker(m, Position{X: p.X, Y: p.Y}); err != nil {
			return nil, fmt.Errorf("markers[%d]: %w", i, err)
		}
	}

	for i, rule := range config.Rules {
		if len(rule.Words) != 3 {
			return nil, fmt.Errorf("rules[%d]: %w: need 3 words, got %d", i, ErrInvalidRuleSentence, len(rule.Words))
		}
		var sentence [3]Word
		for j, name := range rule.Words {
			w, err := ParseWord(name)
			if err != nil {
				return nil, fmt.Errorf("rules[%d]: %w", i, err)
			}
			sentence[j] = w
		}
		o, err := ParseOrientation(rule.Orientation)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		if err := level.DeclareRule(sentence, Position{X: rule.X, Y: rule.Y}, o); err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
	}

	return level, nil
}

// LoadLevelConfig loads a level configuration from a JSON file
func LoadLevelConfig(filename string) (*LevelConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse level file '%s': %w", filename, err)
	}

	if err := ValidateLevelConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultLevelName is the name of the built-in level
const DefaultLevelName = "level_1"

// DefaultLevelConfig returns the built-in first level: Baba walks along a
// walled corridor, pushes a column of rocks and reaches the flag.
func DefaultLevelConfig() *LevelConfig {
	return &LevelConfig{
		Name:        DefaultLevelName,
		Description: "Walk Baba through the corridor, push the rocks aside and touch the flag",
		Width:       15,
		Height:      11,
		Lines: []LinePlacement{
			{Marker: "wall", X: 2, Y: 3, Length: 11, Orientation: "horizontal"},
			{Marker: "wall", X: 2, Y: 7, Length: 11, Orientation: "horizontal"},
			{Marker: "rock", X: 7, Y: 4, Length: 3, Orientation: "vertical"},
		},
		Markers: []MarkerPlacement{
			{Marker: "baba", X: 3, Y: 5},
			{Marker: "flag", X: 11, Y: 5},
		},
		Rules: []RuleSentence{
			{Words: []string{"baba", "is", "you"}, X: 2, Y: 1, Orientation: "horizontal"},
			{Words: []string{"flag", "is", "win"}, X: 10, Y: 1, Orientation: "horizontal"},
			{Words: []string{"wall", "is", "stop"}, X: 2, Y: 9, Orientation: "horizontal"},
			{Words: []string{"rock", "is", "push"}, X: 10, Y: 9, Orientation: "horizontal"},
		},
		Messages: LevelMessages{
			Welcome: "BABA IS YOU. Reach the flag to win.",
			Victory: "FLAG IS WIN. Level complete!",
			Defeat:  "Nothing left that IS YOU. Game over!",
			Blocked: "Nothing moved.",
			Moved:   "Moved %s.",
		},
	}
}
