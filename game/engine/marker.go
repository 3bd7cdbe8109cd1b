package engine

import (
	"fmt"
	"strings"
)

// Entity is a kind of object that can stand on the grid
type Entity uint8

const (
	EntityBaba Entity = iota
	EntityFlag
	EntityWall
	EntityRock
	// EntityText is the kind every word marker collapses to
	EntityText
	// EntityEmpty is a bookkeeping sentinel and is never placed
	EntityEmpty

	EntityCount = int(EntityEmpty) + 1
)

var entityNames = [EntityCount]string{"baba", "flag", "wall", "rock", "text", "empty"}

// Property is an effect a rule attaches to an entity kind
type Property uint8

const (
	PropertyYou Property = iota
	PropertyWin
	PropertyStop
	PropertyPush

	PropertyCount = int(PropertyPush) + 1
)

var propertyNames = [PropertyCount]string{"you", "win", "stop", "push"}

// ConversionError reports a raw value that does not map to any member of a
// closed vocabulary. It signals malformed data, not a recoverable condition.
type ConversionError struct {
	Kind  string
	Value int
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion: %d is not a valid %s", e.Value, e.Kind)
}

// EntityFromIndex converts a raw value into an Entity
func EntityFromIndex(i int) (Entity, error) {
	if i < 0 || i >= EntityCount {
		return 0, &ConversionError{Kind: "entity", Value: i}
	}
	return Entity(i), nil
}

// PropertyFromIndex converts a raw value into a Property
func PropertyFromIndex(i int) (Property, error) {
	if i < 0 || i >= PropertyCount {
		return 0, &ConversionError{Kind: "property", Value: i}
	}
	return Property(i), nil
}

func (e Entity) valid() bool   { return int(e) < EntityCount }
func (p Property) valid() bool { return int(p) < PropertyCount }

// Placeable reports whether the entity kind can be put on the grid as a piece
func (e Entity) Placeable() bool {
	return e <= EntityRock
}

func (e Entity) String() string {
	if !e.valid() {
		return fmt.Sprintf("entity(%d)", uint8(e))
	}
	return entityNames[e]
}

func (p Property) String() string {
	if !p.valid() {
		return fmt.Sprintf("property(%d)", uint8(p))
	}
	return propertyNames[p]
}

// WordKind tells which part of a rule sentence a word can fill
type WordKind uint8

const (
	WordNoun WordKind = iota
	WordIs
	WordProperty
)

// Word is a text block. Nouns reference an Entity, property words reference
// a Property, and Is joins them. Only the field matching Kind is meaningful;
// constructors zero the other one so Words compare with ==.
type Word struct {
	Kind     WordKind
	Entity   Entity
	Property Property
}

// NounWord returns the word naming an entity kind
func NounWord(e Entity) Word { return Word{Kind: WordNoun, Entity: e} }

// PropertyWord returns the word naming a property
func PropertyWord(p Property) Word { return Word{Kind: WordProperty, Property: p} }

// IsWord is the keyword joining a noun and a property
var IsWord = Word{Kind: WordIs}

func (w Word) String() string {
	switch w.Kind {
	case WordNoun:
		return w.Entity.String()
	case WordIs:
		return "is"
	case WordProperty:
		return w.Property.String()
	}
	return fmt.Sprintf("word(%d)", uint8(w.Kind))
}

// Marker is the atomic occupant of a cell: an entity piece or a word block
type Marker struct {
	IsText bool
	Piece  Entity
	Text   Word
}

// EntityMarker returns the marker for a piece of the given kind
func EntityMarker(e Entity) Marker { return Marker{Piece: e} }

// WordMarker returns the marker for a word block
func WordMarker(w Word) Marker { return Marker{IsText: true, Text: w} }

// MarkerCount is the size of the dense marker index space
const MarkerCount = 13

// markerIndex pins every marker to its dense index. Words occupy the low
// indices in sentence-vocabulary order, pieces follow.
var markerIndex = [MarkerCount]Marker{
	WordMarker(NounWord(EntityBaba)),
	WordMarker(IsWord),
	WordMarker(PropertyWord(PropertyYou)),
	WordMarker(NounWord(EntityFlag)),
	WordMarker(PropertyWord(PropertyWin)),
	WordMarker(NounWord(EntityWall)),
	WordMarker(PropertyWord(PropertyStop)),
	WordMarker(NounWord(EntityRock)),
	WordMarker(PropertyWord(PropertyPush)),
	EntityMarker(EntityBaba),
	EntityMarker(EntityRock),
	EntityMarker(EntityFlag),
	EntityMarker(EntityWall),
}

// Index returns the dense index of the marker, or -1 when the marker is not
// part of the vocabulary (for instance a piece of kind EntityText).
func (m Marker) Index() int {
	for i, candidate := range markerIndex {
		if candidate == m {
			return i
		}
	}
	return -1
}

// Valid reports whether the marker belongs to the index space
func (m Marker) Valid() bool {
	return m.Index() >= 0
}

// MarkerFromIndex is the inverse of Marker.Index
func MarkerFromIndex(i int) (Marker, error) {
	if i < 0 || i >= MarkerCount {
		return Marker{}, &ConversionError{Kind: "marker", Value: i}
	}
	return markerIndex[i], nil
}

// Entity collapses the marker to the entity kind used for rule lookups.
// Word blocks are always EntityText, never the kind they name.
func (m Marker) Entity() Entity {
	if m.IsText {
		return EntityText
	}
	return m.Piece
}

const wordPrefix = "text:"

func (m Marker) String() string {
	if m.IsText {
		return wordPrefix + m.Text.String()
	}
	return m.Piece.String()
}

// ParseMarker reads names such as "rock", "text:rock", "text:is" or
// "text:push". It accepts exactly the names Marker.String produces.
func ParseMarker(name string) (Marker, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, m := range markerIndex {
		if m.String() == normalized {
			return m, nil
		}
	}
	return Marker{}, fmt.Errorf("%w: %q", ErrUnknownMarker, name)
}

// ParseWord reads a word block name, with or without the "text:" prefix
func ParseWord(name string) (Word, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if !strings.HasPrefix(normalized, wordPrefix) {
		normalized = wordPrefix + normalized
	}
	m, err := ParseMarker(normalized)
	if err != nil {
		return Word{}, err
	}
	return m.Text, nil
}
