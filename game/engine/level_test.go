package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentence(noun Entity, p Property) [3]Word {
	return [3]Word{NounWord(noun), IsWord, PropertyWord(p)}
}

func TestPlaceMarker(t *testing.T) {
	level, err := NewLevel(3, 3)
	require.NoError(t, err)

	baba := EntityMarker(EntityBaba)
	require.NoError(t, level.PlaceMarker(baba, Position{X: 1, Y: 2}))
	assert.Equal(t, []Position{{X: 1, Y: 2}}, level.Positions(baba))

	assert.ErrorIs(t, level.PlaceMarker(baba, Position{X: 1, Y: 2}), ErrMarkerPresent)
	assert.ErrorIs(t, level.PlaceMarker(baba, Position{X: 3, Y: 0}), ErrOutOfBounds)
	assert.ErrorIs(t, level.PlaceMarker(baba, Position{X: -1, Y: 0}), ErrOutOfBounds)
}

func TestPlaceLine(t *testing.T) {
	level, _ := NewLevel(5, 5)
	wall := EntityMarker(EntityWall)

	require.NoError(t, level.PlaceLine(wall, Position{X: 1, Y: 0}, 4, Horizontal))
	require.NoError(t, level.PlaceLine(wall, Position{X: 0, Y: 1}, 4, Vertical))
	assert.Len(t, level.Positions(wall), 8)
	assert.True(t, level.Grid().CellAt(4, 0).Contains(wall))
	assert.True(t, level.Grid().CellAt(0, 4).Contains(wall))

	require.NoError(t, level.PlaceLine(wall, Position{X: 2, Y: 2}, 0, Horizontal))
	assert.Error(t, level.PlaceLine(wall, Position{X: 2, Y: 2}, -1, Horizontal))
}

func TestPlaceLineIsAtomic(t *testing.T) {
	level, _ := NewLevel(4, 4)
	rock := EntityMarker(EntityRock)
	key := level.Grid().Key()

	assert.ErrorIs(t, level.PlaceLine(rock, Position{X: 2, Y: 1}, 3, Horizontal), ErrOutOfBounds)
	assert.Equal(t, key, level.Grid().Key())

	require.NoError(t, level.PlaceMarker(rock, Position{X: 1, Y: 3}))
	key = level.Grid().Key()
	assert.ErrorIs(t, level.PlaceLine(rock, Position{X: 1, Y: 0}, 4, Vertical), ErrMarkerPresent)
	assert.Equal(t, key, level.Grid().Key())
	requireReverseIndex(t, level.Grid())
}

func TestDeclareRule(t *testing.T) {
	level, _ := NewLevel(5, 5)

	require.NoError(t, level.DeclareRule(sentence(EntityBaba, PropertyYou), Position{X: 0, Y: 0}, Horizontal))
	assert.True(t, level.Rules().HasRule(EntityBaba, PropertyYou))
	assert.True(t, level.Grid().CellAt(0, 0).Contains(WordMarker(NounWord(EntityBaba))))
	assert.True(t, level.Grid().CellAt(1, 0).Contains(WordMarker(IsWord)))
	assert.True(t, level.Grid().CellAt(2, 0).Contains(WordMarker(PropertyWord(PropertyYou))))

	require.NoError(t, level.DeclareRule(sentence(EntityFlag, PropertyWin), Position{X: 4, Y: 2}, Vertical))
	assert.True(t, level.Rules().HasRule(EntityFlag, PropertyWin))
	assert.True(t, level.Grid().CellAt(4, 4).Contains(WordMarker(PropertyWord(PropertyWin))))
}

func TestDeclareRuleRejectsBadSentences(t *testing.T) {
	tests := []struct {
		name  string
		words [3]Word
	}{
		{"property first", [3]Word{PropertyWord(PropertyYou), IsWord, PropertyWord(PropertyWin)}},
		{"missing is", [3]Word{NounWord(EntityBaba), NounWord(EntityFlag), PropertyWord(PropertyWin)}},
		{"noun as property", [3]Word{NounWord(EntityBaba), IsWord, NounWord(EntityFlag)}},
		{"text noun", [3]Word{NounWord(EntityText), IsWord, PropertyWord(PropertyPush)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, _ := NewLevel(5, 5)
			rules := *level.Rules()
			err := level.DeclareRule(tt.words, Position{}, Horizontal)
			assert.ErrorIs(t, err, ErrInvalidRuleSentence)
			assert.Equal(t, rules, *level.Rules())
			assert.True(t, level.Grid().CellAt(0, 0).IsEmpty())
		})
	}
}

func TestDeclareRuleOutOfBoundsLeavesLevelUnchanged(t *testing.T) {
	level, _ := NewLevel(4, 4)
	err := level.DeclareRule(sentence(EntityWall, PropertyStop), Position{X: 2, Y: 0}, Horizontal)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.False(t, level.Rules().HasRule(EntityWall, PropertyStop))
	assert.True(t, level.Grid().CellAt(2, 0).IsEmpty())
}

func TestDeclareRuleTwice(t *testing.T) {
	level, _ := NewLevel(6, 2)
	require.NoError(t, level.DeclareRule(sentence(EntityRock, PropertyPush), Position{}, Horizontal))
	rules := *level.Rules()

	// Same rule written elsewhere: same table, second copy of the words.
	require.NoError(t, level.DeclareRule(sentence(EntityRock, PropertyPush), Position{X: 0, Y: 1}, Horizontal))
	assert.Equal(t, rules, *level.Rules())
	assert.Len(t, level.Positions(WordMarker(IsWord)), 2)

	// Same rule on the same cells collides with the existing words.
	assert.ErrorIs(t, level.DeclareRule(sentence(EntityRock, PropertyPush), Position{}, Horizontal), ErrMarkerPresent)
}

func TestLevelClone(t *testing.T) {
	level, _ := NewLevel(3, 1)
	require.NoError(t, level.PlaceMarker(EntityMarker(EntityBaba), Position{}))

	clone := level.Clone()
	require.NoError(t, clone.Rules().AddRule(EntityBaba, PropertyYou))
	clone.ApplyMove(Right)

	assert.False(t, level.Rules().HasRule(EntityBaba, PropertyYou))
	assert.Equal(t, []Position{{X: 0, Y: 0}}, level.Positions(EntityMarker(EntityBaba)))
	assert.Equal(t, []Position{{X: 1, Y: 0}}, clone.Positions(EntityMarker(EntityBaba)))
}
