package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRuleManager(t *testing.T) {
	r := DefaultRuleManager()
	assert.True(t, r.HasRule(EntityText, PropertyPush))
	assert.Equal(t, []Rule{{Entity: EntityText, Property: PropertyPush}}, r.Rules())
	assert.Empty(t, r.EntitiesWith(PropertyYou))
}

func TestAddRuleIdempotent(t *testing.T) {
	r := DefaultRuleManager()
	require.NoError(t, r.AddRule(EntityBaba, PropertyYou))
	once := r
	require.NoError(t, r.AddRule(EntityBaba, PropertyYou))
	assert.Equal(t, once, r)
	assert.Len(t, r.Rules(), 2)
}

func TestAddRuleRejectsOutOfRange(t *testing.T) {
	r := DefaultRuleManager()
	var convErr *ConversionError

	require.ErrorAs(t, r.AddRule(Entity(EntityCount), PropertyYou), &convErr)
	assert.Equal(t, "entity", convErr.Kind)
	require.ErrorAs(t, r.AddRule(EntityBaba, Property(PropertyCount)), &convErr)
	assert.Equal(t, "property", convErr.Kind)
	assert.False(t, r.HasRule(Entity(EntityCount), PropertyYou))
}

func TestRuleManagerIsValueType(t *testing.T) {
	r := DefaultRuleManager()
	copied := r
	require.NoError(t, copied.AddRule(EntityFlag, PropertyWin))
	assert.False(t, r.HasRule(EntityFlag, PropertyWin))
}

func TestSquareHasProperty(t *testing.T) {
	r := DefaultRuleManager()
	require.NoError(t, r.AddRule(EntityWall, PropertyStop))

	var cell SquareSet
	cell.Add(EntityMarker(EntityBaba))
	assert.False(t, r.SquareHasProperty(cell, PropertyStop))

	cell.Add(EntityMarker(EntityWall))
	assert.True(t, r.SquareHasProperty(cell, PropertyStop))

	// A WALL word is text, not a wall.
	var words SquareSet
	words.Add(WordMarker(NounWord(EntityWall)))
	assert.False(t, r.SquareHasProperty(words, PropertyStop))
	assert.True(t, r.SquareHasProperty(words, PropertyPush))
}

func TestEntitiesWith(t *testing.T) {
	r := DefaultRuleManager()
	require.NoError(t, r.AddRule(EntityRock, PropertyYou))
	require.NoError(t, r.AddRule(EntityBaba, PropertyYou))
	assert.Equal(t, []Entity{EntityBaba, EntityRock}, r.EntitiesWith(PropertyYou))
	assert.Equal(t, "baba is you", Rule{Entity: EntityBaba, Property: PropertyYou}.String())
}
