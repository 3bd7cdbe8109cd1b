package engine

// Rule states that every instance of Entity has Property
type Rule struct {
	Entity   Entity   `json:"entity"`
	Property Property `json:"property"`
}

func (r Rule) String() string {
	return r.Entity.String() + " is " + r.Property.String()
}

// RuleManager is the Entity x Property table of active rules. It is a value
// type; assigning it copies the whole table. Entries are only ever set.
type RuleManager struct {
	table [EntityCount][PropertyCount]bool
}

// DefaultRuleManager returns the base table: word blocks are always pushable
func DefaultRuleManager() RuleManager {
	var r RuleManager
	r.table[EntityText][PropertyPush] = true
	return r
}

// AddRule gives every instance of the entity kind the property
func (r *RuleManager) AddRule(e Entity, p Property) error {
	if !e.valid() {
		return &ConversionError{Kind: "entity", Value: int(e)}
	}
	if !p.valid() {
		return &ConversionError{Kind: "property", Value: int(p)}
	}
	r.table[e][p] = true
	return nil
}

// HasRule reports whether the entity kind currently has the property
func (r *RuleManager) HasRule(e Entity, p Property) bool {
	return e.valid() && p.valid() && r.table[e][p]
}

// SquareHasProperty reports whether any marker on the cell, collapsed to its
// entity kind, has the property
func (r *RuleManager) SquareHasProperty(cell SquareSet, p Property) bool {
	for m := range cell.Markers() {
		if r.HasRule(m.Entity(), p) {
			return true
		}
	}
	return false
}

// EntitiesWith lists, in entity order, the kinds that have the property
func (r *RuleManager) EntitiesWith(p Property) []Entity {
	var kinds []Entity
	for e := range EntityCount {
		if r.HasRule(Entity(e), p) {
			kinds = append(kinds, Entity(e))
		}
	}
	return kinds
}

// Rules lists every active rule in table order
func (r *RuleManager) Rules() []Rule {
	var rules []Rule
	for e := range EntityCount {
		for p := range PropertyCount {
			if r.table[e][p] {
				rules = append(rules, Rule{Entity: Entity(e), Property: Property(p)})
			}
		}
	}
	return rules
}
