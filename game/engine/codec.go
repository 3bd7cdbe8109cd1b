package engine

import "fmt"

// Text encodings keep the JSON views readable: markers, directions and
// outcomes travel as their names.

func (e Entity) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *Entity) UnmarshalText(b []byte) error {
	for i, name := range entityNames {
		if name == string(b) {
			*e = Entity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown entity %q", b)
}

func (p Property) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Property) UnmarshalText(b []byte) error {
	for i, name := range propertyNames {
		if name == string(b) {
			*p = Property(i)
			return nil
		}
	}
	return fmt.Errorf("unknown property %q", b)
}

func (m Marker) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, &ConversionError{Kind: "marker", Value: m.Index()}
	}
	return []byte(m.String()), nil
}

func (m *Marker) UnmarshalText(b []byte) error {
	parsed, err := ParseMarker(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "ongoing", "":
		*o = Ongoing
	case "win":
		*o = Win
	case "defeat":
		*o = Defeat
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}
