package draft

// Position is a picked map coordinate.
type Position struct {
	Latitude  float64
	Longitude float64
}

// LocationPicker holds the single coordinate of a draft. The zero value is
// the explicit "nothing picked yet" state; it is tracked with a flag rather
// than a magic coordinate so a real pick at (0, 0) still counts.
type LocationPicker struct {
	pos Position
	set bool
}

// Pick records a map click. Last click wins; no history is kept.
func (p *LocationPicker) Pick(lat, lng float64) {
	p.pos = Position{Latitude: lat, Longitude: lng}
	p.set = true
}

// HasLocation reports whether a coordinate has been picked at least once.
func (p *LocationPicker) HasLocation() bool { return p.set }

// Position returns the picked coordinate; ok is false while unset, and the
// map layer must not render a marker then.
func (p *LocationPicker) Position() (Position, bool) {
	return p.pos, p.set
}
