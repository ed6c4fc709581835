package schemas

// Sliders holds the user-tunable inputs of one tick, already normalized
// against their configured ranges.
type Sliders struct {
	// Mass and Softness are in [0,1].
	Mass     float64 `json:"mass"`
	Softness float64 `json:"softness"`
	// Quickness is in [-1,1]; negative values mean slowness.
	Quickness      float64 `json:"quickness"`
	NippleErection float64 `json:"nipple_erection"`
	// Sag scales gravity morphs. 1 is the natural midpoint.
	Sag float64 `json:"sag"`
	// Scale is the breast scale used by morph mass terms, in [0,1].
	Scale float64 `json:"scale"`
	// Friction is the hard collider friction in [0,1].
	Friction float64 `json:"friction"`

	Gravity [DirectionCount]float64 `json:"gravity"`
	Force   [DirectionCount]float64 `json:"force"`
}

// DefaultSliders returns mid-range sliders with unit directional multipliers.
func DefaultSliders() Sliders {
	s := Sliders{
		Mass:     0.5,
		Softness: 0.5,
		Sag:      1,
		Scale:    0.5,
		Friction: 0.5,
	}
	for i := range s.Gravity {
		s.Gravity[i] = 1
		s.Force[i] = 1
	}
	return s
}

// Effects holds one scalar per direction describing how strongly that bucket applies.
type Effects [DirectionCount]float64

// Get returns the effect of direction d, or 0 for an invalid direction.
func (e Effects) Get(d Direction) float64 {
	if !d.Valid() {
		return 0
	}
	return e[d]
}

// Scaled returns e with every direction multiplied by the matching entry of m.
func (e Effects) Scaled(m [DirectionCount]float64) Effects {
	var out Effects
	for i := range e {
		out[i] = e[i] * m[i]
	}
	return out
}

// Inputs are the per-tick values the physics and morph models compose from.
type Inputs struct {
	Sliders Sliders
	// Gravity holds the orientation effects, before slider multipliers.
	Gravity Effects
	// Force holds the tracked-displacement effects per side, before slider multipliers.
	Force [2]Effects
}
