// Package morph maps directional effects onto morph-target values.
package morph

import (
	"fmt"

	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/curves"
)

// MaxValue bounds every non-additive morph value.
const MaxValue = 1.33

// Family selects which effects drive a config and how its value is composed.
type Family int

const (
	// Gravity morphs follow orientation, scaled by the gravity sliders and the sag factor.
	Gravity Family = iota
	// Force morphs follow the tracked displacement of one side.
	Force
	// Position morphs follow orientation regardless of the gravity sliders.
	Position
	// Additive morphs follow orientation and are added on top of their handle's other configs,
	// without sag or clamp.
	Additive
)

func (f Family) String() string {
	switch f {
	case Gravity:
		return "gravity"
	case Force:
		return "force"
	case Position:
		return "position"
	case Additive:
		return "additive"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// ParseFamily converts a configuration string into a Family.
func ParseFamily(s string) (Family, error) {
	for _, f := range []Family{Gravity, Force, Position, Additive} {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown morph family %q", s)
}

// Binding registers a config under one direction.
type Binding struct {
	Direction   schemas.Direction
	Multipliers schemas.MorphMultipliers
}

// Config binds a morph target to per-direction multiplier triples.
type Config struct {
	Morph  string
	Family Family
	// Side selects the tracked point a Force config follows.
	Side     schemas.Side
	Bindings []Binding
}

// ID is the key a config is addressed by for hot swaps.
func (c Config) ID() string {
	return c.Family.String() + "/" + c.Side.String() + "/" + c.Morph
}

// SagFactor compresses the sag slider above its natural midpoint of 1.
func SagFactor(sag float64) float64 {
	if sag >= 1 {
		return 1 + (sag-1)/2
	}
	return sag
}

// Terms returns base × (softness term + mass term) × effect / 2.
// An unset multiplier drops its own term, so with neither set the value is 0.
func Terms(m schemas.MorphMultipliers, effect, scale, softness float64) float64 {
	sum := 0.0
	if mul, ok := m.Softness.Get(); ok {
		sum += mul * softness
	}
	if mul, ok := m.Mass.Get(); ok {
		sum += mul * scale
	}
	return m.Base * effect * sum / 2
}

// Calculate returns the value of one binding for effect. scale is the breast scale for
// gravity, position and additive configs and the mass slider for force configs.
func (f Family) Calculate(m schemas.MorphMultipliers, effect, scale, softness, sag float64) float64 {
	v := Terms(m, effect, scale, softness)
	switch f {
	case Gravity:
		v *= SagFactor(sag)
	case Additive:
		return v
	}
	return curves.Clamp(v, -MaxValue, MaxValue)
}
