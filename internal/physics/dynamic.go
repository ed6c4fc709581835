// internal/physics/dynamic.go
package physics

import (
	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/curves"
)

// DynamicConfig computes a directional contribution from a live effect:
//
//	effect × (Base + SoftnessCurve(softness)×SoftnessMultiplier + MassCurve(mass)×MassMultiplier)
//
// An unset multiplier drops its term. The result only ever pushes in one
// direction: with Negative set a positive result collapses to 0, otherwise a
// negative one does.
type DynamicConfig struct {
	Base               float64
	SoftnessMultiplier schemas.Multiplier
	MassMultiplier     schemas.Multiplier
	SoftnessCurve      curves.Curve
	MassCurve          curves.Curve

	Negative bool
	// Multiplicative contributions are scaled by the parameter's base value.
	Multiplicative bool
}

// Calculate returns the contribution for effect. A nil config contributes nothing.
func (c *DynamicConfig) Calculate(effect, mass, softness float64) float64 {
	if c == nil {
		return 0
	}
	terms := c.Base
	if m, ok := c.SoftnessMultiplier.Get(); ok {
		terms += apply(c.SoftnessCurve, softness) * m
	}
	if m, ok := c.MassMultiplier.Get(); ok {
		terms += apply(c.MassCurve, mass) * m
	}

	v := effect * terms
	if v == 0 || c.Negative && v > 0 || !c.Negative && v < 0 {
		return 0
	}
	return v
}

func apply(curve curves.Curve, x float64) float64 {
	if curve == nil {
		return x
	}
	return curve(x)
}
