// internal/physics/static.go
package physics

import (
	"github.com/xkilldash9x/softphys/internal/curves"
)

// ReferenceTimestep is the physics step the calibration points were tuned at.
const ReferenceTimestep = 1.0 / 60.0

// RateMultiplier returns the factor that keeps rate-dependent settings visually
// constant when the host runs physics at fixedTimestep instead of ReferenceTimestep.
func RateMultiplier(fixedTimestep float64) float64 {
	if fixedTimestep <= 0 {
		return 1
	}
	return ReferenceTimestep / fixedTimestep
}

// StaticConfig computes a parameter's base value from mass and softness using three
// calibration points: the value at minimum mass and softness, at maximum mass, and
// at maximum softness. Values in between are a proportional sum.
type StaticConfig struct {
	MinMminS float64
	MaxMminS float64
	MinMmaxS float64

	// Optional shaping of the inputs. A curve only bends intermediate values;
	// inputs of exactly 0 and 1 pass through unchanged.
	MassCurve     curves.Curve
	SoftnessCurve curves.Curve

	// Optional offsets blended in by positive (quick) or negative (slow) quickness.
	QuicknessOffset *StaticConfig
	SlownessOffset  *StaticConfig

	DependOnPhysicsRate bool
}

// Flat returns a config whose value is v regardless of input.
func Flat(v float64) *StaticConfig {
	return &StaticConfig{MinMminS: v, MaxMminS: v, MinMmaxS: v}
}

// Calculate returns the base value. mass and softness are in [0,1], quickness in
// [-1,1]. rate is the physics-rate multiplier, applied only when the config
// depends on it.
func (c *StaticConfig) Calculate(mass, softness, quickness, rate float64) float64 {
	if c == nil {
		return 0
	}
	v := c.proportional(mass, softness)

	switch {
	case quickness > 0 && c.QuicknessOffset != nil:
		v += curves.Lerp(0, c.QuicknessOffset.proportional(mass, softness), curves.Clamp01(quickness))
	case quickness < 0 && c.SlownessOffset != nil:
		v += curves.Lerp(0, c.SlownessOffset.proportional(mass, softness), curves.Clamp01(-quickness))
	}

	if c.DependOnPhysicsRate && rate > 0 {
		v *= rate
	}
	return v
}

func (c *StaticConfig) proportional(mass, softness float64) float64 {
	m := shape(c.MassCurve, mass)
	s := shape(c.SoftnessCurve, softness)
	return c.MinMminS + m*(c.MaxMminS-c.MinMminS) + s*(c.MinMmaxS-c.MinMminS)
}

// shape applies curve to x inside (0,1) and leaves the endpoints exact.
func shape(curve curves.Curve, x float64) float64 {
	x = curves.Clamp01(x)
	if curve == nil || x == 0 || x == 1 {
		return x
	}
	return curve(x)
}
