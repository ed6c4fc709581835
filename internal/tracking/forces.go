package tracking

import (
	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/curves"
)

// ForceRange is the deviation at which a force effect saturates.
type ForceRange struct {
	// Angle in degrees.
	Angle float64
	// Depth in world units.
	Depth float64
}

// DefaultForceRange saturates at 20 degrees and 2 cm.
func DefaultForceRange() ForceRange {
	return ForceRange{Angle: 20, Depth: 0.02}
}

// Forces maps the point's deviations onto directional effects in [0,1]. Upward
// bending drives Up, sideways bending towards +x drives RightRoll, and a reference
// pushed back from its neutral depth drives Back.
func (p *TrackedPoint) Forces(r ForceRange) schemas.Effects {
	var e schemas.Effects
	if !p.baseline.Calibrated {
		return e
	}
	if r.Angle > 0 {
		e[schemas.Up] = curves.Clamp01(p.angleY / r.Angle)
		e[schemas.Down] = curves.Clamp01(-p.angleY / r.Angle)
		e[schemas.RightRoll] = curves.Clamp01(p.angleX / r.Angle)
		e[schemas.LeftRoll] = curves.Clamp01(-p.angleX / r.Angle)
	}
	if r.Depth > 0 {
		e[schemas.Back] = curves.Clamp01(p.depthDiff / r.Depth)
		e[schemas.Forward] = curves.Clamp01(-p.depthDiff / r.Depth)
	}
	return e
}
