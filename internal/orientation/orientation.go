// Package orientation decomposes a body rotation into the signed roll and
// pitch angles that drive the directional buckets.
package orientation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/curves"
)

// Sample is the per-tick orientation reading. Angles are in degrees.
type Sample struct {
	Roll           float64 `json:"roll"`
	Pitch          float64 `json:"pitch"`
	SidewaysFactor float64 `json:"sideways_factor"`
}

// Decompose converts a rotation into roll and pitch. q should be normalized;
// other inputs still return finite values.
func Decompose(q mgl64.Quat) Sample {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.W

	pitch := math.Atan2(2*x*w-2*y*z, 1-2*x*x-2*z*z)
	// asin is only defined on [-1,1]; rounding on an exact 90 degree roll can step past it.
	roll := math.Asin(curves.Clamp(2*x*y+2*z*w, -1, 1))

	s := Sample{
		Roll:  mgl64.RadToDeg(roll),
		Pitch: mgl64.RadToDeg(pitch),
	}
	s.SidewaysFactor = SidewaysFactor(s.Roll)
	return s
}

// SidewaysFactor attenuates pitch-driven effects as the body rolls onto its side.
// It is 1 when upright and 0 at a full 90 degree roll.
func SidewaysFactor(roll float64) float64 {
	return (90 - math.Abs(roll)) / 90
}

// FromAngles builds the rotation whose decomposition yields the given pitch and roll
// (degrees) for rolls short of 90 degrees. Pitch about X is applied in the
// frame already rolled about Z.
func FromAngles(pitch, roll float64) mgl64.Quat {
	rollQ := mgl64.QuatRotate(mgl64.DegToRad(roll), mgl64.Vec3{0, 0, 1})
	pitchQ := mgl64.QuatRotate(mgl64.DegToRad(pitch), mgl64.Vec3{1, 0, 0})
	return rollQ.Mul(pitchQ).Normalize()
}

// Bucket names the dominant pitch bucket of a sample. Roll buckets overlap
// every pitch bucket and are never reported here.
func Bucket(s Sample) schemas.Direction {
	switch {
	case math.Abs(s.Pitch) > 90:
		return schemas.Up
	case s.Pitch > 0:
		return schemas.Forward
	case s.Pitch < 0:
		return schemas.Back
	default:
		return schemas.Down
	}
}

// Effects maps a sample onto per-direction effect magnitudes in [0,1].
//
//   - Forward / Back: how far the body leans forward or back, peaking at 90
//     degrees and falling off again when the body continues upside down.
//   - Down: how upright the body is (gravity pulls along the body axis).
//   - Up: how far past horizontal the body is (upside down).
//   - LeftRoll / RightRoll: roll magnitude, not attenuated by the sideways factor.
func Effects(s Sample) schemas.Effects {
	var e schemas.Effects
	sideways := curves.Clamp01(s.SidewaysFactor)
	pitch := s.Pitch
	absPitch := math.Abs(pitch)

	lean := absPitch / 90
	if absPitch > 90 {
		lean = (180 - absPitch) / 90
	}
	lean = curves.Clamp01(lean) * sideways

	if pitch > 0 {
		e[schemas.Forward] = lean
	} else if pitch < 0 {
		e[schemas.Back] = lean
	}

	if absPitch <= 90 {
		e[schemas.Down] = curves.Clamp01((90-absPitch)/90) * sideways
	} else {
		e[schemas.Up] = curves.Clamp01((absPitch-90)/90) * sideways
	}

	if s.Roll > 0 {
		e[schemas.LeftRoll] = curves.Clamp01(s.Roll / 90)
	} else if s.Roll < 0 {
		e[schemas.RightRoll] = curves.Clamp01(-s.Roll / 90)
	}
	return e
}
