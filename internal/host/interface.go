// Package host defines the contracts of the external simulation the control
// loop reads from and writes to. The engine never talks to a physics engine or
// morph system directly; everything goes through these interfaces.
package host

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrMorphNotFound is returned when a morph name cannot be resolved.
	ErrMorphNotFound = errors.New("morph not found")
	// ErrSettingNotFound is returned when a physics setting name cannot be resolved.
	ErrSettingNotFound = errors.New("physics setting not found")
	// ErrBodyNotFound is returned when a rigidbody or joint name cannot be resolved.
	ErrBodyNotFound = errors.New("body not found")
)

// Transform is a rigid frame in world space.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// ToLocal expresses a world-space point relative to the frame.
func (t Transform) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	rot := t.Rotation
	if rot.Len() < 1e-12 {
		rot = mgl64.QuatIdent()
	}
	return rot.Inverse().Rotate(world.Sub(t.Position))
}

// Body is anything with a live world position: a rigidbody or a soft-body joint.
type Body interface {
	Name() string
	Position() mgl64.Vec3
}

// Mesh exposes skinned vertex positions. ok is false for an index the current
// topology does not have.
type Mesh interface {
	Vertex(index int) (mgl64.Vec3, bool)
	VertexCount() int
}

// Setting is a single scalar of the external physics engine (spring, damper, mass ...).
type Setting interface {
	Name() string
	Min() float64
	Max() float64
	Value() float64
	SetValue(v float64)
}

// MorphHandle is a resolved morph target.
type MorphHandle interface {
	Name() string
	Value() float64
	SetValue(v float64)
}

// Collider is a hard collider whose geometry and material the control loop adjusts.
type Collider interface {
	Name() string
	// Center is the collider's world position.
	Center() mgl64.Vec3
	SetRadius(r float64)
	SetOffset(offset mgl64.Vec3)
	SetFriction(f float64)
	SetMass(m float64)
}

// Host is the external simulation.
type Host interface {
	// ChestTransform is the reference frame for orientation and tracking.
	ChestTransform() Transform
	Body(name string) (Body, error)
	Mesh() Mesh
	Collider(name string) (Collider, error)
	ResolveSetting(name string) (Setting, error)
	ResolveMorph(name string) (MorphHandle, error)
	// FixedTimestep is the physics step in seconds.
	FixedTimestep() float64
	// Ready reports whether normal updates may be suspended for calibration:
	// no slider is being dragged and no UI transition is in progress.
	Ready() bool
}
