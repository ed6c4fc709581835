package host

import (
	"github.com/go-gl/mathgl/mgl64"
)

// SimSetting is an in-memory Setting.
type SimSetting struct {
	name     string
	min, max float64
	value    float64
	writes   int
}

// NewSimSetting creates a setting with a declared range and initial value.
func NewSimSetting(name string, min, max, value float64) *SimSetting {
	return &SimSetting{name: name, min: min, max: max, value: value}
}

func (s *SimSetting) Name() string   { return s.name }
func (s *SimSetting) Min() float64   { return s.min }
func (s *SimSetting) Max() float64   { return s.max }
func (s *SimSetting) Value() float64 { return s.value }

// SetValue stores v clamped to the declared range, as a real physics setting would.
func (s *SimSetting) SetValue(v float64) {
	if v < s.min {
		v = s.min
	}
	if v > s.max {
		v = s.max
	}
	s.value = v
	s.writes++
}

// Writes counts SetValue calls.
func (s *SimSetting) Writes() int { return s.writes }

// SimMorph is an in-memory MorphHandle.
type SimMorph struct {
	name   string
	value  float64
	writes int
}

// NewSimMorph creates a morph at value 0.
func NewSimMorph(name string) *SimMorph {
	return &SimMorph{name: name}
}

func (m *SimMorph) Name() string   { return m.name }
func (m *SimMorph) Value() float64 { return m.value }

// SetValue stores v.
func (m *SimMorph) SetValue(v float64) {
	m.value = v
	m.writes++
}

// Writes counts SetValue calls.
func (m *SimMorph) Writes() int { return m.writes }

// SimBody is a soft-body joint hanging off the chest on a damped spring.
type SimBody struct {
	name string
	// anchor is the chest-local rest offset.
	anchor mgl64.Vec3
	// displacement and velocity are chest-local.
	displacement mgl64.Vec3
	velocity     mgl64.Vec3
	// soft bodies respond to gravity and inertia; rigid ones stay on their anchor.
	soft bool

	world mgl64.Vec3
}

func (b *SimBody) Name() string         { return b.name }
func (b *SimBody) Position() mgl64.Vec3 { return b.world }

// Displacement returns the chest-local displacement from the anchor.
func (b *SimBody) Displacement() mgl64.Vec3 { return b.displacement }

// SimCollider records the last adjustment written to it.
type SimCollider struct {
	name     string
	body     *SimBody
	Radius   float64
	Offset   mgl64.Vec3
	Friction float64
	Mass     float64
}

func (c *SimCollider) Name() string { return c.name }

// Center follows the body the collider is attached to.
func (c *SimCollider) Center() mgl64.Vec3 {
	if c.body == nil {
		return mgl64.Vec3{}
	}
	return c.body.world.Add(c.Offset)
}

func (c *SimCollider) SetRadius(r float64)         { c.Radius = r }
func (c *SimCollider) SetOffset(offset mgl64.Vec3) { c.Offset = offset }
func (c *SimCollider) SetFriction(f float64)       { c.Friction = f }
func (c *SimCollider) SetMass(m float64)           { c.Mass = m }

// simVertex is a mesh vertex rigidly attached to a body.
type simVertex struct {
	body   *SimBody
	offset mgl64.Vec3
}

// SimMesh is a skinned mesh whose vertices ride on bodies.
type SimMesh struct {
	vertices []simVertex
}

// Vertex implements Mesh.
func (m *SimMesh) Vertex(index int) (mgl64.Vec3, bool) {
	if m == nil || index < 0 || index >= len(m.vertices) {
		return mgl64.Vec3{}, false
	}
	v := m.vertices[index]
	return v.body.world.Add(v.offset), true
}

// VertexCount implements Mesh.
func (m *SimMesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.vertices)
}
