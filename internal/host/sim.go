package host

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	gravity = 9.81

	defaultStiffness = 60.0
	defaultDamping   = 2.0
	defaultMass      = 0.5
)

// Sway drives the simulated chest with smooth Perlin noise. Angles are degrees,
// Bounce is in world units, Frequency in noise cycles per second.
type Sway struct {
	BasePitch      float64
	BaseRoll       float64
	PitchAmplitude float64
	RollAmplitude  float64
	Bounce         float64
	Frequency      float64
}

// SimOptions configures a simulated host.
type SimOptions struct {
	FixedTimestep float64
	Seed          int64
	Sway          Sway
}

// springLink names the settings a soft body reads its dynamics from.
type springLink struct {
	spring, damper, mass string
}

// SimHost is an in-memory Host: a chest frame carrying spring-mounted soft bodies
// whose stiffness is read back from the settings the control loop writes. It is
// single-threaded and advanced by Step.
type SimHost struct {
	chest     Transform
	prevChest mgl64.Vec3
	chestVel  mgl64.Vec3

	bodies    map[string]*SimBody
	links     map[string]springLink
	order     []string
	mesh      *SimMesh
	settings  map[string]*SimSetting
	morphs    map[string]*SimMorph
	colliders map[string]*SimCollider

	fixedTimestep float64
	ready         bool
	sway          Sway
	elapsed       float64

	noisePitch  *perlin.Perlin
	noiseRoll   *perlin.Perlin
	noiseBounce *perlin.Perlin
}

// NewSimHost creates an empty simulated host.
func NewSimHost(opts SimOptions) *SimHost {
	dt := opts.FixedTimestep
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	// Standard Perlin parameters.
	alpha, beta, n := 2.0, 2.0, int32(3)
	return &SimHost{
		chest:         Transform{Rotation: mgl64.QuatIdent()},
		bodies:        make(map[string]*SimBody),
		links:         make(map[string]springLink),
		mesh:          &SimMesh{},
		settings:      make(map[string]*SimSetting),
		morphs:        make(map[string]*SimMorph),
		colliders:     make(map[string]*SimCollider),
		fixedTimestep: dt,
		ready:         true,
		sway:          opts.Sway,
		noisePitch:    perlin.NewPerlin(alpha, beta, n, opts.Seed),
		noiseRoll:     perlin.NewPerlin(alpha, beta, n, opts.Seed+1),
		noiseBounce:   perlin.NewPerlin(alpha, beta, n, opts.Seed+2),
	}
}

// AddRigidBody adds a body fixed to the chest at a local offset.
func (h *SimHost) AddRigidBody(name string, anchor mgl64.Vec3) *SimBody {
	b := &SimBody{name: name, anchor: anchor}
	h.addBody(b)
	return b
}

// AddSoftBody adds a spring-mounted body whose dynamics read the named settings.
// Empty setting names fall back to built-in defaults.
func (h *SimHost) AddSoftBody(name string, anchor mgl64.Vec3, spring, damper, mass string) *SimBody {
	b := &SimBody{name: name, anchor: anchor, soft: true}
	h.links[name] = springLink{spring: spring, damper: damper, mass: mass}
	h.addBody(b)
	return b
}

func (h *SimHost) addBody(b *SimBody) {
	if _, exists := h.bodies[b.name]; !exists {
		h.order = append(h.order, b.name)
	}
	h.bodies[b.name] = b
	b.world = h.chest.Position.Add(h.chest.Rotation.Rotate(b.anchor))
}

// AddVertex attaches a mesh vertex to a body and returns its index.
func (h *SimHost) AddVertex(body string, offset mgl64.Vec3) (int, error) {
	b, ok := h.bodies[body]
	if !ok {
		return -1, fmt.Errorf("vertex on %q: %w", body, ErrBodyNotFound)
	}
	h.mesh.vertices = append(h.mesh.vertices, simVertex{body: b, offset: offset})
	return len(h.mesh.vertices) - 1, nil
}

// AddSetting registers a physics setting.
func (h *SimHost) AddSetting(name string, min, max, value float64) *SimSetting {
	s := NewSimSetting(name, min, max, value)
	h.settings[name] = s
	return s
}

// AddMorph registers a morph target.
func (h *SimHost) AddMorph(name string) *SimMorph {
	m := NewSimMorph(name)
	h.morphs[name] = m
	return m
}

// AddCollider registers a hard collider riding on a body.
func (h *SimHost) AddCollider(name, body string, radius float64) (*SimCollider, error) {
	b, ok := h.bodies[body]
	if !ok {
		return nil, fmt.Errorf("collider %q on %q: %w", name, body, ErrBodyNotFound)
	}
	c := &SimCollider{name: name, body: b, Radius: radius}
	h.colliders[name] = c
	return c, nil
}

// SetOrientation places the chest at a fixed pitch and roll (degrees), replacing the sway base.
func (h *SimHost) SetOrientation(pitch, roll float64) {
	h.sway.BasePitch = pitch
	h.sway.BaseRoll = roll
	h.chest.Rotation = rotation(pitch, roll)
}

// SetFixedTimestep changes the physics step. Non-positive values are ignored.
func (h *SimHost) SetFixedTimestep(dt float64) {
	if dt > 0 {
		h.fixedTimestep = dt
	}
}

// SetReady toggles the readiness reported to calibration.
func (h *SimHost) SetReady(ready bool) { h.ready = ready }

// Setting returns a registered setting for inspection.
func (h *SimHost) Setting(name string) (*SimSetting, bool) {
	s, ok := h.settings[name]
	return s, ok
}

// Morph returns a registered morph for inspection.
func (h *SimHost) Morph(name string) (*SimMorph, bool) {
	m, ok := h.morphs[name]
	return m, ok
}

// SimCollider returns a registered collider for inspection.
func (h *SimHost) SimCollider(name string) (*SimCollider, bool) {
	c, ok := h.colliders[name]
	return c, ok
}

// Elapsed is the simulated time in seconds.
func (h *SimHost) Elapsed() float64 { return h.elapsed }

// Step advances the simulation by one fixed timestep.
func (h *SimHost) Step() {
	dt := h.fixedTimestep
	h.elapsed += dt

	h.advanceChest(dt)

	invRot := h.chest.Rotation.Inverse()
	gLocal := invRot.Rotate(mgl64.Vec3{0, -gravity, 0})

	// Inertial acceleration felt in the chest frame.
	chestVel := h.chest.Position.Sub(h.prevChest).Mul(1 / dt)
	chestAcc := invRot.Rotate(chestVel.Sub(h.chestVel).Mul(1 / dt))
	h.chestVel = chestVel
	h.prevChest = h.chest.Position

	for _, name := range h.order {
		b := h.bodies[name]
		if b.soft {
			k, c, m := h.dynamics(name)
			force := b.displacement.Mul(-k).Sub(b.velocity.Mul(c))
			acc := force.Mul(1 / m).Add(gLocal).Sub(chestAcc)
			b.velocity = b.velocity.Add(acc.Mul(dt))
			b.displacement = b.displacement.Add(b.velocity.Mul(dt))
		}
		b.world = h.chest.Position.Add(h.chest.Rotation.Rotate(b.anchor.Add(b.displacement)))
	}
}

func (h *SimHost) advanceChest(dt float64) {
	s := h.sway
	if s.Frequency <= 0 {
		h.chest.Rotation = rotation(s.BasePitch, s.BaseRoll)
		return
	}
	x := h.elapsed * s.Frequency
	pitch := s.BasePitch + s.PitchAmplitude*h.noisePitch.Noise1D(x)
	roll := s.BaseRoll + s.RollAmplitude*h.noiseRoll.Noise1D(x)
	h.chest.Rotation = rotation(pitch, roll)
	h.chest.Position = mgl64.Vec3{0, s.Bounce * h.noiseBounce.Noise1D(x*2), 0}
}

func (h *SimHost) dynamics(name string) (k, c, m float64) {
	k, c, m = defaultStiffness, defaultDamping, defaultMass
	link := h.links[name]
	if s, ok := h.settings[link.spring]; ok && s.Value() > 0 {
		k = s.Value()
	}
	if s, ok := h.settings[link.damper]; ok && s.Value() >= 0 {
		c = s.Value()
	}
	if s, ok := h.settings[link.mass]; ok && s.Value() > 0 {
		m = s.Value()
	}
	return k, c, math.Max(m, 1e-3)
}

func rotation(pitch, roll float64) mgl64.Quat {
	rollQ := mgl64.QuatRotate(mgl64.DegToRad(roll), mgl64.Vec3{0, 0, 1})
	pitchQ := mgl64.QuatRotate(mgl64.DegToRad(pitch), mgl64.Vec3{1, 0, 0})
	return rollQ.Mul(pitchQ).Normalize()
}

// -- Host implementation --

// ChestTransform implements Host.
func (h *SimHost) ChestTransform() Transform { return h.chest }

// Body implements Host.
func (h *SimHost) Body(name string) (Body, error) {
	b, ok := h.bodies[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrBodyNotFound)
	}
	return b, nil
}

// Mesh implements Host.
func (h *SimHost) Mesh() Mesh { return h.mesh }

// Collider implements Host.
func (h *SimHost) Collider(name string) (Collider, error) {
	c, ok := h.colliders[name]
	if !ok {
		return nil, fmt.Errorf("collider %q: %w", name, ErrBodyNotFound)
	}
	return c, nil
}

// ResolveSetting implements Host.
func (h *SimHost) ResolveSetting(name string) (Setting, error) {
	s, ok := h.settings[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrSettingNotFound)
	}
	return s, nil
}

// ResolveMorph implements Host.
func (h *SimHost) ResolveMorph(name string) (MorphHandle, error) {
	m, ok := h.morphs[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrMorphNotFound)
	}
	return m, nil
}

// FixedTimestep implements Host.
func (h *SimHost) FixedTimestep() float64 { return h.fixedTimestep }

// Ready implements Host.
func (h *SimHost) Ready() bool { return h.ready }
