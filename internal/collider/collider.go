// Package collider adjusts hard colliders from mass, softness and how far each
// collider has been pushed in from its calibrated neutral distance.
package collider

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/host"
	"github.com/xkilldash9x/softphys/internal/physics"
)

// minRadius keeps a compressed collider from collapsing.
const minRadius = 1e-3

// Config describes one hard collider.
type Config struct {
	Name string
	// Reference is the body the neutral distance is measured from.
	Reference string

	Radius   *physics.StaticConfig
	Forward  *physics.StaticConfig
	Mass     *physics.StaticConfig
	Friction *physics.StaticConfig

	// Compression shrinks the radius per unit the collider moved closer to the
	// reference than its neutral distance.
	Compression float64
}

// Collider is one adjusted hard collider.
type Collider struct {
	config    Config
	collider  host.Collider
	reference host.Body

	neutralDistance float64
	calibrated      bool
	deviation       float64

	radius, forward, mass, friction float64
}

// New resolves cfg against the host.
func New(h host.Host, cfg Config) (*Collider, error) {
	c, err := h.Collider(cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("collider %q: %w", cfg.Name, err)
	}
	ref, err := h.Body(cfg.Reference)
	if err != nil {
		return nil, fmt.Errorf("collider %q reference: %w", cfg.Name, err)
	}
	return &Collider{config: cfg, collider: c, reference: ref}, nil
}

func (c *Collider) Name() string { return c.config.Name }

func (c *Collider) distance() float64 {
	return c.collider.Center().Sub(c.reference.Position()).Len()
}

// Calibrate stores the current distance as neutral.
func (c *Collider) Calibrate() {
	c.neutralDistance = c.distance()
	c.calibrated = true
	c.deviation = 0
}

// Calibrated reports whether a neutral distance has been captured.
func (c *Collider) Calibrated() bool { return c.calibrated }

// NeutralDistance returns the captured neutral distance.
func (c *Collider) NeutralDistance() float64 { return c.neutralDistance }

// Deviation is the live distance minus the neutral one; negative when compressed.
// It is 0 until calibrated.
func (c *Collider) Deviation() float64 { return c.deviation }

// Baseline returns the captured neutral distance.
func (c *Collider) Baseline() Baseline {
	return Baseline{NeutralDistance: c.neutralDistance, Calibrated: c.calibrated}
}

// Restore reinstates a baseline captured by Baseline.
func (c *Collider) Restore(b Baseline) {
	c.neutralDistance = b.NeutralDistance
	c.calibrated = b.Calibrated
	c.deviation = 0
}

// Adjust recomputes and writes radius, forward offset, mass and friction.
func (c *Collider) Adjust(s schemas.Sliders) {
	if c.calibrated {
		c.deviation = c.distance() - c.neutralDistance
	}

	radius := c.config.Radius.Calculate(s.Mass, s.Softness, 0, 1)
	if c.deviation < 0 {
		radius -= c.config.Compression * -c.deviation
	}
	if radius < minRadius {
		radius = minRadius
	}
	c.radius = radius
	c.forward = c.config.Forward.Calculate(s.Mass, s.Softness, 0, 1)
	c.mass = c.config.Mass.Calculate(s.Mass, s.Softness, 0, 1)
	c.friction = s.Friction
	if c.config.Friction != nil {
		c.friction *= c.config.Friction.Calculate(s.Mass, s.Softness, 0, 1)
	}

	c.collider.SetRadius(c.radius)
	c.collider.SetOffset(mgl64.Vec3{0, 0, c.forward})
	if c.config.Mass != nil {
		c.collider.SetMass(c.mass)
	}
	c.collider.SetFriction(c.friction)
}

// Radius returns the radius written by the last Adjust.
func (c *Collider) Radius() float64 { return c.radius }

// Set owns every resolved collider.
type Set struct {
	logger    *zap.Logger
	colliders []*Collider
}

// NewSet resolves every config. Colliders that cannot be resolved are logged and skipped.
func NewSet(logger *zap.Logger, h host.Host, configs []Config) *Set {
	s := &Set{logger: logger.Named("collider")}
	for _, cfg := range configs {
		c, err := New(h, cfg)
		if err != nil {
			s.logger.Error("Hard collider unavailable; skipping", zap.Error(err))
			continue
		}
		s.colliders = append(s.colliders, c)
	}
	return s
}

// Colliders returns every resolved collider.
func (s *Set) Colliders() []*Collider { return s.colliders }

// Calibrate captures every neutral distance.
func (s *Set) Calibrate() {
	for _, c := range s.colliders {
		c.Calibrate()
	}
}

// Snapshot captures every baseline, keyed by collider name.
func (s *Set) Snapshot() map[string]Baseline {
	out := make(map[string]Baseline, len(s.colliders))
	for _, c := range s.colliders {
		out[c.Name()] = c.Baseline()
	}
	return out
}

// Restore reinstates baselines captured with Snapshot.
func (s *Set) Restore(baselines map[string]Baseline) {
	for _, c := range s.colliders {
		if b, ok := baselines[c.Name()]; ok {
			c.Restore(b)
		}
	}
}

// Adjust adjusts every collider.
func (s *Set) Adjust(sl schemas.Sliders) {
	for _, c := range s.colliders {
		c.Adjust(sl)
	}
}

// Radii returns the last written radius of every collider.
func (s *Set) Radii() map[string]float64 {
	out := make(map[string]float64, len(s.colliders))
	for _, c := range s.colliders {
		out[c.Name()] = c.Radius()
	}
	return out
}

// Baseline is a collider's saved neutral distance.
type Baseline struct {
	NeutralDistance float64
	Calibrated      bool
}
