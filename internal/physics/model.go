// internal/physics/model.go
package physics

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/host"
)

// GroupSpec names the host settings of a left/right pair and how they are composed.
type GroupSpec struct {
	Name string
	// Left and Right are host setting names. An empty Right makes the group left-only.
	Left    string
	Right   string
	Config  ParameterConfig
	Options GroupOptions
}

// Model owns every physics parameter group.
type Model struct {
	logger *zap.Logger
	groups []*Group
	byName map[string]*Group
	rate   float64
}

// NewModel resolves every spec against the host. Settings that cannot be resolved
// are logged and left inert so the rest of the model keeps working.
func NewModel(logger *zap.Logger, h host.Host, specs []GroupSpec) *Model {
	m := &Model{
		logger: logger.Named("physics"),
		byName: make(map[string]*Group, len(specs)),
		rate:   RateMultiplier(h.FixedTimestep()),
	}
	for _, spec := range specs {
		left := m.resolve(h, spec.Left, spec.Config)
		var right *Parameter
		if spec.Right != "" {
			right = m.resolve(h, spec.Right, spec.Config)
		}
		if _, exists := m.byName[spec.Name]; exists {
			m.logger.Warn("Duplicate physics group; keeping the first", zap.String("group", spec.Name))
			continue
		}
		g := NewGroup(spec.Name, left, right, spec.Options)
		m.groups = append(m.groups, g)
		m.byName[spec.Name] = g
	}
	return m
}

func (m *Model) resolve(h host.Host, name string, config ParameterConfig) *Parameter {
	setting, err := h.ResolveSetting(name)
	if err != nil {
		m.logger.Error("Physics setting unavailable; parameter will be inert",
			zap.String("setting", name), zap.Error(err))
		setting = nil
	}
	return NewParameter(name, setting, config)
}

// Groups returns every group in registration order.
func (m *Model) Groups() []*Group { return m.groups }

// Group returns a group by name.
func (m *Model) Group(name string) (*Group, bool) {
	g, ok := m.byName[name]
	return g, ok
}

// SetTimestep updates the physics-rate multiplier. It takes effect at the next Recompute.
func (m *Model) SetTimestep(fixedTimestep float64) {
	m.rate = RateMultiplier(fixedTimestep)
}

// Rate returns the current physics-rate multiplier.
func (m *Model) Rate() float64 { return m.rate }

// SetOffset sets a user offset on a group.
func (m *Model) SetOffset(group string, v float64) error {
	g, ok := m.byName[group]
	if !ok {
		return fmt.Errorf("physics group %q not found", group)
	}
	g.SetOffset(v)
	return nil
}

// Recompute rebuilds every base value from the sliders.
func (m *Model) Recompute(s schemas.Sliders) {
	for _, g := range m.groups {
		g.Each(func(_ schemas.Side, p *Parameter) {
			p.UpdateValue(s.Mass, s.Softness, s.Quickness, m.rate)
		})
	}
}

// Apply recomputes every dynamic contribution. Directions whose effect is 0
// end up with a 0 contribution, independently of the others.
func (m *Model) Apply(in schemas.Inputs) {
	s := in.Sliders
	gravity := in.Gravity.Scaled(s.Gravity)
	var force [2]schemas.Effects
	for i := range in.Force {
		force[i] = in.Force[i].Scaled(s.Force)
	}

	for _, g := range m.groups {
		g.Each(func(side schemas.Side, p *Parameter) {
			for _, d := range schemas.Directions() {
				p.UpdateGravityValue(d, gravity[d], s.Mass, s.Softness)
				p.UpdateForceValue(d, force[side][d], s.Mass, s.Softness)
			}
			p.UpdateInverseFrictionValue(s.Friction, s.Mass, s.Softness)
			p.UpdateNippleValue(s.NippleErection, s.Mass, s.Softness)
		})
	}
}

// Reset drops every dynamic contribution.
func (m *Model) Reset() {
	for _, g := range m.groups {
		g.Reset()
	}
}

// Publish syncs every parameter to its host setting and returns the number of writes.
func (m *Model) Publish() int {
	n := 0
	for _, g := range m.groups {
		g.Each(func(_ schemas.Side, p *Parameter) {
			if p.Sync() {
				n++
			}
		})
	}
	return n
}

// Values returns the composed value of every parameter keyed by setting name.
func (m *Model) Values() map[string]float64 {
	out := make(map[string]float64)
	for _, g := range m.groups {
		g.Each(func(_ schemas.Side, p *Parameter) {
			out[p.Name()] = p.Value()
		})
	}
	return out
}
