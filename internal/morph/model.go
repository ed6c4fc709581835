package morph

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/curves"
	"github.com/xkilldash9x/softphys/internal/host"
)

type slot struct {
	multipliers schemas.MorphMultipliers
	set         bool
}

// entry is a resolved config and its most recent value.
type entry struct {
	config Config
	slots  [schemas.DirectionCount]slot
	// registered counts the directions with a set slot.
	registered int
	value      float64
	target     *target
}

func (e *entry) onlyDirection() (schemas.Direction, bool) {
	if e.registered != 1 {
		return 0, false
	}
	for d, s := range e.slots {
		if s.set {
			return schemas.Direction(d), true
		}
	}
	return 0, false
}

// target is one morph handle and every config writing to it.
type target struct {
	handle  host.MorphHandle
	entries []*entry
	written bool
	last    float64
}

// compose sums the values of every config on the handle. The replacing sum is
// clamped before additive values are added on top. Nothing carries over between calls.
func (t *target) compose() float64 {
	var replacing, additive float64
	for _, e := range t.entries {
		if e.config.Family == Additive {
			additive += e.value
		} else {
			replacing += e.value
		}
	}
	return curves.Clamp(replacing, -MaxValue, MaxValue) + additive
}

func (t *target) publish() {
	v := t.compose()
	if t.written && v == t.last {
		return
	}
	t.handle.SetValue(v)
	t.written = true
	t.last = v
}

// Model owns every morph config and writes each handle once per Apply.
type Model struct {
	logger  *zap.Logger
	entries []*entry
	byID    map[string]*entry
	targets []*target
}

// NewModel resolves every config. A morph that cannot be resolved is logged and its
// config stays inert.
func NewModel(logger *zap.Logger, h host.Host, configs []Config) *Model {
	m := &Model{
		logger: logger.Named("morph"),
		byID:   make(map[string]*entry, len(configs)),
	}
	targets := make(map[string]*target)
	for _, c := range configs {
		if _, exists := m.byID[c.ID()]; exists {
			m.logger.Warn("Duplicate morph config; keeping the first", zap.String("config", c.ID()))
			continue
		}
		e := &entry{config: c}
		for _, b := range c.Bindings {
			if !b.Direction.Valid() {
				m.logger.Warn("Ignoring binding with invalid direction",
					zap.String("config", c.ID()), zap.Stringer("direction", b.Direction))
				continue
			}
			if !e.slots[b.Direction].set {
				e.registered++
			}
			e.slots[b.Direction] = slot{multipliers: b.Multipliers, set: true}
		}

		t, ok := targets[c.Morph]
		if !ok {
			handle, err := h.ResolveMorph(c.Morph)
			if err != nil {
				m.logger.Error("Morph unavailable; config will be inert",
					zap.String("morph", c.Morph), zap.String("family", c.Family.String()), zap.Error(err))
			} else {
				t = &target{handle: handle}
				targets[c.Morph] = t
				m.targets = append(m.targets, t)
			}
		}
		if t != nil {
			e.target = t
			t.entries = append(t.entries, e)
		}
		m.entries = append(m.entries, e)
		m.byID[c.ID()] = e
	}
	return m
}

// Apply recomputes every config from in and writes each handle's composed value.
func (m *Model) Apply(in schemas.Inputs) {
	s := in.Sliders
	gravity := in.Gravity.Scaled(s.Gravity)
	var force [2]schemas.Effects
	for i := range in.Force {
		force[i] = in.Force[i].Scaled(s.Force)
	}

	for _, e := range m.entries {
		if e.target == nil {
			continue
		}
		var effects schemas.Effects
		scale := s.Scale
		switch e.config.Family {
		case Gravity, Additive:
			effects = gravity
		case Position:
			effects = in.Gravity
		case Force:
			effects = force[e.config.Side]
			scale = s.Mass
		}

		v := 0.0
		for d, sl := range e.slots {
			if sl.set {
				v += e.config.Family.Calculate(sl.multipliers, effects[d], scale, s.Softness, s.Sag)
			}
		}
		if e.config.Family != Additive {
			v = curves.Clamp(v, -MaxValue, MaxValue)
		}
		e.value = v
	}
	m.publish()
}

// Exit zeroes every config whose only registered direction is d and publishes at
// once. Configs registered under other directions as well keep their value.
func (m *Model) Exit(d schemas.Direction) {
	for _, e := range m.entries {
		if only, ok := e.onlyDirection(); ok && only == d {
			e.value = 0
		}
	}
	m.publish()
}

// Reset sets every morph to exactly 0.
func (m *Model) Reset() {
	for _, e := range m.entries {
		e.value = 0
	}
	m.publish()
}

func (m *Model) publish() {
	for _, t := range m.targets {
		t.publish()
	}
}

// SetMultipliers replaces the multipliers of one direction of a config. The new
// table takes effect at the next Apply.
func (m *Model) SetMultipliers(id string, d schemas.Direction, mult schemas.MorphMultipliers) error {
	e, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("morph config %q not found", id)
	}
	if !d.Valid() {
		return fmt.Errorf("morph config %q: invalid direction %s", id, d)
	}
	if !e.slots[d].set {
		e.registered++
	}
	e.slots[d] = slot{multipliers: mult, set: true}
	return nil
}

// ConfigValue returns the most recent value of a config.
func (m *Model) ConfigValue(id string) (float64, bool) {
	e, ok := m.byID[id]
	if !ok {
		return 0, false
	}
	return e.value, true
}

// Values returns the composed value of every resolved morph keyed by name.
func (m *Model) Values() map[string]float64 {
	out := make(map[string]float64, len(m.targets))
	for _, t := range m.targets {
		out[t.handle.Name()] = t.compose()
	}
	return out
}
