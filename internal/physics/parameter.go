// internal/physics/parameter.go
package physics

import (
	"math"

	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/curves"
	"github.com/xkilldash9x/softphys/internal/host"
)

// ParameterConfig describes how one physics setting is composed.
type ParameterConfig struct {
	Static  *StaticConfig
	Gravity [schemas.DirectionCount]*DynamicConfig
	Force   [schemas.DirectionCount]*DynamicConfig
	// InverseFriction is evaluated with effect = 1 - friction.
	InverseFriction *DynamicConfig
	// Nipple turns the base into base × (1 + Nipple(erection)).
	Nipple *DynamicConfig
}

// Parameter is one physics setting. Its published value is
//
//	offset + base × nippleMultiplier + Σ gravity + Σ force + inverseFriction
//
// where the nipple multiplier is 1 unless a nipple config is present. Every
// contribution is a separate slot, so zeroing one never disturbs another.
type Parameter struct {
	name    string
	setting host.Setting
	config  ParameterConfig

	min, max             float64
	base                 float64
	offset               float64
	offsetMin, offsetMax float64

	gravity         [schemas.DirectionCount]float64
	force           [schemas.DirectionCount]float64
	inverseFriction float64
	nippleMul       float64

	synced    bool
	lastValue float64
}

// NewParameter binds config to setting. A nil setting makes the parameter inert:
// it still composes values but never publishes them.
func NewParameter(name string, setting host.Setting, config ParameterConfig) *Parameter {
	p := &Parameter{
		name:      name,
		setting:   setting,
		config:    config,
		min:       math.Inf(-1),
		max:       math.Inf(1),
		nippleMul: 1,
	}
	if setting != nil {
		p.min, p.max = setting.Min(), setting.Max()
		p.base = curves.Clamp(setting.Value(), p.min, p.max)
	}
	p.updateOffsetBounds()
	return p
}

func (p *Parameter) Name() string { return p.name }

// Inert reports whether the parameter has no setting to publish to.
func (p *Parameter) Inert() bool { return p.setting == nil }

func (p *Parameter) Base() float64   { return p.base }
func (p *Parameter) Offset() float64 { return p.offset }

// OffsetBounds returns the range the offset is held in.
func (p *Parameter) OffsetBounds() (min, max float64) { return p.offsetMin, p.offsetMax }

// Gravity returns the stored gravity contribution of d.
func (p *Parameter) Gravity(d schemas.Direction) float64 {
	if !d.Valid() {
		return 0
	}
	return p.gravity[d]
}

// Force returns the stored force contribution of d.
func (p *Parameter) Force(d schemas.Direction) float64 {
	if !d.Valid() {
		return 0
	}
	return p.force[d]
}

func (p *Parameter) InverseFriction() float64  { return p.inverseFriction }
func (p *Parameter) NippleMultiplier() float64 { return p.nippleMul }

// UpdateValue recomputes the base from the static config and re-bounds the offset.
// Without a static config the base keeps its current value.
func (p *Parameter) UpdateValue(mass, softness, quickness, rate float64) {
	if p.config.Static != nil {
		p.base = p.config.Static.Calculate(mass, softness, quickness, rate)
	}
	p.base = curves.Clamp(p.base, p.min, p.max)
	p.updateOffsetBounds()
	p.offset = curves.Clamp(p.offset, p.offsetMin, p.offsetMax)
}

// SetOffset stores a user offset, clamped so base + offset stays in range.
func (p *Parameter) SetOffset(v float64) {
	p.offset = curves.Clamp(v, p.offsetMin, p.offsetMax)
}

func (p *Parameter) updateOffsetBounds() {
	p.offsetMin = -(p.base - p.min)
	p.offsetMax = p.max - p.base
	if math.IsNaN(p.offsetMin) || p.offsetMin > 0 {
		p.offsetMin = 0
	}
	if math.IsNaN(p.offsetMax) || p.offsetMax < 0 {
		p.offsetMax = 0
	}
}

// UpdateGravityValue stores the gravity contribution of d for effect.
func (p *Parameter) UpdateGravityValue(d schemas.Direction, effect, mass, softness float64) {
	if !d.Valid() {
		return
	}
	p.gravity[d] = p.contribution(p.config.Gravity[d], effect, mass, softness)
}

// UpdateForceValue stores the force contribution of d for effect.
func (p *Parameter) UpdateForceValue(d schemas.Direction, effect, mass, softness float64) {
	if !d.Valid() {
		return
	}
	p.force[d] = p.contribution(p.config.Force[d], effect, mass, softness)
}

// UpdateInverseFrictionValue stores the contribution that grows as friction drops.
func (p *Parameter) UpdateInverseFrictionValue(friction, mass, softness float64) {
	p.inverseFriction = p.contribution(p.config.InverseFriction, 1-curves.Clamp01(friction), mass, softness)
}

// UpdateNippleValue recomputes the nipple-erection multiplier.
func (p *Parameter) UpdateNippleValue(erection, mass, softness float64) {
	p.nippleMul = 1 + p.config.Nipple.Calculate(erection, mass, softness)
}

func (p *Parameter) contribution(c *DynamicConfig, effect, mass, softness float64) float64 {
	v := c.Calculate(effect, mass, softness)
	if c != nil && c.Multiplicative {
		v *= p.base
	}
	return v
}

// ResetGravity zeroes the listed directions, or all of them when none are given.
func (p *Parameter) ResetGravity(dirs ...schemas.Direction) {
	resetSlots(&p.gravity, dirs)
}

// ResetForce zeroes the listed directions, or all of them when none are given.
func (p *Parameter) ResetForce(dirs ...schemas.Direction) {
	resetSlots(&p.force, dirs)
}

func resetSlots(slots *[schemas.DirectionCount]float64, dirs []schemas.Direction) {
	if len(dirs) == 0 {
		*slots = [schemas.DirectionCount]float64{}
		return
	}
	for _, d := range dirs {
		if d.Valid() {
			slots[d] = 0
		}
	}
}

// Reset drops every dynamic contribution. Base and offset are kept.
func (p *Parameter) Reset() {
	p.ResetGravity()
	p.ResetForce()
	p.inverseFriction = 0
	p.nippleMul = 1
}

// Value returns the composed value.
func (p *Parameter) Value() float64 {
	v := p.offset + p.base*p.nippleMul + p.inverseFriction
	for d := range p.gravity {
		v += p.gravity[d] + p.force[d]
	}
	return v
}

// Sync pushes the composed value, clamped to the setting's range, to the host
// setting. It reports whether a write happened; unchanged values are not rewritten.
func (p *Parameter) Sync() bool {
	if p.setting == nil {
		return false
	}
	v := curves.Clamp(p.Value(), p.min, p.max)
	if p.synced && v == p.lastValue {
		return false
	}
	p.setting.SetValue(v)
	p.synced = true
	p.lastValue = v
	return true
}
