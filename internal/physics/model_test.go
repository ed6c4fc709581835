package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/host"
)

func TestGroup_OffsetPropagation(t *testing.T) {
	t.Parallel()

	newPair := func() (*Parameter, *Parameter) {
		l := NewParameter("l", host.NewSimSetting("l", -10, 10, 0), ParameterConfig{})
		r := NewParameter("r", host.NewSimSetting("r", -10, 10, 0), ParameterConfig{})
		return l, r
	}

	l, r := newPair()
	NewGroup("same", l, r, GroupOptions{}).SetOffset(3)
	assert.Equal(t, 3.0, l.Offset())
	assert.Equal(t, 3.0, r.Offset())

	l, r = newPair()
	NewGroup("mirror", l, r, GroupOptions{InvertRight: true}).SetOffset(3)
	assert.Equal(t, 3.0, l.Offset())
	assert.Equal(t, -3.0, r.Offset())

	l, r = newPair()
	g := NewGroup("left", l, r, GroupOptions{LeftOnly: true})
	g.SetOffset(3)
	assert.Equal(t, 3.0, l.Offset())
	assert.Zero(t, r.Offset())
	assert.Nil(t, g.Side(schemas.Right))

	visited := 0
	g.Each(func(side schemas.Side, _ *Parameter) {
		assert.Equal(t, schemas.Left, side)
		visited++
	})
	assert.Equal(t, 1, visited)

	solo := NewGroup("solo", l, nil, GroupOptions{})
	assert.True(t, solo.Options().LeftOnly)
}

func newModelHost() *host.SimHost {
	h := host.NewSimHost(host.SimOptions{FixedTimestep: 1.0 / 120.0})
	h.AddSetting("spring.left", 0, 500, 0)
	h.AddSetting("spring.right", 0, 500, 0)
	h.AddSetting("damper.left", 0, 50, 0)
	return h
}

func modelSpecs() []GroupSpec {
	return []GroupSpec{
		{
			Name: "spring", Left: "spring.left", Right: "spring.right",
			Config: ParameterConfig{
				Static: &StaticConfig{MinMminS: 50, MaxMminS: 100, MinMmaxS: 30, DependOnPhysicsRate: true},
				Gravity: [schemas.DirectionCount]*DynamicConfig{
					schemas.Forward: {Base: 20},
				},
				Force: [schemas.DirectionCount]*DynamicConfig{
					schemas.Up: {Base: 10},
				},
			},
		},
		{Name: "damper", Left: "damper.left", Right: "damper.right", Config: ParameterConfig{Static: Flat(2)}},
	}
}

func TestModel_ComposeAndPublish(t *testing.T) {
	t.Parallel()

	h := newModelHost()
	m := NewModel(zap.NewNop(), h, modelSpecs())
	require.Len(t, m.Groups(), 2)
	assert.InDelta(t, 2, m.Rate(), 1e-12)

	damper, ok := m.Group("damper")
	require.True(t, ok)
	assert.True(t, damper.Right().Inert(), "unresolved settings become inert")

	sliders := schemas.DefaultSliders()
	sliders.Mass, sliders.Softness = 0, 0
	m.Recompute(sliders)

	var force [2]schemas.Effects
	force[schemas.Left][schemas.Up] = 0.5
	m.Apply(schemas.Inputs{
		Sliders: sliders,
		Gravity: schemas.Effects{schemas.Forward: 0.5},
		Force:   force,
	})

	values := m.Values()
	// 50 × rate 2, plus gravity 0.5 × 20, plus left force 0.5 × 10.
	assert.InDelta(t, 115, values["spring.left"], 1e-9)
	assert.InDelta(t, 110, values["spring.right"], 1e-9)
	assert.InDelta(t, 2, values["damper.left"], 1e-9)

	assert.Equal(t, 3, m.Publish(), "inert parameters are skipped")
	assert.Equal(t, 0, m.Publish())
	s, _ := h.Setting("spring.left")
	assert.InDelta(t, 115, s.Value(), 1e-9)

	// Gravity multiplier slider scales the orientation effect.
	sliders.Gravity[schemas.Forward] = 0
	m.Apply(schemas.Inputs{Sliders: sliders, Gravity: schemas.Effects{schemas.Forward: 0.5}, Force: force})
	assert.InDelta(t, 105, m.Values()["spring.left"], 1e-9)

	m.Reset()
	assert.InDelta(t, 100, m.Values()["spring.left"], 1e-9)
}

func TestModel_SetOffset(t *testing.T) {
	t.Parallel()

	m := NewModel(zap.NewNop(), newModelHost(), modelSpecs())
	m.Recompute(schemas.DefaultSliders())

	require.NoError(t, m.SetOffset("spring", 5))
	g, _ := m.Group("spring")
	assert.Equal(t, 5.0, g.Left().Offset())
	assert.Error(t, m.SetOffset("missing", 1))

	m.SetTimestep(1.0 / 60.0)
	assert.InDelta(t, 1, m.Rate(), 1e-12)
}
