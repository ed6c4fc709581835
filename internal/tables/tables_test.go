package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/collider"
	"github.com/xkilldash9x/softphys/internal/morph"
	"github.com/xkilldash9x/softphys/internal/physics"
	"github.com/xkilldash9x/softphys/internal/tracking"
)

func TestNewSimHost_ResolvesEveryTable(t *testing.T) {
	t.Parallel()

	h, err := NewSimHost(DefaultSimOptions())
	require.NoError(t, err)

	for _, spec := range TrackedPoints() {
		point, _, err := tracking.Resolve(h, spec)
		require.NoError(t, err, spec.Name)
		_, ok := point.Position()
		assert.True(t, ok, spec.Name)
	}

	pm := physics.NewModel(zap.NewNop(), h, PhysicsGroups())
	for _, g := range pm.Groups() {
		g.Each(func(_ schemas.Side, p *physics.Parameter) {
			assert.False(t, p.Inert(), p.Name())
		})
	}

	for _, c := range Morphs() {
		_, err := h.ResolveMorph(c.Morph)
		assert.NoError(t, err, c.Morph)
	}
	mm := morph.NewModel(zap.NewNop(), h, Morphs())
	assert.Len(t, mm.Values(), len(MorphNames()))

	assert.Len(t, collider.NewSet(zap.NewNop(), h, Colliders()).Colliders(), 2)
}

func TestPhysicsGroups_BasesStayInRange(t *testing.T) {
	t.Parallel()

	ranges := SettingRanges()
	steps := []float64{0, 0.25, 0.5, 0.75, 1}
	for _, g := range PhysicsGroups() {
		for _, mass := range steps {
			for _, softness := range steps {
				for _, quickness := range []float64{-1, 0, 1} {
					v := g.Config.Static.Calculate(mass, softness, quickness, 1)
					r := ranges[g.Left]
					assert.GreaterOrEqual(t, v, r.Min, "%s m=%v s=%v q=%v", g.Name, mass, softness, quickness)
					assert.LessOrEqual(t, v, r.Max, "%s m=%v s=%v q=%v", g.Name, mass, softness, quickness)
				}
			}
		}
	}
}

func TestMorphNames_Distinct(t *testing.T) {
	t.Parallel()

	names := MorphNames()
	seen := make(map[string]bool)
	for _, n := range names {
		assert.False(t, seen[n], n)
		seen[n] = true
	}
	assert.Contains(t, names, "lean_forward")
	assert.Less(t, len(names), len(Morphs()), "lean_forward carries two configs")
}
