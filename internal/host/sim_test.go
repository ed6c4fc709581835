package host

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_ToLocal(t *testing.T) {
	t.Parallel()

	tr := Transform{
		Position: mgl64.Vec3{1, 2, 3},
		Rotation: mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0}),
	}
	world := tr.Position.Add(tr.Rotation.Rotate(mgl64.Vec3{0, 0, 1}))
	local := tr.ToLocal(world)
	assert.InDelta(t, 0, local.X(), 1e-9)
	assert.InDelta(t, 0, local.Y(), 1e-9)
	assert.InDelta(t, 1, local.Z(), 1e-9)

	zero := Transform{}
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, zero.ToLocal(mgl64.Vec3{1, 1, 1}), "zero quaternion acts as identity")
}

func TestSimHost_Resolution(t *testing.T) {
	t.Parallel()

	h := NewSimHost(SimOptions{})
	h.AddRigidBody("chest", mgl64.Vec3{})
	h.AddSetting("spring", 0, 100, 10)
	h.AddMorph("sag")
	_, err := h.AddCollider("pectoral", "chest", 0.05)
	require.NoError(t, err)

	_, err = h.ResolveSetting("spring")
	assert.NoError(t, err)
	_, err = h.ResolveSetting("missing")
	assert.True(t, errors.Is(err, ErrSettingNotFound))

	_, err = h.ResolveMorph("sag")
	assert.NoError(t, err)
	_, err = h.ResolveMorph("missing")
	assert.True(t, errors.Is(err, ErrMorphNotFound))

	_, err = h.Body("missing")
	assert.True(t, errors.Is(err, ErrBodyNotFound))
	_, err = h.Collider("missing")
	assert.True(t, errors.Is(err, ErrBodyNotFound))

	_, err = h.AddCollider("orphan", "missing", 0.1)
	assert.Error(t, err)
	_, err = h.AddVertex("missing", mgl64.Vec3{})
	assert.Error(t, err)

	assert.InDelta(t, 1.0/60.0, h.FixedTimestep(), 1e-12)
	h.SetFixedTimestep(1.0 / 120.0)
	h.SetFixedTimestep(-1)
	assert.InDelta(t, 1.0/120.0, h.FixedTimestep(), 1e-12)
	assert.True(t, h.Ready())
	h.SetReady(false)
	assert.False(t, h.Ready())
}

func TestSimSetting_ClampsWrites(t *testing.T) {
	t.Parallel()

	s := NewSimSetting("damper", 0, 1, 0.5)
	s.SetValue(2)
	assert.Equal(t, 1.0, s.Value())
	s.SetValue(-1)
	assert.Equal(t, 0.0, s.Value())
	assert.Equal(t, 2, s.Writes())
}

func TestSimMesh_VertexBounds(t *testing.T) {
	t.Parallel()

	h := NewSimHost(SimOptions{})
	h.AddRigidBody("chest", mgl64.Vec3{0, 1, 0})
	idx, err := h.AddVertex("chest", mgl64.Vec3{0, 0, 0.1})
	require.NoError(t, err)

	v, ok := h.Mesh().Vertex(idx)
	require.True(t, ok)
	assert.InDelta(t, 0.1, v.Z(), 1e-12)

	_, ok = h.Mesh().Vertex(idx + 1)
	assert.False(t, ok)
	_, ok = h.Mesh().Vertex(-1)
	assert.False(t, ok)

	var nilMesh *SimMesh
	assert.Equal(t, 0, nilMesh.VertexCount())
}

func TestSimHost_SoftBodySagsUnderGravity(t *testing.T) {
	t.Parallel()

	h := NewSimHost(SimOptions{})
	h.AddSetting("spring", 1, 200, 50)
	h.AddSetting("damper", 0, 20, 5)
	h.AddSetting("mass", 0.1, 5, 1)
	rigid := h.AddRigidBody("chest", mgl64.Vec3{})
	soft := h.AddSoftBody("breast", mgl64.Vec3{0, 0, 0.1}, "spring", "damper", "mass")

	for i := 0; i < 600; i++ {
		h.Step()
	}

	// Settles at m*g/k below the anchor.
	assert.InDelta(t, -gravity/50, soft.Displacement().Y(), 1e-3)
	assert.Equal(t, mgl64.Vec3{}, rigid.Displacement())
	assert.InDelta(t, 10, h.Elapsed(), 1e-9)
}

func TestSimHost_StiffnessFollowsSettings(t *testing.T) {
	t.Parallel()

	sag := func(k float64) float64 {
		h := NewSimHost(SimOptions{})
		h.AddSetting("spring", 1, 200, k)
		b := h.AddSoftBody("breast", mgl64.Vec3{}, "spring", "", "")
		for i := 0; i < 600; i++ {
			h.Step()
		}
		return b.Displacement().Y()
	}

	assert.Less(t, sag(20), sag(100), "a softer spring sags further")
}

func TestSimHost_OrientationRotatesChest(t *testing.T) {
	t.Parallel()

	h := NewSimHost(SimOptions{})
	b := h.AddRigidBody("nipple", mgl64.Vec3{0, 0, 1})

	h.SetOrientation(90, 0)
	h.Step()

	pos := b.Position()
	assert.InDelta(t, 0, pos.Z(), 1e-9)
	assert.InDelta(t, 1, pos.Len(), 1e-9)
	assert.InDelta(t, 0, h.ChestTransform().ToLocal(pos).Sub(mgl64.Vec3{0, 0, 1}).Len(), 1e-9)
}

func TestSimHost_SwayIsDeterministic(t *testing.T) {
	t.Parallel()

	run := func() mgl64.Quat {
		h := NewSimHost(SimOptions{Seed: 7, Sway: Sway{PitchAmplitude: 30, RollAmplitude: 20, Frequency: 0.5}})
		for i := 0; i < 120; i++ {
			h.Step()
		}
		return h.ChestTransform().Rotation
	}

	a, b := run(), run()
	assert.True(t, a.ApproxEqual(b))
}
