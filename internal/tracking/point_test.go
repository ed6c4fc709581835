package tracking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/softphys/internal/host"
)

// movableSource is a Source whose position the test drives directly.
type movableSource struct {
	pos       mgl64.Vec3
	available bool
}

func newMovableSource(pos mgl64.Vec3) *movableSource {
	return &movableSource{pos: pos, available: true}
}

func (m *movableSource) Position() (mgl64.Vec3, bool) { return m.pos, m.available }

func identityFrame() host.Transform {
	return host.Transform{Rotation: mgl64.QuatIdent()}
}

func TestSignedAngle(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		a, b     mgl64.Vec2
		expected float64
	}{
		{"same direction", mgl64.Vec2{1, 0}, mgl64.Vec2{2, 0}, 0},
		{"counter clockwise quarter", mgl64.Vec2{1, 0}, mgl64.Vec2{0, 1}, 90},
		{"clockwise quarter", mgl64.Vec2{1, 0}, mgl64.Vec2{0, -1}, -90},
		{"forty five", mgl64.Vec2{1, 0}, mgl64.Vec2{1, 1}, 45},
		{"zero vector", mgl64.Vec2{}, mgl64.Vec2{1, 1}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, SignedAngle(tc.a, tc.b), 1e-9)
		})
	}
}

func TestTrackedPoint_UncalibratedReportsZero(t *testing.T) {
	src := newMovableSource(mgl64.Vec3{0, 0, 1})
	p := NewTrackedPoint("left", identityFrame, src, nil, 3)

	p.Update()
	src.pos = mgl64.Vec3{0, 1, 1}
	p.Update()

	assert.False(t, p.Calibrated())
	assert.Zero(t, p.AngleX())
	assert.Zero(t, p.AngleY())
	assert.Zero(t, p.DepthDiff())
}

func TestTrackedPoint_DeviationAfterCalibration(t *testing.T) {
	src := newMovableSource(mgl64.Vec3{0, 0, 1})
	ref := newMovableSource(mgl64.Vec3{0, 0, 0.5})
	p := NewTrackedPoint("left", identityFrame, src, ref, 1)

	p.Update()
	p.Calibrate()
	require.True(t, p.Calibrated())
	assert.Zero(t, p.AngleY())

	// Tip the point 45 degrees up in the z/y plane and 45 degrees sideways in z/x,
	// and push the reference 0.1 deeper.
	src.pos = mgl64.Vec3{1, 1, 1}
	ref.pos = mgl64.Vec3{0, 0, 0.4}
	p.Update()

	assert.InDelta(t, 45, p.AngleY(), 1e-9)
	assert.InDelta(t, 45, p.AngleX(), 1e-9)
	assert.InDelta(t, 0.1, p.DepthDiff(), 1e-9)

	p.Reset()
	assert.Zero(t, p.AngleY())
	assert.Zero(t, p.AngleX())
	assert.Zero(t, p.DepthDiff())
	assert.True(t, p.Calibrated(), "reset keeps the baseline")
}

func TestTrackedPoint_RelativeToFrame(t *testing.T) {
	frame := host.Transform{
		Position: mgl64.Vec3{10, 0, 0},
		Rotation: mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0}),
	}
	src := newMovableSource(mgl64.Vec3{11, 0, 0})
	p := NewTrackedPoint("p", func() host.Transform { return frame }, src, nil, 1)

	p.Update()
	// World +X rotated back by -90 degrees about Y lands on local +Z.
	cur := p.Current()
	assert.InDelta(t, 0, cur.X(), 1e-9)
	assert.InDelta(t, 1, cur.Z(), 1e-9)
}

func TestTrackedPoint_MovingAverage(t *testing.T) {
	src := newMovableSource(mgl64.Vec3{0, 0, 0})
	p := NewTrackedPoint("p", identityFrame, src, nil, 4)

	p.Update() // primes the window with the first sample
	src.pos = mgl64.Vec3{4, 0, 0}
	p.Update()

	assert.InDelta(t, 1.0, p.Current().X(), 1e-12)
	w := p.Window()
	require.Len(t, w, 4)
	assert.Equal(t, mgl64.Vec3{4, 0, 0}, w[0], "most recent sample first")
}

func TestTrackedPoint_UnavailableSourceKeepsWindow(t *testing.T) {
	src := newMovableSource(mgl64.Vec3{0, 0, 1})
	p := NewTrackedPoint("p", identityFrame, src, nil, 2)
	p.Update()
	p.Calibrate()

	src.available = false
	src.pos = mgl64.Vec3{0, 5, 1}
	assert.NotPanics(t, p.Update)
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, p.Window()[0])
	assert.Zero(t, p.AngleY())
}

func TestTrackedPoint_NilSourceNeverCalibrates(t *testing.T) {
	p := NewTrackedPoint("p", nil, nil, nil, 0)
	assert.NotPanics(t, func() {
		p.Update()
		p.Calibrate()
	})
	assert.False(t, p.Calibrated())
	assert.Len(t, p.Window(), DefaultSamplingWindow)
}

func TestTrackedPoint_SetSamplingWindow(t *testing.T) {
	src := newMovableSource(mgl64.Vec3{0, 0, 1})
	p := NewTrackedPoint("p", identityFrame, src, nil, 3)
	p.Update()
	p.Calibrate()
	neutral := p.Snapshot().Neutral

	samples := []mgl64.Vec3{{0, 1, 1}, {0, 2, 1}, {0, 3, 1}}
	for _, s := range samples {
		src.pos = s
		p.Update()
	}

	t.Run("GrowPreservesRecentAndBackfillsNeutral", func(t *testing.T) {
		p.SetSamplingWindow(5)
		w := p.Window()
		require.Len(t, w, 5)
		assert.Equal(t, samples[2], w[0])
		assert.Equal(t, samples[1], w[1])
		assert.Equal(t, samples[0], w[2])
		assert.Equal(t, neutral, w[3])
		assert.Equal(t, neutral, w[4])
	})

	t.Run("ShrinkKeepsMostRecent", func(t *testing.T) {
		p.SetSamplingWindow(2)
		w := p.Window()
		require.Len(t, w, 2)
		assert.Equal(t, samples[2], w[0])
		assert.Equal(t, samples[1], w[1])
	})

	t.Run("NonPositiveClampsToOne", func(t *testing.T) {
		p.SetSamplingWindow(0)
		assert.Len(t, p.Window(), 1)
	})
}

func TestTrackedPoint_GrowBeforeCalibrationBackfillsOldestSample(t *testing.T) {
	// -- Setup --
	rest := mgl64.Vec3{0, 0, 1}
	src := newMovableSource(rest)
	p := NewTrackedPoint("p", identityFrame, src, nil, 2)
	p.Update()

	// -- Execution --
	p.SetSamplingWindow(4)
	p.Calibrate()

	// -- Assertions --
	for i, v := range p.Window() {
		assert.Equal(t, rest, v, "slot %d", i)
	}
	assert.Equal(t, rest, p.Snapshot().Neutral, "a point at rest calibrates to its resting position")

	p.Update()
	assert.Zero(t, p.AngleX())
	assert.Zero(t, p.AngleY())
}

func TestTrackedPoint_SnapshotRestore(t *testing.T) {
	src := newMovableSource(mgl64.Vec3{0, 0, 1})
	p := NewTrackedPoint("p", identityFrame, src, nil, 1)
	p.Update()
	before := p.Snapshot()
	assert.False(t, before.Calibrated)

	p.Calibrate()
	src.pos = mgl64.Vec3{0, 1, 1}
	p.Update()
	assert.NotZero(t, p.AngleY())

	p.Restore(before)
	assert.False(t, p.Calibrated())
	assert.Zero(t, p.AngleY())
}
