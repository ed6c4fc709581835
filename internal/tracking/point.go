// Package tracking measures how far simulated tissue has moved away from its
// calibrated neutral pose, relative to a reference frame.
package tracking

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/xkilldash9x/softphys/internal/host"
)

// DefaultSamplingWindow is the moving-average period used when none is configured.
const DefaultSamplingWindow = 4

// FrameFunc returns the reference frame positions are measured in.
type FrameFunc func() host.Transform

// Baseline is the calibrated neutral state of a point.
type Baseline struct {
	Neutral      mgl64.Vec3
	NeutralDepth mgl64.Vec3
	Calibrated   bool
}

// TrackedPoint keeps a moving average of one point's frame-relative position and
// derives its deviation from the neutral baseline.
type TrackedPoint struct {
	name      string
	frame     FrameFunc
	point     Source
	reference Source

	// window holds frame-relative samples, most recent first.
	window []mgl64.Vec3
	primed bool

	current      mgl64.Vec3
	currentDepth mgl64.Vec3
	baseline     Baseline

	angleX    float64
	angleY    float64
	depthDiff float64
}

// NewTrackedPoint creates a point. reference may be nil, in which case the depth
// deviation is always zero.
func NewTrackedPoint(name string, frame FrameFunc, point, reference Source, window int) *TrackedPoint {
	if window < 1 {
		window = DefaultSamplingWindow
	}
	if frame == nil {
		frame = func() host.Transform { return host.Transform{Rotation: mgl64.QuatIdent()} }
	}
	return &TrackedPoint{
		name:      name,
		frame:     frame,
		point:     point,
		reference: reference,
		window:    make([]mgl64.Vec3, window),
	}
}

// Name returns the point's name.
func (p *TrackedPoint) Name() string { return p.name }

// AngleX is the signed deviation in the z/x plane, in degrees.
func (p *TrackedPoint) AngleX() float64 { return p.angleX }

// AngleY is the signed deviation in the z/y plane, in degrees.
func (p *TrackedPoint) AngleY() float64 { return p.angleY }

// DepthDiff is the neutral reference depth minus the current reference depth.
func (p *TrackedPoint) DepthDiff() float64 { return p.depthDiff }

// Calibrated reports whether a neutral baseline has been captured.
func (p *TrackedPoint) Calibrated() bool { return p.baseline.Calibrated }

// Current returns the smoothed frame-relative position.
func (p *TrackedPoint) Current() mgl64.Vec3 { return p.current }

// Window returns a copy of the sampling window, most recent first.
func (p *TrackedPoint) Window() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(p.window))
	copy(out, p.window)
	return out
}

// Snapshot returns the current baseline so it can be restored later.
func (p *TrackedPoint) Snapshot() Baseline { return p.baseline }

// Restore reinstates a baseline taken with Snapshot.
func (p *TrackedPoint) Restore(b Baseline) {
	p.baseline = b
	p.derive()
}

// Update pushes the latest sample into the window and recomputes the deviations.
// An unavailable source leaves the window untouched.
func (p *TrackedPoint) Update() {
	if p.sample() {
		p.derive()
	}
}

// Calibrate stores the current smoothed sample as the neutral baseline.
func (p *TrackedPoint) Calibrate() {
	if !p.primed && !p.sample() {
		return
	}
	p.baseline = Baseline{
		Neutral:      p.current,
		NeutralDepth: p.currentDepth,
		Calibrated:   true,
	}
	p.derive()
}

// SetSamplingWindow resizes the moving-average window. The most recent samples
// are kept. New slots take the neutral value once calibrated, and the oldest
// kept sample before that.
func (p *TrackedPoint) SetSamplingWindow(n int) {
	if n < 1 {
		n = 1
	}
	if n == len(p.window) {
		return
	}
	resized := make([]mgl64.Vec3, n)
	kept := copy(resized, p.window)
	fill := p.baseline.Neutral
	if !p.baseline.Calibrated {
		fill = p.window[kept-1]
	}
	for i := kept; i < n; i++ {
		resized[i] = fill
	}
	p.window = resized
	if p.primed {
		p.current = mean(p.window)
		p.derive()
	}
}

// Reset zeroes the deviations without touching the baseline.
func (p *TrackedPoint) Reset() {
	p.angleX = 0
	p.angleY = 0
	p.depthDiff = 0
}

func (p *TrackedPoint) sample() bool {
	if p.point == nil {
		return false
	}
	world, ok := p.point.Position()
	if !ok {
		return false
	}
	frame := p.frame()
	rel := frame.ToLocal(world)

	if !p.primed {
		for i := range p.window {
			p.window[i] = rel
		}
		p.primed = true
	} else {
		copy(p.window[1:], p.window[:len(p.window)-1])
		p.window[0] = rel
	}
	p.current = mean(p.window)

	if p.reference != nil {
		if ref, ok := p.reference.Position(); ok {
			p.currentDepth = frame.ToLocal(ref)
		}
	}
	return true
}

func (p *TrackedPoint) derive() {
	if !p.baseline.Calibrated {
		p.Reset()
		return
	}
	n, c := p.baseline.Neutral, p.current
	p.angleY = SignedAngle(mgl64.Vec2{n.Z(), n.Y()}, mgl64.Vec2{c.Z(), c.Y()})
	p.angleX = SignedAngle(mgl64.Vec2{n.Z(), n.X()}, mgl64.Vec2{c.Z(), c.X()})
	if p.reference != nil {
		p.depthDiff = p.baseline.NeutralDepth.Sub(p.currentDepth).Z()
	} else {
		p.depthDiff = 0
	}
}

// SignedAngle returns the angle in degrees from a to b, positive counter-clockwise.
// Zero-length vectors give 0.
func SignedAngle(a, b mgl64.Vec2) float64 {
	if a.Len() < 1e-12 || b.Len() < 1e-12 {
		return 0
	}
	cross := a.X()*b.Y() - a.Y()*b.X()
	dot := a.Dot(b)
	return mgl64.RadToDeg(math.Atan2(cross, dot))
}

func mean(vs []mgl64.Vec3) mgl64.Vec3 {
	if len(vs) == 0 {
		return mgl64.Vec3{}
	}
	var sum mgl64.Vec3
	for _, v := range vs {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(vs)))
}
