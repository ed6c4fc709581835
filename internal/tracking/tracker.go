package tracking

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/softphys/internal/host"
)

// Tracker owns every tracked point of a body and forwards bulk operations.
type Tracker struct {
	logger *zap.Logger
	points []*TrackedPoint
	byName map[string]*TrackedPoint
}

// NewTracker resolves each spec against the host. A spec that cannot be resolved
// is logged and skipped; the remaining points still track.
func NewTracker(logger *zap.Logger, h host.Host, specs []PointSpec, window int) *Tracker {
	t := &Tracker{
		logger: logger.Named("tracker"),
		byName: make(map[string]*TrackedPoint, len(specs)),
	}
	for _, spec := range specs {
		point, reference, err := Resolve(h, spec)
		if err != nil {
			t.logger.Error("Failed to resolve tracked point; it will report zero deviation",
				zap.String("point", spec.Name), zap.Error(err))
			point = nil
		}
		if err := t.Add(NewTrackedPoint(spec.Name, h.ChestTransform, point, reference, window)); err != nil {
			t.logger.Warn("Skipping tracked point", zap.Error(err))
		}
	}
	return t
}

// Add registers a point. Names must be unique.
func (t *Tracker) Add(p *TrackedPoint) error {
	if _, exists := t.byName[p.Name()]; exists {
		return fmt.Errorf("tracked point %q already registered", p.Name())
	}
	t.points = append(t.points, p)
	t.byName[p.Name()] = p
	return nil
}

// Point returns a point by name.
func (t *Tracker) Point(name string) (*TrackedPoint, bool) {
	p, ok := t.byName[name]
	return p, ok
}

// Points returns every point in registration order.
func (t *Tracker) Points() []*TrackedPoint {
	return t.points
}

// Update samples every point.
func (t *Tracker) Update() {
	for _, p := range t.points {
		p.Update()
	}
}

// Calibrate captures the neutral baseline of every point.
func (t *Tracker) Calibrate() {
	for _, p := range t.points {
		p.Calibrate()
	}
}

// Reset zeroes every point's deviation.
func (t *Tracker) Reset() {
	for _, p := range t.points {
		p.Reset()
	}
}

// SetSamplingWindow resizes every point's window.
func (t *Tracker) SetSamplingWindow(n int) {
	for _, p := range t.points {
		p.SetSamplingWindow(n)
	}
}

// Snapshot captures every point's baseline, keyed by name.
func (t *Tracker) Snapshot() map[string]Baseline {
	out := make(map[string]Baseline, len(t.points))
	for _, p := range t.points {
		out[p.Name()] = p.Snapshot()
	}
	return out
}

// Restore reinstates baselines captured with Snapshot.
func (t *Tracker) Restore(baselines map[string]Baseline) {
	for name, b := range baselines {
		if p, ok := t.byName[name]; ok {
			p.Restore(b)
		}
	}
}
