// internal/engine/steps.go
package engine

import "go.uber.org/zap"

// steps performs the calibration phases against the engine's components. The
// machine calls it from inside Tick, so it never takes the engine lock itself.
type steps struct{ e *Engine }

// Ready holds a queued calibration while the host is busy or sliders are still
// moving, meaning input arrived since the last recompute pass.
func (s steps) Ready() bool {
	return s.e.ctx.Host.Ready() && !s.e.dirty
}

func (s steps) Snapshot() {
	s.e.trackerBaselines = s.e.tracker.Snapshot()
	s.e.colliderBaselines = s.e.colliders.Snapshot()
}

func (s steps) Restore() {
	s.e.tracker.Restore(s.e.trackerBaselines)
	s.e.colliders.Restore(s.e.colliderBaselines)
}

// PreRefresh drops every transient contribution so the body settles under its
// base values alone.
func (s steps) PreRefresh() {
	s.e.physics.Reset()
	s.e.morphs.Reset()
	s.e.physics.Publish()
	s.e.hasBucket = false
}

func (s steps) UpdateMass() bool {
	if !s.e.ctx.Host.Ready() {
		return false
	}
	s.e.dirty = true
	s.e.recompute()
	n := s.e.physics.Publish()
	s.e.logger.Debug("Calibration mass pass", zap.Int("settings_written", n))
	return true
}

func (s steps) CaptureNeutral() {
	s.e.tracker.Calibrate()
	s.e.colliders.Calibrate()
}

func (s steps) Finish() {
	s.e.logger.Debug("Calibration finished; updates resumed", zap.Int("runs", s.e.calibration.Runs()))
}
