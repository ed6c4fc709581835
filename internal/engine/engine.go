// internal/engine/engine.go
package engine

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/calibration"
	"github.com/xkilldash9x/softphys/internal/collider"
	"github.com/xkilldash9x/softphys/internal/config"
	"github.com/xkilldash9x/softphys/internal/morph"
	"github.com/xkilldash9x/softphys/internal/observability"
	"github.com/xkilldash9x/softphys/internal/orientation"
	"github.com/xkilldash9x/softphys/internal/physics"
	"github.com/xkilldash9x/softphys/internal/tracking"
)

// ErrDisabled is returned by Tick once a fault has switched the engine off.
var ErrDisabled = errors.New("engine disabled after a fault")

// Engine is the top-level controller. It owns every component and runs them in a
// fixed order once per tick. All methods are safe for concurrent use; Tick and
// the setters serialize on one lock.
type Engine struct {
	mu sync.Mutex

	ctx       Context
	logger    *zap.Logger
	sessionID string
	opts      Options
	data      Data
	reporter  *observability.OnceReporter

	tracker     *tracking.Tracker
	physics     *physics.Model
	morphs      *morph.Model
	colliders   *collider.Set
	calibration *calibration.Machine

	sliders schemas.Sliders
	// dirty is set by slider input and cleared by the recompute pass.
	dirty bool
	// timestep is the host physics step the rate multiplier was derived from.
	timestep float64
	// calibratedMass and calibratedScale are the sliders the last queued calibration saw.
	calibratedMass, calibratedScale float64

	sample    orientation.Sample
	bucket    schemas.Direction
	hasBucket bool
	inputs    schemas.Inputs
	frame     uint64
	disabled  bool

	trackerBaselines  map[string]tracking.Baseline
	colliderBaselines map[string]collider.Baseline
}

// New assembles an engine against ctx.Host and queues an initial calibration so
// tracked points get a neutral baseline before any contribution is published.
func New(ctx Context, opts Options, data Data) (*Engine, error) {
	if err := ctx.validate(); err != nil {
		return nil, err
	}
	if ctx.Logger == nil {
		ctx.Logger = observability.GetLogger()
	}
	if ctx.Clock == nil {
		ctx.Clock = calibration.SystemClock{}
	}
	if opts.SamplingWindow < 1 {
		opts.SamplingWindow = 1
	}

	logger, sessionID := observability.SessionLogger(ctx.Logger.Named("engine"))
	e := &Engine{
		ctx:       ctx,
		logger:    logger,
		sessionID: sessionID,
		opts:      opts,
		data:      data,
		reporter:  observability.NewOnceReporter(logger),
		sliders:   schemas.DefaultSliders(),
		dirty:     true,
		timestep:  ctx.Host.FixedTimestep(),
	}

	e.tracker = tracking.NewTracker(logger, ctx.Host, data.Points, opts.SamplingWindow)
	e.physics = physics.NewModel(logger, ctx.Host, data.Physics)
	e.morphs = morph.NewModel(logger, ctx.Host, data.Morphs)
	e.colliders = collider.NewSet(logger, ctx.Host, data.Colliders)
	e.calibration = calibration.New(logger, ctx.Clock, steps{e}, opts.Calibration)

	e.physics.Recompute(e.sliders)
	e.requestCalibration()

	logger.Info("Engine initialized",
		zap.Int("tracked_points", len(e.tracker.Points())),
		zap.Int("physics_groups", len(e.physics.Groups())),
		zap.Int("colliders", len(e.colliders.Colliders())),
		zap.Float64("physics_rate", e.physics.Rate()))
	return e, nil
}

// SessionID identifies this engine in logs.
func (e *Engine) SessionID() string { return e.sessionID }

// Tick runs one control step:
//
//  1. advance calibration
//  2. decompose the chest orientation
//  3. sample tracked points and rebuild slider-derived bases if sliders or the timestep changed
//  4. unless calibrating: derive effects, apply physics and morph contributions,
//     adjust colliders and publish the settings that changed
//
// A panic inside a step disables the engine; the fault is logged once and every
// later call returns ErrDisabled.
func (e *Engine) Tick() (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disabled {
		return ErrDisabled
	}
	defer func() {
		if r := recover(); r != nil {
			err = e.disable(fmt.Errorf("tick %d panicked: %v", e.frame, r))
		}
	}()

	e.frame++
	e.calibration.Tick()

	e.sample = orientation.Decompose(e.ctx.Host.ChestTransform().Rotation)
	if math.IsNaN(e.sample.Pitch) || math.IsNaN(e.sample.Roll) {
		return e.disable(fmt.Errorf("tick %d: orientation is not finite", e.frame))
	}
	e.tracker.Update()
	e.recompute()

	if e.calibration.Busy() {
		return nil
	}

	bucket := orientation.Bucket(e.sample)
	if e.hasBucket && bucket != e.bucket {
		e.morphs.Exit(e.bucket)
	}
	e.bucket, e.hasBucket = bucket, true

	e.inputs = schemas.Inputs{
		Sliders: e.sliders,
		Gravity: orientation.Effects(e.sample),
		Force:   e.forces(),
	}
	e.physics.Apply(e.inputs)
	e.morphs.Apply(e.inputs)
	e.colliders.Adjust(e.sliders)
	e.physics.Publish()
	return nil
}

func (e *Engine) forces() [2]schemas.Effects {
	var out [2]schemas.Effects
	for side, name := range e.data.ForcePoints {
		if name == "" {
			continue
		}
		if p, ok := e.tracker.Point(name); ok {
			out[side] = p.Forces(e.opts.Forces)
		}
	}
	return out
}

// recompute rebuilds every slider-derived base once, after all input for the tick is known.
// A changed host timestep counts as new input.
func (e *Engine) recompute() {
	if dt := e.ctx.Host.FixedTimestep(); dt != e.timestep {
		e.timestep = dt
		e.physics.SetTimestep(dt)
		e.dirty = true
		e.logger.Debug("Physics timestep changed",
			zap.Float64("fixed_timestep", dt), zap.Float64("physics_rate", e.physics.Rate()))
	}
	if !e.dirty {
		return
	}
	e.physics.Recompute(e.sliders)
	e.dirty = false
}

func (e *Engine) disable(cause error) error {
	e.disabled = true
	e.reporter.Report("Engine fault; further ticks are disabled",
		zap.Uint64("frame", e.frame), zap.Error(cause))
	return fmt.Errorf("%w: %v", ErrDisabled, cause)
}

// Disabled reports whether a fault has switched the engine off.
func (e *Engine) Disabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

// SetSliders stores new slider input. Dependents are recomputed once at the next
// tick. A mass or scale change beyond the configured threshold queues a calibration.
func (e *Engine) SetSliders(s schemas.Sliders) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sliders = s
	e.dirty = true
	if math.Abs(s.Mass-e.calibratedMass) > e.opts.RecalibrationThreshold ||
		math.Abs(s.Scale-e.calibratedScale) > e.opts.RecalibrationThreshold {
		e.logger.Debug("Mass changed; queueing calibration",
			zap.Float64("mass", s.Mass), zap.Float64("scale", s.Scale))
		e.requestCalibration()
	}
}

// Sliders returns the current slider input.
func (e *Engine) Sliders() schemas.Sliders {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sliders
}

// Recalibrate queues a calibration, restarting one already in progress.
func (e *Engine) Recalibrate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requestCalibration()
}

func (e *Engine) requestCalibration() {
	e.calibratedMass = e.sliders.Mass
	e.calibratedScale = e.sliders.Scale
	e.calibration.Request()
}

// CalibrationState returns the state of the calibration machine.
func (e *Engine) CalibrationState() calibration.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calibration.State()
}

// SetSamplingWindow resizes the moving average of every tracked point.
func (e *Engine) SetSamplingWindow(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tracker.SetSamplingWindow(n)
}

// SetMultipliers hot-swaps one direction of a morph config's multiplier table.
func (e *Engine) SetMultipliers(id string, d schemas.Direction, m schemas.MorphMultipliers) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.morphs.SetMultipliers(id, d, m)
}

// SetOffset sets the user offset of a physics group.
func (e *Engine) SetOffset(group string, v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.physics.SetOffset(group, v)
}

// ApplyConfig applies a reloaded configuration: sliders, morph overrides, physics
// offsets and the sampling window. A calibration is queued afterwards so the
// new settings are measured from a fresh neutral pose.
func (e *Engine) ApplyConfig(cfg config.Interface) error {
	sliders, err := cfg.Sliders().ToSchema()
	if err != nil {
		return fmt.Errorf("applying sliders: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for _, o := range cfg.Morphs() {
		d, err := schemas.ParseDirection(o.Direction)
		if err != nil {
			errs = append(errs, fmt.Errorf("morph override %q: %w", o.Config, err))
			continue
		}
		if err := e.morphs.SetMultipliers(o.Config, d, o.Multipliers()); err != nil {
			errs = append(errs, err)
		}
	}
	for group, v := range cfg.Offsets() {
		if err := e.physics.SetOffset(group, v); err != nil {
			errs = append(errs, err)
		}
	}
	if n := cfg.Engine().SamplingWindow; n > 0 {
		e.tracker.SetSamplingWindow(n)
	}

	e.sliders = sliders
	e.dirty = true
	e.requestCalibration()
	return errors.Join(errs...)
}

// Snapshot returns the published output of the most recent tick.
func (e *Engine) Snapshot() schemas.FrameSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return schemas.FrameSnapshot{
		Frame:       e.frame,
		Roll:        e.sample.Roll,
		Pitch:       e.sample.Pitch,
		Calibration: e.calibration.State().String(),
		Settings:    e.physics.Values(),
		Morphs:      e.morphs.Values(),
		Colliders:   e.colliders.Radii(),
	}
}

// Sample returns the orientation decomposed by the most recent tick.
func (e *Engine) Sample() orientation.Sample {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sample
}

// Inputs returns the effects and sliders the most recent published tick composed from.
func (e *Engine) Inputs() schemas.Inputs {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inputs
}

// MorphConfigValue returns the latest value of one morph config.
func (e *Engine) MorphConfigValue(id string) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.morphs.ConfigValue(id)
}

// PhysicsGroup returns a physics group by name for inspection.
func (e *Engine) PhysicsGroup(name string) (*physics.Group, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.physics.Group(name)
}

// Tracker exposes the tracked points for inspection.
func (e *Engine) Tracker() *tracking.Tracker { return e.tracker }
