// internal/engine/context.go
package engine

import (
	"errors"

	"go.uber.org/zap"

	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/calibration"
	"github.com/xkilldash9x/softphys/internal/collider"
	"github.com/xkilldash9x/softphys/internal/config"
	"github.com/xkilldash9x/softphys/internal/host"
	"github.com/xkilldash9x/softphys/internal/morph"
	"github.com/xkilldash9x/softphys/internal/physics"
	"github.com/xkilldash9x/softphys/internal/tables"
	"github.com/xkilldash9x/softphys/internal/tracking"
)

// Context carries the collaborators every component is built from. It replaces
// process-wide state: the engine owns one and threads it through constructors.
type Context struct {
	Logger *zap.Logger
	Host   host.Host
	// Clock drives calibration phase timeouts. Nil means the system clock.
	Clock calibration.Clock
}

func (c Context) validate() error {
	if c.Host == nil {
		return errors.New("engine context: host is required")
	}
	return nil
}

// Options tunes the control loop.
type Options struct {
	SamplingWindow int
	// RecalibrationThreshold is the mass or scale change that queues a calibration.
	RecalibrationThreshold float64
	Calibration            calibration.Options
	Forces                 tracking.ForceRange
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		SamplingWindow:         4,
		RecalibrationThreshold: 0.05,
		Calibration:            calibration.DefaultOptions(),
		Forces:                 tracking.DefaultForceRange(),
	}
}

// OptionsFromConfig converts the engine section of the configuration.
func OptionsFromConfig(cfg config.EngineConfig) Options {
	opts := DefaultOptions()
	if cfg.SamplingWindow > 0 {
		opts.SamplingWindow = cfg.SamplingWindow
	}
	if cfg.RecalibrationThreshold > 0 {
		opts.RecalibrationThreshold = cfg.RecalibrationThreshold
	}
	opts.Calibration.SettleFrames = cfg.SettleFrames
	if cfg.PhaseTimeout > 0 {
		opts.Calibration.PhaseTimeout = cfg.PhaseTimeout
	}
	if cfg.ForceAngle > 0 {
		opts.Forces.Angle = cfg.ForceAngle
	}
	if cfg.ForceDepth > 0 {
		opts.Forces.Depth = cfg.ForceDepth
	}
	return opts
}

// Data is the domain data the engine is assembled from.
type Data struct {
	Points    []tracking.PointSpec
	Physics   []physics.GroupSpec
	Morphs    []morph.Config
	Colliders []collider.Config
	// ForcePoints names the tracked point whose displacement drives each side's force effects.
	ForcePoints [2]string
}

// DefaultData returns the built-in tables.
func DefaultData() Data {
	d := Data{
		Points:    tables.TrackedPoints(),
		Physics:   tables.PhysicsGroups(),
		Morphs:    tables.Morphs(),
		Colliders: tables.Colliders(),
	}
	d.ForcePoints[schemas.Left] = tables.LeftBreastPoint
	d.ForcePoints[schemas.Right] = tables.RightBreastPoint
	return d
}
