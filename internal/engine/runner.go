// internal/engine/runner.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/softphys/api/schemas"
)

// DefaultTickRate matches the reference physics rate.
const DefaultTickRate = 60

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// TickRate is the number of ticks per second when Realtime is set.
	TickRate float64
	// Realtime paces ticks at TickRate. Otherwise ticks run back to back.
	Realtime bool
	// MaxFrames stops the runner after that many ticks. Zero runs until cancelled.
	MaxFrames uint64
	// Step advances the host before each tick. Optional.
	Step func()
	// Sink receives the snapshot of every tick. Optional. An error stops the runner.
	Sink func(schemas.FrameSnapshot) error
}

// Runner drives an engine at a fixed rate.
type Runner struct {
	engine  *Engine
	opts    RunnerOptions
	limiter *rate.Limiter
	logger  *zap.Logger
	frames  uint64
}

// NewRunner creates a runner for e.
func NewRunner(e *Engine, opts RunnerOptions) *Runner {
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultTickRate
	}
	limit := rate.Inf
	if opts.Realtime {
		limit = rate.Limit(opts.TickRate)
	}
	return &Runner{
		engine:  e,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		logger:  e.logger.Named("runner"),
	}
}

// Frames returns the number of ticks run so far.
func (r *Runner) Frames() uint64 { return r.frames }

// Run ticks until ctx is cancelled, MaxFrames is reached or the engine is disabled.
// Cancellation is a normal stop and returns nil.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Runner started",
		zap.Float64("tick_rate", r.opts.TickRate),
		zap.Bool("realtime", r.opts.Realtime),
		zap.Uint64("max_frames", r.opts.MaxFrames))

	for r.opts.MaxFrames == 0 || r.frames < r.opts.MaxFrames {
		if err := r.limiter.Wait(ctx); err != nil {
			// Wait fails on cancellation or when the deadline would pass before the next slot.
			r.logger.Info("Runner stopping", zap.Uint64("frames", r.frames), zap.Error(err))
			return nil
		}
		select {
		case <-ctx.Done():
			r.logger.Info("Context cancelled, runner stopping", zap.Uint64("frames", r.frames))
			return nil
		default:
		}

		if r.opts.Step != nil {
			r.opts.Step()
		}
		if err := r.engine.Tick(); err != nil {
			if errors.Is(err, ErrDisabled) {
				return fmt.Errorf("runner stopped at frame %d: %w", r.frames, err)
			}
			r.logger.Warn("Tick failed", zap.Error(err))
		}
		r.frames++

		if r.opts.Sink != nil {
			if err := r.opts.Sink(r.engine.Snapshot()); err != nil {
				return fmt.Errorf("frame sink: %w", err)
			}
		}
	}
	r.logger.Info("Runner finished", zap.Uint64("frames", r.frames))
	return nil
}
