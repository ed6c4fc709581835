// internal/engine/runner_test.go
package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xkilldash9x/softphys/api/schemas"
)

func TestRunner_MaxFrames(t *testing.T) {
	defer goleak.VerifyNone(t)

	// -- Setup --
	h := stillHost(t)
	e := newTestEngine(t, h, nil)
	var frames []uint64
	r := NewRunner(e, RunnerOptions{
		MaxFrames: 30,
		Step:      h.Step,
		Sink: func(s schemas.FrameSnapshot) error {
			frames = append(frames, s.Frame)
			return nil
		},
	})

	// -- Execution --
	require.NoError(t, r.Run(context.Background()))

	// -- Assertions --
	require.Len(t, frames, 30)
	for i, f := range frames {
		assert.Equal(t, uint64(i+1), f)
	}
	assert.Equal(t, uint64(30), r.Frames())
	assert.InDelta(t, 31.0/60.0, h.Elapsed(), 1e-9, "one construction step plus one per frame")
}

func TestRunner_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	// -- Setup --
	h := stillHost(t)
	e := newTestEngine(t, h, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := make(chan struct{}, 1)
	r := NewRunner(e, RunnerOptions{
		TickRate: 500,
		Realtime: true,
		Step:     h.Step,
		Sink: func(s schemas.FrameSnapshot) error {
			if s.Frame == 5 {
				seen <- struct{}{}
			}
			return nil
		},
	})

	// -- Execution --
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-seen:
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not reach frame 5")
	}
	cancel()

	// -- Assertions --
	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a normal stop")
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
	assert.GreaterOrEqual(t, r.Frames(), uint64(5))
}

func TestRunner_RealtimePacing(t *testing.T) {
	h := stillHost(t)
	e := newTestEngine(t, h, nil)
	r := NewRunner(e, RunnerOptions{TickRate: 100, Realtime: true, MaxFrames: 11, Step: h.Step})

	start := time.Now()
	require.NoError(t, r.Run(context.Background()))

	// The first tick uses the limiter's initial burst; the other ten wait 10ms each.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestRunner_SinkErrorStops(t *testing.T) {
	h := stillHost(t)
	e := newTestEngine(t, h, nil)
	sinkErr := errors.New("disk full")
	r := NewRunner(e, RunnerOptions{
		MaxFrames: 100,
		Sink:      func(schemas.FrameSnapshot) error { return sinkErr },
	})

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sinkErr)
	assert.Equal(t, uint64(1), r.Frames())
}

func TestRunner_StopsWhenEngineDisabled(t *testing.T) {
	sim := stillHost(t)
	h := &panicHost{SimHost: sim, armed: true}
	e := newTestEngine(t, h, nil)
	r := NewRunner(e, RunnerOptions{MaxFrames: 100, Step: sim.Step})

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Zero(t, r.Frames())
}
