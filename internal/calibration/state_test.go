package calibration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recorder is a Steps fake that logs every call.
type recorder struct {
	ready       bool
	massPending int
	calls       []string
}

func (r *recorder) Ready() bool { return r.ready }
func (r *recorder) Snapshot()   { r.calls = append(r.calls, "snapshot") }
func (r *recorder) Restore()    { r.calls = append(r.calls, "restore") }
func (r *recorder) PreRefresh() { r.calls = append(r.calls, "pre_refresh") }
func (r *recorder) UpdateMass() bool {
	r.calls = append(r.calls, "mass")
	if r.massPending > 0 {
		r.massPending--
		return false
	}
	return true
}
func (r *recorder) CaptureNeutral() { r.calls = append(r.calls, "capture") }
func (r *recorder) Finish()         { r.calls = append(r.calls, "finish") }

func newMachine(opts Options) (*Machine, *recorder, *ManualClock) {
	steps := &recorder{ready: true}
	clock := NewManualClock(time.Unix(0, 0))
	return New(zap.NewNop(), clock, steps, opts), steps, clock
}

// run ticks until Done or limit ticks, returning every state visited.
func run(m *Machine, clock *ManualClock, limit int) []State {
	var visited []State
	for i := 0; i < limit && m.Busy(); i++ {
		m.Tick()
		clock.Advance(16 * time.Millisecond)
		visited = append(visited, m.State())
	}
	return visited
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "mass_started", MassStarted.String())
	assert.Equal(t, "neutral_pos_ok", NeutralPosOk.String())
	assert.Equal(t, "state(99)", State(99).String())
}

func TestMachine_StrictlyForward(t *testing.T) {
	t.Parallel()

	m, steps, clock := newMachine(Options{SettleFrames: 0, PhaseTimeout: time.Second})
	assert.False(t, m.Busy())
	m.Tick()
	assert.Equal(t, Done, m.State(), "Done is terminal until a request arrives")

	m.Request()
	require.Equal(t, Waiting, m.State())
	assert.True(t, m.Busy())

	visited := run(m, clock, 100)
	assert.Equal(t, []State{
		PreRefreshStarted, PreRefreshOk, MassStarted, MassOk, NeutralPosStarted, NeutralPosOk, Done,
	}, visited)
	assert.Equal(t, []string{"snapshot", "pre_refresh", "mass", "capture", "finish"}, steps.calls)
	assert.Equal(t, 1, m.Runs())
}

func TestMachine_SettleFrames(t *testing.T) {
	t.Parallel()

	m, _, clock := newMachine(Options{SettleFrames: 2, PhaseTimeout: time.Second})
	m.Request()
	visited := run(m, clock, 100)

	// Leaving Waiting takes one tick, each started phase three and each ok phase one.
	assert.Len(t, visited, 1+3+1+3+1+3+1)
	assert.Equal(t, Done, m.State())
}

func TestMachine_WaitsForReadiness(t *testing.T) {
	t.Parallel()

	m, steps, clock := newMachine(DefaultOptions())
	steps.ready = false
	m.Request()

	for i := 0; i < 200; i++ {
		m.Tick()
		clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, Waiting, m.State(), "a queued calibration is never dropped while the host is busy")
	assert.Empty(t, steps.calls)

	steps.ready = true
	m.Tick()
	assert.Equal(t, PreRefreshStarted, m.State())
}

// Scenario: a request arriving at MassStarted restarts at PreRefreshStarted.
func TestMachine_RestartFromMassStarted(t *testing.T) {
	t.Parallel()

	m, steps, clock := newMachine(Options{SettleFrames: 1, PhaseTimeout: time.Second})
	steps.massPending = 100
	m.Request()
	for m.State() != MassStarted {
		m.Tick()
		clock.Advance(time.Millisecond)
	}
	m.Tick()
	require.Equal(t, MassStarted, m.State())

	m.Request()
	assert.Equal(t, Waiting, m.State())
	assert.Contains(t, steps.calls, "restore", "partial work is discarded")

	steps.massPending = 0
	m.Tick()
	assert.Equal(t, PreRefreshStarted, m.State(), "never resumes at MassStarted")

	visited := run(m, clock, 100)
	assert.Equal(t, Done, visited[len(visited)-1])
	assert.Equal(t, 1, m.Runs())
}

func TestMachine_PhaseTimeoutFailsSoft(t *testing.T) {
	t.Parallel()

	m, steps, clock := newMachine(Options{SettleFrames: 0, PhaseTimeout: time.Second})
	steps.massPending = 1 << 30
	m.Request()
	for m.State() != MassStarted {
		m.Tick()
	}

	for i := 0; i < 10; i++ {
		m.Tick()
		clock.Advance(50 * time.Millisecond)
	}
	require.Equal(t, MassStarted, m.State())

	clock.Advance(time.Second)
	m.Tick()
	assert.Equal(t, Done, m.State())
	assert.Equal(t, 1, m.Aborts())
	assert.Zero(t, m.Runs())
	assert.Equal(t, []string{"restore", "finish"}, steps.calls[len(steps.calls)-2:])
}
