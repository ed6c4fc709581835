// Package calibration sequences the capture of new neutral baselines.
//
// A calibration runs as a strictly forward chain of states, advanced once per
// tick. While it runs the engine must not compose parameters from tracker
// deviations, since the baselines they are measured against are being redefined.
package calibration

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// State is one step of the calibration sequence.
type State int

const (
	Done State = iota
	Waiting
	PreRefreshStarted
	PreRefreshOk
	MassStarted
	MassOk
	NeutralPosStarted
	NeutralPosOk
)

var stateNames = [...]string{
	Done:              "done",
	Waiting:           "waiting",
	PreRefreshStarted: "pre_refresh_started",
	PreRefreshOk:      "pre_refresh_ok",
	MassStarted:       "mass_started",
	MassOk:            "mass_ok",
	NeutralPosStarted: "neutral_pos_started",
	NeutralPosOk:      "neutral_pos_ok",
}

func (s State) String() string {
	if s < Done || s > NeutralPosOk {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Steps is the work performed by each phase.
type Steps interface {
	// Ready reports whether normal updates may be suspended: no slider is being
	// dragged and no UI transition is in progress.
	Ready() bool
	// Snapshot saves the current baselines so a cancelled run can discard its partial work.
	Snapshot()
	// Restore reinstates the baselines saved by Snapshot.
	Restore()
	// PreRefresh freezes transient forces before measuring.
	PreRefresh()
	// UpdateMass recomputes mass. It returns false while it is still waiting on the host.
	UpdateMass() bool
	// CaptureNeutral calibrates every tracker and collider baseline.
	CaptureNeutral()
	// Finish re-enables normal updates.
	Finish()
}

// Options tunes the machine.
type Options struct {
	// SettleFrames is how many ticks each started phase waits before completing,
	// giving the host a rendered frame to apply the previous step.
	SettleFrames int
	// PhaseTimeout bounds how long a phase may wait on the host.
	PhaseTimeout time.Duration
}

// DefaultOptions waits one frame per phase and gives up on a phase after a second.
func DefaultOptions() Options {
	return Options{SettleFrames: 1, PhaseTimeout: time.Second}
}

// Machine is the calibration state machine. It is driven from the frame loop and
// is not safe for concurrent use.
type Machine struct {
	logger *zap.Logger
	clock  Clock
	steps  Steps
	opts   Options

	state       State
	entered     time.Time
	frames      int
	snapshotted bool
	runs        int
	aborts      int
}

// New creates a machine in the Done state.
func New(logger *zap.Logger, clock Clock, steps Steps, opts Options) *Machine {
	if clock == nil {
		clock = SystemClock{}
	}
	if opts.SettleFrames < 0 {
		opts.SettleFrames = 0
	}
	return &Machine{
		logger: logger.Named("calibration"),
		clock:  clock,
		steps:  steps,
		opts:   opts,
		state:  Done,
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Busy reports whether a calibration is queued or running.
func (m *Machine) Busy() bool { return m.state != Done }

// Runs counts completed calibrations.
func (m *Machine) Runs() int { return m.runs }

// Aborts counts calibrations abandoned on a phase timeout.
func (m *Machine) Aborts() int { return m.aborts }

// Request queues a calibration. A run in progress is cancelled: its partial
// baselines are discarded and the sequence starts over from the beginning.
func (m *Machine) Request() {
	if m.state > Waiting {
		m.logger.Debug("Calibration superseded; restarting", zap.Stringer("from", m.state))
		m.discard()
	}
	m.enter(Waiting)
}

// Tick advances the machine by at most one state.
func (m *Machine) Tick() {
	switch m.state {
	case Done:
		return
	case Waiting:
		if !m.steps.Ready() {
			return
		}
		m.steps.Snapshot()
		m.snapshotted = true
		m.enter(PreRefreshStarted)
		m.steps.PreRefresh()
		return
	}

	if m.opts.PhaseTimeout > 0 && m.clock.Now().Sub(m.entered) > m.opts.PhaseTimeout {
		m.logger.Warn("Calibration phase timed out; aborting",
			zap.Stringer("state", m.state), zap.Duration("timeout", m.opts.PhaseTimeout))
		m.aborts++
		m.discard()
		m.enter(Done)
		m.steps.Finish()
		return
	}

	switch m.state {
	case PreRefreshStarted:
		if m.settled() {
			m.enter(PreRefreshOk)
		}
	case PreRefreshOk:
		m.enter(MassStarted)
	case MassStarted:
		if m.settled() && m.steps.UpdateMass() {
			m.enter(MassOk)
		}
	case MassOk:
		m.enter(NeutralPosStarted)
		m.steps.CaptureNeutral()
	case NeutralPosStarted:
		if m.settled() {
			m.enter(NeutralPosOk)
		}
	case NeutralPosOk:
		m.snapshotted = false
		m.runs++
		m.enter(Done)
		m.steps.Finish()
		m.logger.Debug("Calibration complete", zap.Int("runs", m.runs))
	}
}

func (m *Machine) settled() bool {
	m.frames++
	return m.frames > m.opts.SettleFrames
}

func (m *Machine) enter(s State) {
	m.state = s
	m.frames = 0
	m.entered = m.clock.Now()
}

func (m *Machine) discard() {
	if m.snapshotted {
		m.steps.Restore()
		m.snapshotted = false
	}
}
