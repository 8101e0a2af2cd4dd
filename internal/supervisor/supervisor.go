// Package supervisor runs the two long-lived concurrent activities of
// §4.5: a computation loop that ticks the engine at a configurable
// target rate, and a broadcast loop that snapshots display state to
// observers at a fixed frame rate. Both run as goroutines coordinated
// by golang.org/x/sync/errgroup, generalizing the teacher's
// executor.worker goroutine-pool style from a one-shot DAG drain to a
// perpetual tick loop, with the timing/EMA-actual-Hz logic grounded on
// original_source/.../server/lifecycle.py's computation_loop/broadcast_loop.
package supervisor

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/minicortex/core/internal/ctxlog"
	"github.com/minicortex/core/internal/engine"
	"github.com/minicortex/core/internal/observer"
	"github.com/minicortex/core/internal/registry"
)

const (
	minHz = 1
	maxHz = 300

	defaultBroadcastHz = 40
	// emaAlpha weights the most recent inter-tick interval against the
	// running estimate; picked to settle within a few dozen ticks
	// without being noisy at the per-tick level.
	emaAlpha = 0.2
)

// State is the supervisor's own small, independently-guarded state
// (distinct from the registry lock, per §4.5/§9): running flag, target
// and actual tick rate, and tick count.
type State struct {
	Running  bool
	TargetHz float64
	ActualHz float64
	Ticks    uint64
	// LastError is set when a tick fails and cleared by a clean Step or
	// Start cycle; it is the "offending node" record of §4.5.
	LastError error
}

// Supervisor coordinates the computation and broadcast loops over a
// single registry.
type Supervisor struct {
	reg      *registry.Registry
	observer observer.Fanout

	mu    sync.Mutex
	state State

	broadcastHz float64

	wakeCh chan struct{}
}

// New returns a Supervisor stopped, at targetHz (clamped to [1,300]),
// broadcasting to fan at the default 40 Hz frame rate.
func New(reg *registry.Registry, fan observer.Fanout, targetHz float64) *Supervisor {
	return &Supervisor{
		reg:         reg,
		observer:    fan,
		state:       State{TargetHz: clampHz(targetHz)},
		broadcastHz: defaultBroadcastHz,
		wakeCh:      make(chan struct{}, 1),
	}
}

func clampHz(hz float64) float64 {
	if hz < minHz {
		return minHz
	}
	if hz > maxHz {
		return maxHz
	}
	return hz
}

// State returns a copy of the supervisor's current control state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start transitions the supervisor to running; a no-op if already
// running.
func (s *Supervisor) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Running {
		return
	}
	s.state.Running = true
	s.state.LastError = nil
	s.nudge()
}

// Stop clears running. Run's computation loop observes this at its next
// wake, letting a tick already in progress finish, and then idles until
// Start or ctx cancellation; Stop does not block waiting for it (the
// caller's errgroup.Wait, via Run's context cancellation, is what
// actually waits out an in-flight tick — see Run).
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Running = false
}

// SetSpeed updates the target tick rate, clamped to [1, 300] Hz.
func (s *Supervisor) SetSpeed(hz float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.TargetHz = clampHz(hz)
	s.nudge()
}

// nudge wakes a sleeping computation loop so a Start/SetSpeed takes
// effect immediately instead of waiting out the previous interval. Must
// be called with s.mu held.
func (s *Supervisor) nudge() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

// Step runs exactly one tick synchronously. Legal only while stopped
// (§4.5); returns an error if the supervisor is currently running.
func (s *Supervisor) Step(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Running {
		s.mu.Unlock()
		return errRunning
	}
	s.mu.Unlock()

	err := engine.Tick(s.reg)

	s.mu.Lock()
	s.state.Ticks++
	s.state.LastError = err
	if err != nil {
		s.state.Running = false
	}
	s.mu.Unlock()

	return err
}

var errRunning = stepWhileRunningError{}

type stepWhileRunningError struct{}

func (stepWhileRunningError) Error() string { return "supervisor: step is only legal while stopped" }

// Run drives the computation loop and the broadcast loop until ctx is
// canceled, returning the first error either loop produces.
func (s *Supervisor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.computationLoop(ctx) })
	g.Go(func() error { return s.broadcastLoop(ctx) })
	return g.Wait()
}

func (s *Supervisor) computationLoop(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var lastTick time.Time

	for {
		s.mu.Lock()
		running := s.state.Running
		targetHz := s.state.TargetHz
		s.mu.Unlock()

		if !running {
			select {
			case <-ctx.Done():
				return nil
			case <-s.wakeCh:
				continue
			}
		}

		interval := time.Duration(float64(time.Second) / targetHz)
		if !lastTick.IsZero() {
			elapsed := time.Since(lastTick)
			if elapsed < interval {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(interval - elapsed):
					continue
				case <-s.wakeCh:
					continue
				}
			}
		}

		now := time.Now()
		if !lastTick.IsZero() {
			actual := 1.0 / now.Sub(lastTick).Seconds()
			s.mu.Lock()
			if s.state.ActualHz == 0 {
				s.state.ActualHz = actual
			} else {
				s.state.ActualHz = emaAlpha*actual + (1-emaAlpha)*s.state.ActualHz
			}
			s.mu.Unlock()
		}
		lastTick = now

		err := engine.Tick(s.reg)

		s.mu.Lock()
		s.state.Ticks++
		s.state.LastError = err
		if err != nil {
			s.state.Running = false
			logger.Error("supervisor: tick failed, stopping", "error", err)
		}
		s.mu.Unlock()
	}
}

func (s *Supervisor) broadcastLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / s.broadcastHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.publishFrame()
		}
	}
}

func (s *Supervisor) publishFrame() {
	snap := s.reg.Snapshot()
	state := s.State()

	frame := observer.Frame{
		Running:  state.Running,
		TargetHz: state.TargetHz,
		ActualHz: state.ActualHz,
		Ticks:    state.Ticks,
		Nodes:    make([]observer.NodeFrame, 0, len(snap.Instances)),
	}
	if state.LastError != nil {
		frame.Error = errorInfo(state.LastError)
	}
	for _, inst := range snap.Instances {
		frame.Nodes = append(frame.Nodes, observer.NodeFrame{
			InstanceID:     string(inst.ID),
			Displays:       inst.Displays,
			OutputsEnabled: inst.OutputsEnabled,
		})
	}

	s.observer.Publish(frame)
}

// errorInfo unpacks a tick failure into the node identity the §6 error
// frame names, preferring engine.RuntimeError's structured fields and
// falling back to a bare message for any other error shape.
func errorInfo(err error) *observer.ErrorInfo {
	var rtErr *engine.RuntimeError
	if errors.As(err, &rtErr) {
		return &observer.ErrorInfo{
			NodeID:   string(rtErr.InstanceID),
			NodeName: rtErr.TypeName,
			Message:  rtErr.Err.Error(),
			Trace:    rtErr.Trace,
		}
	}
	return &observer.ErrorInfo{Message: err.Error()}
}

// Probe runs a single, non-clock-advancing evaluation pass, used after
// a graph-mutation event while stopped so display outputs stay fresh
// (§4.4 "Probing"). Legal at any time; does not touch tick count.
func (s *Supervisor) Probe() error {
	return engine.Probe(s.reg)
}
