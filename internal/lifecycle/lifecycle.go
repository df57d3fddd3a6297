// Package lifecycle bridges process signals to the poll loop. The bridge only
// flips an atomic RUNNING→STOPPING state and cancels a context; everything
// visible (printing, releasing hardware) happens on the loop's side once it
// observes the change.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
)

// Exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exit wraps err with code. A zero code or nil error yields nil.
func Exit(code int, err error) error {
	if code == ExitSuccess {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

const (
	running int32 = iota
	stopping
)

// State is the two-state machine shared by both programs. STOPPING is
// terminal.
type State struct {
	v atomic.Int32
}

// Running reports whether the state is still RUNNING.
func (s *State) Running() bool { return s.v.Load() == running }

// Stop moves RUNNING→STOPPING. Only the first call returns true.
func (s *State) Stop() bool { return s.v.CompareAndSwap(running, stopping) }

func (s *State) String() string {
	if s.Running() {
		return "RUNNING"
	}
	return "STOPPING"
}

// Notifier is the part of os/signal the bridge uses.
type Notifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

type osNotifier struct{}

func (osNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) { signal.Notify(c, sig...) }

func (osNotifier) Stop(c chan<- os.Signal) { signal.Stop(c) }

// WatchSignals registers for the shutdown signals of the platform and
// returns a context cancelled on the first one. Until the returned stop
// function unregisters the handler, later signals are absorbed by the
// buffered channel instead of killing the process.
func WatchSignals(ctx context.Context) (context.Context, *State, func()) {
	return Watch(ctx, osNotifier{}, shutdownSignals...)
}

// Watch is WatchSignals with an explicit notifier and signal set.
func Watch(ctx context.Context, n Notifier, sigs ...os.Signal) (context.Context, *State, func()) {
	ctx, cancel := context.WithCancel(ctx)
	state := &State{}
	ch := make(chan os.Signal, 1)
	n.Notify(ch, sigs...)

	go func() {
		select {
		case <-ch:
			state.Stop()
			cancel()
		case <-ctx.Done():
		}
	}()

	stop := func() {
		n.Stop(ch)
		cancel()
	}
	return ctx, state, stop
}
