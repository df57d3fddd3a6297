package lifecycle

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"
)

type fakeNotifier struct {
	mu      sync.Mutex
	ch      chan<- os.Signal
	sigs    []os.Signal
	stopped bool
}

func (f *fakeNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ch = c
	f.sigs = sig
}

func (f *fakeNotifier) Stop(c chan<- os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

// send delivers a signal without blocking, like the runtime does.
func (f *fakeNotifier) send(s os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case f.ch <- s:
	default:
	}
}

func TestState(t *testing.T) {
	var s State
	if !s.Running() || s.String() != "RUNNING" {
		t.Fatalf("expected RUNNING, got %s", s.String())
	}
	if !s.Stop() {
		t.Error("first Stop should report the transition")
	}
	if s.Stop() {
		t.Error("second Stop should not report a transition")
	}
	if s.Running() || s.String() != "STOPPING" {
		t.Errorf("expected STOPPING, got %s", s.String())
	}
}

func TestWatch_SignalCancels(t *testing.T) {
	n := &fakeNotifier{}
	ctx, state, stop := Watch(context.Background(), n, os.Interrupt)
	defer stop()

	if len(n.sigs) != 1 || n.sigs[0] != os.Interrupt {
		t.Fatalf("expected registration for os.Interrupt, got %v", n.sigs)
	}
	if !state.Running() {
		t.Fatal("expected RUNNING before any signal")
	}

	n.send(os.Interrupt)

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled after signal")
	}
	if state.Running() {
		t.Error("expected STOPPING after signal")
	}

	// Further signals are absorbed.
	n.send(os.Interrupt)
	n.send(os.Interrupt)
}

func TestWatch_ParentCancelKeepsRunningState(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	n := &fakeNotifier{}
	ctx, state, stop := Watch(parent, n, os.Interrupt)
	defer stop()

	cancel()
	<-ctx.Done()
	if !state.Running() {
		t.Error("state should only change on a signal")
	}
}

func TestWatch_StopUnregisters(t *testing.T) {
	n := &fakeNotifier{}
	ctx, _, stop := Watch(context.Background(), n, os.Interrupt)
	stop()
	if !n.stopped {
		t.Error("expected notifier Stop to be called")
	}
	if ctx.Err() == nil {
		t.Error("expected context cancelled after stop")
	}
}

func TestExit(t *testing.T) {
	if err := Exit(ExitSuccess, errors.New("ignored")); err != nil {
		t.Errorf("Exit(0) = %v, want nil", err)
	}
	base := errors.New("display init failed")
	err := Exit(ExitFailure, base)
	var ee *ExitError
	if !errors.As(err, &ee) || ee.Code != ExitFailure {
		t.Fatalf("expected ExitError with code 1, got %v", err)
	}
	if !errors.Is(err, base) || err.Error() != base.Error() {
		t.Errorf("expected wrapped base error, got %v", err)
	}
	if (&ExitError{Code: 4}).Error() != "exit status 4" {
		t.Errorf("unexpected message for bare exit error")
	}
}
