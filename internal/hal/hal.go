// Package hal is the thin hardware abstraction layer shared by the demo
// programs. It owns periph host initialisation, I²C bus acquisition and the
// result codes reported when a hardware handle is released.
//
// Drivers for individual devices live in the gpio, thermo and lcd packages;
// they all acquire their buses through this package so that host drivers are
// loaded exactly once per process.
package hal

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var (
	initOnce sync.Once
	initErr  error
	loaded   []string
)

// Init loads the periph host drivers. It is safe to call many times; only the
// first call touches the hardware. The names of the loaded drivers are
// returned so callers can print them in their startup banner.
func Init() ([]string, error) {
	initOnce.Do(func() {
		state, err := host.Init()
		if err != nil {
			initErr = fmt.Errorf("periph host init: %w", err)
			return
		}
		for _, d := range state.Loaded {
			loaded = append(loaded, d.String())
		}
	})
	return loaded, initErr
}

// OpenI2C opens an I²C bus by name or number. An empty name selects the
// first bus registered by the host.
func OpenI2C(bus string) (i2c.BusCloser, error) {
	if _, err := Init(); err != nil {
		return nil, err
	}
	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", bus, err)
	}
	return b, nil
}

// ReleaseError reports a failure to release a hardware handle. Code is the
// value the hardware layer associates with the failure and becomes the
// process exit code of the digital-read program.
type ReleaseError struct {
	Code int
	Err  error
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("release failed (code %d): %v", e.Code, e.Err)
}

func (e *ReleaseError) Unwrap() error { return e.Err }

// Release wraps a non-nil close error in a ReleaseError with code 1 unless
// the error already carries a code.
func Release(err error) error {
	if err == nil {
		return nil
	}
	var re *ReleaseError
	if errors.As(err, &re) {
		return err
	}
	return &ReleaseError{Code: 1, Err: err}
}

// CodeOf returns the release code carried by err, 1 for any other non-nil
// error, and 0 for nil.
func CodeOf(err error) int {
	if err == nil {
		return 0
	}
	var re *ReleaseError
	if errors.As(err, &re) && re.Code != 0 {
		return re.Code
	}
	return 1
}
