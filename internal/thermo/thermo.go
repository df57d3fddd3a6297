// Package thermo reads a temperature sensor and converts the reading into
// the values shown by the temperature demo.
package thermo

import (
	"errors"
	"fmt"
	"strings"
)

// ScaleFactor approximates a 5V-referenced analog sensor read on a 3.3V
// board. It is applied to every raw reading.
const ScaleFactor = 0.6

// Drivers understood by Open.
const (
	DriverBMxx80 = "bmxx80"
	DriverStub   = "stub"
)

var ErrUnknownDriver = errors.New("unknown sensor driver")

// Config selects the sensor backend and where it lives.
type Config struct {
	Driver  string `json:"driver" toml:"driver" yaml:"driver"`
	Bus     string `json:"bus" toml:"bus" yaml:"bus"`
	Address uint16 `json:"address" toml:"address" yaml:"address"`
	// StubValue is the raw value returned by the stub driver.
	StubValue float64 `json:"stub_value,omitempty" toml:"stub_value,omitempty" yaml:"stub_value,omitempty"`
}

// Sensor yields raw readings. Close must be called exactly once.
type Sensor interface {
	Read() (float64, error)
	Close() error
}

// Open acquires the configured sensor.
func Open(cfg Config) (Sensor, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverBMxx80:
		return openBMxx80(cfg)
	case DriverStub:
		return &stubSensor{value: cfg.StubValue}, nil
	default:
		return nil, fmt.Errorf("sensor driver %q: %w", cfg.Driver, ErrUnknownDriver)
	}
}

// Reading is one converted sample.
type Reading struct {
	Raw        float64
	Celsius    float64
	Fahrenheit int
}

// CelsiusInt is the Celsius value truncated toward zero, as displayed.
func (r Reading) CelsiusInt() int { return int(r.Celsius) }

// Convert scales a raw reading and derives both temperature units.
func Convert(raw float64) Reading {
	c := raw * ScaleFactor
	return Reading{Raw: raw, Celsius: c, Fahrenheit: Fahrenheit(c)}
}

// Fahrenheit converts Celsius to Fahrenheit, truncating to an integer.
func Fahrenheit(celsius float64) int {
	return int(celsius*9.0/5.0 + 32.0)
}

type stubSensor struct {
	value float64
}

func (s *stubSensor) Read() (float64, error) { return s.value, nil }

func (s *stubSensor) Close() error { return nil }
