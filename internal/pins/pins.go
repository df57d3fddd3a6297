// Package pins acquires a single digital input line through one of several
// GPIO backends. The periph backend is portable; the character-device and
// memory-mapped backends are only built on Linux, mirroring how the alarm
// panel kept its Raspberry Pi access behind a build tag.
package pins

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"periph.io/x/conn/v3/gpio"
)

// Drivers understood by Open.
const (
	DriverPeriph   = "periph"
	DriverGPIOCdev = "gpiocdev"
	DriverRPIO     = "rpio"
	DriverStub     = "stub"
)

// DirectionIn is the only direction the demo programs configure.
const DirectionIn = "in"

var (
	ErrUnknownDriver = errors.New("unknown gpio driver")
	ErrUnsupported   = errors.New("gpio driver not supported on this platform")
	ErrNoSuchPin     = errors.New("no such gpio line")
)

// Config names a digital line explicitly instead of baking a platform offset
// into a constant. The effective line number is Offset + Pin.
type Config struct {
	Driver    string `json:"driver" toml:"driver" yaml:"driver"`
	Chip      string `json:"chip,omitempty" toml:"chip,omitempty" yaml:"chip,omitempty"`
	Offset    int    `json:"offset" toml:"offset" yaml:"offset"`
	Pin       int    `json:"pin" toml:"pin" yaml:"pin"`
	Direction string `json:"direction" toml:"direction" yaml:"direction"`
	// ActiveLow inverts the logical level, as for a normally-closed contact
	// where a low signal means the circuit is intact.
	ActiveLow bool `json:"active_low" toml:"active_low" yaml:"active_low"`
}

// Line returns the platform line number addressed by the config.
func (c Config) Line() int { return c.Offset + c.Pin }

// Pin is an acquired input line. Close must be called exactly once.
type Pin interface {
	Read() (gpio.Level, error)
	Close() error
	String() string
}

type opener func(Config) (Pin, error)

var drivers = map[string]opener{
	DriverPeriph: openPeriph,
	DriverStub:   openStub,
}

func register(name string, fn opener) { drivers[name] = fn }

// Drivers lists the registered backend names.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for n := range drivers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Open acquires the configured line and sets it up as an input.
func Open(cfg Config) (Pin, error) {
	dir := strings.ToLower(cfg.Direction)
	if dir != "" && dir != DirectionIn {
		return nil, fmt.Errorf("gpio %d: direction %q not supported", cfg.Line(), cfg.Direction)
	}
	if cfg.Line() < 0 {
		return nil, fmt.Errorf("gpio %d: %w", cfg.Line(), ErrNoSuchPin)
	}
	fn, ok := drivers[strings.ToLower(cfg.Driver)]
	if !ok {
		return nil, fmt.Errorf("gpio driver %q: %w", cfg.Driver, ErrUnknownDriver)
	}
	return fn(cfg)
}
