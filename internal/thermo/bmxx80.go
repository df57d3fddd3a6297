package thermo

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"

	"github.com/isocode/grovedemo/internal/hal"
)

// senseHalter is the part of *bmxx80.Dev the sensor relies on.
type senseHalter interface {
	Sense(e *physic.Env) error
	Halt() error
}

// envSensor reports the temperature of a periph environmental device in
// degrees Celsius.
type envSensor struct {
	dev senseHalter
	bus i2c.BusCloser
}

func openBMxx80(cfg Config) (Sensor, error) {
	bus, err := hal.OpenI2C(cfg.Bus)
	if err != nil {
		return nil, err
	}
	dev, err := bmxx80.NewI2C(bus, cfg.Address, &bmxx80.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("bmxx80 at %#x: %w", cfg.Address, err)
	}
	return &envSensor{dev: dev, bus: bus}, nil
}

func (s *envSensor) Read() (float64, error) {
	var env physic.Env
	if err := s.dev.Sense(&env); err != nil {
		return 0, fmt.Errorf("sense: %w", err)
	}
	return float64(env.Temperature-physic.ZeroCelsius) / float64(physic.Celsius), nil
}

func (s *envSensor) Close() error {
	err := s.dev.Halt()
	if s.bus != nil {
		err = errors.Join(err, s.bus.Close())
	}
	return hal.Release(err)
}
