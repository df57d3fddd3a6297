//go:build linux && !disablegpio

package pins

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/gpio"

	"github.com/isocode/grovedemo/internal/hal"
)

// bcmLines is the number of GPIO lines on the BCM2835 family.
const bcmLines = 54

// rpioPin reads a BCM line through /dev/gpiomem.
type rpioPin struct {
	pin       rpio.Pin
	activeLow bool
}

func openRPIO(cfg Config) (Pin, error) {
	line := cfg.Line()
	if line >= bcmLines {
		return nil, fmt.Errorf("bcm gpio %d: %w", line, ErrNoSuchPin)
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpiomem: %w", err)
	}
	p := rpio.Pin(line)
	p.Input()
	return &rpioPin{pin: p, activeLow: cfg.ActiveLow}, nil
}

func (r *rpioPin) Read() (gpio.Level, error) {
	l := gpio.Level(r.pin.Read() == rpio.High)
	if r.activeLow {
		l = !l
	}
	return l, nil
}

func (r *rpioPin) Close() error {
	return hal.Release(rpio.Close())
}

func (r *rpioPin) String() string { return fmt.Sprintf("BCM%d", int(r.pin)) }
