package pins

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/isocode/grovedemo/internal/hal"
)

// periphPin reads a line registered with periph's gpioreg.
type periphPin struct {
	p         gpio.PinIO
	activeLow bool
}

func openPeriph(cfg Config) (Pin, error) {
	if _, err := hal.Init(); err != nil {
		return nil, err
	}
	// gpioreg accepts the bare line number as a name.
	p := gpioreg.ByName(strconv.Itoa(cfg.Line()))
	if p == nil {
		return nil, fmt.Errorf("gpio %d: %w", cfg.Line(), ErrNoSuchPin)
	}
	pp, err := newPeriphPin(p, cfg.ActiveLow)
	if err != nil {
		return nil, err
	}
	return pp, nil
}

func newPeriphPin(p gpio.PinIO, activeLow bool) (*periphPin, error) {
	if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("gpio %s: set input: %w", p, err)
	}
	return &periphPin{p: p, activeLow: activeLow}, nil
}

func (pp *periphPin) Read() (gpio.Level, error) {
	l := pp.p.Read()
	if pp.activeLow {
		l = !l
	}
	return l, nil
}

func (pp *periphPin) Close() error {
	return hal.Release(pp.p.Halt())
}

func (pp *periphPin) String() string { return pp.p.String() }
