//go:build linux && !disablegpio

package pins

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"

	"github.com/isocode/grovedemo/internal/hal"
)

const defaultChip = "gpiochip0"

func init() {
	register(DriverGPIOCdev, openCdev)
	register(DriverRPIO, openRPIO)
}

// cdevPin reads a line requested from the GPIO character device. Active-low
// handling is delegated to the kernel.
type cdevPin struct {
	chip string
	line *gpiocdev.Line
}

func openCdev(cfg Config) (Pin, error) {
	chip := cfg.Chip
	if chip == "" {
		chip = defaultChip
	}
	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithConsumer("grovedemo")}
	if cfg.ActiveLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}
	l, err := gpiocdev.RequestLine(chip, cfg.Line(), opts...)
	if err != nil {
		return nil, fmt.Errorf("request %s line %d: %w", chip, cfg.Line(), err)
	}
	return &cdevPin{chip: chip, line: l}, nil
}

func (c *cdevPin) Read() (gpio.Level, error) {
	v, err := c.line.Value()
	if err != nil {
		return gpio.Low, fmt.Errorf("read %s: %w", c, err)
	}
	return v != 0, nil
}

func (c *cdevPin) Close() error {
	return hal.Release(c.line.Close())
}

func (c *cdevPin) String() string {
	return fmt.Sprintf("%s:%d", c.chip, c.line.Offset())
}
