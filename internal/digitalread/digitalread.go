// Package digitalread polls one digital input and prints its level once per
// interval until the process is asked to stop.
package digitalread

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/isocode/grovedemo/internal/hal"
	"github.com/isocode/grovedemo/internal/lifecycle"
	"github.com/isocode/grovedemo/internal/logging"
	"github.com/isocode/grovedemo/internal/pins"
	"github.com/isocode/grovedemo/internal/poll"
)

// Program holds everything one run needs. Open defaults to pins.Open.
type Program struct {
	Pin      pins.Config
	Interval time.Duration
	Out      io.Writer
	Log      *slog.Logger
	Open     func(pins.Config) (pins.Pin, error)
}

// Run acquires the pin, polls it until ctx is done and releases it. The
// returned error carries the exit code: 1 when the pin cannot be acquired,
// the release code when releasing fails.
func (p *Program) Run(ctx context.Context) error {
	open := p.Open
	if open == nil {
		open = pins.Open
	}
	log := p.Log
	if log == nil {
		log = slog.New(logging.NewHandler(io.Discard, slog.LevelError))
	}

	pin, err := open(p.Pin)
	if err != nil {
		fmt.Fprintf(p.Out, "gpio init failed: %v\n", err)
		return lifecycle.Exit(lifecycle.ExitFailure, err)
	}
	log.Info("pin acquired", "driver", p.Pin.Driver, "pin", pin.String(), "line", p.Pin.Line())

	fmt.Fprintf(p.Out, "GPIO driver: %s (%s)\nStarting Read on D%d (Ctrl+C to exit)\n", p.Pin.Driver, pin, p.Pin.Pin)

	n, _ := poll.Run(ctx, p.Interval, func(_ context.Context, i int) error {
		l, err := pin.Read()
		if err != nil {
			log.Warn("read failed", "pin", pin.String(), "err", err)
		}
		logging.Trace(log, "sample", "iteration", i, "level", l)
		fmt.Fprintf(p.Out, "Gpio is %d\n", levelValue(l))
		return nil
	})
	if ctx.Err() != nil {
		fmt.Fprintln(p.Out, "closing down nicely")
	}
	log.Info("poll loop stopped", "iterations", n)

	if err := pin.Close(); err != nil {
		fmt.Fprintln(p.Out, err)
		log.Error("pin release failed", "pin", pin.String(), "err", err)
		return lifecycle.Exit(hal.CodeOf(err), err)
	}
	return nil
}

func levelValue(l gpio.Level) int {
	if l == gpio.High {
		return 1
	}
	return 0
}
