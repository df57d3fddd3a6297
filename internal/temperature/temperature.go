// Package temperature samples a temperature sensor, prints the reading in
// Celsius and Fahrenheit, and mirrors it on a two-row RGB display whose
// backlight steps through a fixed palette.
package temperature

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/isocode/grovedemo/internal/lcd"
	"github.com/isocode/grovedemo/internal/lifecycle"
	"github.com/isocode/grovedemo/internal/logging"
	"github.com/isocode/grovedemo/internal/poll"
	"github.com/isocode/grovedemo/internal/thermo"
)

// lineWidth is the longest text written to one display row.
const lineWidth = 19

// Program holds everything one run needs. OpenSensor and OpenDisplay
// default to thermo.Open and lcd.Open.
type Program struct {
	Sensor      thermo.Config
	Display     lcd.Config
	Interval    time.Duration
	Out         io.Writer
	Log         *slog.Logger
	OpenSensor  func(thermo.Config) (thermo.Sensor, error)
	OpenDisplay func(lcd.Config) (lcd.Display, error)
}

// Lines returns the two display rows for a reading.
func Lines(r thermo.Reading) (string, string) {
	return clip("Temperature: "), clip(fmt.Sprintf("F: %d & C: %d", r.Fahrenheit, r.CelsiusInt()))
}

func clip(s string) string {
	if len(s) > lineWidth {
		return s[:lineWidth]
	}
	return s
}

// Run acquires the display and the sensor, samples until ctx is done and
// releases both. Failing to acquire either one ends the run with exit
// code 1.
func (p *Program) Run(ctx context.Context) error {
	openDisplay, openSensor := p.OpenDisplay, p.OpenSensor
	if openDisplay == nil {
		openDisplay = lcd.Open
	}
	if openSensor == nil {
		openSensor = thermo.Open
	}
	log := p.Log
	if log == nil {
		log = slog.New(logging.NewHandler(io.Discard, slog.LevelError))
	}

	display, err := openDisplay(p.Display)
	if err != nil {
		fmt.Fprintf(p.Out, "display init failed: %v\n", err)
		return lifecycle.Exit(lifecycle.ExitFailure, err)
	}
	sensor, err := openSensor(p.Sensor)
	if err != nil {
		fmt.Fprintf(p.Out, "sensor init failed: %v\n", err)
		if cerr := display.Close(); cerr != nil {
			log.Warn("display release failed", "err", cerr)
		}
		return lifecycle.Exit(lifecycle.ExitFailure, err)
	}
	log.Info("devices acquired", "display", p.Display.Driver, "sensor", p.Sensor.Driver)

	color := 0
	n, loopErr := poll.Run(ctx, p.Interval, func(_ context.Context, i int) error {
		raw, err := sensor.Read()
		if err != nil {
			log.Warn("sensor read failed", "iteration", i, "err", err)
			return nil
		}
		r := thermo.Convert(raw)
		fmt.Fprintf(p.Out, "%d degrees Celsius, or %d degrees Fahrenheit\n", r.CelsiusInt(), r.Fahrenheit)

		rgb := lcd.PaletteColor(color)
		color++
		if err := render(display, r, rgb); err != nil {
			log.Warn("display update failed", "iteration", i, "err", err)
		}
		logging.Trace(log, "sample", "raw", raw, "celsius", r.Celsius, "color", rgb)
		return nil
	})
	if ctx.Err() != nil {
		fmt.Fprintln(p.Out, "closing down nicely")
	}
	log.Info("poll loop stopped", "iterations", n)

	// Release failures are reported but do not change the exit status.
	relErr := errors.Join(sensor.Close(), display.Close())
	if relErr != nil {
		fmt.Fprintln(p.Out, relErr)
		log.Error("release failed", "err", relErr)
	}
	if loopErr != nil {
		return lifecycle.Exit(lifecycle.ExitFailure, loopErr)
	}
	return nil
}

func render(d lcd.Display, r thermo.Reading, rgb lcd.RGB) error {
	top, bottom := Lines(r)
	if err := d.SetCursor(0, 0); err != nil {
		return err
	}
	if err := d.Write(top); err != nil {
		return err
	}
	if err := d.SetCursor(1, 0); err != nil {
		return err
	}
	if err := d.Write(bottom); err != nil {
		return err
	}
	return d.SetColor(rgb)
}
