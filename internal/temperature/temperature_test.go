package temperature

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/isocode/grovedemo/internal/lcd"
	"github.com/isocode/grovedemo/internal/lifecycle"
	"github.com/isocode/grovedemo/internal/thermo"
)

type fakeSensor struct {
	values []float64
	errAt  map[int]error
	reads  int
	closed int
	cancel context.CancelFunc
}

func (f *fakeSensor) Read() (float64, error) {
	i := f.reads
	f.reads++
	if f.reads == len(f.values) && f.cancel != nil {
		f.cancel()
	}
	if err := f.errAt[i]; err != nil {
		return 0, err
	}
	return f.values[i%len(f.values)], nil
}

func (f *fakeSensor) Close() error {
	f.closed++
	return nil
}

// recordingDisplay wraps a console display and keeps the colors it was set to.
type recordingDisplay struct {
	*lcd.Console
	colors []lcd.RGB
	closed int
}

func (r *recordingDisplay) SetColor(c lcd.RGB) error {
	r.colors = append(r.colors, c)
	return r.Console.SetColor(c)
}

func (r *recordingDisplay) Close() error {
	r.closed++
	return r.Console.Close()
}

func TestLines(t *testing.T) {
	top, bottom := Lines(thermo.Convert(50))
	if top != "Temperature: " {
		t.Errorf("top = %q", top)
	}
	if bottom != "F: 86 & C: 30" {
		t.Errorf("bottom = %q", bottom)
	}

	// Extreme readings are clipped to the row buffer.
	_, bottom = Lines(thermo.Reading{Celsius: -1e9, Fahrenheit: -1799999968})
	if len(bottom) != lineWidth {
		t.Errorf("expected clipped row of %d, got %q", lineWidth, bottom)
	}
}

func TestRun_SamplesAndRotatesPalette(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	values := make([]float64, 9)
	for i := range values {
		values[i] = 50
	}
	sensor := &fakeSensor{values: values, cancel: cancel}
	var lcdOut bytes.Buffer
	display := &recordingDisplay{Console: lcd.NewConsole(&lcdOut)}

	var out bytes.Buffer
	p := &Program{
		Interval:    time.Millisecond,
		Out:         &out,
		OpenSensor:  func(thermo.Config) (thermo.Sensor, error) { return sensor, nil },
		OpenDisplay: func(lcd.Config) (lcd.Display, error) { return display, nil },
	}
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := strings.Count(out.String(), "30 degrees Celsius, or 86 degrees Fahrenheit\n"); got != 9 {
		t.Errorf("expected 9 reading lines, got %d in %q", got, out.String())
	}
	if !strings.HasSuffix(out.String(), "closing down nicely\n") {
		t.Errorf("missing shutdown line: %q", out.String())
	}
	if len(display.colors) != 9 {
		t.Fatalf("expected 9 color updates, got %d", len(display.colors))
	}
	for i, c := range display.colors {
		if c != lcd.Palette[i%7] {
			t.Errorf("color %d = %v, want %v", i, c, lcd.Palette[i%7])
		}
	}
	if display.colors[8] != (lcd.RGB{R: 0xff, G: 0x66, B: 0x22}) {
		t.Errorf("ninth color should wrap to entry 1, got %v", display.colors[8])
	}
	if display.Row(0) != "Temperature: " || display.Row(1) != "F: 86 & C: 30" {
		t.Errorf("unexpected rows %q / %q", display.Row(0), display.Row(1))
	}
	if sensor.closed != 1 || display.closed != 1 {
		t.Errorf("expected both handles released once, got sensor=%d display=%d", sensor.closed, display.closed)
	}
	if sensor.reads != 9 {
		t.Errorf("expected no reads after stop, got %d", sensor.reads)
	}
}

func TestRun_SkipsFailedReads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sensor := &fakeSensor{
		values: []float64{50, 0, 100},
		errAt:  map[int]error{1: errors.New("nack")},
		cancel: cancel,
	}
	display := &recordingDisplay{Console: lcd.NewConsole(&bytes.Buffer{})}

	var out bytes.Buffer
	p := &Program{
		Interval:    time.Millisecond,
		Out:         &out,
		OpenSensor:  func(thermo.Config) (thermo.Sensor, error) { return sensor, nil },
		OpenDisplay: func(lcd.Config) (lcd.Display, error) { return display, nil },
	}
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := "30 degrees Celsius, or 86 degrees Fahrenheit\n60 degrees Celsius, or 140 degrees Fahrenheit\nclosing down nicely\n"
	if out.String() != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", out.String(), want)
	}
	if len(display.colors) != 2 || display.colors[1] != lcd.Palette[1] {
		t.Errorf("palette should advance only on good samples, got %v", display.colors)
	}
}

func TestRun_DisplayInitFailure(t *testing.T) {
	sensorOpened := false
	var out bytes.Buffer
	p := &Program{
		Out: &out,
		OpenSensor: func(thermo.Config) (thermo.Sensor, error) {
			sensorOpened = true
			return &fakeSensor{values: []float64{1}}, nil
		},
		OpenDisplay: func(lcd.Config) (lcd.Display, error) { return nil, errors.New("no ack at 0x3e") },
	}
	err := p.Run(context.Background())

	var ee *lifecycle.ExitError
	if !errors.As(err, &ee) || ee.Code != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	if out.String() != "display init failed: no ack at 0x3e\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if sensorOpened {
		t.Error("sensor should not be acquired after display failure")
	}
}

func TestRun_SensorInitFailureReleasesDisplay(t *testing.T) {
	display := &recordingDisplay{Console: lcd.NewConsole(&bytes.Buffer{})}
	var out bytes.Buffer
	p := &Program{
		Out:         &out,
		OpenSensor:  func(thermo.Config) (thermo.Sensor, error) { return nil, thermo.ErrUnknownDriver },
		OpenDisplay: func(lcd.Config) (lcd.Display, error) { return display, nil },
	}
	err := p.Run(context.Background())
	if !errors.Is(err, thermo.ErrUnknownDriver) {
		t.Fatalf("expected sensor error, got %v", err)
	}
	if display.closed != 1 {
		t.Errorf("expected display released, got %d", display.closed)
	}
}
