// Command temperature shows a temperature reading in Celsius and Fahrenheit
// on the console and on a Grove RGB LCD, changing the backlight color every
// sample.
package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/isocode/grovedemo/internal/cli"
	"github.com/isocode/grovedemo/internal/config"
	"github.com/isocode/grovedemo/internal/temperature"
)

func main() {
	cli.Main(newRootCmd())
}

func newRootCmd() *cobra.Command {
	root := cli.NewRoot("temperature", "Display temperature readings on an RGB LCD", applyFlags, run)
	flags := root.PersistentFlags()
	flags.String("sensor-driver", "", "Sensor driver: bmxx80, stub")
	flags.String("sensor-bus", "", "I²C bus of the sensor (default first bus)")
	flags.Uint16("sensor-address", 0x76, "I²C address of the sensor")
	flags.String("display-driver", "", "Display driver: jhd1313m1, console")
	flags.String("display-bus", "", "I²C bus of the display (default first bus)")
	return root
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("sensor-driver") {
		cfg.Sensor.Driver, _ = flags.GetString("sensor-driver")
	}
	if flags.Changed("sensor-bus") {
		cfg.Sensor.Bus, _ = flags.GetString("sensor-bus")
	}
	if flags.Changed("sensor-address") {
		cfg.Sensor.Address, _ = flags.GetUint16("sensor-address")
	}
	if flags.Changed("display-driver") {
		cfg.Display.Driver, _ = flags.GetString("display-driver")
	}
	if flags.Changed("display-bus") {
		cfg.Display.Bus, _ = flags.GetString("display-bus")
	}
	return nil
}

func run(ctx context.Context, env cli.Env) error {
	p := &temperature.Program{
		Sensor:   env.Config.Sensor,
		Display:  env.Config.Display,
		Interval: env.Config.Poll.Interval.Duration,
		Out:      env.Out,
		Log:      env.Log,
	}
	return p.Run(ctx)
}
