// Command digitalread prints the level of one GPIO input once per second
// until interrupted.
package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/isocode/grovedemo/internal/cli"
	"github.com/isocode/grovedemo/internal/config"
	"github.com/isocode/grovedemo/internal/digitalread"
)

func main() {
	cli.Main(newRootCmd())
}

func newRootCmd() *cobra.Command {
	root := cli.NewRoot("digitalread", "Poll a digital GPIO input and print its level", applyFlags, run)
	flags := root.PersistentFlags()
	flags.String("driver", "", "GPIO driver: periph, gpiocdev, rpio, stub")
	flags.String("chip", "", "GPIO chip for the gpiocdev driver (default gpiochip0)")
	flags.Int("offset", config.PlatformOffset, "Platform line offset added to --pin")
	flags.Int("pin", 3, "Logical pin number")
	flags.Bool("active-low", false, "Invert the logical level")
	return root
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.GPIO.Driver, _ = flags.GetString("driver")
	}
	if flags.Changed("chip") {
		cfg.GPIO.Chip, _ = flags.GetString("chip")
	}
	if flags.Changed("offset") {
		cfg.GPIO.Offset, _ = flags.GetInt("offset")
	}
	if flags.Changed("pin") {
		cfg.GPIO.Pin, _ = flags.GetInt("pin")
	}
	if flags.Changed("active-low") {
		cfg.GPIO.ActiveLow, _ = flags.GetBool("active-low")
	}
	return nil
}

func run(ctx context.Context, env cli.Env) error {
	p := &digitalread.Program{
		Pin:      env.Config.GPIO,
		Interval: env.Config.Poll.Interval.Duration,
		Out:      env.Out,
		Log:      env.Log,
	}
	return p.Run(ctx)
}
