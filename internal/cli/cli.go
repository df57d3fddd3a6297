// Package cli holds the cobra plumbing shared by the demo binaries: common
// flags, config loading, logger setup, and exit code handling.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/isocode/grovedemo/internal/config"
	"github.com/isocode/grovedemo/internal/lifecycle"
	"github.com/isocode/grovedemo/internal/logging"
)

var version = "0.1.0-dev"

// Env is what a command's run function receives.
type Env struct {
	Config config.Config
	Log    *slog.Logger
	Out    io.Writer
}

// NewRoot builds a root command with the persistent flags every binary
// shares. run is called with a context cancelled on SIGINT/SIGTERM; apply
// copies command-specific flags onto the loaded config.
func NewRoot(use, short string, apply func(*cobra.Command, *config.Config) error, run func(context.Context, Env) error) *cobra.Command {
	root := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Load(cmd, apply)
			if err != nil {
				return err
			}
			log, closer := logging.New(cfg.Log, cmd.ErrOrStderr())
			defer closer.Close()
			log = log.With("program", use)

			ctx, state, stop := lifecycle.WatchSignals(cmd.Context())
			defer stop()

			err = run(ctx, Env{Config: cfg, Log: log, Out: cmd.OutOrStdout()})
			log.Info("shutdown", "state", state.String())
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Configuration file (.json, .toml, .yaml)")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flags.String("log-file", "", "Also write the log to this rotating file")
	flags.Duration("interval", 0, "Sampling interval (default from config, 1s)")

	root.AddCommand(newVersionCmd(use), newConfigCmd(apply))
	return root
}

// Load reads the --config file and applies the shared and command-specific
// flag overrides. Only flags set on the command line override the file.
func Load(cmd *cobra.Command, apply func(*cobra.Command, *config.Config) error) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.Log.File, _ = flags.GetString("log-file")
	}
	if flags.Changed("interval") {
		cfg.Poll.Interval.Duration, _ = flags.GetDuration("interval")
	}
	if apply != nil {
		if err := apply(cmd, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

func newVersionCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", name, version)
		},
	}
}

func newConfigCmd(apply func(*cobra.Command, *config.Config) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [path]",
		Short: "Print the effective configuration, or write it to path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Load(cmd, apply)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return config.Save(args[0], cfg)
			}
			format, _ := cmd.Flags().GetString("format")
			data, err := config.Encode("config."+format, cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().String("format", "json", "Output format when printing: json, toml, yaml")
	return cmd
}

// Main executes root and exits with the code carried by its error.
func Main(root *cobra.Command) {
	os.Exit(Execute(root))
}

// Execute runs root and maps its error to an exit code. Errors that carry
// an exit code have already been reported by the program.
func Execute(root *cobra.Command) int {
	err := root.Execute()
	if err == nil {
		return lifecycle.ExitSuccess
	}
	var ee *lifecycle.ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	fmt.Fprintln(root.ErrOrStderr(), err)
	return lifecycle.ExitFailure
}
