// Package config loads the hardware and logging settings shared by the demo
// programs. Files may be JSON, TOML or YAML; the format follows the file
// extension. A missing file is not an error: the defaults describe a Grove
// kit on the GrovePi sub-platform.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/isocode/grovedemo/internal/lcd"
	"github.com/isocode/grovedemo/internal/logging"
	"github.com/isocode/grovedemo/internal/pins"
	"github.com/isocode/grovedemo/internal/poll"
	"github.com/isocode/grovedemo/internal/thermo"
)

// PlatformOffset is the line offset of the GrovePi sub-platform.
const PlatformOffset = 512

// Config is the top-level structure of the configuration file.
type Config struct {
	Log     logging.Config `json:"log" toml:"log" yaml:"log"`
	Poll    PollConfig     `json:"poll" toml:"poll" yaml:"poll"`
	GPIO    pins.Config    `json:"gpio" toml:"gpio" yaml:"gpio"`
	Sensor  thermo.Config  `json:"sensor" toml:"sensor" yaml:"sensor"`
	Display lcd.Config     `json:"display" toml:"display" yaml:"display"`
}

// PollConfig controls the sampling loop.
type PollConfig struct {
	Interval Duration `json:"interval" toml:"interval" yaml:"interval"`
}

// Duration is a time.Duration written as "1s", "250ms" in every format.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:  logging.Config{Level: "info"},
		Poll: PollConfig{Interval: Duration{poll.DefaultInterval}},
		GPIO: pins.Config{
			Driver:    pins.DriverPeriph,
			Offset:    PlatformOffset,
			Pin:       3,
			Direction: pins.DirectionIn,
		},
		Sensor: thermo.Config{
			Driver:    thermo.DriverBMxx80,
			Address:   0x76,
			StubValue: 50,
		},
		Display: lcd.Config{
			Driver:     lcd.DriverJHD1313M1,
			LCDAddress: lcd.DefaultLCDAddress,
			RGBAddress: lcd.DefaultRGBAddress,
		},
	}
}

// Load reads path on top of the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("unable to read config: %w", err)
	}
	if err := decode(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch format(path) {
	case "toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	case "yaml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

// Encode renders cfg in the format implied by path's extension.
func Encode(path string, cfg Config) ([]byte, error) {
	switch format(path) {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "yaml":
		return yaml.Marshal(cfg)
	default:
		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Save writes cfg to path through a temporary file so a crash never leaves
// a truncated config behind.
func Save(path string, cfg Config) error {
	data, err := Encode(path, cfg)
	if err != nil {
		return err
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// Validate rejects settings no driver can act on.
func (c Config) Validate() error {
	var errs []error
	if c.Poll.Interval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("poll.interval must be positive, got %s", c.Poll.Interval))
	}
	if c.GPIO.Line() < 0 {
		errs = append(errs, fmt.Errorf("gpio line %d is negative", c.GPIO.Line()))
	}
	if c.GPIO.Driver == "" {
		errs = append(errs, errors.New("gpio.driver is empty"))
	}
	if c.Sensor.Driver == "" {
		errs = append(errs, errors.New("sensor.driver is empty"))
	}
	if c.Display.Driver == "" {
		errs = append(errs, errors.New("display.driver is empty"))
	}
	return errors.Join(errs...)
}
