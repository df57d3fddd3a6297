// Package lcd drives the character display used by the temperature demo:
// two rows of text plus an RGB backlight.
package lcd

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Drivers understood by Open.
const (
	DriverJHD1313M1 = "jhd1313m1"
	DriverConsole   = "console"
)

var ErrUnknownDriver = errors.New("unknown display driver")

// Config selects the display backend and its bus addresses.
type Config struct {
	Driver     string `json:"driver" toml:"driver" yaml:"driver"`
	Bus        string `json:"bus" toml:"bus" yaml:"bus"`
	LCDAddress uint16 `json:"lcd_address" toml:"lcd_address" yaml:"lcd_address"`
	RGBAddress uint16 `json:"rgb_address" toml:"rgb_address" yaml:"rgb_address"`
}

// Display is a two-row character display with a colored backlight.
type Display interface {
	SetCursor(row, col int) error
	Write(s string) error
	SetColor(c RGB) error
	Close() error
}

// Open acquires the configured display.
func Open(cfg Config) (Display, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverJHD1313M1:
		return openJHD1313M1(cfg)
	case DriverConsole:
		return NewConsole(os.Stderr), nil
	default:
		return nil, fmt.Errorf("display driver %q: %w", cfg.Driver, ErrUnknownDriver)
	}
}

// RGB is a backlight color.
type RGB struct {
	R, G, B uint8
}

func (c RGB) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Palette is the fixed backlight rotation.
var Palette = [...]RGB{
	{0xd1, 0x00, 0x00},
	{0xff, 0x66, 0x22},
	{0xff, 0xda, 0x21},
	{0x33, 0xdd, 0x00},
	{0x11, 0x33, 0xcc},
	{0x22, 0x00, 0x66},
	{0x33, 0x00, 0x44},
}

// PaletteColor returns the palette entry for counter n, cycling with
// period len(Palette).
func PaletteColor(n int) RGB {
	i := n % len(Palette)
	if i < 0 {
		i += len(Palette)
	}
	return Palette[i]
}
