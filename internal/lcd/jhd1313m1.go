package lcd

import (
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3/i2c"

	"github.com/isocode/grovedemo/internal/hal"
)

// Default bus addresses of the Grove RGB LCD.
const (
	DefaultLCDAddress = 0x3e
	DefaultRGBAddress = 0x62
)

// LCD controller command set (HD44780 compatible).
const (
	cmdClear       = 0x01
	cmdEntryMode   = 0x04
	cmdDisplayCtl  = 0x08
	cmdFunctionSet = 0x20

	entryLeft = 0x02
	displayOn = 0x04
	twoLine   = 0x08

	prefixCommand = 0x80
	prefixData    = 0x40
)

// Backlight controller registers.
const (
	regMode1  = 0x00
	regMode2  = 0x01
	regBlue   = 0x02
	regGreen  = 0x03
	regRed    = 0x04
	regLEDOut = 0x08
)

var rowAddr = [...]byte{0x80, 0xc0, 0x14, 0x54}

// JHD1313M1 is the Grove RGB backlight LCD: a text controller and a PCA9633
// backlight sharing one I²C bus.
type JHD1313M1 struct {
	lcd    i2c.Dev
	rgb    i2c.Dev
	closer io.Closer
	sleep  func(time.Duration)
}

func openJHD1313M1(cfg Config) (Display, error) {
	bus, err := hal.OpenI2C(cfg.Bus)
	if err != nil {
		return nil, err
	}
	lcdAddr, rgbAddr := cfg.LCDAddress, cfg.RGBAddress
	if lcdAddr == 0 {
		lcdAddr = DefaultLCDAddress
	}
	if rgbAddr == 0 {
		rgbAddr = DefaultRGBAddress
	}
	d, err := NewJHD1313M1(bus, lcdAddr, rgbAddr, time.Sleep)
	if err != nil {
		bus.Close()
		return nil, err
	}
	d.closer = bus
	return d, nil
}

// NewJHD1313M1 initialises the display on bus. sleep is used for the
// controller's power-up and clear delays.
func NewJHD1313M1(bus i2c.Bus, lcdAddr, rgbAddr uint16, sleep func(time.Duration)) (*JHD1313M1, error) {
	d := &JHD1313M1{
		lcd:   i2c.Dev{Bus: bus, Addr: lcdAddr},
		rgb:   i2c.Dev{Bus: bus, Addr: rgbAddr},
		sleep: sleep,
	}
	if err := d.init(); err != nil {
		return nil, fmt.Errorf("jhd1313m1 init: %w", err)
	}
	return d, nil
}

func (d *JHD1313M1) init() error {
	d.sleep(50 * time.Millisecond)
	for i := 0; i < 2; i++ {
		if err := d.command(cmdFunctionSet | twoLine); err != nil {
			return err
		}
		d.sleep(4500 * time.Microsecond)
	}
	if err := d.command(cmdDisplayCtl | displayOn); err != nil {
		return err
	}
	if err := d.command(cmdClear); err != nil {
		return err
	}
	d.sleep(4500 * time.Microsecond)
	if err := d.command(cmdEntryMode | entryLeft); err != nil {
		return err
	}
	for _, kv := range [][2]byte{{regMode1, 0x00}, {regMode2, 0x00}, {regLEDOut, 0xaa}} {
		if err := d.rgb.Tx(kv[:], nil); err != nil {
			return fmt.Errorf("backlight: %w", err)
		}
	}
	return d.SetColor(RGB{0xff, 0xff, 0xff})
}

func (d *JHD1313M1) command(c byte) error {
	return d.lcd.Tx([]byte{prefixCommand, c}, nil)
}

// SetCursor moves the write position.
func (d *JHD1313M1) SetCursor(row, col int) error {
	if row < 0 || row >= len(rowAddr) || col < 0 || col > 0x3f {
		return fmt.Errorf("cursor %d,%d out of range", row, col)
	}
	return d.command(rowAddr[row] + byte(col))
}

// Write sends s at the current cursor position.
func (d *JHD1313M1) Write(s string) error {
	for i := 0; i < len(s); i++ {
		if err := d.lcd.Tx([]byte{prefixData, s[i]}, nil); err != nil {
			return err
		}
	}
	return nil
}

// SetColor sets the backlight.
func (d *JHD1313M1) SetColor(c RGB) error {
	for _, kv := range [][2]byte{{regRed, c.R}, {regGreen, c.G}, {regBlue, c.B}} {
		if err := d.rgb.Tx(kv[:], nil); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the bus if the display owns it.
func (d *JHD1313M1) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return hal.Release(err)
}

var _ Display = (*JHD1313M1)(nil)
