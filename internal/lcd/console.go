package lcd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

var errClosed = errors.New("display closed")

// Console mirrors the display on a text writer: every Write prints the full
// row it touched and every SetColor prints the new backlight color.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	rows   [2][]byte
	row    int
	col    int
	closed bool
}

// NewConsole returns a display that renders to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) SetCursor(row, col int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClosed
	}
	if row < 0 || row >= len(c.rows) || col < 0 {
		return fmt.Errorf("cursor %d,%d out of range", row, col)
	}
	c.row, c.col = row, col
	return nil
}

func (c *Console) Write(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClosed
	}
	line := c.rows[c.row]
	for len(line) < c.col+len(s) {
		line = append(line, ' ')
	}
	copy(line[c.col:], s)
	c.rows[c.row] = line
	c.col += len(s)
	_, err := fmt.Fprintf(c.w, "lcd[%d] %s\n", c.row, strings.TrimRight(string(line), " "))
	return err
}

func (c *Console) SetColor(rgb RGB) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClosed
	}
	_, err := fmt.Fprintf(c.w, "lcd color %s\n", rgb)
	return err
}

// Row returns the current text of row.
func (c *Console) Row(row int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.rows[row])
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
