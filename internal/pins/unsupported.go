//go:build !linux || disablegpio

package pins

import "fmt"

// On other platforms, or when built with the "disablegpio" tag, the Linux-only
// backends resolve to a clear error instead of an unknown-driver failure.
func init() {
	for _, name := range []string{DriverGPIOCdev, DriverRPIO} {
		name := name
		register(name, func(cfg Config) (Pin, error) {
			return nil, fmt.Errorf("gpio driver %q: %w", name, ErrUnsupported)
		})
	}
}
