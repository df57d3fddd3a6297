//go:build !windows

package lifecycle

import (
	"os"

	"golang.org/x/sys/unix"
)

// shutdownSignals are SIGINT (Ctrl+C) and SIGTERM, the signal sent by
// process managers such as systemd.
var shutdownSignals = []os.Signal{os.Interrupt, unix.SIGTERM}
