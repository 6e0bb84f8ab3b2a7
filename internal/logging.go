// Package internal holds shared setup helpers that are not part of the
// engine's public surface.
package internal

import (
	"io"
	"log"
	"os"
)

// InitLogging configures the process logger used by the engine packages.
func InitLogging() {
	InitLoggingTo(os.Stdout)
}

// InitLoggingTo directs the logger at an arbitrary sink; hosts embedding the
// engine use it to merge engine logs into their own output.
func InitLoggingTo(w io.Writer) {
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
