// Package logging wraps the standard logger with leveled helpers. Debug
// output is gated behind a verbose flag set once at startup.
package logging

import (
	"log"
	"sync/atomic"
)

var verbose atomic.Bool

// SetVerbose toggles emission of Debugf output.
func SetVerbose(enabled bool) {
	verbose.Store(enabled)
}

func Debugf(format string, args ...any) {
	if !verbose.Load() {
		return
	}
	log.Printf("debug: "+format, args...)
}

func Warnf(format string, args ...any) {
	log.Printf("warn: "+format, args...)
}

func Errorf(format string, args ...any) {
	log.Printf("error: "+format, args...)
}
