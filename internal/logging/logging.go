// Package logging builds the logr loggers used across the client.
package logging

import (
	"io"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// DebugVerbosity is the V-level used for request tracing and stale-fetch notices.
const DebugVerbosity = 1

// New returns a logger writing timestamped lines to w.
// Debug raises the verbosity so V(DebugVerbosity) messages are emitted.
func New(w io.Writer, debug bool) logr.Logger {
	if debug {
		stdr.SetVerbosity(DebugVerbosity)
	} else {
		stdr.SetVerbosity(0)
	}
	return stdr.New(log.New(w, "", log.LstdFlags))
}

// ForCommand returns the logger for one-shot commands: errOut in debug mode,
// otherwise a discarding logger since commands print their own error lines.
func ForCommand(errOut io.Writer, debug bool) logr.Logger {
	if !debug {
		return logr.Discard()
	}
	return New(errOut, true)
}

// OpenFile returns a logger appending to the file at path.
// The caller closes the returned file.
func OpenFile(path string, debug bool) (logr.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return logr.Discard(), nil, err
	}
	return New(f, debug), f, nil
}
