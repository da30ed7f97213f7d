// Package obslog wires the engine's structured logging to logiface, using
// stumpy as the default JSON backend, rather than the standard library's
// log package.
package obslog

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the engine-wide structured logger type.
type Logger = logiface.Logger[*stumpy.Event]

// New returns a Logger writing newline-delimited JSON to w.
func New(w io.Writer) *Logger {
	return stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(w)))
}

// Default returns a Logger writing to stderr.
func Default() *Logger {
	return New(os.Stderr)
}

// Discard returns a Logger that drops everything, for tests and for hosts
// that don't want engine diagnostics.
func Discard() *Logger {
	return New(io.Discard)
}
