// Package iomux implements the I/O readiness multiplexer: a dynamic set
// of (file descriptor, direction, callback) subscriptions polled each
// dispatch tick. On Linux it is backed by epoll. It is deliberately
// single-threaded (no atomics, no locks), since the engine's dispatch
// loop is itself strictly single-threaded and cooperative.
package iomux

import (
	"time"

	"github.com/vftdan/est-go/internal/event"
)

// Direction is the interest a subscription registers.
type Direction int

const (
	Read Direction = iota
	Write
)

// Callback is invoked for every ready subscription during Poll.
type Callback func(owner event.Position, fd int, dir Direction)

// Handling is a single (fd, direction) subscription.
type Handling struct {
	Owner    event.Position
	Callback Callback
	Enabled  bool
}

// ErrorHandler is invoked when a poll backend reports an error condition
// on a registered fd: the subscription disables itself and the handler
// logs the event. It receives the fd and whether it was the read- or
// write-direction subscription that observed the error.
type ErrorHandler func(fd int, dir Direction, err error)
