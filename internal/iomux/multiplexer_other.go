//go:build !linux

package iomux

import (
	"errors"
	"time"
)

// ErrUnsupportedPlatform is returned by New on platforms other than
// Linux: the engine's I/O surface is exclusively Linux input devices
// (evdev/uinput), so a portable poller is out of scope.
var ErrUnsupportedPlatform = errors.New("iomux: only linux is supported")

// Multiplexer is a non-functional stand-in on non-Linux platforms, kept
// only so the module builds for tooling (vet, lint) run elsewhere.
type Multiplexer struct{}

func New(onError ErrorHandler) (*Multiplexer, error) {
	return nil, ErrUnsupportedPlatform
}

func (m *Multiplexer) Close() error { return nil }

func (m *Multiplexer) Register(fd int, dir Direction, h Handling) error {
	return ErrUnsupportedPlatform
}

func (m *Multiplexer) Unregister(fd int, dir Direction) error { return ErrUnsupportedPlatform }

func (m *Multiplexer) Disable(fd int, dir Direction) {}

func (m *Multiplexer) Len() int { return 0 }

func (m *Multiplexer) Poll(timeout time.Duration, cb Callback) error { return nil }
