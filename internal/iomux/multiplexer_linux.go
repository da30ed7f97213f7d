//go:build linux

package iomux

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// Multiplexer is the epoll-backed I/O multiplexer. It holds two parallel
// growable maps of subscriptions — one for read-interest, one for
// write-interest — keyed by fd. The multiplexer itself never creates
// events; only subscription callbacks do.
type Multiplexer struct {
	epfd int

	reads  map[int]*Handling
	writes map[int]*Handling

	onError ErrorHandler

	eventBuf [128]unix.EpollEvent
}

// New creates and initializes an epoll instance.
func New(onError ErrorHandler) (*Multiplexer, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("iomux: epoll_create1: %w", err)
	}
	return &Multiplexer{
		epfd:    epfd,
		reads:   make(map[int]*Handling),
		writes:  make(map[int]*Handling),
		onError: onError,
	}, nil
}

// Close releases the epoll instance.
func (m *Multiplexer) Close() error {
	return unix.Close(m.epfd)
}

func (m *Multiplexer) mask(fd int) uint32 {
	var mask uint32
	if h, ok := m.reads[fd]; ok && h.Enabled {
		mask |= unix.EPOLLIN
	}
	if h, ok := m.writes[fd]; ok && h.Enabled {
		mask |= unix.EPOLLOUT
	}
	return mask
}

func (m *Multiplexer) sync(fd int) error {
	mask := m.mask(fd)
	_, hasRead := m.reads[fd]
	_, hasWrite := m.writes[fd]

	if !hasRead && !hasWrite {
		return unix.EpollCtl(m.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	}

	ev := &unix.EpollEvent{Events: mask | unix.EPOLLERR | unix.EPOLLHUP, Fd: int32(fd)}

	// Try MOD first; if the fd was never added, fall back to ADD.
	if err := unix.EpollCtl(m.epfd, unix.EPOLL_CTL_MOD, fd, ev); err != nil {
		return unix.EpollCtl(m.epfd, unix.EPOLL_CTL_ADD, fd, ev)
	}
	return nil
}

// Register subscribes fd for dir; Poll invokes h.Callback with h.Owner
// whenever fd is ready. Registering the same (fd, dir) twice replaces the prior
// subscription.
func (m *Multiplexer) Register(fd int, dir Direction, h Handling) error {
	switch dir {
	case Read:
		m.reads[fd] = &h
	case Write:
		m.writes[fd] = &h
	}
	return m.sync(fd)
}

// Unregister removes the (fd, dir) subscription, if any.
func (m *Multiplexer) Unregister(fd int, dir Direction) error {
	switch dir {
	case Read:
		delete(m.reads, fd)
	case Write:
		delete(m.writes, fd)
	}
	return m.sync(fd)
}

// Disable marks the (fd, dir) subscription inactive without removing it;
// subsequent poll passes ignore it. Disable itself does not log.
func (m *Multiplexer) Disable(fd int, dir Direction) {
	var h *Handling
	switch dir {
	case Read:
		h = m.reads[fd]
	case Write:
		h = m.writes[fd]
	}
	if h == nil {
		return
	}
	h.Enabled = false
	_ = m.sync(fd)
}

// Len reports the number of distinct fds with at least one registered
// subscription, enabled or disabled.
func (m *Multiplexer) Len() int {
	seen := make(map[int]struct{}, len(m.reads)+len(m.writes))
	for fd := range m.reads {
		seen[fd] = struct{}{}
	}
	for fd := range m.writes {
		seen[fd] = struct{}{}
	}
	return len(seen)
}

// Poll waits up to timeout (negative means indefinite, zero means
// non-blocking) for readiness, then invokes, for every ready subscription,
// its own Callback, or cb if the subscription has none. It never creates
// events; only callbacks do.
func (m *Multiplexer) Poll(timeout time.Duration, cb Callback) error {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}

	n, err := unix.EpollWait(m.epfd, m.eventBuf[:], ms)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return fmt.Errorf("iomux: epoll_wait: %w", err)
	}

	for i := 0; i < n; i++ {
		ev := m.eventBuf[i]
		fd := int(ev.Fd)
		isErr := ev.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0

		if ev.Events&(unix.EPOLLIN|unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			if h, ok := m.reads[fd]; ok && h.Enabled {
				if isErr && m.onError != nil {
					m.onError(fd, Read, fmt.Errorf("iomux: fd %d error/hangup", fd))
					m.Disable(fd, Read)
				} else if h.Callback != nil {
					h.Callback(h.Owner, fd, Read)
				} else if cb != nil {
					cb(h.Owner, fd, Read)
				}
			}
		}
		if ev.Events&(unix.EPOLLOUT|unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			if h, ok := m.writes[fd]; ok && h.Enabled {
				if isErr && m.onError != nil {
					m.onError(fd, Write, fmt.Errorf("iomux: fd %d error/hangup", fd))
					m.Disable(fd, Write)
				} else if h.Callback != nil {
					h.Callback(h.Owner, fd, Write)
				} else if cb != nil {
					cb(h.Owner, fd, Write)
				}
			}
		}
	}
	return nil
}
