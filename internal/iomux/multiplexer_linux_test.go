//go:build linux

package iomux

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vftdan/est-go/internal/event"
	"golang.org/x/sys/unix"
)

func TestPollInvokesReadCallback(t *testing.T) {
	fds := make([]int, 2)
	require.NoError(t, unix.Pipe(fds))
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	m, err := New(nil)
	require.NoError(t, err)
	defer m.Close()

	var got []byte
	var owner event.Position
	require.NoError(t, m.Register(fds[0], Read, Handling{
		Owner:   nil,
		Enabled: true,
		Callback: func(o event.Position, fd int, dir Direction) {
			owner = o
			buf := make([]byte, 16)
			n, _ := unix.Read(fd, buf)
			got = buf[:n]
		},
	}))

	_, err = unix.Write(fds[1], []byte("hi"))
	require.NoError(t, err)

	require.NoError(t, m.Poll(time.Second, nil))
	require.Equal(t, "hi", string(got))
	require.Nil(t, owner)
}

func TestDisableStopsFurtherDelivery(t *testing.T) {
	fds := make([]int, 2)
	require.NoError(t, unix.Pipe(fds))
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	m, err := New(nil)
	require.NoError(t, err)
	defer m.Close()

	calls := 0
	require.NoError(t, m.Register(fds[0], Read, Handling{
		Enabled: true,
		Callback: func(o event.Position, fd int, dir Direction) {
			calls++
			buf := make([]byte, 16)
			unix.Read(fd, buf)
		},
	}))

	m.Disable(fds[0], Read)

	_, err = unix.Write(fds[1], []byte("x"))
	require.NoError(t, err)
	require.NoError(t, m.Poll(10*time.Millisecond, nil))
	require.Equal(t, 0, calls)
}

func TestZeroTimeoutIsNonBlocking(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	defer m.Close()

	start := time.Now()
	require.NoError(t, m.Poll(0, nil))
	require.Less(t, time.Since(start), 100*time.Millisecond)
}
