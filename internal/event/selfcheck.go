package event

import (
	"errors"
	"fmt"

	"github.com/vftdan/est-go/internal/timeutil"
)

// ErrListCorrupted is a fatal invariant-violation sentinel. It is never
// returned from the hot path (Create/Destroy/Replicate assume a sound
// list); selfCheck exists purely so tests can assert the invariant holds
// after a sequence of operations.
var ErrListCorrupted = errors.New("event: list corrupted")

// selfCheck walks the list forward and backward, verifying the doubly
// linked invariant, the cached length, and the time-ordering invariant
// Create relies on for its descending-scan insertion.
func (l *List) selfCheck() error {
	count := 0
	var lastTime timeutil.AbsoluteTime
	haveLast := false
	for ev := l.sentinel.next; ev != &l.sentinel; ev = ev.next {
		if ev.prev.next != ev {
			return fmt.Errorf("%w: broken forward link at position %d", ErrListCorrupted, count)
		}
		if ev.list != l {
			return fmt.Errorf("%w: event at position %d not owned by this list", ErrListCorrupted, count)
		}
		if haveLast && ev.Data.Time.Before(lastTime) {
			return fmt.Errorf("%w: time ordering violated at position %d", ErrListCorrupted, count)
		}
		lastTime = ev.Data.Time
		haveLast = true
		count++
	}
	if count != l.len {
		return fmt.Errorf("%w: cached length %d does not match forward walk length %d", ErrListCorrupted, l.len, count)
	}

	back := 0
	for ev := l.sentinel.prev; ev != &l.sentinel; ev = ev.prev {
		if ev.next.prev != ev {
			return fmt.Errorf("%w: broken backward link at position %d", ErrListCorrupted, back)
		}
		back++
	}
	if back != l.len {
		return fmt.Errorf("%w: backward walk length %d does not match cached length %d", ErrListCorrupted, back, l.len)
	}
	return nil
}
