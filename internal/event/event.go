// Package event implements the process-wide event list: a time-ordered
// doubly linked list of in-flight events.
package event

import (
	"github.com/vftdan/est-go/internal/modset"
	"github.com/vftdan/est-go/internal/timeutil"
)

// Code identifies the namespace/major/minor triple carried by an event.
type Code struct {
	Namespace uint32
	Major     uint16
	Minor     uint16
}

// Position is implemented by anything an event can currently reside at:
// graph nodes and graph channels. It is the uniform "event position"
// abstraction that lets events move between nodes via channels without
// special-casing.
type Position interface {
	// HandleEvent is invoked by the dispatch loop. It returns true if the
	// dispatch walk must restart from the head of the list because list
	// positions may have been invalidated, false if only ev itself was
	// consumed or advanced and neighbours remain valid.
	HandleEvent(ev *Event) (rewind bool)

	// Waiting reports the waiting-new-event gate: while true, the
	// dispatcher skips events currently sitting at this position.
	Waiting() bool

	// SetWaiting sets the waiting-new-event gate.
	SetWaiting(bool)
}

// Data is the payload of an Event, independent of its list linkage.
type Data struct {
	Code      Code
	TTL       uint32
	Priority  int32
	Payload   int64
	Modifiers modset.Set
	Time      timeutil.AbsoluteTime
}

// Event is Data plus list linkage, a current Position, and the input slot
// that last delivered it.
type Event struct {
	Data

	prev, next *Event
	list       *List

	Position   Position
	InputIndex int
}

// List is the process-wide (per Engine) time-ordered doubly linked event
// list, anchored by a self-referential sentinel.
type List struct {
	sentinel Event
	len      int
}

// NewList returns an initialized, empty List.
func NewList() *List {
	l := &List{}
	l.sentinel.prev = &l.sentinel
	l.sentinel.next = &l.sentinel
	l.sentinel.list = l
	return l
}

// Len returns the number of live events in the list.
func (l *List) Len() int { return l.len }

// Front returns the earliest (smallest time) event, or nil if empty.
func (l *List) Front() *Event {
	if l.sentinel.next == &l.sentinel {
		return nil
	}
	return l.sentinel.next
}

// Next returns the event following ev in list order, or nil at the end.
func (l *List) Next(ev *Event) *Event {
	if ev.next == &l.sentinel {
		return nil
	}
	return ev.next
}

// Prev returns the event preceding ev in list order, or nil at the start.
func (l *List) Prev(ev *Event) *Event {
	if ev.prev == &l.sentinel {
		return nil
	}
	return ev.prev
}

func (l *List) insertAfter(newEv, at *Event) {
	newEv.prev = at
	newEv.next = at.next
	at.next.prev = newEv
	at.next = newEv
	newEv.list = l
	l.len++
}

// unlink removes ev from its list without freeing it. ev.list is cleared.
func (l *List) unlink(ev *Event) {
	ev.prev.next = ev.next
	ev.next.prev = ev.prev
	ev.prev = nil
	ev.next = nil
	ev.list = nil
	l.len--
}

// Create allocates a new Event. If data is non-nil its fields are
// deep-copied (including the ModifierSet); otherwise the event is
// initialised to now() with zero fields. The event is inserted at the
// unique position maintaining the time-ordering invariant: descending scan
// from the tail, insert immediately after the latest event whose time is
// <= the new event's time. This yields O(1) insertion for newly created
// "now" events and stable FIFO ordering among equal-time events.
//
// Create never fails in this implementation (Go allocation failure is not
// a recoverable condition), but keeps the (*Event, bool) signature so
// callers that wish to model degraded allocators can do so without an
// API change.
func (l *List) Create(data *Data) (*Event, bool) {
	ev := &Event{}
	if data != nil {
		ev.Data = *data
		ev.Data.Modifiers = data.Modifiers.Copy()
	} else {
		ev.Data.Time = timeutil.Now()
	}

	at := l.sentinel.prev
	for at != &l.sentinel && at.Data.Time.After(ev.Data.Time) {
		at = at.prev
	}
	l.insertAfter(ev, at)
	return ev, true
}

// Destroy unlinks and discards ev. It is a no-op if ev is not currently
// linked into l (double-destroy safety for catalog code that may race a
// rewind against its own cleanup).
func (l *List) Destroy(ev *Event) {
	if ev.list != l {
		return
	}
	l.unlink(ev)
}

// Replicate inserts up to n fresh copies of src immediately after src,
// sharing src's time (forming a run of equal-time events), and returns the
// number actually created. Replicas have Position == nil and InputIndex ==
// 0 until the caller assigns them. Each replica is linked by fixing up
// `source.next.prev`, not `source.next.next.prev`, preserving the doubly
// linked invariant for every intermediate insertion.
func (l *List) Replicate(src *Event, n int) int {
	if src.list != l {
		return 0
	}
	at := src
	for i := 0; i < n; i++ {
		replica := &Event{Data: src.Data}
		replica.Data.Modifiers = src.Data.Modifiers.Copy()
		l.insertAfter(replica, at)
		at = replica
	}
	return n
}
