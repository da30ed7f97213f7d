// Package delay implements the delayed callback list: a singly linked
// list of timestamped one-shot callbacks, sorted ascending by fire time.
package delay

import (
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/timeutil"
)

// Callback is invoked when a delay record fires.
type Callback func(target event.Position, closure any)

type record struct {
	fireTime timeutil.AbsoluteTime
	target   event.Position
	closure  any
	callback Callback
	next     *record
	cancelled bool
}

// Handle identifies a scheduled delay record so it can be cancelled.
type Handle struct {
	rec *record
}

// List is the process-wide (per Engine) sorted singly linked delay list.
type List struct {
	head *record
}

// NewList returns an empty List.
func NewList() *List {
	return &List{}
}

// Insert schedules callback to fire at fireTime with the given target and
// closure. Insertion walks the list and inserts before the first node with
// a strictly greater fire time; ties go after (stable FIFO among equal
// fire times).
func (l *List) Insert(fireTime timeutil.AbsoluteTime, target event.Position, closure any, callback Callback) Handle {
	rec := &record{fireTime: fireTime, target: target, closure: closure, callback: callback}

	if l.head == nil || fireTime.Before(l.head.fireTime) {
		rec.next = l.head
		l.head = rec
		return Handle{rec: rec}
	}

	cur := l.head
	for cur.next != nil && !fireTime.Before(cur.next.fireTime) {
		cur = cur.next
	}
	rec.next = cur.next
	cur.next = rec
	return Handle{rec: rec}
}

// Cancel marks h's record so it will never fire. Cancelling an
// already-fired or already-cancelled handle is a no-op.
func (l *List) Cancel(h Handle) {
	if h.rec != nil {
		h.rec.cancelled = true
	}
}

// Empty reports whether the list holds no pending (non-cancelled) records.
// Cancelled head records are dropped lazily as encountered.
func (l *List) Empty() bool {
	l.dropCancelledHead()
	return l.head == nil
}

// NextFireTime returns the fire time of the earliest pending record and
// true, or the zero value and false if the list is empty.
func (l *List) NextFireTime() (timeutil.AbsoluteTime, bool) {
	l.dropCancelledHead()
	if l.head == nil {
		return timeutil.AbsoluteTime{}, false
	}
	return l.head.fireTime, true
}

func (l *List) dropCancelledHead() {
	for l.head != nil && l.head.cancelled {
		l.head = l.head.next
	}
}

// FireDue pops and invokes exactly one record if its fire time is <= now,
// reporting whether a record fired. The dispatch loop calls this
// repeatedly to drain all currently-due records.
func (l *List) FireDue(now timeutil.AbsoluteTime) bool {
	l.dropCancelledHead()
	if l.head == nil {
		return false
	}
	if now.Before(l.head.fireTime) {
		return false
	}
	rec := l.head
	l.head = l.head.next
	rec.callback(rec.target, rec.closure)
	return true
}
