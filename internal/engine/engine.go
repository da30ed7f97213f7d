// Package engine implements the dispatch loop: the orchestrator that
// combines the I/O multiplexer, the delayed callback list, the event
// list, and the graph fabric into one tick, enforcing priority layering
// and forward-progress guarantees.
package engine

import (
	"math"
	"time"

	"github.com/vftdan/est-go/internal/delay"
	"github.com/vftdan/est-go/internal/event"
	"github.com/vftdan/est-go/internal/graph"
	"github.com/vftdan/est-go/internal/iomux"
	"github.com/vftdan/est-go/internal/obslog"
	"github.com/vftdan/est-go/internal/predicate"
	"github.com/vftdan/est-go/internal/timeutil"
)

// Engine owns the process-wide (well — per-Engine) singletons: the event
// list, the predicate registry, the delayed callback list, and the I/O
// multiplexer. It is not safe for concurrent use — the dispatch loop is
// strictly single-threaded and cooperative.
type Engine struct {
	Runtime *graph.Runtime
	IO      *iomux.Multiplexer
	Log     *obslog.Logger

	// Clock abstracts the monotonic time source so tests can drive the
	// dispatch loop deterministically without sleeping.
	Clock func() timeutil.AbsoluteTime

	hasFutureEvents bool
	reachedTime     timeutil.AbsoluteTime
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger overrides the default (stderr) structured logger.
func WithLogger(l *obslog.Logger) Option {
	return func(e *Engine) { e.Log = l }
}

// WithClock overrides the monotonic clock source, primarily for tests.
func WithClock(clock func() timeutil.AbsoluteTime) Option {
	return func(e *Engine) { e.Clock = clock }
}

// New constructs an Engine with its own event list, predicate registry,
// delay list, and I/O multiplexer.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		Runtime: &graph.Runtime{
			Events:     event.NewList(),
			Predicates: predicate.NewRegistry(),
			Delays:     delay.NewList(),
		},
		Log:   obslog.Default(),
		Clock: timeutil.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	mux, err := iomux.New(func(fd int, dir iomux.Direction, ioErr error) {
		e.Log.Warning().Int(`fd`, fd).Err(ioErr).Log(`i/o subscription disabled after error`)
	})
	if err != nil {
		return nil, err
	}
	e.IO = mux
	e.Runtime.IO = mux

	return e, nil
}

// Close releases the I/O multiplexer.
func (e *Engine) Close() error {
	return e.IO.Close()
}

// ProcessIteration runs one full iteration of the dispatch loop: capture
// external time, compute and apply the I/O timeout, then drain delays and
// events until neither makes progress.
func (e *Engine) ProcessIteration() {
	externTime := e.Clock()

	timeout := e.computeIOTimeout(externTime)
	e.pollIO(timeout)

	for {
		delayFired := e.Runtime.Delays.FireDue(externTime)

		maxEventTime := externTime
		if next, ok := e.Runtime.Delays.NextFireTime(); ok && next.After(externTime) {
			maxEventTime = next
		}

		workDone := e.processEventsUntil(maxEventTime)

		if !delayFired && !workDone {
			break
		}
		e.pollIO(0)
	}
}

// Run calls ProcessIteration in a loop until stop returns true. stop is
// checked between iterations, never mid-tick.
func (e *Engine) Run(stop func() bool) {
	for !stop() {
		e.ProcessIteration()
	}
}

func (e *Engine) computeIOTimeout(externTime timeutil.AbsoluteTime) time.Duration {
	if e.hasFutureEvents {
		return 0
	}
	if next, ok := e.Runtime.Delays.NextFireTime(); ok {
		d := next.SubAbsolute(externTime)
		if d.IsNegative() {
			return 0
		}
		return d.Duration()
	}
	return -1 // indefinite
}

func (e *Engine) pollIO(timeout time.Duration) {
	if e.IO == nil {
		return
	}
	if err := e.IO.Poll(timeout, e.deliverIOEvent); err != nil {
		e.Log.Err().Err(err).Log(`i/o poll failed`)
	}
}

func (e *Engine) deliverIOEvent(owner event.Position, fd int, dir iomux.Direction) {
	// The multiplexer never creates events itself; it only notifies
	// owners, whose own callbacks (set at iomux.Register time by the node
	// catalog) are responsible for synthesising events. Positions are
	// notified indirectly — callers register their own Callback closures
	// directly with iomux.Register rather than through this plumbing path
	// — deliverIOEvent exists only as the default sink for subscriptions
	// that register a bare owner without a dedicated callback.
	_ = owner
	_ = fd
	_ = dir
}

// processEventsUntil runs one pass of the priority-layered dispatch: it
// repeatedly handles the highest-priority ready event, re-evaluating the
// next-highest priority on every pass, until no priority remains or a
// rewind hands control back to the caller. It returns true iff at least
// one handler ran.
func (e *Engine) processEventsUntil(maxTime timeutil.AbsoluteTime) bool {
	e.hasFutureEvents = false

	nextPriority := int64(math.MinInt64)
	for ev := e.Runtime.Events.Front(); ev != nil; ev = e.Runtime.Events.Next(ev) {
		if ev.Data.Time.After(maxTime) {
			e.hasFutureEvents = true
			break
		}
		if int64(ev.Data.Priority) > nextPriority {
			nextPriority = int64(ev.Data.Priority)
		}
	}

	workDone := false

	for nextPriority > math.MinInt64 {
		passPriority := nextPriority
		nextPriority = math.MinInt64

		ev := e.Runtime.Events.Front()
		for ev != nil {
			if ev.Data.Time.After(maxTime) {
				e.hasFutureEvents = true
				break
			}
			if int64(ev.Data.Priority) < passPriority {
				if int64(ev.Data.Priority) > nextPriority {
					nextPriority = int64(ev.Data.Priority)
				}
				ev = e.Runtime.Events.Next(ev)
				continue
			}
			if int64(ev.Data.Priority) > passPriority {
				ev = e.Runtime.Events.Next(ev)
				continue
			}
			if ev.Position == nil || ev.Position.Waiting() {
				ev = e.Runtime.Events.Next(ev)
				continue
			}

			next := e.Runtime.Events.Next(ev)
			rewind := ev.Position.HandleEvent(ev)
			workDone = true

			if rewind {
				// Hand control straight back to the caller instead of
				// rescanning here: ProcessIteration's own loop is what
				// should get a chance to fire due delays and poll I/O
				// before the next pass starts.
				nextPriority = math.MinInt64
				break
			}
			ev = next
		}
	}

	if front := e.Runtime.Events.Front(); front != nil {
		e.reachedTime = front.Data.Time
	} else {
		e.reachedTime = maxTime
	}

	return workDone
}
