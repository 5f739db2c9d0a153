package suggest

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var suggestionsStale = promauto.NewCounter(prometheus.CounterOpts{
	Name: "catalog_suggestions_stale_total",
	Help: "Suggestion results discarded because a newer query superseded them",
})

// DefaultDelay is the quiet period before a query is issued.
const DefaultDelay = 300 * time.Millisecond

// Result is the outcome of one debounced request.
type Result[T any] struct {
	Seq   uint64
	Query string
	Value T
}

// Debouncer runs fetch for the latest submitted query once no newer query
// arrived for the configured delay. Every Submit bumps a generation
// counter: pending timers of older generations are stopped, in-flight
// fetches are canceled and their results are discarded, so deliver only
// ever sees results of the newest query, in order.
type Debouncer[T any] struct {
	delay   time.Duration
	fetch   func(ctx context.Context, query string) T
	deliver func(Result[T])

	base context.Context

	mu       sync.Mutex
	gen      uint64
	timer    *time.Timer
	cancel   context.CancelFunc
	closed   bool
	delivery sync.Mutex
}

// NewDebouncer creates a debouncer whose fetches run under ctx.
func NewDebouncer[T any](ctx context.Context, delay time.Duration, fetch func(context.Context, string) T, deliver func(Result[T])) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, fetch: fetch, deliver: deliver, base: ctx}
}

// Submit schedules query, superseding anything scheduled or running, and
// returns its sequence number. Submit after Close is a no-op returning 0.
func (d *Debouncer[T]) Submit(query string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}
	d.stopLocked()

	d.gen++
	seq := d.gen
	ctx, cancel := context.WithCancel(d.base)
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() { d.run(ctx, seq, query) })
	return seq
}

// Close stops the pending timer and cancels in-flight work.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.stopLocked()
}

func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer[T]) current(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && d.gen == seq
}

func (d *Debouncer[T]) run(ctx context.Context, seq uint64, query string) {
	if !d.current(seq) {
		return
	}

	value := d.fetch(ctx, query)

	// delivery serializes the staleness check with deliver so an older
	// result can never be delivered after a newer one.
	d.delivery.Lock()
	defer d.delivery.Unlock()
	if ctx.Err() != nil || !d.current(seq) {
		suggestionsStale.Inc()
		return
	}
	d.deliver(Result[T]{Seq: seq, Query: query, Value: value})
}
