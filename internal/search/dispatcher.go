// Package search turns a stream of keystrokes into a rate-limited sequence
// of catalog search requests.
package search

import (
	"context"
	"sync"
	"time"
)

// Func issues one search request for the given text.
type Func func(ctx context.Context, text string)

// Dispatcher debounces query changes: each keystroke replaces the single
// pending timer, so at most one search is scheduled at a time and only the
// text at rest gets sent. Superseding cancels scheduling, never in-flight
// work: a search that already fired runs to completion, and the catalog
// store simply keeps the latest successful response it has seen.
type Dispatcher struct {
	ctx    context.Context
	window time.Duration
	search Func

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending string
}

// NewDispatcher creates a Dispatcher that fires search with the given parent
// context once input has been quiet for window.
func NewDispatcher(ctx context.Context, window time.Duration, search Func) *Dispatcher {
	return &Dispatcher{
		ctx:    ctx,
		window: window,
		search: search,
	}
}

// QueryChanged records a new query text. Any previously scheduled search that
// has not fired yet is cancelled and never sent.
func (d *Dispatcher) QueryChanged(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = text
	d.timer = time.AfterFunc(d.window, func() {
		d.fire(gen, text)
	})
}

// Flush fires the pending search immediately instead of waiting out the
// quiescence window. No-op when nothing is pending.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	if d.timer == nil || !d.timer.Stop() {
		d.mu.Unlock()
		return
	}
	text := d.pending
	d.timer = nil
	d.mu.Unlock()
	d.search(d.ctx, text)
}

// Stop cancels any pending search. Already-fired requests are unaffected.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fire is the timer callback. The handle is cleared only when no newer timer
// has been scheduled since, so a callback that ran late cannot hide a still
// pending search from Flush and Stop.
func (d *Dispatcher) fire(gen uint64, text string) {
	d.mu.Lock()
	if d.gen == gen {
		d.timer = nil
	}
	d.mu.Unlock()
	d.search(d.ctx, text)
}
