// Package undo keeps the most recently deleted expense for a short while so
// the deletion can be reverted.
package undo

import (
	"sync"
	"time"

	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

// DefaultWindow is how long a deletion stays undoable.
const DefaultWindow = 5 * time.Second

// AfterFunc schedules f after d and returns a function cancelling it.
type AfterFunc func(d time.Duration, f func()) (cancel func())

func timerAfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// Buffer is a single-slot memory of the last deleted expense. Staging a new
// deletion while one is pending replaces it; the replaced deletion can no
// longer be undone.
type Buffer struct {
	window    time.Duration
	afterFunc AfterFunc
	now       func() time.Time
	onExpire  func(tracker.Expense)

	mu         sync.Mutex
	pending    *slot
	generation uint64
}

type slot struct {
	expense    tracker.Expense
	expiresAt  time.Time
	generation uint64
	cancel     func()
}

type Option func(*Buffer)

func WithWindow(d time.Duration) Option {
	return func(b *Buffer) { b.window = d }
}

// WithAfterFunc replaces time.AfterFunc as the timer source.
func WithAfterFunc(f AfterFunc) Option {
	return func(b *Buffer) { b.afterFunc = f }
}

func WithClock(now func() time.Time) Option {
	return func(b *Buffer) { b.now = now }
}

// OnExpire registers a callback run, outside the buffer lock, when a pending
// deletion times out.
func OnExpire(f func(tracker.Expense)) Option {
	return func(b *Buffer) { b.onExpire = f }
}

func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		window:    DefaultWindow,
		afterFunc: timerAfterFunc,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Stage remembers e as the pending deletion and starts its timer, cancelling
// the timer of any previous one.
func (b *Buffer) Stage(e tracker.Expense) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearLocked()

	b.generation++
	gen := b.generation

	s := &slot{
		expense:    e,
		expiresAt:  b.now().Add(b.window),
		generation: gen,
	}
	s.cancel = b.afterFunc(b.window, func() { b.expire(gen) })

	b.pending = s
}

// Take returns the pending expense and clears the slot. It reports false
// when nothing is pending.
func (b *Buffer) Take() (tracker.Expense, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == nil {
		return tracker.Expense{}, false
	}

	e := b.pending.expense
	b.clearLocked()

	return e, true
}

// Pending returns the pending expense and when it expires.
func (b *Buffer) Pending() (tracker.Expense, time.Time, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == nil {
		return tracker.Expense{}, time.Time{}, false
	}

	return b.pending.expense, b.pending.expiresAt, true
}

// Clear drops the pending expense, if any.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearLocked()
}

func (b *Buffer) clearLocked() {
	if b.pending == nil {
		return
	}

	b.pending.cancel()
	b.pending = nil
}

// expire runs when the timer for generation gen fires. A timer that was
// cancelled or superseded may still fire; it is ignored.
func (b *Buffer) expire(gen uint64) {
	b.mu.Lock()

	if b.pending == nil || b.pending.generation != gen {
		b.mu.Unlock()
		return
	}

	e := b.pending.expense
	b.pending = nil
	b.mu.Unlock()

	if b.onExpire != nil {
		b.onExpire(e)
	}
}
