package mapview

import (
	"sync"
	"time"
)

type timer interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) timer

func realAfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// Debouncer runs only the most recently triggered function, delay after the
// last Trigger. Earlier pending functions are dropped.
type Debouncer struct {
	delay time.Duration
	after afterFunc

	mu      sync.Mutex
	pending timer
	gen     uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, after: realAfterFunc}
}

func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = d.after(d.delay, func() {
		d.mu.Lock()
		current := gen == d.gen
		if current {
			d.pending = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Stop cancels the pending function, if any. The debouncer stays usable.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	// A timer that already fired but has not taken the lock sees a stale generation.
	d.gen++
}
