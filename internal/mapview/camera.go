package mapview

import (
	"sync"
	"time"
)

// Camera refits the viewport whenever the rendered location list settles.
//
// apply runs at most once per distinct list value: an update equal to the
// last applied list (ignoring Source) is dropped when it fires. An empty
// list applies (Viewport{}, false) so callers can clear the map.
type Camera struct {
	debounce *Debouncer
	apply    func(Viewport, bool)

	mu      sync.Mutex
	last    []LocationRecord
	applied bool
	closed  bool
}

func NewCamera(delay time.Duration, apply func(Viewport, bool)) *Camera {
	return &Camera{debounce: NewDebouncer(delay), apply: apply}
}

func (c *Camera) Update(locs []LocationRecord) {
	snapshot := append([]LocationRecord(nil), locs...)

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}
	c.debounce.Trigger(func() { c.fire(snapshot) })
}

func (c *Camera) fire(locs []LocationRecord) {
	c.mu.Lock()
	if c.closed || (c.applied && sameMarkers(c.last, locs)) {
		c.mu.Unlock()
		return
	}
	c.last = locs
	c.applied = true
	c.mu.Unlock()

	vp, ok := Fit(locs)
	c.apply(vp, ok)
}

// Close cancels any pending fit. Later updates are ignored.
func (c *Camera) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.debounce.Stop()
}
