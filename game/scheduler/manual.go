package scheduler

import (
	"sync"
	"time"
)

type manualTimer struct {
	due    time.Duration
	period time.Duration
	fn     func()
}

// Manual is a virtual clock. Nothing fires until Advance is called; timers due
// at the same instant fire in registration order.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	next   Handle
	timers map[Handle]*manualTimer
}

func NewManual() *Manual {
	return &Manual{timers: make(map[Handle]*manualTimer)}
}

func (m *Manual) Every(d time.Duration, fn func()) Handle {
	if d <= 0 {
		panic("scheduler: non-positive interval")
	}
	return m.add(d, d, fn)
}

func (m *Manual) After(d time.Duration, fn func()) Handle {
	return m.add(d, 0, fn)
}

func (m *Manual) add(d, period time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.timers[m.next] = &manualTimer{due: m.now + d, period: period, fn: fn}
	return m.next
}

func (m *Manual) Cancel(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.timers, h)
}

// Now is the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance moves the clock forward by d, firing every timer that comes due on
// the way. Callbacks run without the lock held and may schedule or cancel.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		h, t := m.earliest(target)
		if t == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = t.due
		if t.period > 0 {
			t.due += t.period
		} else {
			delete(m.timers, h)
		}
		fn := t.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *Manual) earliest(limit time.Duration) (Handle, *manualTimer) {
	var (
		best  Handle
		found *manualTimer
	)
	for h, t := range m.timers {
		if t.due > limit {
			continue
		}
		if found == nil || t.due < found.due || (t.due == found.due && h < best) {
			best, found = h, t
		}
	}
	return best, found
}
