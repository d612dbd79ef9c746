package scheduler

import (
	"sync"
	"time"
)

type timer struct {
	fn     func()
	repeat bool
	stop   chan struct{}
}

// Loop fans every timer into a single executor goroutine, so callbacks never
// overlap. A callback queued before its timer was cancelled is dropped.
type Loop struct {
	mu      sync.Mutex
	next    Handle
	timers  map[Handle]*timer
	queue   chan Handle
	quit    chan struct{}
	wg      sync.WaitGroup
	stopped bool
}

func NewLoop() *Loop {
	l := &Loop{
		timers: make(map[Handle]*timer),
		queue:  make(chan Handle),
		quit:   make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Loop) Every(d time.Duration, fn func()) Handle {
	return l.add(d, fn, true)
}

func (l *Loop) After(d time.Duration, fn func()) Handle {
	return l.add(d, fn, false)
}

func (l *Loop) Cancel(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.timers[h]; ok {
		delete(l.timers, h)
		close(t.stop)
	}
}

// Pending returns the number of live timers.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Stop cancels every timer and waits for the executor to exit. It must not be
// called from inside a callback.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	for h, t := range l.timers {
		delete(l.timers, h)
		close(t.stop)
	}
	l.mu.Unlock()

	close(l.quit)
	l.wg.Wait()
}

func (l *Loop) add(d time.Duration, fn func(), repeat bool) Handle {
	if repeat && d <= 0 {
		panic("scheduler: non-positive interval")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return 0
	}

	l.next++
	h := l.next
	t := &timer{fn: fn, repeat: repeat, stop: make(chan struct{})}
	l.timers[h] = t

	l.wg.Add(1)
	if repeat {
		go l.tick(h, t, d)
	} else {
		go l.once(h, t, d)
	}
	return h
}

func (l *Loop) tick(h Handle, t *timer, d time.Duration) {
	defer l.wg.Done()

	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if !l.enqueue(h, t) {
				return
			}
		}
	}
}

func (l *Loop) once(h Handle, t *timer, d time.Duration) {
	defer l.wg.Done()

	delay := time.NewTimer(d)
	defer delay.Stop()

	select {
	case <-t.stop:
	case <-delay.C:
		l.enqueue(h, t)
	}
}

func (l *Loop) enqueue(h Handle, t *timer) bool {
	select {
	case l.queue <- h:
		return true
	case <-t.stop:
		return false
	}
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case <-l.quit:
			return
		case h := <-l.queue:
			l.fire(h)
		}
	}
}

func (l *Loop) fire(h Handle) {
	l.mu.Lock()
	t, ok := l.timers[h]
	if ok && !t.repeat {
		delete(l.timers, h)
	}
	l.mu.Unlock()

	if ok {
		t.fn()
	}
}
