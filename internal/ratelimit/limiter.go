package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a fixed-window counter per client key. The window is not
// sliding: a client can burst up to twice the capacity across a window
// boundary. State lives in process memory only; it resets on restart and is
// not shared between instances.
type Limiter struct {
	mu       sync.Mutex
	window   time.Duration
	capacity int
	windows  map[string]*window

	now func() time.Time
}

type window struct {
	start time.Time
	count int
}

func New(windowLength time.Duration, capacity int) *Limiter {
	return &Limiter{
		window:   windowLength,
		capacity: capacity,
		windows:  map[string]*window{},
		now:      time.Now,
	}
}

// Admit counts one request for the key and reports whether it fits in the
// current window. Expired windows restart with this request as the first.
func (l *Limiter) Admit(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) > l.window {
		l.windows[key] = &window{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= l.capacity
}
