package utils

import (
	"sync"
	"time"
)

// Watch is a simple wall-clock stopwatch, safe for concurrent readers.
type Watch struct {
	mu        sync.RWMutex
	startTime time.Time
}

func (w *Watch) Start() {
	w.mu.Lock()
	w.startTime = time.Now()
	w.mu.Unlock()
}

func (w *Watch) Elapsed() time.Duration {
	w.mu.RLock()
	mStart := w.startTime
	w.mu.RUnlock()
	return time.Since(mStart)
}
