// Package globaltime is the process clock. Tests pin it with SetMockTime so
// report timestamps are reproducible.
package globaltime

import (
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	nowFunc = time.Now
)

func Now() time.Time {
	mu.RLock()
	fn := nowFunc
	mu.RUnlock()
	return fn()
}

func UTC() time.Time {
	return Now().UTC()
}

// Since reports the elapsed time from start according to the process clock.
func Since(start time.Time) time.Duration {
	return Now().Sub(start)
}

func SetMockTime(t time.Time) {
	mu.Lock()
	defer mu.Unlock()
	nowFunc = func() time.Time { return t }
}

func ResetTime() {
	mu.Lock()
	defer mu.Unlock()
	nowFunc = time.Now
}
