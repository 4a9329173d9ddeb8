package ratelimit

import (
	"sync"
	"time"

	"github.com/bluele/gcache"
)

const cacheSize = 10000

type record struct {
	Count       int
	WindowStart time.Time
}

// Limiter counts attempts per client key over a sliding window. Expired
// windows reset lazily on the next access; a cache miss counts as zero
// attempts. Limiter never returns errors.
type Limiter struct {
	mu          sync.Mutex
	cache       gcache.Cache
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

func New(maxAttempts int, window time.Duration) *Limiter {
	return &Limiter{
		cache:       gcache.New(cacheSize).LRU().Build(),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// IsLimited reports whether key has reached the attempt threshold inside
// the still-open window.
func (l *Limiter) IsLimited(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.get(key)
	if !ok {
		return false
	}
	return rec.Count >= l.maxAttempts
}

// Record increments the attempt counter, opening a new window if none is
// active. The read-modify-write runs under the limiter's lock so
// concurrent attempts from one key never under-count.
func (l *Limiter) Record(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.get(key)
	if !ok {
		rec = record{Count: 0, WindowStart: l.now()}
	}
	rec.Count++

	ttl := l.window - l.now().Sub(rec.WindowStart)
	if ttl <= 0 {
		ttl = l.window
	}
	_ = l.cache.SetWithExpire(key, rec, ttl)
}

// get expects l.mu held.
func (l *Limiter) get(key string) (record, bool) {
	value, err := l.cache.Get(key)
	if err != nil {
		return record{}, false
	}
	rec, ok := value.(record)
	if !ok {
		return record{}, false
	}
	if l.now().Sub(rec.WindowStart) >= l.window {
		l.cache.Remove(key)
		return record{}, false
	}
	return rec, true
}
