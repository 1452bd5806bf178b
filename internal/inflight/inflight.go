// Package inflight refuses re-entrant work for the same key.
package inflight

import "sync"

// Guard tracks which keys have an operation in flight. The zero value is ready to use.
type Guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

// TryAcquire marks key busy. It reports false if key is already busy;
// otherwise the caller must call release exactly once.
func (g *Guard) TryAcquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy == nil {
		g.busy = make(map[string]struct{})
	}
	if _, held := g.busy[key]; held {
		return nil, false
	}
	g.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, true
}

// Busy reports whether key is held.
func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, held := g.busy[key]
	return held
}
