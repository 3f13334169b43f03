// Package keymutex provides a fixed pool of mutexes indexed by key hash,
// used to linearize request-scoped operations on the same session or dispute
// without keeping a lock per live key.
package keymutex

import (
	"hash/fnv"
	"sync"
)

const defaultSize = 64

// Pool maps keys onto a fixed set of mutexes via fnv hashing. Two different
// keys may share a mutex; the same key always maps to the same one.
type Pool struct {
	mus []sync.Mutex
}

// New creates a Pool with size slots. If size <= 0, defaultSize is used.
func New(size int) *Pool {
	if size <= 0 {
		size = defaultSize
	}
	return &Pool{mus: make([]sync.Mutex, size)}
}

// Lock acquires the mutex for key and returns its unlock function.
func (p *Pool) Lock(key string) func() {
	mu := &p.mus[p.index(key)]
	mu.Lock()
	return mu.Unlock
}

func (p *Pool) index(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(p.mus)
}
