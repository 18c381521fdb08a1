package locks

import (
	"context"
	"sync"
)

// LocalLocker implements SequenceLocker with in-process mutexes. Suitable
// for tests and single-instance deployments without Redis.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalLocker) Lock(_ context.Context, collection, app string) (Unlock, error) {
	l.mu.Lock()
	key := collection + ":" + app
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}
